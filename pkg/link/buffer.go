package link

import "context"

// DefaultBufferSize is the default capacity of ReceiveBuffer.
const DefaultBufferSize = 4096

// ReceiveBuffer is a bounded FIFO of received bytes. Push blocks while the
// buffer is full so a stalled consumer throttles the reader.
type ReceiveBuffer struct {
	ch chan byte
}

// NewReceiveBuffer creates a ReceiveBuffer holding up to size bytes.
func NewReceiveBuffer(size int) *ReceiveBuffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &ReceiveBuffer{ch: make(chan byte, size)}
}

// Push appends bytes in order, blocking while the buffer is full.
func (b *ReceiveBuffer) Push(ctx context.Context, p []byte) error {
	for _, c := range p {
		select {
		case b.ch <- c:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Pop takes one byte without blocking.
func (b *ReceiveBuffer) Pop() (byte, bool) {
	select {
	case c := <-b.ch:
		return c, true
	default:
		return 0, false
	}
}

// Drain passes the bytes buffered at the time of the call to fn and
// returns the count.
func (b *ReceiveBuffer) Drain(fn func(byte)) (n int) {
	for max := b.Len(); n < max; n++ {
		c, ok := b.Pop()
		if !ok {
			return
		}
		fn(c)
	}
	return
}

// Len returns the number of buffered bytes.
func (b *ReceiveBuffer) Len() int {
	return len(b.ch)
}

// Cap returns the capacity.
func (b *ReceiveBuffer) Cap() int {
	return cap(b.ch)
}
