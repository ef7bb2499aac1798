// Package websocket streams telemetry to browsers.
package websocket

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/baseboard.go/pkg/bridge"
	"github.com/robotalks/baseboard.go/pkg/framework"
	"github.com/robotalks/baseboard.go/pkg/telemetry"
)

// TelemetryPath is where clients connect.
const TelemetryPath = "/telemetry"

// Server pushes every dispatched event as a binary Telemetry message to
// each connected client. Slow clients drop messages.
type Server struct {
	Addr string

	lock    sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn  *websocket.Conn
	outCh chan []byte
}

// NewServer creates a Server listening on addr.
func NewServer(addr string) *Server {
	return &Server{Addr: addr, clients: make(map[*client]struct{})}
}

// Handler gets the http.Handler serving the stream.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(TelemetryPath, websocket.Handler(s.serve))
	return mux
}

// HandleEvent implements telemetry.Handler.
func (s *Server) HandleEvent(kind telemetry.EventKind, snapshot telemetry.Snapshot) {
	payload, err := bridge.Marshal(bridge.NewTelemetry(kind, snapshot))
	if err != nil {
		glog.Errorf("encode telemetry %s: %v", kind, err)
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	for c := range s.clients {
		select {
		case c.outCh <- payload:
		default:
			glog.V(2).Infof("ws %s: drop %s", c.conn.Request().RemoteAddr, kind)
		}
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.clients)
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("websocket listening on %s", ln.Addr())
	srv := &http.Server{Handler: s.Handler()}
	return framework.RunWithContextCancel(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}, func() error {
		if err := srv.Serve(ln); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

// Name implements framework.Named.
func (s *Server) Name() string {
	return "websocket"
}

func (s *Server) serve(conn *websocket.Conn) {
	conn.PayloadType = websocket.BinaryFrame
	c := &client{conn: conn, outCh: make(chan []byte, 16)}
	s.lock.Lock()
	s.clients[c] = struct{}{}
	s.lock.Unlock()
	defer func() {
		s.lock.Lock()
		delete(s.clients, c)
		s.lock.Unlock()
	}()

	closedCh := make(chan struct{})
	go func() {
		// inbound messages are ignored, reading detects the disconnection.
		var msg []byte
		for websocket.Message.Receive(conn, &msg) == nil {
		}
		close(closedCh)
	}()
	for {
		select {
		case payload := <-c.outCh:
			if err := websocket.Message.Send(conn, payload); err != nil {
				return
			}
		case <-closedCh:
			return
		}
	}
}
