package wire

// Parser consumes inbound bytes one at a time and yields a Reading for
// each complete and valid sensor frame. Malformed input is never reported,
// the parser drops back to scanning for the next frame.
type Parser struct {
	state    ParseState
	op       byte
	length   byte
	payload  []byte
	sonarLSB byte
	sonarMSB byte
}

// ParseState is the state of Parser. The numbering is part of the legacy
// protocol description and kept stable.
type ParseState int

// Parser states.
const (
	StateWaitSOF    ParseState = 0  // scanning for F0
	StateClass      ParseState = 1  // waiting for class byte
	StateOp         ParseState = 2  // waiting for sensor op
	StateLength     ParseState = 3  // waiting for length
	StatePayload    ParseState = 4  // collecting payload
	StateTerminator ParseState = 5  // waiting for F7
	StateSonarMagic ParseState = 12 // waiting for 0C
	StateSonarLSB   ParseState = 13 // waiting for distance LSB
	StateSonarMSB   ParseState = 14 // waiting for distance MSB
	StateSonarTerm  ParseState = 15 // waiting for 07
)

// State gets the current state.
func (p *Parser) State() ParseState {
	return p.state
}

// Reset drops any partial frame.
func (p *Parser) Reset() {
	p.state = StateWaitSOF
	p.payload = p.payload[:0]
	p.resetSonar()
}

// Parse consumes one byte. It returns a Reading only when b completes a
// valid frame.
func (p *Parser) Parse(b byte) (r *Reading) {
	switch p.state {
	case StateWaitSOF:
		if b == SOF {
			p.state = StateClass
		}
	case StateClass:
		// Unknown class bytes keep the parser here without requiring a
		// fresh SOF, as the firmware-side reference parser does.
		switch b {
		case ClassIO:
			p.state = StateOp
		case ClassSonar:
			p.state = StateSonarMagic
		}
	case StateOp:
		switch b {
		case OpFrontIR, OpFloorIR, OpReserved:
			p.op, p.state = b, StateLength
		default:
			p.state = StateWaitSOF
		}
	case StateLength:
		if b == 0 {
			p.state = StateWaitSOF
			return
		}
		p.length, p.payload = b, p.payload[:0]
		if b == 1 {
			p.state = StateTerminator
		} else {
			p.state = StatePayload
		}
	case StatePayload:
		p.payload = append(p.payload, b)
		if len(p.payload) >= int(p.length)-1 {
			p.state = StateTerminator
		}
	case StateTerminator:
		p.state = StateWaitSOF
		if b == EOF {
			r = p.decode()
		}
	case StateSonarMagic:
		if b == SonarMagic {
			p.state = StateSonarLSB
		} else {
			p.state = StateWaitSOF
		}
	case StateSonarLSB:
		if b == SonarEOF {
			p.abortSonar()
			return
		}
		p.sonarLSB, p.state = b, StateSonarMSB
	case StateSonarMSB:
		if b == SonarEOF {
			p.abortSonar()
			return
		}
		p.sonarMSB, p.state = b, StateSonarTerm
	case StateSonarTerm:
		p.state = StateWaitSOF
		if b == SonarEOF {
			r = &Reading{
				Kind:          ReadingSonar,
				SonarDistance: uint16(p.sonarMSB)*127 + uint16(p.sonarLSB),
			}
		}
		p.resetSonar()
	default:
		p.state = StateWaitSOF
	}
	return
}

func (p *Parser) decode() *Reading {
	switch p.op {
	case OpFrontIR:
		return decodeFrontIR(p.payload)
	case OpFloorIR:
		return decodeFloorIR(p.payload)
	}
	return nil
}

func (p *Parser) abortSonar() {
	p.resetSonar()
	p.state = StateWaitSOF
}

func (p *Parser) resetSonar() {
	p.sonarLSB, p.sonarMSB = 0, 0
}
