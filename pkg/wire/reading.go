package wire

// ReadingKind identifies which sensor a Reading carries.
type ReadingKind int

// Reading kinds.
const (
	ReadingFrontIR ReadingKind = iota + 1
	ReadingFloorIR
	ReadingSonar
)

// FloorIRChannels is the number of floor IR sensors.
const FloorIRChannels = 5

// floorIRChannelIDs maps the channel marker in a floor IR triple to the
// sensor index.
var floorIRChannelIDs = map[byte]int{
	0xe1: 0,
	0xe2: 1,
	0xe3: 2,
	0xe6: 3,
	0xe7: 4,
}

// FloorIRChannelID returns the channel marker of floor IR sensor i.
func FloorIRChannelID(i int) byte {
	for id, n := range floorIRChannelIDs {
		if n == i {
			return id
		}
	}
	return 0
}

// frontIRMarker leads a front IR payload.
const frontIRMarker byte = 0x91

// Reading is a decoded sensor report from a complete, valid frame.
type Reading struct {
	Kind ReadingKind

	FrontIR [2]bool

	// FloorIR holds values for the sensors flagged in FloorIRMask.
	FloorIR     [FloorIRChannels]uint8
	FloorIRMask uint8

	// SonarDistance is in millimeters.
	SonarDistance uint16
}

func decodeFrontIR(payload []byte) *Reading {
	if len(payload) < 2 || payload[0] != frontIRMarker {
		return nil
	}
	r := &Reading{Kind: ReadingFrontIR}
	r.FrontIR[0] = payload[1]&(1<<5) != 0
	r.FrontIR[1] = payload[1]&(1<<6) != 0
	return r
}

// decodeFloorIR decodes (channel_id, value, _) triples. Unknown channel
// markers are skipped.
func decodeFloorIR(payload []byte) *Reading {
	if len(payload) == 0 || len(payload)%3 != 0 {
		return nil
	}
	r := &Reading{Kind: ReadingFloorIR}
	for i := 0; i < len(payload); i += 3 {
		if n, ok := floorIRChannelIDs[payload[i]]; ok {
			r.FloorIR[n] = payload[i+1]
			r.FloorIRMask |= 1 << uint(n)
		}
	}
	if r.FloorIRMask == 0 {
		return nil
	}
	return r
}
