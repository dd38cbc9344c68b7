package cfa

// A ColorTag records which channel (if any) a canvas cell was sampled in.
type ColorTag uint8

const(
	Blank ColorTag = iota
	Red
	Green
	Blue
)

// Channel indices into a set of R,G,B planes.
const(
	ChanR = 0
	ChanG = 1
	ChanB = 2
)

func (t ColorTag)String() string {
	switch t {
	case Blank: return "blank"
	case Red:   return "red"
	case Green: return "green"
	case Blue:  return "blue"
	default:    return "?"
	}
}

// Channel is the plane index holding ground truth for this tag, or -1 for Blank.
func (t ColorTag)Channel() int {
	switch t {
	case Red:   return ChanR
	case Green: return ChanG
	case Blue:  return ChanB
	default:    return -1
	}
}
