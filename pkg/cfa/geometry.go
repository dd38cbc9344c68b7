package cfa

import(
	"errors"
	"fmt"
)

// ErrGeometry is wrapped by every geometry validation failure.
var ErrGeometry = errors.New("inconsistent CFA geometry")

// Geometry describes the sensor and the canvas the demosaicker works on.
//
// For the diagonal CFA the canvas is an inflated square, side
// SensorWidth+SensorHeight, holding the 45° rotated sensor as a
// diamond. SensorWidth is always the long side; Portrait records that
// the frames were delivered the other way round. For rectangular
// CFAs the canvas is the sensor.
type Geometry struct {
	SensorWidth  int
	SensorHeight int
	CanvasWidth  int
	CanvasHeight int
	Portrait     bool
}

// NewDiagonalGeometry builds the geometry for sub-frames of frameW x frameH samples.
func NewDiagonalGeometry(frameW, frameH int) Geometry {
	g := Geometry{
		SensorWidth:  frameW,
		SensorHeight: frameH,
		CanvasWidth:  frameW + frameH,
		CanvasHeight: frameW + frameH,
	}
	if frameW < frameH {
		g.SensorWidth, g.SensorHeight, g.Portrait = frameH, frameW, true
	}
	return g
}

func NewRectangularGeometry(w, h int) Geometry {
	return Geometry{SensorWidth:w, SensorHeight:h, CanvasWidth:w, CanvasHeight:h}
}

// FrameSize is the size of one sub-frame, as delivered by the sensor.
func (g Geometry)FrameSize() (int, int) {
	if g.Portrait {
		return g.SensorHeight, g.SensorWidth
	}
	return g.SensorWidth, g.SensorHeight
}

func (g Geometry)InCanvas(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.CanvasWidth && y < g.CanvasHeight
}

func (g Geometry)String() string {
	str := fmt.Sprintf("sensor %dx%d, canvas %dx%d", g.SensorWidth, g.SensorHeight, g.CanvasWidth, g.CanvasHeight)
	if g.Portrait {
		str += " (portrait)"
	}
	return str
}

func (g Geometry)validateSensor() error {
	if g.SensorWidth <= 0 || g.SensorHeight <= 0 {
		return fmt.Errorf("%w: sensor %dx%d", ErrGeometry, g.SensorWidth, g.SensorHeight)
	}
	return nil
}

// CheckFrame verifies that a sub-frame of w x h samples belongs to this geometry.
func (g Geometry)CheckFrame(w, h int) error {
	fw, fh := g.FrameSize()
	if w != fw || h != fh {
		return fmt.Errorf("%w: frame is %dx%d, geometry wants %dx%d", ErrGeometry, w, h, fw, fh)
	}
	return nil
}
