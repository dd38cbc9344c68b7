package cfa

import(
	"fmt"
	"strings"
)

// A MaskStrategy decides the color tag of each canvas cell.
type MaskStrategy interface {
	Name() string

	// Validate rejects geometries the strategy cannot tag consistently.
	Validate(g Geometry) error

	// Tag returns the color sampled at (x,y), which must lie on the canvas.
	Tag(g Geometry, x, y int) ColorTag

	// Inset is true if (x,y) is valid and at least d cells inside every
	// edge of the valid region; Inset(g,x,y,0) is plain validity.
	Inset(g Geometry, x, y, d int) bool
}

// {{{ Diagonal

// Diagonal is the 45° rotated "EXR" layout. The valid region is a diamond:
//
//   x+y >= sW-1          NW edge
//   y   >  x-sW-1        NE edge
//   x+y <  sW+2sH-1      SE edge
//   x   >  y-sW          SW edge
//
// Even rows are green; odd rows pair up red and blue photosites.
type Diagonal struct{}

func (Diagonal)Name() string { return "diagonal" }

func (Diagonal)Validate(g Geometry) error {
	if err := g.validateSensor(); err != nil {
		return err
	}
	side := g.SensorWidth + g.SensorHeight
	if g.CanvasWidth != side || g.CanvasHeight != side {
		return fmt.Errorf("%w: diagonal canvas %dx%d, want %dx%d", ErrGeometry,
			g.CanvasWidth, g.CanvasHeight, side, side)
	}
	return nil
}

func (d Diagonal)Tag(g Geometry, x, y int) ColorTag {
	if !d.Inset(g, x, y, 0) {
		return Blank
	}
	if y%2 == 0 {
		return Green
	}
	if (x+y-1) % 4 < 2 {
		return Red
	}
	return Blue
}

func (Diagonal)Inset(g Geometry, x, y, d int) bool {
	sW, sH := g.SensorWidth, g.SensorHeight
	return g.InCanvas(x, y) &&
		x + y >= sW - 1 + d &&
		y > x - sW - 1 + d &&
		x + y < sW + 2*sH - 1 - d &&
		x > y - sW + d
}

// }}}
// {{{ Rectangular

// Rectangular is a Bayer layout with red at (RedX,RedY) mod 2.
type Rectangular struct {
	RedX, RedY int
}

// RectangularForOrientation picks the red origin from an EXIF orientation
// (1 = normal, 6 = 90° CW, 8 = 270° CW).
func RectangularForOrientation(orientation int) (Rectangular, error) {
	switch orientation {
	case 1: return Rectangular{1, 1}, nil
	case 6: return Rectangular{0, 1}, nil
	case 8: return Rectangular{1, 0}, nil
	default:
		return Rectangular{}, fmt.Errorf("unknown orientation %d", orientation)
	}
}

func (r Rectangular)Name() string { return fmt.Sprintf("rectangular(%d,%d)", r.RedX, r.RedY) }

func (r Rectangular)Validate(g Geometry) error {
	if err := g.validateSensor(); err != nil {
		return err
	}
	if g.SensorWidth < 2 || g.SensorHeight < 2 {
		return fmt.Errorf("%w: rectangular sensor %dx%d is smaller than one 2x2 tile", ErrGeometry,
			g.SensorWidth, g.SensorHeight)
	}
	if g.CanvasWidth != g.SensorWidth || g.CanvasHeight != g.SensorHeight {
		return fmt.Errorf("%w: rectangular canvas %dx%d differs from sensor %dx%d", ErrGeometry,
			g.CanvasWidth, g.CanvasHeight, g.SensorWidth, g.SensorHeight)
	}
	if r.RedX < 0 || r.RedX > 1 || r.RedY < 0 || r.RedY > 1 {
		return fmt.Errorf("%w: red origin (%d,%d)", ErrGeometry, r.RedX, r.RedY)
	}
	return nil
}

func (r Rectangular)Tag(g Geometry, x, y int) ColorTag {
	switch {
	case x%2 == r.RedX && y%2 == r.RedY:     return Red
	case x%2 == 1-r.RedX && y%2 == 1-r.RedY: return Blue
	default:                                 return Green
	}
}

func (Rectangular)Inset(g Geometry, x, y, d int) bool {
	return x >= d && y >= d && x < g.CanvasWidth-d && y < g.CanvasHeight-d
}

// }}}

// StrategyByName selects a mask strategy from configuration.
func StrategyByName(name string, redX, redY int) (MaskStrategy, error) {
	switch strings.ToLower(name) {
	case "diagonal", "exr":          return Diagonal{}, nil
	case "rectangular", "bayer", "": return Rectangular{redX, redY}, nil
	default:
		return nil, fmt.Errorf("no mask strategy named '%s'", name)
	}
}

// A Mask holds the color tag of every canvas cell. It is immutable once built.
type Mask struct {
	Geometry
	Strategy MaskStrategy
	tags     []ColorTag
}

// BuildMask validates the geometry and tags every cell.
func BuildMask(g Geometry, s MaskStrategy) (*Mask, error) {
	if err := s.Validate(g); err != nil {
		return nil, err
	}

	m := Mask{
		Geometry: g,
		Strategy: s,
		tags:     make([]ColorTag, g.CanvasWidth * g.CanvasHeight),
	}
	for y:=0; y<g.CanvasHeight; y++ {
		for x:=0; x<g.CanvasWidth; x++ {
			m.tags[y*g.CanvasWidth + x] = s.Tag(g, x, y)
		}
	}

	return &m, nil
}

// At returns the tag at (x,y); anything off the canvas is Blank.
func (m *Mask)At(x, y int) ColorTag {
	if !m.InCanvas(x, y) {
		return Blank
	}
	return m.tags[y*m.CanvasWidth + x]
}

func (m *Mask)Valid(x, y int) bool             { return m.At(x, y) != Blank }
func (m *Mask)Inset(x, y, d int) bool          { return m.Strategy.Inset(m.Geometry, x, y, d) }
func (m *Mask)IsDiagonal() bool                { _, ok := m.Strategy.(Diagonal); return ok }

// Counts returns how many cells carry each tag.
func (m *Mask)Counts() map[ColorTag]int {
	counts := map[ColorTag]int{}
	for _, t := range m.tags {
		counts[t]++
	}
	return counts
}

func (m *Mask)String() string {
	c := m.Counts()
	return fmt.Sprintf("mask %s [%s; R=%d G=%d B=%d blank=%d]", m.Strategy.Name(), m.Geometry,
		c[Red], c[Green], c[Blue], c[Blank])
}
