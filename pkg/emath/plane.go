package emath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// A Plane is a row-major grid of float samples, holding one color
// channel of a canvas. Values are in sensor units (nominally [0, 0xFFFF])
// but nothing here clamps them.
type Plane struct {
	stride int
	values []float64
}

func NewPlane(w, h int) Plane {
	return Plane{
		stride: w,
		values: make([]float64, w*h),
	}
}

// NewPlaneFromValues wraps `vals` (not copied) as a w*h plane.
func NewPlaneFromValues(w, h int, vals []float64) (Plane, error) {
	if w <= 0 || h <= 0 || len(vals) != w*h {
		return Plane{}, fmt.Errorf("plane %dx%d needs %d values, got %d", w, h, w*h, len(vals))
	}
	return Plane{stride: w, values: vals}, nil
}

func (p *Plane)NewFromThis() Plane        { return NewPlane(p.Dx(), p.Dy()) }
func (p *Plane)Set(x, y int, v float64)   { p.values[p.stride*y + x] = v }
func (p *Plane)Get(x, y int) float64      { return p.values[p.stride*y + x] }
func (p *Plane)Values() []float64         { return p.values }
func (p *Plane)Dx() int                   { return p.stride }

func (p *Plane)Dy() int {
	if p.stride == 0 {
		return 0
	}
	return len(p.values) / p.stride
}

func (p *Plane)Copy() Plane {
	p2 := Plane{stride: p.stride, values:make([]float64, len(p.values))}
	copy(p2.values, p.values)
	return p2
}

func (p *Plane)MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0 * min

	for i:=0 ; i<len(p.values) ; i++ {
		if p.values[i] > max { max = p.values[i] }
		if p.values[i] < min { min = p.values[i] }
	}
	return min, max
}

func (p *Plane)Stats() string {
	min, max := p.MinMax()
	return fmt.Sprintf("plane[%dx%d, vals{%f,%f}]", p.Dx(), p.Dy(), min, max)
}

// ToImg saves a simple grayscale PNG, based on the range of values in
// the plane, and gamma scaling the gray to look normal for human vision.
// The title is drawn in the top left corner.
func (p *Plane)ToImg(title, filename string) error {
	min, max := p.MinMax()
	span := max - min
	if span <= 0 {
		span = 1
	}

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{p.Dx(), p.Dy()}})
	for x:=0; x<p.Dx(); x++ {
		for y:=0; y<p.Dy(); y++ {
			gray := GammaExpand_F64((p.Get(x,y) - min) / span)
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,0,0)
	dc.DrawString(title, 10, 20)
	return dc.SavePNG(filename)
}
