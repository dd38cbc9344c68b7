package demosaic

import(
	"fmt"

	"github.com/abworrall/exr-demosaic/pkg/cfa"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

// Planes are the R, G and B channels of a canvas, indexed by cfa.ChanR etc.
type Planes [3]emath.Plane

var ChannelNames = [3]string{"red", "green", "blue"}

func NewPlanes(w, h int) Planes {
	return Planes{emath.NewPlane(w, h), emath.NewPlane(w, h), emath.NewPlane(w, h)}
}

func (p *Planes)Dx() int { return p[0].Dx() }
func (p *Planes)Dy() int { return p[0].Dy() }

func (p *Planes)Copy() Planes {
	return Planes{p[0].Copy(), p[1].Copy(), p[2].Copy()}
}

func (p *Planes)RGB(x, y int) (float64, float64, float64) {
	return p[cfa.ChanR].Get(x, y), p[cfa.ChanG].Get(x, y), p[cfa.ChanB].Get(x, y)
}

func (p *Planes)SetRGB(x, y int, r, g, b float64) {
	p[cfa.ChanR].Set(x, y, r)
	p[cfa.ChanG].Set(x, y, g)
	p[cfa.ChanB].Set(x, y, b)
}

// SetAll writes the same sample into every channel.
func (p *Planes)SetAll(x, y int, v float64) {
	p.SetRGB(x, y, v, v, v)
}

func (p *Planes)fits(m *cfa.Mask) error {
	for i := range p {
		if p[i].Dx() != m.CanvasWidth || p[i].Dy() != m.CanvasHeight {
			return fmt.Errorf("%w: %s plane is %dx%d, canvas is %dx%d", cfa.ErrGeometry,
				ChannelNames[i], p[i].Dx(), p[i].Dy(), m.CanvasWidth, m.CanvasHeight)
		}
	}
	return nil
}

func (p Planes)String() string {
	return fmt.Sprintf("R%s G%s B%s", p[0].Stats(), p[1].Stats(), p[2].Stats())
}
