package demosaic

import(
	"fmt"
	"log"

	"github.com/abworrall/exr-demosaic/pkg/cfa"
	"github.com/abworrall/exr-demosaic/pkg/ecolor"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

// A Chain runs the demosaicking stages over one canvas:
//
//   green -> chroma -> { NL-means(h) -> chroma median } for each h -> [gains] -> [rotate]
//
// The mask is built (and the geometry validated) once, when the chain
// is created. Everything runs on the calling goroutine.
type Chain struct {
	Config
	CFA    *cfa.Mask
	Gains  emath.Vec3

	green  StageFunc
	nStage int
}

func NewChain(cfg Config, g cfa.Geometry) (*Chain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	strategy, _ := cfg.GetMaskStrategy()
	m, err := cfa.BuildMask(g, strategy)
	if err != nil {
		return nil, err
	}

	green, _ := cfg.GetGreenInterpolator()
	if cfg.Mode == "linear" {
		green = GreenLinear
	}
	gains, _ := cfg.GetGains()

	c := Chain{Config:cfg, CFA:m, Gains:gains, green:green}
	if cfg.Verbosity > 0 {
		log.Printf("%s\n", m)
	}
	return &c, nil
}

// RunFrames merges the diagonal sensor's sub-frames and runs the chain.
func (c *Chain)RunFrames(frames ...[]float64) (Planes, error) {
	p, err := MergeFrames(c.CFA, frames...)
	if err != nil {
		return Planes{}, fmt.Errorf("merge: %v", err)
	}
	return c.Run(p)
}

// RunMosaic runs the chain over a single-channel canvas.
func (c *Chain)RunMosaic(mosaic emath.Plane) (Planes, error) {
	p, err := FromMosaic(c.CFA, mosaic)
	if err != nil {
		return Planes{}, fmt.Errorf("mosaic: %v", err)
	}
	return c.Run(p)
}

// RunPlanes runs the chain over three canvas planes that were merged
// elsewhere; only each cell's tagged channel is used.
func (c *Chain)RunPlanes(in Planes) (Planes, error) {
	p, err := ComposePlanes(c.CFA, in)
	if err != nil {
		return Planes{}, fmt.Errorf("compose: %v", err)
	}
	return c.Run(p)
}

// Run executes the stages over input whose every valid cell carries its
// sample in all three planes.
func (c *Chain)Run(p Planes) (Planes, error) {
	if err := p.fits(c.CFA); err != nil {
		return Planes{}, err
	}
	c.nStage = 0
	c.report("input", &p)

	if c.Mode != "rotate" {
		c.green(c.Config, c.CFA, &p)
		c.report("green", &p)

		InterpolateChroma(c.Config, c.CFA, &p)
		c.report("chroma", &p)

		// Gains scale the sampled values too, so the refinement stages
		// see (and project back) the gained samples.
		if !ecolor.IsNoGains(c.Gains) {
			c.applyGains(&p)
			c.report("gains", &p)
		}

		if c.Mode == "ssdd" {
			for _, h := range c.Schedule {
				p = RefineNLM(c.Config, c.CFA, p, h)
				c.report(fmt.Sprintf("nlmeans-h%g", h), &p)

				p = RegularizeChroma(c.Config, c.CFA, p)
				c.report(fmt.Sprintf("median-h%g", h), &p)
			}
		}
	}

	if c.CFA.IsDiagonal() && (c.Rotate || c.Mode == "rotate") {
		p = InverseRotate(p, c.CFA.Geometry)
		c.report("rotated", &p)
	}

	return p, nil
}

func (c *Chain)applyGains(p *Planes) {
	for y:=0; y<c.CFA.CanvasHeight; y++ {
		for x:=0; x<c.CFA.CanvasWidth; x++ {
			if c.CFA.Valid(x, y) {
				r, g, b := p.RGB(x, y)
				r, g, b = ecolor.ApplyGains(r, g, b, c.Gains)
				p.SetRGB(x, y, r, g, b)
			}
		}
	}
}
