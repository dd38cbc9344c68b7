package demosaic

import(
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/abworrall/exr-demosaic/pkg/cfa"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

const invSqrt2 = 1 / math.Sqrt2

// A tap reads the sample at offset (dx,dy), weighted by w.
type tap struct {
	dx, dy int
	w      float64
}

// A stencil is a weighted average over a few taps.
type stencil []tap

func (s stencil)weights() []float64 {
	w := make([]float64, len(s))
	for i, t := range s {
		w[i] = t.w
	}
	return w
}

// normalized returns a copy whose weights sum to one.
func (s stencil)normalized() stencil {
	w := s.weights()
	floats.Scale(1/floats.Sum(w), w)

	out := make(stencil, len(s))
	for i, t := range s {
		out[i] = tap{t.dx, t.dy, w[i]}
	}
	return out
}

func (s stencil)apply(p *emath.Plane, x, y int) float64 {
	v := 0.0
	for _, t := range s {
		v += t.w * p.Get(x+t.dx, y+t.dy)
	}
	return v
}

// Interior stencils on the diagonal canvas. A green cell finds its chroma
// on the rows above and below; which diagonal pair and which vertical
// neighbour carry the wanted channel cycles with (x+y) mod 4.
var diagonalGreenSite = [4]stencil{
	stencil{{-1, -1, invSqrt2}, {1, 1, invSqrt2}, {0, -1, 1}}.normalized(),
	stencil{{-1, -1, invSqrt2}, {1, 1, invSqrt2}, {0, 1, 1}}.normalized(),
	stencil{{1, -1, invSqrt2}, {-1, 1, invSqrt2}, {0, 1, 1}}.normalized(),
	stencil{{1, -1, invSqrt2}, {-1, 1, invSqrt2}, {0, -1, 1}}.normalized(),
}

// A red cell finds blue (and vice versa) two cells away on three axes and
// one cell away on the fourth; the near one is west for even columns.
var diagonalChromaSite = [2]stencil{
	stencil{{0, -2, 0.5}, {2, 0, 0.5}, {0, 2, 0.5}, {-1, 0, 1}}.normalized(),
	stencil{{0, -2, 0.5}, {1, 0, 1}, {0, 2, 0.5}, {-2, 0, 0.5}}.normalized(),
}

// The (x+y) offset selecting diagonalGreenSite for each chroma channel.
var greenSitePhase = map[cfa.ColorTag]int{cfa.Blue: 3, cfa.Red: 1}

// diagonalInteriorStencil picks the fixed stencil for a cell at least two
// cells inside the diamond.
func diagonalInteriorStencil(m *cfa.Mask, x, y int, want cfa.ColorTag) stencil {
	if m.At(x, y) == cfa.Green {
		return diagonalGreenSite[(x+y+greenSitePhase[want]) % 4]
	}
	return diagonalChromaSite[x%2]
}

// Boundary stencils look no further than this (squared) distance.
const boundaryReach = 10

// boundaryStencil builds an inverse-distance-weighted stencil from the
// `want` samples nearest to (x,y). Near the diamond's edges the fixed
// interior patterns would reach into blank cells, so these stencils take
// the nearest ring of valid samples, plus the next ring out if the first
// held only one. The second result is false if nothing was found.
func boundaryStencil(m *cfa.Mask, x, y int, want cfa.ColorTag) (stencil, bool) {
	r := int(math.Sqrt(boundaryReach))

	// d2 walks outward one squared distance at a time; rings counts the
	// ones that held a sample.
	s := stencil{}
	for d2, rings := 1, 0; d2 <= boundaryReach && rings < 2; d2++ {
		found := 0
		for dy:=-r; dy<=r; dy++ {
			for dx:=-r; dx<=r; dx++ {
				if dx*dx + dy*dy != d2 || m.At(x+dx, y+dy) != want {
					continue
				}
				s = append(s, tap{dx, dy, 1 / math.Sqrt(float64(d2))})
				found++
			}
		}
		if found > 0 {
			rings++
			if len(s) >= 2 {
				break
			}
		}
	}

	if len(s) == 0 {
		return nil, false
	}
	return s.normalized(), true
}
