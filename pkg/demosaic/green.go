package demosaic

import(
	"math"

	"github.com/abworrall/exr-demosaic/pkg/cfa"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

// A StageFunc fills in or refines planes in place, reading only
// ground-truth samples and the output of earlier stages.
type StageFunc func(Config, *cfa.Mask, *Planes)

// Width of the band along the diamond edges where green is filled by
// plain inverse distance weighting, since the gradient stencils would
// reach off the diamond.
const greenEdgeBand = 4

func GreenIsotropic(cfg Config, m *cfa.Mask, p *Planes)   { interpolateGreen(cfg, m, p, greenIsotropic) }
func GreenDirectional(cfg Config, m *cfa.Mask, p *Planes) { interpolateGreen(cfg, m, p, greenDirectional) }
func GreenLinear(cfg Config, m *cfa.Mask, p *Planes)      { interpolateGreen(cfg, m, p, greenLinear) }

type greenMode int

const(
	greenIsotropic greenMode = iota
	greenDirectional
	greenLinear
)

func interpolateGreen(cfg Config, m *cfa.Mask, p *Planes, mode greenMode) {
	if !m.IsDiagonal() {
		if mode == greenLinear {
			bayerGreenLinear(m, p)
		} else {
			bayerGreenAdams(cfg, m, p)
		}
		return
	}

	G := &p[cfa.ChanG]

	// Edge band first, x outer / y inner. Only green samples are read, so
	// the scan order does not change the result.
	for x:=0; x<m.CanvasWidth; x++ {
		for y:=0; y<m.CanvasHeight; y++ {
			tag := m.At(x, y)
			if tag != cfa.Red && tag != cfa.Blue || m.Inset(x, y, greenEdgeBand) {
				continue
			}
			if v, ok := greenEdgeIDW(m, G, x, y); ok {
				G.Set(x, y, v)
			}
		}
	}

	for y:=0; y<m.CanvasHeight; y++ {
		for x:=0; x<m.CanvasWidth; x++ {
			tag := m.At(x, y)
			if tag != cfa.Red && tag != cfa.Blue || !m.Inset(x, y, greenEdgeBand) {
				continue
			}
			if mode == greenLinear {
				G.Set(x, y, (G.Get(x, y-1) + G.Get(x, y+1)) / 2)
			} else {
				G.Set(x, y, greenGradient(cfg, &p[tag.Channel()], G, x, y, mode == greenDirectional))
			}
		}
	}
}

// The six green neighbours of a chroma cell on the diagonal canvas.
var greenNeighbours = stencil{
	{-1, -1, invSqrt2}, {0, -1, 1}, {1, -1, invSqrt2},
	{-1, 1, invSqrt2},  {0, 1, 1},  {1, 1, invSqrt2},
}

var greenNeighboursIDW = greenNeighbours.normalized()

// greenEdgeIDW averages whichever of the six green neighbours are on the
// diamond. In the west and east corners only two exist, so it reduces
// to their plain average.
func greenEdgeIDW(m *cfa.Mask, G *emath.Plane, x, y int) (float64, bool) {
	sum, wsum := 0.0, 0.0
	for _, t := range greenNeighbours {
		if !m.Valid(x+t.dx, y+t.dy) {
			continue
		}
		sum += t.w * G.Get(x+t.dx, y+t.dy)
		wsum += t.w
	}
	if emath.IsZero(wsum) {
		return 0, false
	}
	return sum / wsum, true
}

// greenGradient estimates green at an interior chroma cell from three
// directions: vertical, and the two diagonals. Each green gradient is
// augmented by a second derivative of the cell's own channel X, sampled
// two cells away on the diagonals (hence /8, the squared step) and at
// (x±1, y±2) on the near-vertical axis (/5).
func greenGradient(cfg Config, X, G *emath.Plane, x, y int, directional bool) float64 {
	c2 := 2 * X.Get(x, y)

	// Same-channel samples on the near-vertical lie one column west for
	// even x, east for odd x.
	vx := x + 1
	if x%2 == 0 {
		vx = x - 1
	}

	gN, gS   := G.Get(x, y-1), G.Get(x, y+1)
	gNW, gSE := G.Get(x-1, y-1), G.Get(x+1, y+1)
	gNE, gSW := G.Get(x+1, y-1), G.Get(x-1, y+1)

	d2v  := (c2 - X.Get(vx, y-2) - X.Get(vx, y+2)) / 5
	d2nw := (c2 - X.Get(x-2, y-2) - X.Get(x+2, y+2)) / 8
	d2ne := (c2 - X.Get(x+2, y-2) - X.Get(x-2, y+2)) / 8

	isotropic := greenNeighboursIDW.apply(G, x, y) + (d2v + d2nw + d2ne) / 3
	if !directional {
		return isotropic
	}

	grads := [3]float64{
		math.Abs(gN - gS) + math.Abs(d2v),
		math.Abs(gNW - gSE) * invSqrt2 + math.Abs(d2nw),
		math.Abs(gNE - gSW) * invSqrt2 + math.Abs(d2ne),
	}
	ests := [3]float64{
		(gN + gS) / 2 + d2v,
		(gNW + gSE) / 2 + d2nw,
		(gNE + gSW) / 2 + d2ne,
	}

	lo, hi := 0, 0
	for i:=1; i<3; i++ {
		if grads[i] < grads[lo] { lo = i }
		if grads[i] > grads[hi] { hi = i }
	}
	if grads[hi] - grads[lo] < cfg.Threshold {
		return isotropic
	}
	return ests[lo]
}

// {{{ Bayer

// mirror reflects an out-of-range index back inside [0,n).
func mirror(i, n int) int {
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*(n-1) - i
	}
	return i
}

func bayerGreenLinear(m *cfa.Mask, p *Planes) {
	G := &p[cfa.ChanG]
	for y:=0; y<m.CanvasHeight; y++ {
		for x:=0; x<m.CanvasWidth; x++ {
			if m.At(x, y) != cfa.Green {
				G.Set(x, y, bayerGreenAvg(G, m, x, y))
			}
		}
	}
}

func bayerGreenAvg(G *emath.Plane, m *cfa.Mask, x, y int) float64 {
	w, h := m.CanvasWidth, m.CanvasHeight
	return (G.Get(mirror(x-1, w), y) + G.Get(mirror(x+1, w), y) +
		G.Get(x, mirror(y-1, h)) + G.Get(x, mirror(y+1, h))) / 4
}

// bayerGreenAdams is Hamilton-Adams: pick the smoother of the horizontal
// and vertical directions, correcting the green average with the
// laplacian of the cell's own channel.
func bayerGreenAdams(cfg Config, m *cfa.Mask, p *Planes) {
	G := &p[cfa.ChanG]
	for y:=0; y<m.CanvasHeight; y++ {
		for x:=0; x<m.CanvasWidth; x++ {
			tag := m.At(x, y)
			if tag == cfa.Green {
				continue
			}
			if !m.Inset(x, y, 2) {
				G.Set(x, y, bayerGreenAvg(G, m, x, y))
				continue
			}

			X := &p[tag.Channel()]
			c2 := 2 * X.Get(x, y)
			gW, gE := G.Get(x-1, y), G.Get(x+1, y)
			gN, gS := G.Get(x, y-1), G.Get(x, y+1)
			d2h := c2 - X.Get(x-2, y) - X.Get(x+2, y)
			d2v := c2 - X.Get(x, y-2) - X.Get(x, y+2)
			gh := math.Abs(gW - gE) + math.Abs(d2h)
			gv := math.Abs(gN - gS) + math.Abs(d2v)

			switch {
			case math.Abs(gh - gv) < cfg.Threshold:
				G.Set(x, y, (gW + gE + gN + gS) / 4 + (d2h + d2v) / 8)
			case gh < gv:
				G.Set(x, y, (gW + gE) / 2 + d2h / 4)
			default:
				G.Set(x, y, (gN + gS) / 2 + d2v / 4)
			}
		}
	}
}

// }}}
