package demosaic

import(
	"math"

	"github.com/abworrall/exr-demosaic/pkg/cfa"
)

const(
	lutMax       = 30     // exp(-t) is treated as zero from t = lutMax-1 on
	lutPrecision = 1000   // table entries per unit of t
	weightTiny   = 1e-8   // accumulated weights below this are no evidence at all

	// Patch distances are summed over 3 channels x 9 cells; dividing by
	// this keeps h on the same scale whatever the patch size.
	patchNorm    = 27.0
)

// expLUT tabulates exp(-t) for t in [0, lutMax).
type expLUT []float64

var nlmLUT = newExpLUT()

func newExpLUT() expLUT {
	lut := make(expLUT, lutMax*lutPrecision)
	for i := range lut {
		lut[i] = math.Exp(-float64(i) / lutPrecision)
	}
	return lut
}

// weight interpolates exp(-t) from the table; it is 1 at t=0, never
// increases, and is 0 beyond the table.
func (lut expLUT)weight(t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t >= lutMax-1 {
		return 0
	}
	f := t * lutPrecision
	i := int(f)
	return lut[i] + (lut[i+1] - lut[i]) * (f - float64(i))
}

// patchDistance is the squared L2 distance between the 3x3 patches
// around (x0,y0) and (x1,y1), summed over all three channels.
func patchDistance(p *Planes, x0, y0, x1, y1 int) float64 {
	d := 0.0
	for ch := range p {
		for j:=-1; j<=1; j++ {
			for i:=-1; i<=1; i++ {
				diff := p[ch].Get(x0+i, y0+j) - p[ch].Get(x1+i, y1+j)
				d += diff * diff
			}
		}
	}
	return d
}

// patchFits is true if the whole 3x3 patch around (x,y) is on the valid
// region. Both layouts have convex valid regions, so the corners decide.
func patchFits(m *cfa.Mask, x, y int) bool {
	return m.Valid(x-1, y-1) && m.Valid(x+1, y-1) && m.Valid(x-1, y+1) && m.Valid(x+1, y+1)
}

// nlmMargin is how far inside the valid region a cell must be to be
// refined. On the diamond that is the search radius; Bayer frames are
// refined up to the last cell whose patch fits, with clipped windows.
func nlmMargin(cfg Config, m *cfa.Mask) int {
	if m.IsDiagonal() && cfg.SearchRadius > 2 {
		return cfg.SearchRadius
	}
	return 2
}

// RefineNLM re-estimates the two unsampled channels of each cell as a
// weighted mean of the cells in its search window that did sample that
// channel, weighted by how alike the 3x3 neighbourhoods look across all
// three channels. Larger h accepts less similar patches. The input is
// not modified.
func RefineNLM(cfg Config, m *cfa.Mask, in Planes, h float64) Planes {
	out := in.Copy()
	margin := nlmMargin(cfg, m)
	radius := cfg.SearchRadius

	for y:=0; y<m.CanvasHeight; y++ {
		for x:=0; x<m.CanvasWidth; x++ {
			own := m.At(x, y)
			if own == cfa.Blank || !m.Inset(x, y, margin) || !patchFits(m, x, y) {
				continue
			}

			var sum, wsum [3]float64
			for j:=y-radius; j<=y+radius; j++ {
				for i:=x-radius; i<=x+radius; i++ {
					tag := m.At(i, j)
					if tag == cfa.Blank || tag == own || !patchFits(m, i, j) {
						continue
					}

					w := nlmLUT.weight(patchDistance(&in, x, y, i, j) / (patchNorm * h))
					ch := tag.Channel()
					sum[ch] += w * in[ch].Get(i, j)
					wsum[ch] += w
				}
			}

			for ch := range out {
				if ch == own.Channel() || wsum[ch] <= weightTiny {
					continue
				}
				out[ch].Set(x, y, sum[ch] / wsum[ch])
			}
		}
	}

	return out
}
