package emath

import(
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MedianDisc returns a new plane where each sample is the median of the
// samples within `radius` of it (a disc, so radius 1.5 gives the 3x3
// square). The disc is clipped at the plane edges. If `include` is
// non-nil, only positions for which it returns true take part, and
// excluded positions are copied through unchanged. For an even number of
// samples the lower of the two middle values is used.
func (p *Plane)MedianDisc(radius float64, include func(x, y int) bool) Plane {
	out := p.Copy()
	r := int(radius)
	r2 := radius * radius
	buf := make([]float64, 0, (2*r+1)*(2*r+1))

	for y:=0; y<p.Dy(); y++ {
		for x:=0; x<p.Dx(); x++ {
			if include != nil && !include(x, y) {
				continue
			}

			buf = buf[:0]
			for j:=-r; j<=r; j++ {
				for i:=-r; i<=r; i++ {
					if float64(i*i + j*j) > r2 {
						continue
					}
					x0, y0 := x+i, y+j
					if x0 < 0 || y0 < 0 || x0 >= p.Dx() || y0 >= p.Dy() {
						continue
					}
					if include != nil && !include(x0, y0) {
						continue
					}
					buf = append(buf, p.Get(x0, y0))
				}
			}

			out.Set(x, y, Median(buf))
		}
	}

	return out
}

// Median of a small sample, which gets sorted in place.
func Median(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	return stat.Quantile(0.5, stat.Empirical, vals, nil)
}
