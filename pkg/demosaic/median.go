package demosaic

import(
	"github.com/abworrall/exr-demosaic/pkg/cfa"
	"github.com/abworrall/exr-demosaic/pkg/ecolor"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

// RegularizeChroma suppresses color artifacts by median filtering the
// chroma (U = R-Y, V = B-Y) over a disc of radius cfg.MedianSide, leaving
// luma alone. With cfg.Project set, each cell then gets its sampled
// channel back, so only the estimated channels change. The cycle runs
// cfg.MedianIter times, each pass working on the previous one's output.
// Blank cells are neither filtered nor used as median samples.
func RegularizeChroma(cfg Config, m *cfa.Mask, in Planes) Planes {
	cur := in.Copy()
	w, h := m.CanvasWidth, m.CanvasHeight

	for iter:=0; iter<cfg.MedianIter; iter++ {
		Y, U, V := emath.NewPlane(w, h), emath.NewPlane(w, h), emath.NewPlane(w, h)
		for y:=0; y<h; y++ {
			for x:=0; x<w; x++ {
				if m.Valid(x, y) {
					yy, u, v := ecolor.ToYUV(cur.RGB(x, y))
					Y.Set(x, y, yy)
					U.Set(x, y, u)
					V.Set(x, y, v)
				}
			}
		}

		U = U.MedianDisc(cfg.MedianSide, m.Valid)
		V = V.MedianDisc(cfg.MedianSide, m.Valid)

		next := cur.Copy()
		for y:=0; y<h; y++ {
			for x:=0; x<w; x++ {
				tag := m.At(x, y)
				if tag == cfa.Blank {
					continue
				}
				r, g, b := ecolor.FromYUV(Y.Get(x, y), U.Get(x, y), V.Get(x, y))
				next.SetRGB(x, y, r, g, b)
				if cfg.Project {
					ch := tag.Channel()
					next[ch].Set(x, y, cur[ch].Get(x, y))
				}
			}
		}
		cur = next
	}

	return cur
}
