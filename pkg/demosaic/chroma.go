package demosaic

import(
	"github.com/abworrall/exr-demosaic/pkg/cfa"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

// Cells at least this far inside the diamond use the fixed interior stencils.
const chromaInteriorInset = 2

// InterpolateChroma fills red and blue at every valid cell where they were
// not sampled. It works on differences from green (which must already be
// complete), so the averages are not biased by local brightness, then
// adds green back. Blue is done first, then red.
func InterpolateChroma(cfg Config, m *cfa.Mask, p *Planes) {
	for _, want := range []cfa.ColorTag{cfa.Blue, cfa.Red} {
		ch := want.Channel()
		diff := colorDifference(m, &p[ch], &p[cfa.ChanG], want)

		if m.IsDiagonal() {
			diagonalChroma(m, &diff, want)
		} else {
			bayerChroma(m, &diff, want)
		}

		for y:=0; y<m.CanvasHeight; y++ {
			for x:=0; x<m.CanvasWidth; x++ {
				if tag := m.At(x, y); tag != cfa.Blank && tag != want {
					p[ch].Set(x, y, diff.Get(x, y) + p[cfa.ChanG].Get(x, y))
				}
			}
		}
	}
}

// colorDifference is C-G at the cells where C was sampled, zero elsewhere.
func colorDifference(m *cfa.Mask, C, G *emath.Plane, want cfa.ColorTag) emath.Plane {
	diff := C.NewFromThis()
	for y:=0; y<m.CanvasHeight; y++ {
		for x:=0; x<m.CanvasWidth; x++ {
			if m.At(x, y) == want {
				diff.Set(x, y, C.Get(x, y) - G.Get(x, y))
			}
		}
	}
	return diff
}

// diagonalChroma scans x outer / y inner. Every stencil reads only cells
// sampled in `want`, which are never written here, so each cell's result
// is independent of the scan order.
func diagonalChroma(m *cfa.Mask, diff *emath.Plane, want cfa.ColorTag) {
	for x:=0; x<m.CanvasWidth; x++ {
		for y:=0; y<m.CanvasHeight; y++ {
			if tag := m.At(x, y); tag == cfa.Blank || tag == want {
				continue
			}

			var s stencil
			if m.Inset(x, y, chromaInteriorInset) {
				s = diagonalInteriorStencil(m, x, y, want)
			} else if bs, ok := boundaryStencil(m, x, y, want); ok {
				s = bs
			} else {
				continue // no sample anywhere near; the difference stays 0
			}
			diff.Set(x, y, s.apply(diff, x, y))
		}
	}
}

// bayerChroma is bilinear interpolation with mirrored edges. A green cell
// averages its two horizontal neighbours if it sits on a row holding
// `want`, else its two vertical ones; the opposite chroma averages its
// four diagonals.
func bayerChroma(m *cfa.Mask, diff *emath.Plane, want cfa.ColorTag) {
	r, ok := m.Strategy.(cfa.Rectangular)
	if !ok {
		return
	}
	wantY := r.RedY
	if want == cfa.Blue {
		wantY = 1 - r.RedY
	}

	w, h := m.CanvasWidth, m.CanvasHeight
	for x:=0; x<w; x++ {
		for y:=0; y<h; y++ {
			tag := m.At(x, y)
			if tag == want {
				continue
			}
			xw, xe := mirror(x-1, w), mirror(x+1, w)
			yn, ys := mirror(y-1, h), mirror(y+1, h)

			switch {
			case tag == cfa.Green && y%2 == wantY:
				diff.Set(x, y, (diff.Get(xw, y) + diff.Get(xe, y)) / 2)
			case tag == cfa.Green:
				diff.Set(x, y, (diff.Get(x, yn) + diff.Get(x, ys)) / 2)
			default:
				diff.Set(x, y, (diff.Get(xw, yn) + diff.Get(xe, yn) + diff.Get(xw, ys) + diff.Get(xe, ys)) / 4)
			}
		}
	}
}
