package demosaic

import(
	"github.com/abworrall/exr-demosaic/pkg/cfa"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

// RotationMap maps a photographic (col,row) to continuous canvas (x,y):
//
//   x = (row+col)*step,  y = sW + (row-col)*step
func RotationMap(g cfa.Geometry) emath.Aff3 {
	return emath.Identity().Translate(0, float64(g.SensorWidth)).Rotate(-45)
}

// RotatedSize is the size of the photographic image recovered from the
// canvas: the diamond's north corner lands on the top right, its south
// corner on the bottom left.
func RotatedSize(g cfa.Geometry) (int, int) {
	inv, _ := RotationMap(g).Invert()
	w, _ := inv.Apply(float64(g.SensorWidth), 0)
	_, h := inv.Apply(float64(g.SensorHeight), float64(g.CanvasHeight))
	return int(w), int(h)
}

// InverseRotate resamples the canvas back into photographic orientation,
// with a 2x2 bilinear blend. Target pixels whose source falls off the
// canvas (or within a cell of its far edges) are left at zero.
func InverseRotate(p Planes, g cfa.Geometry) Planes {
	rotW, rotH := RotatedSize(g)
	out := NewPlanes(rotW, rotH)
	xform := RotationMap(g)

	for row:=0; row<rotH; row++ {
		for col:=0; col<rotW; col++ {
			x, y := xform.Apply(float64(col), float64(row))
			for ch := range p {
				if v, ok := bilinear(&p[ch], x, y); ok {
					out[ch].Set(col, row, v)
				}
			}
		}
	}

	return out
}

// bilinear samples p at continuous (x,y) from the cell at the floor and
// its E, S and SE neighbours.
func bilinear(p *emath.Plane, x, y float64) (float64, bool) {
	if x < 0 || y < 0 {
		return 0, false
	}
	ux, uy := int(x), int(y)
	if ux > p.Dx()-2 || uy > p.Dy()-2 {
		return 0, false
	}

	fx, fy := x - float64(ux), y - float64(uy)
	here := (1-fx)*p.Get(ux, uy) + fx*p.Get(ux+1, uy)
	below := (1-fx)*p.Get(ux, uy+1) + fx*p.Get(ux+1, uy+1)
	return (1-fy)*here + fy*below, true
}
