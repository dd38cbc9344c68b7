package demosaic

import(
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/abworrall/exr-demosaic/pkg/cfa"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// One photographic pixel spans this many canvas cells along each axis.
var rotationStep = math.Sqrt(0.5)

func TestRotationMap(t *testing.T) {
	m := newDiagonalMask(t, 20, 15)
	xform := RotationMap(m.Geometry)

	// The photographic origin is the diamond's west corner.
	x, y := xform.Apply(0, 0)
	if diff := cmp.Diff([]float64{0, 20}, []float64{x, y}, approx); diff != "" {
		t.Errorf("origin mismatch (-want +got):\n%s", diff)
	}

	inv, ok := xform.Invert()
	if !ok {
		t.Fatal("rotation map is singular")
	}
	for _, pt := range [][2]float64{{3, 4}, {17.5, 2}, {0, 34}} {
		col, row := inv.Apply(pt[0], pt[1])
		want := []float64{rotationStep * (pt[0] - pt[1] + 20), rotationStep * (pt[0] + pt[1] - 20)}
		if diff := cmp.Diff(want, []float64{col, row}, approx); diff != "" {
			t.Errorf("%v inverse mismatch (-want +got):\n%s", pt, diff)
		}
	}

	for _, test := range []struct{
		w, h         int
		rotW, rotH   int
	}{
		{20, 15, 28, 21},
		{15, 20, 28, 21},
		{8, 8, 11, 11},
		{12, 8, 16, 11},
	}{
		g := cfa.NewDiagonalGeometry(test.w, test.h)
		if w, h := RotatedSize(g); w != test.rotW || h != test.rotH {
			t.Errorf("%dx%d: RotatedSize = %dx%d, want %dx%d", test.w, test.h, w, h, test.rotW, test.rotH)
		}
	}
}

func TestBilinear(t *testing.T) {
	p, _ := emath.NewPlaneFromValues(3, 3, []float64{
		0, 10, 20,
		30, 40, 50,
		60, 70, 80,
	})

	for _, test := range []struct{
		x, y float64
		want float64
		ok   bool
	}{
		{0, 0, 0, true},
		{1, 1, 40, true},
		{0.5, 0.5, 20, true},
		{1.5, 0.25, 22.5, true},
		{-0.1, 1, 0, false},
		{2, 0, 0, false},    // needs an east neighbour
		{0, 2.5, 0, false},
	} {
		got, ok := bilinear(&p, test.x, test.y)
		if ok != test.ok || math.Abs(got - test.want) > 1e-9 {
			t.Errorf("bilinear(%v,%v) = %v,%v, want %v,%v", test.x, test.y, got, ok, test.want, test.ok)
		}
	}
}

func TestInverseRotateConstant(t *testing.T) {
	m := newDiagonalMask(t, 20, 15)
	p := NewPlanes(m.CanvasWidth, m.CanvasHeight)
	for y:=0; y<m.CanvasHeight; y++ {
		for x:=0; x<m.CanvasWidth; x++ {
			if m.Valid(x, y) {
				p.SetAll(x, y, 1000)
			}
		}
	}

	out := InverseRotate(p, m.Geometry)
	rotW, rotH := RotatedSize(m.Geometry)
	if out.Dx() != rotW || out.Dy() != rotH {
		t.Fatalf("output %dx%d, want %dx%d", out.Dx(), out.Dy(), rotW, rotH)
	}

	xform := RotationMap(m.Geometry)
	nInside := 0
	for row:=0; row<rotH; row++ {
		for col:=0; col<rotW; col++ {
			x, y := xform.Apply(float64(col), float64(row))
			if x < 0 || y < 0 {
				continue
			}
			ux, uy := int(x), int(y)
			if !m.Valid(ux, uy) || !m.Valid(ux+1, uy) || !m.Valid(ux, uy+1) || !m.Valid(ux+1, uy+1) {
				continue
			}
			nInside++
			for ch := range out {
				if v := out[ch].Get(col, row); math.Abs(v - 1000) > 1e-9 {
					t.Errorf("(%d,%d) %s = %v, want 1000", col, row, ChannelNames[ch], v)
				}
			}
		}
	}

	// Most of the photographic frame is fed entirely from the diamond.
	if nInside < rotW*rotH/2 {
		t.Errorf("only %d of %d pixels were inside the diamond", nInside, rotW*rotH)
	}
}

// Every sub-frame sample maps into the rotated frame, and the nearest
// rotated pixel maps back to within one canvas cell of it.
func TestRotationRoundTrip(t *testing.T) {
	for _, dims := range [][2]int{{20, 15}, {15, 20}, {8, 8}} {
		m := newDiagonalMask(t, dims[0], dims[1])
		xform := RotationMap(m.Geometry)
		inv, _ := xform.Invert()
		rotW, rotH := RotatedSize(m.Geometry)
		w, h := m.FrameSize()

		for n:=0; n<2; n++ {
			for i:=0; i<w*h; i++ {
				x, y := canvasPos(m.Geometry, i, n)
				col, row := inv.Apply(float64(x), float64(y))
				if col < -1 || row < -1 || col > float64(rotW+1) || row > float64(rotH+1) {
					t.Errorf("%v: frame %d sample %d at (%d,%d) maps off the frame, to (%.2f,%.2f)", dims, n, i, x, y, col, row)
				}

				x2, y2 := xform.Apply(math.Round(col), math.Round(row))
				if d := math.Hypot(x2 - float64(x), y2 - float64(y)); d > 1 {
					t.Errorf("%v: frame %d sample %d round trip is %.3f cells out", dims, n, i, d)
				}
			}
		}
	}
}
