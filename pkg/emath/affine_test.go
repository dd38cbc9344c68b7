package emath

import(
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestRotateMinus45(t *testing.T) {
	// The canvas->photo map used by the inverse rotator: c = (row+col)*s, r = sW + (row-col)*s
	sW := 20.0
	s := math.Sqrt(0.5)
	m := Identity().Translate(0, sW).Rotate(-45)

	for _, pt := range [][2]float64{{0, 0}, {3, 7}, {10.5, 2.25}} {
		col, row := pt[0], pt[1]
		c, r := m.Apply(col, row)
		want := []float64{(row+col)*s, sW + (row-col)*s}
		if diff := cmp.Diff(want, []float64{c, r}, approx); diff != "" {
			t.Errorf("(%v,%v) mismatch (-want +got):\n%s", col, row, diff)
		}
	}
}

func TestInvert(t *testing.T) {
	m := Identity().Translate(4, -3).Rotate(30).Mult(Aff3{2, 0, 0,   0, 0.5, 0})
	inv, ok := m.Invert()
	if !ok {
		t.Fatalf("%s reported singular", m)
	}
	if diff := cmp.Diff(Identity(), m.Mult(inv), approx); diff != "" {
		t.Errorf("m*inv mismatch (-want +got):\n%s", diff)
	}

	if _, ok := (Aff3{1, 2, 0, 2, 4, 0}).Invert(); ok {
		t.Errorf("singular matrix inverted")
	}
}

func TestMat3Apply(t *testing.T) {
	v := Vec3{1, 2, 3}
	got := (Vec3{2, 3, 4}).Diag().Apply(v)
	if diff := cmp.Diff(Vec3{2, 6, 12}, got, approx); diff != "" {
		t.Errorf("Diag().Apply mismatch (-want +got):\n%s", diff)
	}

	v.FloorAt(1.5)
	v.CeilingAt(2.5)
	if diff := cmp.Diff(Vec3{1.5, 2, 2.5}, v); diff != "" {
		t.Errorf("clamp mismatch (-want +got):\n%s", diff)
	}
}
