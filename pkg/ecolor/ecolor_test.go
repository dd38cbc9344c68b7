package ecolor

import(
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestYUVRoundTrip(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-9)

	for _, rgb := range [][3]float64{
		{0, 0, 0},
		{65535, 65535, 65535},
		{1000, 20000, 300},
		{-40, 12.5, 9000},
	} {
		y, u, v := ToYUV(rgb[0], rgb[1], rgb[2])
		if want := LumaR*rgb[0] + LumaG*rgb[1] + LumaB*rgb[2]; !cmp.Equal(y, want, approx) {
			t.Errorf("%v: Y = %v, want %v", rgb, y, want)
		}
		if !cmp.Equal(u, rgb[0]-y, approx) || !cmp.Equal(v, rgb[2]-y, approx) {
			t.Errorf("%v: U,V = %v,%v", rgb, u, v)
		}

		r, g, b := FromYUV(y, u, v)
		if diff := cmp.Diff(rgb, [3]float64{r, g, b}, approx); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestGainsByName(t *testing.T) {
	if g, err := GainsByName(""); err != nil || !IsNoGains(g) {
		t.Errorf("default gains = %v, %v", g, err)
	}
	if g, err := GainsByName("legacy"); err != nil || g != LegacyGains {
		t.Errorf("legacy gains = %v, %v", g, err)
	}
	if _, err := GainsByName("sepia"); err == nil {
		t.Errorf("expected an error for an unknown name")
	}

	r, g, b := ApplyGains(10, 10, 10, LegacyGains)
	if diff := cmp.Diff([]float64{15.65476, 10, 18.45238}, []float64{r, g, b}, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("ApplyGains mismatch (-want +got):\n%s", diff)
	}
}

func TestSensorToHDR(t *testing.T) {
	c := HDRRGBFloorAt(SensorToHDR(SensorMax, 0, -SensorMax), 0)
	if c.R != 1 || c.G != 0 || c.B != 0 {
		t.Errorf("got %+v", c)
	}
}
