package demosaic

import(
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/abworrall/exr-demosaic/pkg/cfa"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

// A Comparison holds per-channel error metrics between a result and a
// reference image.
type Comparison struct {
	N    int          // number of compared cells
	MSE  [3]float64
	PSNR [3]float64   // in dB, relative to the sensor's full scale
}

func (c Comparison)String() string {
	str := fmt.Sprintf("compared %d cells:", c.N)
	for ch := range c.MSE {
		str += fmt.Sprintf(" %s[mse=%.2f, psnr=%.2fdB]", ChannelNames[ch], c.MSE[ch], c.PSNR[ch])
	}
	return str
}

// Compare measures how far `got` is from `want`. If a mask is given,
// only valid cells at least `margin` away from the edge of the sensor
// region count; with a nil mask (e.g. after rotation) every cell at
// least `margin` in from the plane edge counts.
func Compare(m *cfa.Mask, got, want Planes, margin int) (Comparison, error) {
	if got.Dx() != want.Dx() || got.Dy() != want.Dy() {
		return Comparison{}, fmt.Errorf("%w: comparing %dx%d with %dx%d", cfa.ErrGeometry,
			got.Dx(), got.Dy(), want.Dx(), want.Dy())
	}

	include := func(x, y int) bool {
		return x >= margin && y >= margin && x < got.Dx()-margin && y < got.Dy()-margin
	}
	if m != nil {
		if err := got.fits(m); err != nil {
			return Comparison{}, err
		}
		include = func(x, y int) bool { return m.Valid(x, y) && m.Inset(x, y, margin) }
	}

	var a, b [3][]float64
	for y:=0; y<got.Dy(); y++ {
		for x:=0; x<got.Dx(); x++ {
			if !include(x, y) {
				continue
			}
			for ch := range got {
				a[ch] = append(a[ch], got[ch].Get(x, y))
				b[ch] = append(b[ch], want[ch].Get(x, y))
			}
		}
	}

	c := Comparison{N: len(a[0])}
	if c.N == 0 {
		return c, fmt.Errorf("nothing to compare with margin %d", margin)
	}

	for ch := range got {
		d := floats.Distance(a[ch], b[ch], 2)
		c.MSE[ch] = d * d / float64(c.N)
		c.PSNR[ch] = psnr(c.MSE[ch])
	}
	return c, nil
}

func psnr(mse float64) float64 {
	if emath.IsZero(mse) {
		return math.Inf(1)
	}
	return 10 * math.Log10(0xFFFF*0xFFFF/mse)
}

// DiffPlane returns the per-cell sum over channels of |got - want|, for
// dumping as an image.
func DiffPlane(got, want Planes) emath.Plane {
	diff := got[0].NewFromThis()
	for ch := range got {
		gv, wv := got[ch].Values(), want[ch].Values()
		dv := diff.Values()
		for i := range dv {
			dv[i] += math.Abs(gv[i] - wv[i])
		}
	}
	return diff
}
