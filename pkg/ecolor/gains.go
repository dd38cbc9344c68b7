package ecolor

import(
	"fmt"

	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/exr-demosaic/pkg/emath"
)

// SensorMax is the value of a fully exposed photosite.
const SensorMax = float64(0xFFFF)

var(
	// NoGains leaves the channels alone.
	NoGains = emath.Vec3{1, 1, 1}

	// LegacyGains are the fixed red/blue corrections some older
	// Bayer pipelines applied after chroma interpolation.
	LegacyGains = emath.Vec3{1.565476, 1, 1.845238}
)

// GainsByName looks up a named set of per-channel gains.
func GainsByName(name string) (emath.Vec3, error) {
	switch name {
	case "", "none": return NoGains, nil
	case "legacy":   return LegacyGains, nil
	default:
		return NoGains, fmt.Errorf("no gains named '%s'", name)
	}
}

// IsNoGains is true if applying `g` would be a no-op.
func IsNoGains(g emath.Vec3) bool {
	return g == NoGains || g == (emath.Vec3{})
}

// ApplyGains scales each channel by its gain.
func ApplyGains(r, g, b float64, gains emath.Vec3) (float64, float64, float64) {
	rgb := gains.Diag().Apply(emath.Vec3{r, g, b})
	return rgb[0], rgb[1], rgb[2]
}

// SensorToHDR maps sensor units onto hdrcolor's nominal [0.0, 1.0],
// without clipping anything.
func SensorToHDR(r, g, b float64) hdrcolor.RGB {
	return hdrcolor.RGB{
		R: r / SensorMax,
		G: g / SensorMax,
		B: b / SensorMax,
	}
}

// HDRRGBFloorAt stops negative overshoot (which NL-means and the
// median can produce near edges) from reaching HDR encoders.
func HDRRGBFloorAt(c1 hdrcolor.RGB, min float64) hdrcolor.RGB {
	c2 := c1
	if c2.R < min { c2.R = min }
	if c2.G < min { c2.G = min }
	if c2.B < min { c2.B = min }
	return c2
}
