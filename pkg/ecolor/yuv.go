package ecolor

import(
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

// Luma weights used by the chromatic regularizer.
const(
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

var(
	// Y = .299R + .587G + .114B, U = R-Y, V = B-Y
	RGBToYUV = emath.Mat3{
		 LumaR,      LumaG,    LumaB,
		 1 - LumaR, -LumaG,   -LumaB,
		-LumaR,     -LumaG,    1 - LumaB,
	}

	// The exact inverse of RGBToYUV: R = Y+U, B = Y+V, and G solved from the luma equation.
	YUVToRGB = emath.Mat3{
		1,  1,              0,
		1, -LumaR / LumaG, -LumaB / LumaG,
		1,  0,              1,
	}
)

func ToYUV(r, g, b float64) (float64, float64, float64) {
	yuv := RGBToYUV.Apply(emath.Vec3{r, g, b})
	return yuv[0], yuv[1], yuv[2]
}

func FromYUV(y, u, v float64) (float64, float64, float64) {
	rgb := YUVToRGB.Apply(emath.Vec3{y, u, v})
	return rgb[0], rgb[1], rgb[2]
}
