package cfa

import(
	"fmt"

	"github.com/abworrall/exr-demosaic/pkg/emath"
)

// Mosaic samples a full-color canvas through the mask, keeping only each
// cell's tagged channel. Blank cells come out as zero. This is how a
// reference image is turned into synthetic sensor data.
func (m *Mask)Mosaic(planes [3]emath.Plane) (emath.Plane, error) {
	for i, p := range planes {
		if p.Dx() != m.CanvasWidth || p.Dy() != m.CanvasHeight {
			return emath.Plane{}, fmt.Errorf("%w: plane %d is %dx%d, canvas is %dx%d", ErrGeometry,
				i, p.Dx(), p.Dy(), m.CanvasWidth, m.CanvasHeight)
		}
	}

	out := emath.NewPlane(m.CanvasWidth, m.CanvasHeight)
	for y:=0; y<m.CanvasHeight; y++ {
		for x:=0; x<m.CanvasWidth; x++ {
			if ch := m.At(x, y).Channel(); ch >= 0 {
				out.Set(x, y, planes[ch].Get(x, y))
			}
		}
	}
	return out, nil
}
