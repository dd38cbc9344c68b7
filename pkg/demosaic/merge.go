package demosaic

import(
	"fmt"

	"github.com/abworrall/exr-demosaic/pkg/cfa"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

// MergeFrames places the samples of the diagonal sensor's sub-frames onto
// the inflated canvas. The sensor reads out its 45° rotated photosites
// as frames of frameW x frameH samples; the second frame sits one canvas
// cell to the east of the first. Every sample is written into all three
// planes; the mask decides later which of them is ground truth.
//
// For a landscape sensor, sample i of frame n lands at
//
//   x = i%W + i/W + n,   y = (W - i%W - 1) + i/W
//
// and for a portrait one at
//
//   x = H-1 + i%W - i/W + n,   y = i%W + i/W
func MergeFrames(m *cfa.Mask, frames ...[]float64) (Planes, error) {
	if !m.IsDiagonal() {
		return Planes{}, fmt.Errorf("merging sub-frames needs a diagonal mask, have %s", m.Strategy.Name())
	}
	if len(frames) < 1 || len(frames) > 2 {
		return Planes{}, fmt.Errorf("merge wants 1 or 2 sub-frames, got %d", len(frames))
	}

	w, h := m.FrameSize()
	for n, f := range frames {
		if len(f) != w*h {
			return Planes{}, fmt.Errorf("%w: sub-frame %d has %d samples, want %dx%d", cfa.ErrGeometry, n, len(f), w, h)
		}
	}

	out := NewPlanes(m.CanvasWidth, m.CanvasHeight)
	for n, f := range frames {
		for i, v := range f {
			x, y := canvasPos(m.Geometry, i, n)
			if !m.Valid(x, y) {
				return Planes{}, fmt.Errorf("%w: sample %d of frame %d maps to blank cell (%d,%d)", cfa.ErrGeometry, i, n, x, y)
			}
			out.SetAll(x, y, v)
		}
	}

	return out, nil
}

// canvasPos maps sample i of sub-frame n onto the canvas.
func canvasPos(g cfa.Geometry, i, n int) (int, int) {
	w, h := g.FrameSize()
	col, row := i%w, i/w
	if g.Portrait {
		return h - 1 + col - row + n, col + row
	}
	return col + row + n, w - col - 1 + row
}

// FromMosaic spreads a single-channel canvas (e.g. a Bayer raw, or a
// mosaic built with cfa.Mask.Mosaic) into all three planes. Blank cells
// stay at zero.
func FromMosaic(m *cfa.Mask, mosaic emath.Plane) (Planes, error) {
	if mosaic.Dx() != m.CanvasWidth || mosaic.Dy() != m.CanvasHeight {
		return Planes{}, fmt.Errorf("%w: mosaic is %dx%d, canvas is %dx%d", cfa.ErrGeometry,
			mosaic.Dx(), mosaic.Dy(), m.CanvasWidth, m.CanvasHeight)
	}

	out := NewPlanes(m.CanvasWidth, m.CanvasHeight)
	for y:=0; y<m.CanvasHeight; y++ {
		for x:=0; x<m.CanvasWidth; x++ {
			if m.Valid(x, y) {
				out.SetAll(x, y, mosaic.Get(x, y))
			}
		}
	}
	return out, nil
}

// ComposePlanes builds the input from three canvas-sized planes that
// have already been merged (and perhaps corrected for lateral chromatic
// aberration) elsewhere: each valid cell takes the value of its tagged
// channel.
func ComposePlanes(m *cfa.Mask, in Planes) (Planes, error) {
	mosaic, err := m.Mosaic(in)
	if err != nil {
		return Planes{}, err
	}
	return FromMosaic(m, mosaic)
}
