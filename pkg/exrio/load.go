package exrio

import(
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"

	"github.com/abworrall/exr-demosaic/pkg/demosaic"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

// A GeometryHint is what the input file says about the sensor. Zero
// values mean the file didn't say.
type GeometryHint struct {
	Width       int  // sensor dims, from an ImageDescription of "width = %d, height = %d"
	Height      int
	Orientation int  // EXIF orientation
}

func (h GeometryHint)String() string {
	return fmt.Sprintf("hint[%dx%d, orientation=%d]", h.Width, h.Height, h.Orientation)
}

// A Frame is one decoded input file: either a single-channel sub-frame or
// mosaic, or a full-color canvas.
type Frame struct {
	Filename string
	Hint     GeometryHint
	Image    image.Image
}

func (f Frame)String() string {
	b := f.Image.Bounds()
	kind := "color"
	if f.IsGray() {
		kind = "gray"
	}
	return fmt.Sprintf("%s [%dx%d %s, %s]", f.Filename, b.Dx(), b.Dy(), kind, f.Hint)
}

func (f Frame)Size() (int, int) {
	return f.Image.Bounds().Dx(), f.Image.Bounds().Dy()
}

func (f Frame)IsGray() bool {
	switch f.Image.ColorModel() {
	case color.Gray16Model, color.GrayModel:
		return true
	}
	return false
}

// Plane returns the samples of a single-channel frame, in 16-bit sensor
// units. Color images are reduced to their luminance.
func (f Frame)Plane() emath.Plane {
	b := f.Image.Bounds()
	p := emath.NewPlane(b.Dx(), b.Dy())

	if g16, ok := f.Image.(*image.Gray16); ok {
		for y:=0; y<b.Dy(); y++ {
			for x:=0; x<b.Dx(); x++ {
				p.Set(x, y, float64(g16.Gray16At(x+b.Min.X, y+b.Min.Y).Y))
			}
		}
		return p
	}

	for y:=0; y<b.Dy(); y++ {
		for x:=0; x<b.Dx(); x++ {
			c := color.Gray16Model.Convert(f.Image.At(x+b.Min.X, y+b.Min.Y)).(color.Gray16)
			p.Set(x, y, float64(c.Y))
		}
	}
	return p
}

// Planes splits a color frame into R, G and B planes, in 16-bit sensor units.
func (f Frame)Planes() demosaic.Planes {
	b := f.Image.Bounds()
	p := demosaic.NewPlanes(b.Dx(), b.Dy())
	for y:=0; y<b.Dy(); y++ {
		for x:=0; x<b.Dx(); x++ {
			r, g, bl, _ := f.Image.At(x+b.Min.X, y+b.Min.Y).RGBA()
			p.SetRGB(x, y, float64(r), float64(g), float64(bl))
		}
	}
	return p
}

// LoadTIFF decodes a TIFF, along with any geometry hints in its EXIF. A
// file without usable EXIF just gets an empty hint.
func LoadTIFF(filename string) (Frame, error) {
	f := Frame{Filename: filename}

	if reader, err := os.Open(filename); err != nil {
		return f, fmt.Errorf("open+r exif '%s': %v", filename, err)
	} else {
		if hint, err := ReadGeometryHint(reader); err == nil {
			f.Hint = hint
		}
		reader.Close()
	}

	// Re-open the file, now for the image data
	if reader, err := os.Open(filename); err != nil {
		return f, fmt.Errorf("open+r img '%s': %v", filename, err)
	} else {
		defer reader.Close()
		if img, err := tiff.Decode(reader); err != nil {
			return f, fmt.Errorf("tiff loading '%s': %v", filename, err)
		} else {
			f.Image = img
		}
	}

	return f, nil
}

// ReadGeometryHint pulls the sensor size out of the ImageDescription tag
// (as written by the raw extraction tool), and the EXIF orientation.
func ReadGeometryHint(r io.Reader) (GeometryHint, error) {
	h := GeometryHint{}

	ex, err := exif.Decode(r)
	if err != nil {
		return h, fmt.Errorf("exif parsing: %v", err)
	}

	if tag, err := ex.Get(exif.ImageDescription); err == nil {
		if desc, err := tag.StringVal(); err == nil {
			h.Width, h.Height, _ = ParseDescription(desc)
		}
	}

	if tag, err := ex.Get(exif.Orientation); err == nil {
		if val, err := tag.Int(0); err == nil {
			h.Orientation = val
		}
	}

	return h, nil
}

// ParseDescription reads "width = %d, height = %d"; the third result is
// false if the description isn't in that form.
func ParseDescription(desc string) (int, int, bool) {
	w, h := 0, 0
	if n, err := fmt.Sscanf(strings.TrimSpace(desc), "width = %d, height = %d", &w, &h); err != nil || n != 2 {
		return 0, 0, false
	}
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
