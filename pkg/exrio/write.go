package exrio

import(
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"

	"github.com/google/renameio"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/mdouchement/hdr/tmo"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/abworrall/exr-demosaic/pkg/demosaic"
	"github.com/abworrall/exr-demosaic/pkg/ecolor"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

// PlanesImage presents demosaicked planes as an hdr.Image (and so
// an image.Image), with sensor units mapped onto [0.0, 1.0].
type PlanesImage struct {
	demosaic.Planes
}

var _ hdr.Image = PlanesImage{}

// Implement image.Image
func (pi PlanesImage)ColorModel() color.Model       { return hdrcolor.RGBModel }
func (pi PlanesImage)Bounds() image.Rectangle       { return image.Rect(0, 0, pi.Dx(), pi.Dy()) }
func (pi PlanesImage)At(x, y int) color.Color       { return pi.HDRAt(x, y) }

// Implement hdr.Image
func (pi PlanesImage)HDRAt(x, y int) hdrcolor.Color {
	return ecolor.HDRRGBFloorAt(ecolor.SensorToHDR(pi.RGB(x, y)), 0)
}
func (pi PlanesImage)Size() int                     { return pi.Dx() * pi.Dy() }

// writeAtomically encodes into a temp file, which only replaces
// `filename` once the encoder has succeeded.
func writeAtomically(filename string, encode func(w io.Writer) error) error {
	o, err := renameio.TempFile("", filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer o.Cleanup()

	if err := encode(o); err != nil {
		return fmt.Errorf("encode '%s': %v", filename, err)
	}
	return o.CloseAtomicallyReplace()
}

// WriteTIFF writes a 16-bit RGB TIFF, clamping to [0, 0xFFFF].
func WriteTIFF(filename string, p demosaic.Planes) error {
	img := image.NewRGBA64(image.Rect(0, 0, p.Dx(), p.Dy()))
	for y:=0; y<p.Dy(); y++ {
		for x:=0; x<p.Dx(); x++ {
			r, g, b := p.RGB(x, y)
			v := emath.Vec3{r, g, b}
			v.FloorAt(0)
			v.CeilingAt(ecolor.SensorMax)
			img.SetRGBA64(x, y, color.RGBA64{uint16(v[0]), uint16(v[1]), uint16(v[2]), 0xFFFF})
		}
	}

	return writeAtomically(filename, func(w io.Writer) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	})
}

// WriteGrayTIFF writes a single plane (e.g. a simulated mosaic) as a 16-bit grayscale TIFF.
func WriteGrayTIFF(filename string, p emath.Plane) error {
	img := image.NewGray16(image.Rect(0, 0, p.Dx(), p.Dy()))
	for y:=0; y<p.Dy(); y++ {
		for x:=0; x<p.Dx(); x++ {
			img.SetGray16(x, y, color.Gray16{uint16(emath.Clamp(p.Get(x, y), 0, ecolor.SensorMax))})
		}
	}

	return writeAtomically(filename, func(w io.Writer) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	})
}

// WriteHDR outputs a Radiance HDR image, unclamped above. You can load
// this into photoshop or other HDR tools.
func WriteHDR(filename string, p demosaic.Planes) error {
	return writeAtomically(filename, func(w io.Writer) error {
		return rgbe.Encode(w, PlanesImage{p})
	})
}

var(
	Tonemappers = []string{"colorful", "drago03", "durand", "icam06", "linear", "reinhard05"}
)

func ListTonemappers() string {
	return fmt.Sprintf("%v", Tonemappers)
}

// Tonemap renders the planes as an 8-bit image. "colorful" is a plain
// linear-to-sRGB conversion with clipping; the rest are tmo operators.
func Tonemap(p demosaic.Planes, name string) (image.Image, error) {
	pi := PlanesImage{p}

	var op tmo.ToneMappingOperator
	switch name {
	case "colorful", "":
		img := image.NewRGBA(pi.Bounds())
		for y:=0; y<pi.Dy(); y++ {
			for x:=0; x<pi.Dx(); x++ {
				r, g, b := p.RGB(x, y)
				img.Set(x, y, colorful.LinearRgb(r/ecolor.SensorMax, g/ecolor.SensorMax, b/ecolor.SensorMax).Clamped())
			}
		}
		return img, nil

	case "drago03":    op = tmo.NewDefaultDrago03(pi)
	case "durand":     op = tmo.NewDefaultDurand(pi)
	case "icam06":     op = tmo.NewDefaultICam06(pi)
	case "linear":     op = tmo.NewLinear(pi)
	case "reinhard05": op = tmo.NewDefaultReinhard05(pi)
	default:
		return nil, fmt.Errorf("ToneMapper %q not recognized, wanted %s", name, ListTonemappers())
	}

	return op.Perform(), nil
}

// WritePreviewPNG tonemaps the planes, shrinks them to at most maxWidth
// pixels across (if maxWidth > 0), and writes a PNG.
func WritePreviewPNG(filename string, p demosaic.Planes, tonemapper string, maxWidth int) error {
	img, err := Tonemap(p, tonemapper)
	if err != nil {
		return err
	}

	if b := img.Bounds(); maxWidth > 0 && b.Dx() > maxWidth {
		h := b.Dy() * maxWidth / b.Dx()
		if h < 1 {
			h = 1
		}
		small := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
		draw.CatmullRom.Scale(small, small.Bounds(), img, b, draw.Over, nil)
		img = small
	}

	log.Printf("Writing %s preview (%s) to %s\n", img.Bounds().Size(), tonemapper, filename)
	return writeAtomically(filename, func(w io.Writer) error {
		return png.Encode(w, img)
	})
}
