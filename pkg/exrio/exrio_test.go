package exrio

import(
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abworrall/exr-demosaic/pkg/cfa"
	"github.com/abworrall/exr-demosaic/pkg/demosaic"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

func TestParseDescription(t *testing.T) {
	for _, test := range []struct{
		desc  string
		w, h  int
		ok    bool
	}{
		{"width = 2048, height = 1536", 2048, 1536, true},
		{"  width = 20, height = 15\n", 20, 15, true},
		{"width=20,height=15", 0, 0, false},
		{"width = -3, height = 15", 0, 0, false},
		{"OLYMPUS DIGITAL CAMERA", 0, 0, false},
		{"", 0, 0, false},
	} {
		w, h, ok := ParseDescription(test.desc)
		if w != test.w || h != test.h || ok != test.ok {
			t.Errorf("ParseDescription(%q) = %d,%d,%v, want %d,%d,%v", test.desc, w, h, ok, test.w, test.h, test.ok)
		}
	}
}

func TestGrayTIFFRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "mosaic.tif")
	p, _ := emath.NewPlaneFromValues(3, 2, []float64{0, 1, 65535, 70000, -4, 1234.4})

	if err := WriteGrayTIFF(filename, p); err != nil {
		t.Fatal(err)
	}
	f, err := LoadTIFF(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !f.IsGray() {
		t.Errorf("%s did not load as gray", f)
	}

	got := f.Plane()
	if diff := cmp.Diff([]float64{0, 1, 65535, 65535, 0, 1234}, got.Values()); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestRGBTIFFRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.tif")
	p := demosaic.NewPlanes(2, 1)
	p.SetRGB(0, 0, 100, 200, 300)
	p.SetRGB(1, 0, -50, 80000, 65535)

	if err := WriteTIFF(filename, p); err != nil {
		t.Fatal(err)
	}
	f, err := LoadTIFF(filename)
	if err != nil {
		t.Fatal(err)
	}
	if f.IsGray() {
		t.Errorf("%s loaded as gray", f)
	}

	got := f.Planes()
	for _, test := range []struct{
		x    int
		want []float64
	}{
		{0, []float64{100, 200, 300}},
		{1, []float64{0, 65535, 65535}},
	} {
		r, g, b := got.RGB(test.x, 0)
		if diff := cmp.Diff(test.want, []float64{r, g, b}); diff != "" {
			t.Errorf("pixel %d mismatch (-want +got):\n%s", test.x, diff)
		}
	}
}

func grayFrame(name string, w, h int, hint GeometryHint) Frame {
	return Frame{Filename: name, Hint: hint, Image: image.NewGray16(image.Rect(0, 0, w, h))}
}

func TestJobGeometry(t *testing.T) {
	for _, test := range []struct{
		name   string
		mask   string
		frames []Frame
		w, h   int
		want   cfa.Geometry
		err    bool
	}{
		{
			name:   "subframes",
			mask:   "diagonal",
			frames: []Frame{grayFrame("a", 6, 4, GeometryHint{}), grayFrame("b", 6, 4, GeometryHint{})},
			want:   cfa.Geometry{SensorWidth:6, SensorHeight:4, CanvasWidth:10, CanvasHeight:10},
		},
		{
			name:   "portrait subframes",
			mask:   "diagonal",
			frames: []Frame{grayFrame("a", 4, 6, GeometryHint{})},
			want:   cfa.Geometry{SensorWidth:6, SensorHeight:4, CanvasWidth:10, CanvasHeight:10, Portrait:true},
		},
		{
			name:   "merged canvas from flags",
			mask:   "diagonal",
			frames: []Frame{grayFrame("a", 10, 10, GeometryHint{})},
			w:      6, h: 4,
			want:   cfa.Geometry{SensorWidth:6, SensorHeight:4, CanvasWidth:10, CanvasHeight:10},
		},
		{
			name:   "merged canvas from description",
			mask:   "diagonal",
			frames: []Frame{grayFrame("a", 10, 10, GeometryHint{Width:6, Height:4})},
			want:   cfa.Geometry{SensorWidth:6, SensorHeight:4, CanvasWidth:10, CanvasHeight:10},
		},
		{
			name:   "hint disagrees with frame",
			mask:   "diagonal",
			frames: []Frame{grayFrame("a", 6, 4, GeometryHint{Width:5, Height:4})},
			err:    true,
		},
		{
			name:   "color canvas without dims",
			mask:   "diagonal",
			frames: []Frame{{Filename:"c", Image:image.NewRGBA64(image.Rect(0, 0, 10, 10))}},
			err:    true,
		},
		{
			name:   "bayer",
			mask:   "bayer",
			frames: []Frame{grayFrame("a", 6, 4, GeometryHint{Width:5, Height:4})},
			want:   cfa.NewRectangularGeometry(6, 4),
		},
	} {
		j := NewJob()
		j.Mask = test.mask
		j.Frames = test.frames
		j.Width, j.Height = test.w, test.h

		g, err := j.Geometry()
		if test.err {
			if err == nil {
				t.Errorf("%s: expected an error, got %s", test.name, g)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if diff := cmp.Diff(test.want, g); diff != "" {
			t.Errorf("%s: geometry mismatch (-want +got):\n%s", test.name, diff)
		}
	}
}

func TestMaskNamesIgnoreCase(t *testing.T) {
	colorFrames := func(w, h int) []Frame {
		return []Frame{{Filename:"c", Image:image.NewRGBA64(image.Rect(0, 0, w, h))}}
	}

	for _, test := range []struct{
		mask   string
		frames []Frame
		canvas bool
		want   cfa.Geometry
	}{
		{"bayer", colorFrames(8, 8), false, cfa.NewRectangularGeometry(8, 8)},
		{"BAYER", colorFrames(8, 8), false, cfa.NewRectangularGeometry(8, 8)},
		{"Rectangular", colorFrames(8, 8), false, cfa.NewRectangularGeometry(8, 8)},
		{"EXR", colorFrames(10, 10), true, cfa.Geometry{SensorWidth:6, SensorHeight:4, CanvasWidth:10, CanvasHeight:10}},
		{"Diagonal", colorFrames(10, 10), true, cfa.Geometry{SensorWidth:6, SensorHeight:4, CanvasWidth:10, CanvasHeight:10}},
	} {
		j := NewJob()
		j.Mask = test.mask
		j.Frames = test.frames
		j.Width, j.Height = 6, 4

		if got := j.isCanvas(); got != test.canvas {
			t.Errorf("%s: isCanvas = %v, want %v", test.mask, got, test.canvas)
		}
		g, err := j.Geometry()
		if err != nil {
			t.Errorf("%s: %v", test.mask, err)
			continue
		}
		if diff := cmp.Diff(test.want, g); diff != "" {
			t.Errorf("%s: geometry mismatch (-want +got):\n%s", test.mask, diff)
		}
	}
}

func TestJobLoadFilesAndDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cfg.yaml"), []byte("mode: linear\nrotate: false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.tif", "a.tif"} {
		if err := WriteGrayTIFF(filepath.Join(dir, name), emath.NewPlane(6, 4)); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)

	j := NewJob()
	if err := j.LoadFilesAndDirs(dir); err != nil {
		t.Fatal(err)
	}
	if j.Mode != "linear" || j.Rotate {
		t.Errorf("config not loaded: %s", j.AsYaml())
	}
	want := []string{filepath.Join(dir, "a.tif"), filepath.Join(dir, "b.tif")}
	if diff := cmp.Diff(want, j.Filenames); diff != "" {
		t.Errorf("filenames mismatch (-want +got):\n%s", diff)
	}

	if err := j.LoadFrames(); err != nil {
		t.Fatal(err)
	}
	out, c, err := j.Run()
	if err != nil {
		t.Fatal(err)
	}
	if !c.CFA.IsDiagonal() || out.Dx() != 10 || out.Dy() != 10 {
		t.Errorf("ran %s, output %dx%d", c.CFA, out.Dx(), out.Dy())
	}

	if err := j.LoadFilesAndDirs(filepath.Join(dir, "missing.tif")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestLoadFramesSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	j := NewJob()
	for i, w := range []int{6, 7} {
		name := filepath.Join(dir, []string{"a.tif", "b.tif"}[i])
		if err := WriteGrayTIFF(name, emath.NewPlane(w, 4)); err != nil {
			t.Fatal(err)
		}
		j.Filenames = append(j.Filenames, name)
	}
	if err := j.LoadFrames(); !errors.Is(err, cfa.ErrGeometry) {
		t.Errorf("got %v, want ErrGeometry", err)
	}
}

func TestSimulateFlatField(t *testing.T) {
	img := image.NewRGBA64(image.Rect(0, 0, 8, 8))
	for y:=0; y<8; y++ {
		for x:=0; x<8; x++ {
			img.SetRGBA64(x, y, color.RGBA64{1000, 1000, 1000, 0xFFFF})
		}
	}

	j := NewJob()
	j.Mode = "simulate"
	j.Mask = "bayer"
	j.SearchRadius = 2
	j.Schedule = []float64{4}
	j.Frames = []Frame{{Filename:"flat", Image:img}}

	_, cmpr, err := j.Simulate(0)
	if err != nil {
		t.Fatal(err)
	}
	if cmpr.N != 64 {
		t.Errorf("compared %d cells, want 64", cmpr.N)
	}
	for ch, mse := range cmpr.MSE {
		if mse > 1e-9 {
			t.Errorf("%s MSE = %v", demosaic.ChannelNames[ch], mse)
		}
	}
}

func TestWriteHDRAndPreview(t *testing.T) {
	dir := t.TempDir()
	p := demosaic.NewPlanes(16, 8)
	for y:=0; y<8; y++ {
		for x:=0; x<16; x++ {
			p.SetRGB(x, y, float64(x*4000), 30000, float64(y*8000))
		}
	}

	if err := WriteHDR(filepath.Join(dir, "out.hdr"), p); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(filepath.Join(dir, "out.hdr")); err != nil || fi.Size() == 0 {
		t.Errorf("no HDR output: %v", err)
	}

	for _, tm := range []string{"colorful", "linear"} {
		filename := filepath.Join(dir, tm + ".png")
		if err := WritePreviewPNG(filename, p, tm, 8); err != nil {
			t.Fatalf("%s: %v", tm, err)
		}
		r, err := os.Open(filename)
		if err != nil {
			t.Fatal(err)
		}
		cfg, _, err := image.DecodeConfig(r)
		r.Close()
		if err != nil {
			t.Fatalf("%s: %v", tm, err)
		}
		if cfg.Width != 8 || cfg.Height != 4 {
			t.Errorf("%s: preview is %dx%d, want 8x4", tm, cfg.Width, cfg.Height)
		}
	}

	if _, err := Tonemap(p, "bogus"); err == nil {
		t.Errorf("expected an error for an unknown tonemapper")
	}
}
