package exrio

import(
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/abworrall/exr-demosaic/pkg/cfa"
	"github.com/abworrall/exr-demosaic/pkg/demosaic"
)

// A Job is one run of the demosaicker: a config, plus the input files
// the command line pointed at.
type Job struct {
	demosaic.Config

	Filenames []string
	Frames    []Frame

	// Sensor dims from the command line; they win over any hint in the files.
	Width     int
	Height    int

	// Set when the red origin came from the command line, so the EXIF
	// orientation shouldn't override it.
	RedFromFlags bool

	// If set, Simulate writes its synthetic mosaic here.
	MosaicFilename string
}

func NewJob() Job {
	return Job{Config: demosaic.NewConfig()}
}

func (j Job)String() string {
	str := fmt.Sprintf("Job %s/%s [\n", j.Mode, j.Mask)
	for _, f := range j.Frames {
		str += fmt.Sprintf("  %s\n", f)
	}
	return str + "]\n"
}

// LoadFilesAndDirs walks the args, picking up TIFFs as inputs and YAML
// files as the base config. Directory contents are taken in name order.
func (j *Job)LoadFilesAndDirs(args ...string) error {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			contents, err := ioutil.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %v", arg, err)
			}
			sort.Slice(contents, func(a, b int) bool { return contents[a].Name() < contents[b].Name() })
			for _, content := range contents {
				if err := j.LoadFilesAndDirs(filepath.Join(arg, content.Name())); err != nil {
					return fmt.Errorf("load %s: %v", arg, err)
				}
			}

		default:
			if err := j.loadFile(arg); err != nil {
				return fmt.Errorf("loadfile %s: %v", arg, err)
			}
		}
	}

	return nil
}

func (j *Job)loadFile(filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {

	case ".tif", ".tiff":
		j.Filenames = append(j.Filenames, filename)

	case ".yaml", ".yml":
		cfg, err := LoadConfig(filename)
		if err != nil {
			return fmt.Errorf("Loading %s as config YAML failed: %v", filename, err)
		}
		j.Config = cfg
		log.Printf("Loaded base configuration from %s\n", filename)
	}

	return nil
}

func LoadConfig(filename string) (demosaic.Config, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return demosaic.Config{}, fmt.Errorf("config read %s: %v", filename, err)
	}

	return demosaic.NewConfigFromYaml(contents)
}

// LoadFrames decodes all the input TIFFs, in parallel.
func (j *Job)LoadFrames() error {
	if len(j.Filenames) == 0 {
		return fmt.Errorf("no input TIFFs")
	}

	j.Frames = make([]Frame, len(j.Filenames))

	var eg errgroup.Group
	for i, filename := range j.Filenames {
		i, filename := i, filename
		eg.Go(func() error {
			f, err := LoadTIFF(filename)
			if err != nil {
				return err
			}
			j.Frames[i] = f
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	w, h := j.Frames[0].Size()
	for _, f := range j.Frames[1:] {
		if fw, fh := f.Size(); fw != w || fh != h {
			return fmt.Errorf("%w: %s is %dx%d, but %s is %dx%d", cfa.ErrGeometry,
				f.Filename, fw, fh, j.Frames[0].Filename, w, h)
		}
	}

	if j.Verbosity > 0 {
		log.Printf("Frames loaded: %s", j)
	}
	return nil
}

// sensorSize picks the sensor dims: the command line, else the first
// frame's ImageDescription, else nothing.
func (j *Job)sensorSize() (int, int, bool) {
	if j.Width > 0 && j.Height > 0 {
		return j.Width, j.Height, true
	}
	if len(j.Frames) > 0 && j.Frames[0].Hint.Width > 0 {
		return j.Frames[0].Hint.Width, j.Frames[0].Hint.Height, true
	}
	return 0, 0, false
}

// diagonalMask is true if the mask name picks the EXR layout, in any case.
func diagonalMask(name string) bool {
	return strings.EqualFold(name, "diagonal") || strings.EqualFold(name, "exr")
}

// isCanvas is true if the input is a single, already-merged canvas
// rather than raw sub-frames.
func (j *Job)isCanvas() bool {
	if len(j.Frames) != 1 || !diagonalMask(j.Mask) {
		return false
	}
	fw, fh := j.Frames[0].Size()
	sW, sH, ok := j.sensorSize()
	return !j.Frames[0].IsGray() || (ok && fw == fh && fw == sW+sH)
}

// Geometry works out the CFA geometry from the frames and any hints.
func (j *Job)Geometry() (cfa.Geometry, error) {
	if len(j.Frames) == 0 {
		return cfa.Geometry{}, fmt.Errorf("no frames loaded")
	}
	fw, fh := j.Frames[0].Size()

	if _, err := j.GetMaskStrategy(); err != nil {
		return cfa.Geometry{}, err
	}
	if !diagonalMask(j.Mask) {
		return cfa.NewRectangularGeometry(fw, fh), nil
	}

	if j.isCanvas() {
		sW, sH, ok := j.sensorSize()
		if !ok {
			return cfa.Geometry{}, fmt.Errorf("%w: merged canvas %s needs sensor dims (-width, -height)", cfa.ErrGeometry,
				j.Frames[0].Filename)
		}
		g := cfa.NewDiagonalGeometry(sW, sH)
		g.CanvasWidth, g.CanvasHeight = fw, fh
		return g, nil
	}

	// Raw sub-frames: the hint (if any) has to agree with the frame size.
	g := cfa.NewDiagonalGeometry(fw, fh)
	if sW, sH, ok := j.sensorSize(); ok {
		g = cfa.NewDiagonalGeometry(sW, sH)
	}
	if err := g.CheckFrame(fw, fh); err != nil {
		return cfa.Geometry{}, err
	}
	return g, nil
}

// applyOrientation takes the Bayer red origin from the EXIF orientation,
// unless the command line already set it.
func (j *Job)applyOrientation() {
	if j.RedFromFlags || len(j.Frames) == 0 || j.Frames[0].Hint.Orientation == 0 {
		return
	}
	if r, err := cfa.RectangularForOrientation(j.Frames[0].Hint.Orientation); err == nil {
		j.RedX, j.RedY = r.RedX, r.RedY
	}
}

// Run demosaics the loaded frames.
func (j *Job)Run() (demosaic.Planes, *demosaic.Chain, error) {
	g, err := j.Geometry()
	if err != nil {
		return demosaic.Planes{}, nil, err
	}
	if !diagonalMask(j.Mask) {
		j.applyOrientation()
	}

	c, err := demosaic.NewChain(j.Config, g)
	if err != nil {
		return demosaic.Planes{}, nil, err
	}

	var out demosaic.Planes
	switch {
	case j.isCanvas() && !j.Frames[0].IsGray():
		out, err = c.RunPlanes(j.Frames[0].Planes())
	case j.isCanvas() || !c.CFA.IsDiagonal():
		out, err = c.RunMosaic(j.Frames[0].Plane())
	default:
		frames := [][]float64{}
		for _, f := range j.Frames {
			p := f.Plane()
			frames = append(frames, p.Values())
		}
		out, err = c.RunFrames(frames...)
	}

	return out, c, err
}

// Simulate mosaics the first (full-color) frame through the mask,
// demosaics the result and compares it against the original. The
// output is never rotated, so that it lines up with the reference.
func (j *Job)Simulate(margin int) (demosaic.Planes, demosaic.Comparison, error) {
	if len(j.Frames) == 0 {
		return demosaic.Planes{}, demosaic.Comparison{}, fmt.Errorf("no frames loaded")
	}
	ref := j.Frames[0].Planes()

	cfg := j.Config
	cfg.Rotate = false
	if cfg.Mode == "simulate" {
		cfg.Mode = "ssdd"
	}

	g := cfa.NewRectangularGeometry(ref.Dx(), ref.Dy())
	if diagonalMask(cfg.Mask) {
		sW, sH, ok := j.sensorSize()
		if !ok {
			return demosaic.Planes{}, demosaic.Comparison{}, fmt.Errorf("%w: simulating a diagonal CFA needs sensor dims", cfa.ErrGeometry)
		}
		g = cfa.NewDiagonalGeometry(sW, sH)
	}

	c, err := demosaic.NewChain(cfg, g)
	if err != nil {
		return demosaic.Planes{}, demosaic.Comparison{}, err
	}
	mosaic, err := c.CFA.Mosaic(ref)
	if err != nil {
		return demosaic.Planes{}, demosaic.Comparison{}, err
	}
	if j.MosaicFilename != "" {
		if err := WriteGrayTIFF(j.MosaicFilename, mosaic); err != nil {
			return demosaic.Planes{}, demosaic.Comparison{}, err
		}
	}
	out, err := c.RunMosaic(mosaic)
	if err != nil {
		return demosaic.Planes{}, demosaic.Comparison{}, err
	}

	cmpr, err := demosaic.Compare(c.CFA, out, ref, margin)
	if err != nil {
		return out, cmpr, err
	}

	if j.Verbosity > 0 {
		diff := demosaic.DiffPlane(out, ref)
		if err := diff.ToImg(cmpr.String(), "diff-simulate.png"); err != nil {
			log.Printf("diff dump: %v\n", err)
		}
	}

	return out, cmpr, nil
}
