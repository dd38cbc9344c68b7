package main

import(
	"flag"
	"log"

	"github.com/abworrall/exr-demosaic/pkg/demosaic"
	"github.com/abworrall/exr-demosaic/pkg/exrio"
)

var(
	fVerbosity int
	fMode string
	fMask string
	fRedX, fRedY int
	fGreen string
	fThreshold float64
	fGains string
	fRotate bool
	fDump string
	fWidth, fHeight int

	fOutput string
	fHDR string
	fPreview string
	fPreviewWidth int
	fTonemapper string
	fMosaic string
	fMargin int
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fMode, "mode", "ssdd", "ssdd (full chain), linear, rotate (geometry only), bayer, simulate")
	flag.StringVar(&fMask, "mask", "diagonal", "CFA layout: diagonal, bayer")
	flag.IntVar(&fRedX, "redx", 1, "bayer: column parity of the red photosites")
	flag.IntVar(&fRedY, "redy", 1, "bayer: row parity of the red photosites")
	flag.StringVar(&fGreen, "green", "isotropic", "green interpolation: isotropic, directional, linear")
	flag.Float64Var(&fThreshold, "threshold", 2.0, "directional green: gradient spread below which it stays isotropic")
	flag.StringVar(&fGains, "gains", "", "per-channel gains to apply after interpolation: none, legacy")
	flag.BoolVar(&fRotate, "rotate", true, "rotate the diagonal canvas back to photographic orientation")
	flag.StringVar(&fDump, "dump", "", "if set, dump every stage's planes as PNGs with this prefix")
	flag.IntVar(&fWidth, "width", 0, "sensor width (overrides the TIFF's ImageDescription)")
	flag.IntVar(&fHeight, "height", 0, "sensor height")

	flag.StringVar(&fOutput, "o", "out.tif", "16-bit TIFF output")
	flag.StringVar(&fHDR, "hdr", "", "if set, also write a Radiance HDR file")
	flag.StringVar(&fPreview, "preview", "", "if set, also write a PNG preview")
	flag.IntVar(&fPreviewWidth, "previewwidth", 1024, "max width of the PNG preview")
	flag.StringVar(&fTonemapper, "tonemapper", "colorful", "how to tonemap the preview: "+exrio.ListTonemappers())
	flag.StringVar(&fMosaic, "mosaic", "", "simulate: also write the synthetic mosaic as a gray TIFF")
	flag.IntVar(&fMargin, "margin", 2, "simulate: ignore this many pixels at the edges when comparing")
	flag.Parse()

	log.Printf("exr-demosaic starting\n")
}

// applyFlags overrides the (possibly YAML loaded) config, but only with
// the flags that were actually given.
func applyFlags(job *exrio.Job) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":         job.Verbosity = fVerbosity
		case "mode":      job.Mode = fMode
		case "mask":      job.Mask = fMask
		case "redx":      job.RedX, job.RedFromFlags = fRedX, true
		case "redy":      job.RedY, job.RedFromFlags = fRedY, true
		case "green":     job.Green = fGreen
		case "threshold": job.Threshold = fThreshold
		case "gains":     job.Gains = fGains
		case "rotate":    job.Rotate = fRotate
		case "dump":      job.DumpStages = fDump
		}
	})

	job.Width, job.Height = fWidth, fHeight
	job.MosaicFilename = fMosaic

	// bayer is the full chain on a rectangular mosaic
	if job.Mode == "bayer" {
		job.Mode, job.Mask = "ssdd", "bayer"
	}
}

func main() {
	job := exrio.NewJob()
	if err := job.LoadFilesAndDirs(flag.Args()...); err != nil {
		log.Fatal(err)
	}
	applyFlags(&job)

	if job.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", job.Config.AsYaml())
	}

	if err := job.LoadFrames(); err != nil {
		log.Fatal(err)
	}

	if job.Mode == "simulate" {
		out, cmpr, err := job.Simulate(fMargin)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("simulate: %s\n", cmpr)
		write(out)
		return
	}

	out, chain, err := job.Run()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("demosaicked %s: %s\n", chain.CFA, out)
	write(out)
}

func write(out demosaic.Planes) {
	if err := exrio.WriteTIFF(fOutput, out); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s\n", fOutput)

	if fHDR != "" {
		if err := exrio.WriteHDR(fHDR, out); err != nil {
			log.Fatal(err)
		}
		log.Printf("Wrote %s\n", fHDR)
	}

	if fPreview != "" {
		if err := exrio.WritePreviewPNG(fPreview, out, fTonemapper, fPreviewWidth); err != nil {
			log.Fatal(err)
		}
	}
}
