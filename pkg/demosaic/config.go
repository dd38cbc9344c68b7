package demosaic

import(
	"fmt"
	"log"
	"gopkg.in/yaml.v2"

	"github.com/abworrall/exr-demosaic/pkg/cfa"
	"github.com/abworrall/exr-demosaic/pkg/ecolor"
	"github.com/abworrall/exr-demosaic/pkg/emath"
)

type Config struct {
	Verbosity    int

	Mode         string     // ssdd, linear, rotate
	Mask         string     // diagonal, bayer
	RedX         int        // Bayer red origin
	RedY         int

	Green        string     // isotropic, directional, linear
	Threshold    float64    // directional green: gradient spread below which we stay isotropic

	Schedule     []float64  // NL-means bandwidths, applied in order (coarse to fine)
	SearchRadius int        // NL-means search window is (2r+1)^2
	MedianSide   float64    // radius of the chroma median disc
	MedianIter   int
	Project      bool       // restore sampled values after each median pass

	Gains        string     // optional per-channel gain hook: "", legacy
	Rotate       bool       // map the diagonal canvas back to photographic orientation
	DumpStages   string     // if set, a filename prefix for per-stage PNG dumps
}

func NewConfig() Config {
	return Config{
		Mode:         "ssdd",
		Mask:         "diagonal",
		RedX:         1,
		RedY:         1,
		Green:        "isotropic",
		Threshold:    2.0,
		Schedule:     []float64{16, 4, 1},
		SearchRadius: 7,
		MedianSide:   1.5,
		MedianIter:   1,
		Project:      true,
		Rotate:       true,
	}
}

func NewConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Printf("Can't marshal config yaml: %v\n", err)
		return ""
	}
	return string(b)
}

func (c Config)GetMaskStrategy() (cfa.MaskStrategy, error) {
	return cfa.StrategyByName(c.Mask, c.RedX, c.RedY)
}

func (c Config)GetGreenInterpolator() (StageFunc, error) {
	switch c.Green {
	case "isotropic", "": return GreenIsotropic, nil
	case "directional":   return GreenDirectional, nil
	case "linear":        return GreenLinear, nil
	default:
		return nil, fmt.Errorf("no Green strategy named '%s'", c.Green)
	}
}

func (c Config)GetGains() (emath.Vec3, error) {
	return ecolor.GainsByName(c.Gains)
}

// Validate checks the numeric parameters; geometry is checked when the mask is built.
func (c Config)Validate() error {
	switch c.Mode {
	case "ssdd", "linear", "rotate":
	default:
		return fmt.Errorf("no Mode named '%s'", c.Mode)
	}
	if _, err := c.GetMaskStrategy(); err != nil {
		return err
	}
	if _, err := c.GetGreenInterpolator(); err != nil {
		return err
	}
	if _, err := c.GetGains(); err != nil {
		return err
	}
	for _, h := range c.Schedule {
		if h <= 0 {
			return fmt.Errorf("NL-means bandwidth %v must be positive", h)
		}
	}
	if c.SearchRadius < 1 {
		return fmt.Errorf("SearchRadius %d must be at least 1", c.SearchRadius)
	}
	if c.MedianSide < 1 || c.MedianIter < 0 {
		return fmt.Errorf("median side %v / iterations %d out of range", c.MedianSide, c.MedianIter)
	}
	return nil
}
