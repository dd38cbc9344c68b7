package demosaic

import(
	"fmt"
	"log"
	"math"

	"github.com/skypies/util/histogram"
)

// StageStats summarises each plane: its value range, and a histogram of
// log2(value) in 1/16th stops, which makes clipping, negative overshoot
// and empty channels easy to spot in the log.
func StageStats(p *Planes) string {
	str := ""
	for ch := range p {
		h := histogram.Histogram{NumBuckets:64, ValMin:0, ValMax:256}
		nNeg := 0
		for _, v := range p[ch].Values() {
			if v < 0 {
				nNeg++
				continue
			}
			h.Add(histogram.ScalarVal(int(math.Log2(v+1) * 16)))
		}
		str += fmt.Sprintf("  %-5s %s, %d negative\n    %v\n", ChannelNames[ch], p[ch].Stats(), nNeg, h)
	}
	return str
}

// report logs (and optionally dumps) the planes after a stage.
func (c *Chain)report(stage string, p *Planes) {
	c.nStage++

	if c.Config.Verbosity > 0 {
		log.Printf("stage %02d %s done\n", c.nStage, stage)
	}
	if c.Config.Verbosity > 1 {
		log.Printf("stage %02d %s:\n%s", c.nStage, stage, StageStats(p))
	}

	if c.Config.DumpStages == "" {
		return
	}
	for ch := range p {
		title := fmt.Sprintf("%02d %s: %s", c.nStage, stage, ChannelNames[ch])
		filename := fmt.Sprintf("%s-%02d-%s-%s.png", c.Config.DumpStages, c.nStage, stage, ChannelNames[ch])
		if err := p[ch].ToImg(title, filename); err != nil {
			log.Printf("dump %s: %v\n", filename, err)
		}
	}
}
