package hud

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/go-racehud/log"
)

// number of ticks collected before timing statistics are logged
const statsWindow = 120

type durationSummary struct {
	zero  int
	valid int
	min   time.Duration
	max   time.Duration
	avg   time.Duration
}

// zero durations are counted but excluded from min, max and avg
func summarize(durations []time.Duration) durationSummary {
	ret := durationSummary{min: 1 * time.Second}
	sum := time.Duration(0)
	for _, v := range durations {
		if v == 0 {
			ret.zero++
			continue
		}
		ret.valid++
		ret.min = min(ret.min, v)
		ret.max = max(ret.max, v)
		sum += v
	}
	if ret.valid > 0 {
		ret.avg = sum / time.Duration(ret.valid)
	}
	return ret
}

func (h *HUD) logDurations(msg string, durations []time.Duration) {
	myLog := h.log.Named("durations")
	s := summarize(durations)
	myLog.Debug(msg,
		log.Int("zeroDurations", s.zero),
		log.Int("validDurations", s.valid),
		log.Duration("min", s.min),
		log.Duration("max", s.max),
		log.Duration("avg", s.avg),
		log.String("durations", strings.Join(
			lo.Map(durations, func(d time.Duration, _ int) string { return d.String() }),
			",")))
}
