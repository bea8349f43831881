package hud

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/mpapenbr/go-racehud/internal/processor"
	"github.com/mpapenbr/go-racehud/internal/telemetry"
	"github.com/mpapenbr/go-racehud/log"
)

// Replay feeds all frames of src into proc. With tick > 0 the frames are
// paced, otherwise they are processed as fast as possible.
// Returns the number of processed frames.
func Replay(
	ctx context.Context,
	src telemetry.Source,
	proc *processor.Processor,
	tick time.Duration,
) (int, error) {
	logger := log.GetFromContext(ctx).Named("replay")
	var pace <-chan time.Time
	if tick > 0 {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		pace = ticker.C
	}
	count := 0
	for {
		f, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			logger.Debug("replay done", log.Int("frames", count))
			return count, nil
		}
		if err != nil {
			return count, err
		}
		if pace != nil {
			select {
			case <-ctx.Done():
				return count, ctx.Err()
			case <-pace:
			}
		}
		count++
		if f.SessionReset {
			proc.SessionReset()
			continue
		}
		proc.Process(f.Sample)
	}
}
