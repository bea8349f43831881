package pitcmd

import (
	"context"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/log"
)

// LogDispatcher only logs the commands (dry run)
type LogDispatcher struct {
	l     *log.Logger
	count int
}

func NewLogDispatcher(l *log.Logger) *LogDispatcher {
	return &LogDispatcher{l: l.Named("pit")}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, cmd fuel.RefuelCommand) error {
	d.count++
	d.l.Info("refuel requested (dry run)",
		log.Float64("amount", cmd.Amount),
		log.Int("count", d.count))
	return nil
}

func (d *LogDispatcher) Count() int { return d.count }

func (d *LogDispatcher) Close() error { return nil }
