package replay

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/internal/hud"
	"github.com/mpapenbr/go-racehud/internal/present"
	"github.com/mpapenbr/go-racehud/internal/processor"
	"github.com/mpapenbr/go-racehud/internal/telemetry"
	"github.com/mpapenbr/go-racehud/log"
	"github.com/mpapenbr/go-racehud/pkg/config"
	"github.com/mpapenbr/go-racehud/pkg/pitcmd"
)

var (
	replayFile string
	tick       time.Duration
)

func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "replay recorded or scripted telemetry through the fuel calculator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return replay(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&replayFile,
		"file",
		"f",
		"",
		"telemetry file (.yml/.yaml scripted frames, otherwise msglog recording)")
	cmd.Flags().DurationVar(&tick,
		"tick",
		0,
		"delay between two frames (0: as fast as possible)")
	//nolint:errcheck // flag exists
	cmd.MarkFlagRequired("file")
	return cmd
}

func replay(ctx context.Context, out io.Writer) error {
	logger := log.GetFromContext(ctx)
	f, err := os.Open(replayFile)
	if err != nil {
		return err
	}
	defer f.Close()

	src, err := newSource(replayFile, f)
	if err != nil {
		return err
	}

	laps := []fuel.DisplayValues{}
	proc := processor.NewProcessor(ctx,
		config.NewFuelSource(viper.GetViper()),
		processor.WithDispatcher(pitcmd.NewLogDispatcher(logger.Named("pit"))),
		processor.WithLapCallback(func(dv *fuel.DisplayValues) {
			laps = append(laps, *dv)
		}))
	frames, err := hud.Replay(ctx, src, proc, tick)
	if err != nil {
		return err
	}
	renderLaps(out, laps)
	last := proc.Last()
	stats := proc.Stats()
	fmt.Fprintf(out, "\nFrames: %d  Refuel commands: %d  Session resets: %d\n%s\n",
		frames, stats.Commands, stats.SessionResets, present.Line(&last))
	return nil
}

func newSource(name string, r io.Reader) (telemetry.Source, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		return telemetry.NewYamlSource(r)
	default:
		return telemetry.NewMsgLogSource(r), nil
	}
}

func renderLaps(out io.Writer, laps []fuel.DisplayValues) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		"Session", "Lap", "Fuel", "Cons.", "Est. laps", "Remaining", "Refuel", "At finish",
	})
	for i := range laps {
		dv := &laps[i]
		t.AppendRow(table.Row{
			dv.SessionType,
			dv.CurrentLap,
			present.FuelLevel(dv),
			present.Consumption(dv),
			present.EstimatedLaps(dv),
			present.RemainingLaps(dv.Horizon, dv.SessionType),
			present.Refuel(dv),
			present.AtFinish(dv),
		})
	}
	t.Render()
}
