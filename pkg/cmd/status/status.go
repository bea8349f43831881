package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mpapenbr/goirsdk/irsdk"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/internal/present"
	"github.com/mpapenbr/go-racehud/internal/telemetry"
	"github.com/mpapenbr/go-racehud/log"
	"github.com/mpapenbr/go-racehud/pkg/config"
	"github.com/mpapenbr/go-racehud/pkg/util"
)

var (
	ErrSimulationNotRunning = errors.New("iRacing Simulation not running")
	ErrVarDataRetrieval     = errors.New("could not get variable data from iRacing")
)

func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "show the current iRacing session and fuel status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkIracingStatus(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&config.DefaultCliArgs().WaitForServices,
		"wait",
		"60s",
		"Wait for running iRacing Sim")

	return cmd
}

func checkIracingStatus(ctx context.Context, out io.Writer) error {
	logger := log.GetFromContext(ctx)
	if !util.WaitForSimulation(ctx, config.DefaultCliArgs()) {
		return ErrSimulationNotRunning
	}

	api := irsdk.NewIrsdk()
	defer api.Close()

	if !api.GetDataWithDataReadyTimeout(time.Second) {
		return ErrVarDataRetrieval
	}
	p := telemetry.NewProvider(api, telemetry.WithLogger(logger.Named("telemetry")))
	s, err := p.Sample()
	if err != nil {
		return err
	}
	logger.Debug("iRacing Simulation running", log.String("track", p.TrackName()))
	renderStatus(out, p.TrackName(), p.SessionName(s.SessionNum), s)
	return nil
}

func renderStatus(out io.Writer, track, session string, s *fuel.Sample) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendRows([]table.Row{
		{"Track", track},
		{"Session", fmt.Sprintf("%s (%s)", session, s.SessionType)},
		{"Lap", s.CurrentLap},
		{"Fuel", fmt.Sprintf("%s (%.0f%%)",
			present.Volume(s.RemainingFuel, s.DisplayUnits), s.FuelPercent*100)},
		{"Tank", present.Volume(s.FuelMaxCapacity, s.DisplayUnits)},
		{"Session time", present.SessionTime(s.SessionTimeRemaining)},
		{"Time of day", present.TimeOfDay(s.SessionTimeOfDay)},
		{"Remaining laps", present.RemainingLaps(fuel.EstimateHorizon(s), s.SessionType)},
		{"On pit road", s.OnPitRoad},
		{"Pedals", fmt.Sprintf("T %s B %s C %s",
			present.Pedal(s.Throttle), present.Pedal(s.Brake), present.Pedal(s.Clutch))},
	})
	t.Render()
}
