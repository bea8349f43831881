package util

import (
	"context"
	"net/http"
	"time"

	"github.com/mpapenbr/goirsdk/irsdk"

	"github.com/mpapenbr/go-racehud/log"
	"github.com/mpapenbr/go-racehud/pkg/config"
)

// WaitForSimulation polls the simulation until it is running.
// Returns false if it is not available within the configured timeout.
func WaitForSimulation(ctx context.Context, cfg *config.CliArgs) bool {
	timeout := ParseDuration(cfg.WaitForServices, 60*time.Second)
	logger := log.GetFromContext(ctx)
	logger.Info("Waiting for iRacing Simulation", log.String("timeout", timeout.String()))
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			simAvail, err := irsdk.IsSimRunning(ctx, http.DefaultClient)
			if err != nil {
				logger.Debug("Error connecting sim", log.ErrorField(err))
				break
			}
			if simAvail {
				return true
			}
		}
	}
}
