package util

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mpapenbr/go-racehud/log"
	"github.com/mpapenbr/go-racehud/pkg/config"
)

// SetupLogger creates the logger according to cfg and installs it as default.
// A log config file takes precedence over log format and log file.
func SetupLogger(cfg *config.CliArgs) (*log.Logger, error) {
	var logger *log.Logger
	if cfg.LogConfig != "" {
		logCfg, err := log.LoadConfig(cfg.LogConfig)
		if err != nil {
			return nil, fmt.Errorf("could not load log config: %w", err)
		}
		if logger, err = log.NewWithConfig(logCfg, cfg.LogLevel); err != nil {
			return nil, err
		}
		log.ResetDefault(logger)
		return logger, nil
	}

	var writer io.Writer = os.Stderr
	if cfg.LogFile != "" {
		//nolint:gosec // user provided log file
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		writer = f
	}
	switch cfg.LogFormat {
	case "json":
		logger = log.New(
			writer,
			parseLogLevel(cfg.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			writer,
			parseLogLevel(cfg.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}

	log.ResetDefault(logger)
	return logger, nil
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// ParseDuration returns def if s is not a valid duration
func ParseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		log.Warn("Invalid duration value. Using default",
			log.String("value", s),
			log.Duration("default", def))
		return def
	}
	return d
}
