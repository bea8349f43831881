package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/internal/hud"
	"github.com/mpapenbr/go-racehud/internal/present"
	"github.com/mpapenbr/go-racehud/internal/processor"
	"github.com/mpapenbr/go-racehud/log"
	"github.com/mpapenbr/go-racehud/pkg/broadcast"
	"github.com/mpapenbr/go-racehud/pkg/config"
	"github.com/mpapenbr/go-racehud/pkg/msglog"
	"github.com/mpapenbr/go-racehud/pkg/pitcmd"
	"github.com/mpapenbr/go-racehud/pkg/server"
	"github.com/mpapenbr/go-racehud/pkg/util"
	"github.com/mpapenbr/go-racehud/pkg/wamp"
)

func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the fuel calculator against the iRacing simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHUD(cmd.Context(), config.DefaultCliArgs())
		},
	}
	cfg := config.DefaultCliArgs()
	cmd.Flags().StringVar(&cfg.WaitForServices,
		"wait",
		cfg.WaitForServices,
		"Wait for running iRacing Sim")
	cmd.Flags().StringVar(&cfg.WaitForData,
		"wait-for-data",
		cfg.WaitForData,
		"Max time to wait for new telemetry data")
	cmd.Flags().StringVar(&cfg.PublishInterval,
		"publish-interval",
		cfg.PublishInterval,
		"Min time between two display updates")
	cmd.Flags().StringVar(&cfg.MsgLogFile,
		"msglog-file",
		"",
		"record telemetry samples to this file (for replay)")
	cmd.Flags().StringVar(&cfg.HTTPAddr,
		"http-addr",
		"",
		"serve the display values on this address (e.g. localhost:8135)")
	cmd.Flags().StringVar(&cfg.PitDispatch,
		"pit-dispatch",
		cfg.PitDispatch,
		"where refuel commands are sent to (log, nats, wamp)")
	cmd.Flags().StringVar(&cfg.NatsURL,
		"nats-url",
		"nats://localhost:4222",
		"NATS server url (pit-dispatch nats)")
	cmd.Flags().StringVar(&cfg.WampURL,
		"wamp-url",
		"ws://localhost:8080/ws",
		"WAMP router url (pit-dispatch wamp, wamp-publish)")
	cmd.Flags().StringVar(&cfg.WampRealm,
		"wamp-realm",
		cfg.WampRealm,
		"WAMP realm")
	cmd.Flags().BoolVar(&cfg.WampPublish,
		"wamp-publish",
		false,
		"publish display values to the WAMP router")
	cmd.Flags().BoolVar(&cfg.WatchConfig,
		"watch-config",
		cfg.WatchConfig,
		"reload fuel settings when the config file changes")
	return cmd
}

//nolint:funlen // by design
func runHUD(ctx context.Context, cfg *config.CliArgs) error {
	logger := log.GetFromContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fuelSource := config.NewFuelSource(viper.GetViper())
	if cfg.WatchConfig && viper.ConfigFileUsed() != "" {
		fuelSource.Watch(func(e fsnotify.Event) {
			logger.Info("Config file changed", log.String("file", e.Name))
		})
	}

	dispatcher, err := newDispatcher(ctx, cfg)
	if err != nil {
		return err
	}
	defer dispatcher.Close()

	feed := broadcast.NewBroadcaster[fuel.DisplayValues]()
	defer feed.Close()

	opts := []processor.OptionsFunc{
		processor.WithPublishInterval(util.ParseDuration(cfg.PublishInterval, time.Second)),
		processor.WithDispatcher(dispatcher),
		processor.WithOutput(feed),
		processor.WithLapCallback(func(dv *fuel.DisplayValues) {
			logger.Info(present.Line(dv))
		}),
	}
	if cfg.MsgLogFile != "" {
		f, err := os.Create(cfg.MsgLogFile)
		if err != nil {
			return fmt.Errorf("could not create msglog file: %w", err)
		}
		defer f.Close()
		opts = append(opts, processor.WithRecorder(msglog.NewMsgLogger(msglog.WithWriter(f))))
	}

	if cfg.HTTPAddr != "" {
		srv, err := server.NewServer(
			server.WithContext(ctx),
			server.WithAddr(cfg.HTTPAddr),
			server.WithFeed(feed))
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}
		//nolint:errcheck // shutdown on exit
		defer srv.Close()
	}

	if cfg.WampPublish {
		c, err := wamp.Connect(ctx, cfg.WampURL, cfg.WampRealm, logger)
		if err != nil {
			return fmt.Errorf("could not connect to WAMP router: %w", err)
		}
		//nolint:errcheck // shutdown on exit
		defer c.Close()
		pub := wamp.NewPublisher(c, wamp.WithPublisherLogger(logger.Named("wamp")))
		go pub.Run(ctx, feed)
	}

	if !util.WaitForSimulation(ctx, cfg) {
		return hud.ErrSimNotAvailable
	}

	proc := processor.NewProcessor(ctx, fuelSource, opts...)
	h, err := hud.NewHUD(proc,
		hud.WithContext(ctx, cancel),
		hud.WithWaitForServicesTimeout(util.ParseDuration(cfg.WaitForServices, 60*time.Second)),
		hud.WithWaitForDataTimeout(util.ParseDuration(cfg.WaitForData, time.Second)))
	if err != nil {
		return err
	}
	defer h.Close()
	logger.Info("Connected", log.String("track", h.TrackName()))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Debug("interrupt signaled. Terminating")
			cancel()
		case <-ctx.Done():
		}
	}()

	err = h.Run()
	stats := proc.Stats()
	logger.Info("HUD terminated",
		log.Int("ticks", stats.Ticks),
		log.Int("published", stats.Published),
		log.Int("refuelCommands", stats.Commands),
		log.Int("failedDispatches", stats.FailedDispatches),
		log.Int("sessionResets", stats.SessionResets),
		log.Int("configReloads", stats.ConfigReloads))
	if errors.Is(err, hud.ErrSimStopped) {
		return nil
	}
	return err
}

func newDispatcher(ctx context.Context, cfg *config.CliArgs) (pitcmd.Dispatcher, error) {
	kind, err := pitcmd.ParseKind(cfg.PitDispatch)
	if err != nil {
		return nil, err
	}
	logger := log.GetFromContext(ctx).Named("pit")
	switch kind {
	case pitcmd.KindNats:
		d, err := pitcmd.ConnectNats(cfg.NatsURL, pitcmd.WithNatsLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("could not connect to NATS: %w", err)
		}
		return d, nil
	case pitcmd.KindWamp:
		c, err := wamp.Connect(ctx, cfg.WampURL, cfg.WampRealm, logger)
		if err != nil {
			return nil, fmt.Errorf("could not connect to WAMP router: %w", err)
		}
		return pitcmd.NewWampDispatcher(c), nil
	default:
		return pitcmd.NewLogDispatcher(logger), nil
	}
}
