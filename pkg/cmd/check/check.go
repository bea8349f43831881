package check

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/go-racehud/log"
	"github.com/mpapenbr/go-racehud/pkg/config"
	"github.com/mpapenbr/go-racehud/pkg/util"
	"github.com/mpapenbr/go-racehud/pkg/wamp"
	"github.com/mpapenbr/go-racehud/version"
)

func NewVersionCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "check if the pit bridge on the WAMP router is compatible",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkCompatibility(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&config.DefaultCliArgs().WampURL,
		"wamp-url",
		"ws://localhost:8080/ws",
		"WAMP router url")
	cmd.Flags().StringVar(&config.DefaultCliArgs().WampRealm,
		"wamp-realm",
		config.DefaultCliArgs().WampRealm,
		"WAMP realm")
	return cmd
}

func checkCompatibility(ctx context.Context) error {
	logger := log.GetFromContext(ctx)
	cfg := config.DefaultCliArgs()
	logger.Debug("Starting...", log.String("url", cfg.WampURL))

	pc, err := wamp.NewPublicClient(ctx, cfg.WampURL, cfg.WampRealm)
	if err != nil {
		logger.Error("Could not connect to WAMP router", log.ErrorField(err))
		return err
	}
	//nolint:errcheck // by design
	defer pc.Close()

	remote, err := pc.GetVersion(ctx)
	if err != nil {
		logger.Error("Could not get remote version", log.ErrorField(err))
		return err
	}
	compatible := util.CheckServerVersion(remote)
	logger.Debug("Compatibility check done",
		log.String("this-version", version.Version),
		log.String("bridge-version", remote),
		log.Bool("compatible", compatible))
	fmt.Printf(`
Racehud version     : v%s
Pit bridge version  : %s
Minimum pit bridge  : %s
Compatible          : %t
`,
		version.Version,
		remote,
		util.RequiredServerVersion,
		compatible)
	return nil
}
