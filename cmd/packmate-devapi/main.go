// Command packmate-devapi serves an in-memory stand-in of the packing API for
// local development.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tripwise/packmate/internal/config"
	"github.com/tripwise/packmate/internal/fakeapi"
	"github.com/tripwise/packmate/internal/packing"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("packmate-devapi exited with error")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var addr, level string
	var limitKg float64

	cmd := &cobra.Command{
		Use:          "packmate-devapi",
		Short:        "Serve an in-memory packing API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := config.ParseLevel(level)
			if err != nil {
				return err
			}
			config.InitLogger()
			config.SetLogLevel(lvl)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return fakeapi.Serve(ctx, addr, fakeapi.NewStore(limitKg))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "Listen address")
	cmd.Flags().Float64Var(&limitKg, "weight-limit", packing.DefaultWeightLimitKg, "Bag weight limit in kg used for decisions")
	cmd.Flags().StringVar(&level, "log-level", "info", "Log level: debug|info|warn|error")
	return cmd
}
