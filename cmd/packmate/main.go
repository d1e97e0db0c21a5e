package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tripwise/packmate/client"
	"github.com/tripwise/packmate/internal/config"
	"github.com/tripwise/packmate/internal/packing"
	"github.com/tripwise/packmate/internal/session"
)

const requestTimeout = 15 * time.Second

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// cli carries configuration resolved from env, .env and persistent flags.
type cli struct {
	cfg *config.Config

	apiURL string
	userID string
	tripID string
	debug  bool
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	a := &cli{}
	rootCmd := &cobra.Command{
		Use:           "packmate",
		Short:         "Packmate CLI for trips, packing lists and item scans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.apiURL, "api-url", "", "Base URL of the packing API (env PACKMATE_API_URL)")
	pf.StringVar(&a.userID, "user-id", "", "User id (env PACKMATE_USER_ID)")
	pf.StringVar(&a.tripID, "trip-id", "", "Trip id (env PACKMATE_TRIP_ID)")
	pf.BoolVarP(&a.debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(a.newCreateUserCmd())
	rootCmd.AddCommand(a.newCreateTripCmd())
	rootCmd.AddCommand(a.newListCmd())
	rootCmd.AddCommand(a.newStatusCmd())
	rootCmd.AddCommand(a.newScanCmd())
	rootCmd.AddCommand(a.newMutateCmd(true))
	rootCmd.AddCommand(a.newMutateCmd(false))
	rootCmd.AddCommand(a.newTripItemsCmd())
	rootCmd.AddCommand(a.newAdviseCmd())
	rootCmd.AddCommand(a.newTUICmd())

	return rootCmd
}

// load resolves configuration. Flags win over the environment.
func (a *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api-url") {
		cfg.APIURL = a.apiURL
	}
	if cmd.Flags().Changed("user-id") {
		cfg.UserID = a.userID
	}
	if cmd.Flags().Changed("trip-id") {
		cfg.TripID = a.tripID
	}
	if a.debug {
		cfg.Debug = true
		_ = os.Setenv("PACKMATE_DEBUG", "true")
	}
	cfg.Init()
	a.cfg = cfg
	return nil
}

func (a *cli) newClient() (*client.Client, error) {
	return client.New(a.cfg.APIURL, client.WithHTTPTimeout(a.cfg.HTTPTimeout))
}

// requireTrip returns the configured trip id or a usage error.
func (a *cli) requireTrip() (string, error) {
	if a.cfg.TripID == "" {
		return "", errors.New("no trip selected: pass --trip-id or set PACKMATE_TRIP_ID")
	}
	return a.cfg.TripID, nil
}

// newSession builds the Identity Context for this invocation.
func (a *cli) newSession() *session.State {
	sess := session.New()
	sess.SetUserID(a.cfg.UserID)
	sess.SetTripID(a.cfg.TripID)
	return sess
}

func (a *cli) reconciler(c *client.Client) *packing.Reconciler {
	return packing.NewReconciler(c, a.newSession())
}

func (a *cli) limits() (float64, float64) {
	return a.cfg.WeightLimitKg, a.cfg.VolumeLimitCm3
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), requestTimeout)
}

// friendly rewrites API errors into the messages users see.
func friendly(err error, detecting bool) error {
	switch {
	case err == nil:
		return nil
	case client.IsNotFound(err):
		return fmt.Errorf("trip not found: %w", err)
	case detecting && client.StatusCode(err) == http.StatusInternalServerError:
		return fmt.Errorf("object not recognized: %w", err)
	}
	return err
}
