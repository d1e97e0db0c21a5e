package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tripwise/packmate/client"
	"github.com/tripwise/packmate/internal/packing"
	"github.com/tripwise/packmate/internal/tui"
)

func (a *cli) newCreateUserCmd() *cobra.Command {
	var name, email, password, gender string
	var age int

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			req := client.CreateUserRequest{Name: name, Email: email, Password: password, Gender: gender}
			if cmd.Flags().Changed("age") {
				req.Age = &age
			}

			start := time.Now()
			user, err := c.CreateUser(ctx, req)
			if err != nil {
				log.Error().Err(err).Str("email", email).Dur("elapsed", time.Since(start)).Msg("create user failed")
				return err
			}
			log.Debug().Str("user_id", user.UserID).Dur("elapsed", time.Since(start)).Msg("create user completed")

			fmt.Fprintf(cmd.OutOrStdout(), "User created: %s (%s)\n", user.UserID, user.Email)
			fmt.Fprintf(cmd.OutOrStdout(), "export PACKMATE_USER_ID=%s\n", user.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "User name (required)")
	cmd.Flags().StringVar(&email, "email", "", "User email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (optional)")
	cmd.Flags().IntVar(&age, "age", 0, "Age (optional)")
	cmd.Flags().StringVar(&gender, "gender", "", "Gender (optional)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (a *cli) newCreateTripCmd() *cobra.Command {
	var destination, activities string
	var days int
	var laundry bool

	cmd := &cobra.Command{
		Use:   "create-trip",
		Short: "Create a trip for the configured user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			c, err := a.newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			trip, err := c.CreateTrip(ctx, client.CreateTripRequest{
				Destination:  destination,
				DurationDays: days,
				DoingLaundry: laundry,
				Activities:   activities,
				UserID:       a.cfg.UserID,
			})
			if err != nil {
				return err
			}
			log.Debug().Str("trip_id", trip.TripID).Str("user_id", a.cfg.UserID).Msg("create trip completed")

			fmt.Fprintf(cmd.OutOrStdout(), "Trip created: %s (%s, %d days)\n", trip.TripID, trip.Destination, trip.DurationDays)
			fmt.Fprintf(cmd.OutOrStdout(), "export PACKMATE_TRIP_ID=%s\n", trip.TripID)
			return nil
		},
	}

	cmd.Flags().StringVar(&destination, "destination", "", "Destination (required)")
	cmd.Flags().IntVar(&days, "days", 0, "Duration in days (required)")
	cmd.Flags().BoolVar(&laundry, "laundry", false, "Doing laundry during the trip")
	cmd.Flags().StringVar(&activities, "activities", "", "Planned activities, free text")
	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}

func (a *cli) newListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the packing list of the trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireTrip(); err != nil {
				return err
			}
			c, err := a.newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			rec := a.reconciler(c)
			if err := rec.FetchRecommendations(ctx); err != nil {
				return friendly(err, false)
			}
			v := rec.Snapshot()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), v.Items)
			}
			printList(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")
	return cmd
}

func (a *cli) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show bag weight and volume against the limits",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireTrip(); err != nil {
				return err
			}
			c, err := a.newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			rec := a.reconciler(c)
			if err := rec.FetchTripInfo(ctx); err != nil {
				return friendly(err, false)
			}
			printStatus(cmd.OutOrStdout(), rec.Snapshot().Info, a.cfg.WeightLimitKg, a.cfg.VolumeLimitCm3)
			return nil
		},
	}
}

func (a *cli) newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <image>",
		Short: "Detect the item in a photo and add it to the packing list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireTrip(); err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			c, err := a.newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			rec := a.reconciler(c)
			item, err := rec.Scan(ctx, filepath.Base(args[0]), f)
			if item == nil {
				return friendly(err, true)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Detected: %s (%s)\n", item.ItemName, item.ItemID)
			for _, cv := range item.CVResults {
				fmt.Fprintf(out, "  %s\n", packing.DetectionCaption(cv))
			}
			it := packing.Confirmed(*item)
			for _, line := range packing.DetailLines(it) {
				fmt.Fprintf(out, "  %s\n", line)
			}
			if label, ok := packing.RecommendationLabel(it); ok {
				fmt.Fprintf(out, "Recommendation: %s\n", label)
			}
			if err != nil {
				return err
			}
			if rec.Snapshot().Checked[item.ItemID] {
				fmt.Fprintln(out, "Packed.")
			}
			return nil
		},
	}
}

// newMutateCmd builds "pack" or "unpack".
func (a *cli) newMutateCmd(pack bool) *cobra.Command {
	use, short := "unpack", "Take an item out of the bag"
	if pack {
		use, short = "pack", "Put a scanned item in the bag"
	}
	return &cobra.Command{
		Use:   use + " <item-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireTrip(); err != nil {
				return err
			}
			c, err := a.newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			rec := a.reconciler(c)
			mutate := rec.Unpack
			if pack {
				mutate = rec.Pack
			}
			if err := mutate(ctx, args[0]); err != nil {
				return friendly(err, false)
			}
			if err := rec.AwaitRefresh(ctx); err != nil {
				log.Warn().Err(err).Msg("bag totals not refreshed")
			}

			verb := "Unpacked"
			if pack {
				verb = "Packed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, args[0])
			printStatus(cmd.OutOrStdout(), rec.Snapshot().Info, a.cfg.WeightLimitKg, a.cfg.VolumeLimitCm3)
			return nil
		},
	}
}

func (a *cli) newTripItemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trip-items",
		Short: "List stored items of the trip as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID, err := a.requireTrip()
			if err != nil {
				return err
			}
			c, err := a.newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			items, err := c.GetTripItems(ctx, tripID)
			if err != nil {
				return friendly(err, false)
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}
}

func (a *cli) newAdviseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advise <item-id>",
		Short: "Ask whether to pack, leave or swap an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID, err := a.requireTrip()
			if err != nil {
				return err
			}
			c, err := a.newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			d, err := c.RemovalRecommendation(ctx, tripID, args[0])
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("item %s not found in trip %s: %w", args[0], tripID, err)
				}
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recommendation: %s\n", d.Status)
			if d.Reason != "" {
				fmt.Fprintf(out, "Reason: %s\n", d.Reason)
			}
			for _, s := range d.SwapCandidates {
				fmt.Fprintf(out, "  swap for %s", s.ItemName)
				if s.WeightKg != nil {
					fmt.Fprintf(out, " (%.2f kg)", *s.WeightKg)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func (a *cli) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive packing list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireTrip(); err != nil {
				return err
			}
			c, err := a.newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			weight, volume := a.limits()
			return tui.Run(a.reconciler(c), tui.Limits{WeightKg: weight, VolumeCm3: volume})
		},
	}
}

func printList(w io.Writer, v packing.View) {
	if len(v.Items) == 0 {
		fmt.Fprintln(w, "Nothing recommended yet.")
		return
	}
	for i, it := range v.Items {
		box := "[ ]"
		if v.IsChecked(i) {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, it.Name())
		if id := it.ID(); id != "" {
			line += "  " + id
		}
		if label, ok := packing.RecommendationLabel(it); ok {
			line += "  " + string(label)
		}
		fmt.Fprintln(w, line)
	}
}

func printStatus(w io.Writer, info *client.Trip, weightLimit, volumeLimit float64) {
	var weight, volume float64
	if info != nil {
		if info.Destination != "" {
			fmt.Fprintf(w, "Trip to %s\n", info.Destination)
		}
		weight, volume = info.TotalItemsWeight, info.TotalItemsVolume
	}
	wp := packing.WeightPill(weight, weightLimit)
	vp := packing.VolumePill(volume, volumeLimit)
	fmt.Fprintf(w, "%s [%s]\n%s [%s]\n", wp.Text, wp.Level, vp.Text, vp.Level)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
