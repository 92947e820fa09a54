package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shinyyama/checkin-points/internal/auth"
	"github.com/shinyyama/checkin-points/internal/config"
	"github.com/shinyyama/checkin-points/internal/db"
	"github.com/shinyyama/checkin-points/internal/logging"
	"github.com/shinyyama/checkin-points/internal/repository"
	"github.com/shinyyama/checkin-points/internal/seed"
	"github.com/shinyyama/checkin-points/internal/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	store repository.Store
}

func main() {
	cmd, opts := newRootCommand()
	err := cmd.ExecuteContext(context.Background())
	if opts.store != nil {
		if cerr := opts.store.Close(); cerr != nil {
			log.Errorf("store close: %v", cerr)
		}
	}
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func newRootCommand() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Load, reset or export check-in data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logging.Setup(cfg.LogLevel, cfg.LogFormat)
			opts.store, err = db.OpenStore(cfg)
			return err
		},
	}
	cmd.AddCommand(newSampleCommand(opts))
	cmd.AddCommand(newFixtureCommand(opts))
	cmd.AddCommand(newResetCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	return cmd, opts
}

func newSampleCommand(opts *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Insert the demo teams, members and events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return apply(cmd, opts.store, seed.Sample(), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "seed even if the store already has data")
	return cmd
}

func newFixtureCommand(opts *rootOptions) *cobra.Command {
	var (
		force bool
		file  string
	)
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Insert teams, members and events from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			fx, err := seed.ParseFixture(f)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			return apply(cmd, opts.store, fx, force)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "fixture file")
	cmd.Flags().BoolVar(&force, "force", false, "seed even if the store already has data")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func apply(cmd *cobra.Command, store repository.Store, fx *seed.Fixture, force bool) error {
	sum, err := seed.Apply(cmd.Context(), store, fx, force)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d teams, %d members, %d events\n", sum.Teams, sum.Members, sum.Events)
	return nil
}

func newResetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete all members, teams, events and check-in records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := auth.WithIdentity(cmd.Context(), auth.Identity{Username: "seed", Role: auth.RoleAdmin})
			res, err := service.NewLedgerService(opts.store).ResetSystem(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d members, %d teams, %d events, %d records\n",
				res.MembersDeleted, res.TeamsDeleted, res.EventsDeleted, res.RecordsDeleted)
			return nil
		},
	}
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the store contents as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := seed.Export(cmd.Context(), opts.store)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		},
	}
}
