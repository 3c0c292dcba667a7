package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"unintend-backend/internal/repository/sqlite"
	"unintend-backend/internal/seed"
	"unintend-backend/internal/storage"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo baseline into a migrated database",
		Long: `Insert the demo accounts, profiles and posts into the database.

Rows that already exist are left untouched, so the command can be run any
number of times. The schema must already be in place (see "unintend migrate").

Example:
  unintend seed
  unintend seed --db /var/lib/unintend/unintend.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, rootOpts)
		},
	}
}

func runSeed(cmd *cobra.Command, opts *RootOptions) error {
	ctx := cmd.Context()

	cfg, logger, err := setup(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	baseline, err := loadBaseline(cfg.Seed.Baseline)
	if err != nil {
		return err
	}
	// An explicit seed.password replaces the dataset default. Credentials
	// set on a single account still win.
	if cfg.Seed.Password != "" {
		baseline.Password = cfg.Seed.Password
	}

	store, err := sqlite.Open(cfg.Database.Path, sqlite.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	media, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("setup storage: %w", err)
	}

	seeder := seed.New(store, baseline,
		seed.WithLogger(logger),
		seed.WithPasswordCost(cfg.Seed.PasswordCost),
		seed.WithImageLocator(storage.NewLocator(media, cfg.Uploads.PublicPrefix)),
	)

	logger.Infof("seeding %s", store.Path())
	report, err := seeder.Run(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := seed.WriteLogins(out, report); err != nil {
		return err
	}
	if opts.Verbose {
		return seed.WriteSummary(out, report)
	}
	return nil
}

func loadBaseline(path string) (seed.Baseline, error) {
	if path == "" {
		return seed.DefaultBaseline()
	}
	return seed.LoadBaseline(path)
}
