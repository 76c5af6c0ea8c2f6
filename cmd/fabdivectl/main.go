// Command fabdivectl inspects onboarding routing state from the database.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/config"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/database"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/gdugdh24/fabdive-backend/internal/repository/postgres"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// stores is what the commands read from.
type stores struct {
	profiles    repository.ProfileRepository
	preferences repository.PreferencesRepository
	paths       config.OnboardingConfig
}

type openFunc func(ctx context.Context) (*stores, func(), error)

func main() {
	if err := newRootCmd(openPostgres).Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	envFile string
	timeout time.Duration
	verbose bool
)

func newRootCmd(open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "fabdivectl",
		Short:         "Inspect onboarding routing state",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to the .env configuration file")
	root.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newRouteCmd(open), newAuditCmd(open))
	return root
}

func openPostgres(ctx context.Context) (*stores, func(), error) {
	cfg, err := config.LoadFrom(viper.New(), envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(cfg.Server.Env, level)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewPostgresDB(ctx, &cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		_ = db.Close()
		log.Sync()
	}
	return &stores{
		profiles:    postgres.NewProfileRepository(db),
		preferences: postgres.NewPreferencesRepository(db),
		paths:       cfg.Onboarding,
	}, closeFn, nil
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}
