package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/random-duties/cmd/cli/commands"
	"github.com/jakechorley/random-duties/internal/config"
	"github.com/jakechorley/random-duties/pkg/availability"
	"github.com/jakechorley/random-duties/pkg/clients/gmailclient"
	"github.com/jakechorley/random-duties/pkg/clients/sheetsclient"
	"github.com/jakechorley/random-duties/pkg/db"
	"github.com/jakechorley/random-duties/pkg/postgres"
	"github.com/jakechorley/random-duties/pkg/utils"
	"github.com/jakechorley/random-duties/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{}
	closers []func()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Random duties CLI - assign weekly duties from an availability sheet",
		Long: `A CLI tool that randomly assigns employees to weekly duty days from an
availability sheet, keeping a rolling history of who served recently.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdown()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.GenerateDutiesCmd(app))
	rootCmd.AddCommand(commands.RecordDutiesCmd(app))
	rootCmd.AddCommand(commands.ViewHistoryCmd(app))
	rootCmd.AddCommand(commands.ListAvailabilityCmd(app))

	if err := rootCmd.Execute(); err != nil {
		shutdown()
		os.Exit(1)
	}
}

// initApp sets up logger, config, history store and the availability source
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	closers = append(closers, func() { app.Logger.Sync() })

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.Int("duty_size", app.Cfg.DutySize),
		zap.Int("week_days", len(app.Cfg.WeekDays)),
		zap.String("store_driver", app.Cfg.Store.Driver))

	app.Store, err = openStore(app.Ctx, app.Cfg, app.Logger)
	if err != nil {
		return err
	}

	var auth *utils.Authenticator
	if app.Cfg.UsesGoogle() {
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return fmt.Errorf("failed to load OAuth client config: %w", err)
		}
		auth, err = utils.NewAuthenticator(oauthCfg, env, utils.RequiredScopes(app.Cfg), app.Logger)
		if err != nil {
			return fmt.Errorf("failed to set up OAuth: %w", err)
		}
	}

	if app.Cfg.Availability.SheetID != "" {
		app.Logger.Info("Initializing sheets client")
		sheetsClient, err := sheetsclient.NewClient(app.Ctx, auth)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		app.Source = sheetsclient.NewAvailabilityTab(sheetsClient, app.Cfg.Availability.SheetID, app.Cfg.Availability.SheetTab)
	} else {
		app.Source = availability.NewCSVSource(app.Cfg.Availability.CSVPath)
	}
	app.Logger.Debug("Availability source ready", zap.String("source", app.Source.Describe()))

	if len(app.Cfg.Notify.Recipients) > 0 {
		app.Logger.Info("Initializing gmail client")
		gmailClient, err := gmailclient.NewClient(app.Ctx, auth)
		if err != nil {
			return fmt.Errorf("failed to create gmail client: %w", err)
		}
		app.Notifier = gmailClient
	}

	return nil
}

// openStore connects the configured history store
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.HistoryStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		logger.Info("Connecting to database")
		pg, err := postgres.NewDB(ctx, cfg.Store.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		closers = append(closers, pg.Close)

		if err := pg.RunMigrations(ctx); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("Database initialized successfully")
		return pg, nil

	default:
		store, err := db.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open history directory: %w", err)
		}
		logger.Debug("Using file history store", zap.String("dir", cfg.Store.Dir))
		return store, nil
	}
}

func shutdown() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}
