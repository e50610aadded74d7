package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/cmd/cli/commands"
	"github.com/mgrosjean/presentoir/internal/config"
	"github.com/mgrosjean/presentoir/pkg/clients/gmailclient"
	"github.com/mgrosjean/presentoir/pkg/core/eligibility"
	"github.com/mgrosjean/presentoir/pkg/core/services"
	"github.com/mgrosjean/presentoir/pkg/notify"
	"github.com/mgrosjean/presentoir/pkg/postgres"
	"github.com/mgrosjean/presentoir/pkg/utils/logging"
)

var (
	env        string
	configPath string
	verbose    bool
	app        *commands.AppContext
	database   *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "presentoir",
		Short: "Presentoir CLI - Manage publication display slots and volunteer registrations",
		Long:  `A CLI tool for managing recurring distribution slots, volunteer registrations, approvals and activity reports.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if database != nil {
				database.Close()
			}
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "prod", "Environment used for OAuth token storage")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: presentoir_config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")

	app = &commands.AppContext{}

	rootCmd.AddCommand(commands.ListSlotsCmd(app))
	rootCmd.AddCommand(commands.CreateSlotCmd(app))
	rootCmd.AddCommand(commands.UpdateSlotCmd(app))
	rootCmd.AddCommand(commands.DeactivateSlotCmd(app))
	rootCmd.AddCommand(commands.GenerateSlotsCmd(app))
	rootCmd.AddCommand(commands.AutoGenerateCmd(app))
	rootCmd.AddCommand(commands.RegisterCmd(app))
	rootCmd.AddCommand(commands.WithdrawCmd(app))
	rootCmd.AddCommand(commands.ApproveCmd(app))
	rootCmd.AddCommand(commands.RejectCmd(app))
	rootCmd.AddCommand(commands.ProvisionalCmd(app))
	rootCmd.AddCommand(commands.PendingCmd(app))
	rootCmd.AddCommand(commands.SubmitReportCmd(app))
	rootCmd.AddCommand(commands.ApproveReportCmd(app))
	rootCmd.AddCommand(commands.PublishReportCmd(app))
	rootCmd.AddCommand(commands.ListPublicReportsCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and the notification dispatcher
func initApp() error {
	var err error
	app.Ctx = context.Background()
	app.Clock = services.SystemClock{}

	app.Logger, err = logging.InitLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Loading configuration")
	if configPath != "" {
		app.Cfg, err = config.LoadFromPath(configPath)
	} else {
		app.Cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Logger.Debug("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Database = database

	if err := database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app.Evaluator = eligibility.NewEvaluator(database, eligibility.Limits{
		MonthlyLimit:      app.Cfg.MonthlyLimit,
		PriorityHighMax:   app.Cfg.PriorityHighMax,
		PriorityMediumMax: app.Cfg.PriorityMediumMax,
	})

	var emailSender notify.EmailSender
	if app.Cfg.EmailEnabled {
		app.Logger.Debug("Initializing gmail client")
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return fmt.Errorf("failed to load OAuth client config: %w", err)
		}

		gmailClient, err := gmailclient.NewClient(app.Ctx, oauthCfg, app.Cfg.GmailSender, env)
		if err != nil {
			return fmt.Errorf("failed to create gmail client: %w", err)
		}
		emailSender = gmailClient
	}

	app.Notifier = notify.NewDispatcher(database, emailSender, app.Clock, app.Logger)

	app.Logger.Debug("Application initialized", zap.String("environment", env))

	return nil
}
