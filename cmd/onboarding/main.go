package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"onboarding-records/internal/attachment"
	"onboarding-records/internal/config"
	"onboarding-records/internal/db"
	"onboarding-records/internal/httpapi"
	"onboarding-records/internal/logging"
	"onboarding-records/internal/notify"
	"onboarding-records/internal/session"
	"onboarding-records/internal/store"
)

func main() {
	root := &cobra.Command{
		Use:           "onboarding",
		Short:         "Employee onboarding records service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), hashPasswordCmd(), attachCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	// -- Configs preload --
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// -- Logger --
	logger := logging.New(cfg.LogLevel, os.Stdout)

	// -- Connect to DB --
	database, err := db.Connect(cfg, logger)
	if err != nil {
		return fmt.Errorf("database connection error: %w", err)
	}
	defer db.Close(database)

	records := store.New(database)
	auth := session.NewAuthenticator(
		session.NewCredentialVerifier(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.EmployeePasswordHash),
		session.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		session.NewRegistry(),
	)

	handler := httpapi.NewHandler(httpapi.Dependencies{
		Employees:   records,
		Attachments: records,
		Auth:        auth,
		Uploads:     attachment.NewTransfer(cfg.UploadDir, records, logger),
		Notifier:    notify.New(cfg.Mail, logger),
		Settings:    config.NewSettingsFile(cfg.SettingsFile),
		Logger:      logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	// -- Startup --
	logger.Info().Str("port", cfg.Port).Str("driver", cfg.DBDriver).Msg("starting server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH or EMPLOYEE_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := session.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func attachCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "attach <file>",
		Short: "Copy a local document into the uploads directory for an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			logger := logging.New(cfg.LogLevel, os.Stderr)

			database, err := db.Connect(cfg, logger)
			if err != nil {
				return fmt.Errorf("database connection error: %w", err)
			}
			defer db.Close(database)

			return attachFile(cmd, attachment.NewTransfer(cfg.UploadDir, store.New(database), logger), username, args[0], logger)
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "username the document belongs to")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func attachFile(cmd *cobra.Command, transfer *attachment.Transfer, username, path string, logger zerolog.Logger) error {
	result, err := transfer.CopyFile(cmd.Context(), username, path)
	if errors.Is(err, attachment.ErrNotRecorded) {
		logger.Warn().Err(err).Str("path", result.Path).Msg("file copied but failed to save to database")
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "File uploaded successfully: %s\n", result.Path)
	return nil
}
