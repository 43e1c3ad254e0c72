package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/iudanet/schoolsync/internal/config"
	"github.com/iudanet/schoolsync/internal/logging"
	"github.com/iudanet/schoolsync/internal/server/auth"
	"github.com/iudanet/schoolsync/internal/server/storage/sqlite"
)

// BuildInfo is set via ldflags in main.
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// NewRootCommand собирает команды schoolsync-server
func NewRootCommand(info BuildInfo) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "schoolsync-server",
		Short:         "Local stand-in for the school data service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration TOML file")

	loadConfig := func() (*config.Config, error) {
		cfg, _, _, err := config.Load(strings.TrimSpace(configPath))
		if err != nil {
			return nil, err
		}
		if err := cfg.ValidateServer(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	root.AddCommand(
		newServeCommand(loadConfig, info),
		newTokenCommand(loadConfig),
		newVersionCommand(info),
	)

	return root
}

func newServeCommand(loadConfig func() (*config.Config, error), info BuildInfo) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /rest/v1 table resources and /health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if err := os.MkdirAll(filepath.Dir(cfg.Server.DBPath), 0o755); err != nil {
				return fmt.Errorf("create database directory: %w", err)
			}
			db, err := sqlite.New(ctx, cfg.Server.DBPath)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					logger.Error("Failed to close database", "error", err)
				}
			}()

			logger.Info("Database ready", "path", cfg.Server.DBPath)

			tokens := auth.NewService(cfg.Server.JWTSecret, cfg.TokenTTL())
			return New(cfg, logger, db, tokens, info.Version).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides server.bind)")

	return cmd
}

func newTokenCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		Long: "Mint an access token signed with server.jwt_secret.\n" +
			"The token is printed alone on stdout, so it can be piped into `schoolsync token set`.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			lifetime := cfg.TokenTTL()
			if ttl > 0 {
				lifetime = ttl
			}

			token, expiresAt, err := auth.NewService(cfg.Server.JWTSecret, lifetime).Issue(subject, role)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "Token for %s expires %s (%s)\n",
				subject, humanize.Time(expiresAt), expiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Token subject, e.g. a teacher id (required)")
	cmd.Flags().StringVar(&role, "role", "teacher", "Role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to server.token_ttl_hours)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "schoolsync-server\n")
			fmt.Fprintf(out, "Version:    %s\n", info.Version)
			fmt.Fprintf(out, "Build Date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", info.GitCommit)
		},
	}
}
