package cli

import (
	"context"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/iudanet/schoolsync/internal/client/iocli"
	"github.com/iudanet/schoolsync/internal/config"
	"github.com/iudanet/schoolsync/internal/logging"
)

// BuildInfo is set via ldflags in main.
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

type commandContext struct {
	io         iocli.IO
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(out iocli.IO, configFlag *string) *commandContext {
	return &commandContext{
		io:         out,
		configFlag: configFlag,
	}
}

func (cc *commandContext) ensureConfig() (*config.Config, error) {
	cc.configOnce.Do(func() {
		var path string
		if cc.configFlag != nil {
			path = strings.TrimSpace(*cc.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			cc.configErr = err
			return
		}
		cc.config = cfg
	})
	return cc.config, cc.configErr
}

// withCli opens the local queue for the duration of fn.
func (cc *commandContext) withCli(cmd *cobra.Command, fn func(ctx context.Context, c *Cli) error) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := Open(ctx, cfg, cc.io, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("Failed to close local queue", "error", err)
		}
	}()

	return fn(ctx, c)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// NewRootCommand builds the schoolsync command tree writing to out.
func NewRootCommand(out iocli.IO, info BuildInfo) *cobra.Command {
	var configFlag string

	cc := newCommandContext(out, &configFlag)

	rootCmd := &cobra.Command{
		Use:           "schoolsync",
		Short:         "School records client with an offline write queue",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := cc.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newWriteCommand(cc))
	rootCmd.AddCommand(newAttendanceCommand(cc))
	rootCmd.AddCommand(newGradeCommand(cc))
	rootCmd.AddCommand(newStudentCommand(cc))
	rootCmd.AddCommand(newMessageCommand(cc))
	rootCmd.AddCommand(newQueueCommand(cc))
	rootCmd.AddCommand(newSyncCommand(cc))
	rootCmd.AddCommand(newRetryCommand(cc))
	rootCmd.AddCommand(newDiscardCommand(cc))
	rootCmd.AddCommand(newStatusCommand(cc))
	rootCmd.AddCommand(newWatchCommand(cc))
	rootCmd.AddCommand(newTokenCommand(cc))
	rootCmd.AddCommand(newConfigCommand(cc))
	rootCmd.AddCommand(newVersionCommand(cc, info))

	return rootCmd
}
