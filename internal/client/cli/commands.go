package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/schoolsync/internal/config"
	"github.com/iudanet/schoolsync/internal/models"
)

const isoDate = "2006-01-02"

func newWriteCommand(cc *commandContext) *cobra.Command {
	var conflictKey string
	var offline bool

	cmd := &cobra.Command{
		Use:   "write <table> <insert|update|upsert|delete> <json>",
		Short: "Write a raw row mutation to any table",
		Example: `  schoolsync write attendance upsert '{"id":"a1","student_id":"s1","class_id":"7b","date":"2026-09-01","status":"present"}'
  schoolsync write students delete '{"id":"s1"}'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				c.forceOffline = offline
				return c.runWrite(ctx, WriteArgs{
					Table:       args[0],
					Operation:   args[1],
					Payload:     args[2],
					ConflictKey: conflictKey,
				})
			})
		},
	}
	cmd.Flags().StringVar(&conflictKey, "conflict-key", "", "Column used for upsert conflicts and update/delete filters (default id)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Queue the write without contacting the server")
	return cmd
}

func newAttendanceCommand(cc *commandContext) *cobra.Command {
	rec := &models.AttendanceRecord{}
	var offline bool

	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Mark attendance of a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				c.forceOffline = offline
				if rec.Date == "" {
					rec.Date = c.clock().Format(isoDate)
				}
				return c.runAttendance(ctx, rec)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&rec.ID, "id", "", "Mark id (generated when empty)")
	flags.StringVar(&rec.StudentID, "student", "", "Student id")
	flags.StringVar(&rec.ClassID, "class", "", "Class id")
	flags.StringVar(&rec.Date, "date", "", "Day as YYYY-MM-DD (default today)")
	flags.StringVar(&rec.Status, "status", "present", "present, absent, late or excused")
	flags.StringVar(&rec.Note, "note", "", "Optional note")
	flags.BoolVar(&offline, "offline", false, "Queue the write without contacting the server")
	_ = cmd.MarkFlagRequired("student")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func newGradeCommand(cc *commandContext) *cobra.Command {
	grade := &models.Grade{}
	var offline bool

	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Record a grade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				c.forceOffline = offline
				return c.runGrade(ctx, grade)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&grade.ID, "id", "", "Grade id (generated when empty)")
	flags.StringVar(&grade.StudentID, "student", "", "Student id")
	flags.StringVar(&grade.Subject, "subject", "", "Subject")
	flags.StringVar(&grade.Term, "term", "", "Term, e.g. 2026-T1")
	flags.Float64Var(&grade.Score, "score", 0, "Score")
	flags.Float64Var(&grade.MaxScore, "max-score", 100, "Maximum score")
	flags.StringVar(&grade.Comment, "comment", "", "Optional comment")
	flags.BoolVar(&offline, "offline", false, "Queue the write without contacting the server")
	_ = cmd.MarkFlagRequired("student")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("term")
	_ = cmd.MarkFlagRequired("score")
	return cmd
}

func newStudentCommand(cc *commandContext) *cobra.Command {
	student := &models.StudentRecord{}
	var offline bool

	cmd := &cobra.Command{
		Use:   "student",
		Short: "Create or update a student record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				c.forceOffline = offline
				return c.runStudent(ctx, student)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&student.ID, "id", "", "Student id (generated when empty)")
	flags.StringVar(&student.FirstName, "first-name", "", "First name")
	flags.StringVar(&student.LastName, "last-name", "", "Last name")
	flags.StringVar(&student.ClassID, "class", "", "Class id")
	flags.StringVar(&student.GuardianEmail, "guardian-email", "", "Guardian e-mail")
	flags.BoolVar(&offline, "offline", false, "Queue the write without contacting the server")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}

func newMessageCommand(cc *commandContext) *cobra.Command {
	msg := &models.ParentMessage{}
	var offline bool

	cmd := &cobra.Command{
		Use:   "message",
		Short: "Send a message to a student's guardian",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				c.forceOffline = offline
				return c.runMessage(ctx, msg)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&msg.StudentID, "student", "", "Student id")
	flags.StringVar(&msg.GuardianEmail, "to", "", "Guardian e-mail")
	flags.StringVar(&msg.Subject, "subject", "", "Subject line")
	flags.StringVar(&msg.Body, "body", "", "Message text")
	flags.BoolVar(&offline, "offline", false, "Queue the write without contacting the server")
	_ = cmd.MarkFlagRequired("student")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func newQueueCommand(cc *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the offline queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				return c.runQueueList(ctx, false)
			})
		},
	}

	var failedOnly bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List queued mutations in send order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				return c.runQueueList(ctx, failedOnly)
			})
		},
	}
	listCmd.Flags().BoolVar(&failedOnly, "failed", false, "Only failed mutations")

	failedCmd := &cobra.Command{
		Use:   "failed",
		Short: "List failed mutations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				return c.runQueueList(ctx, true)
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one queued mutation with its payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				return c.runQueueShow(ctx, args[0])
			})
		},
	}

	queueCmd.AddCommand(listCmd, failedCmd, showCmd)
	return queueCmd
}

func newSyncCommand(cc *commandContext) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replay queued mutations to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				return c.runSync(ctx, force)
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replay even when the health probe fails")
	return cmd
}

func newRetryCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Replay pending and failed mutations again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				return c.runRetry(ctx)
			})
		},
	}
}

func newDiscardCommand(cc *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "discard",
		Short: "Drop every failed mutation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				return c.runDiscard(ctx, yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newStatusCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connectivity, queue counts and token state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				return c.runStatus(ctx)
			})
		},
	}
}

func newWatchCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stay running and sync whenever the server becomes reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				return c.runWatch(ctx)
			})
		},
	}
}

func newTokenCommand(cc *commandContext) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the access token",
	}

	setCmd := &cobra.Command{
		Use:   "set [token]",
		Short: "Store an access token (prompted when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			}
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				return c.runTokenSet(ctx, token)
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCli(cmd, func(ctx context.Context, c *Cli) error {
				return c.runTokenClear(ctx)
			})
		},
	}

	tokenCmd.AddCommand(setCmd, clearCmd)
	return tokenCmd
}

func newConfigCommand(cc *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	var targetPath string
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := config.WriteSample(targetPath)
			if err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			cc.io.Printf("Wrote sample configuration to %s\n", written)
			cc.io.Println("Set the server URL there and run 'schoolsync token set'.")
			return nil
		},
	}
	initCmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}
			cc.io.Println("✓ Configuration is valid")
			cc.io.Printf("Server:   %s\n", cfg.Client.ServerURL)
			cc.io.Printf("Database: %s\n", cfg.Client.DBPath)
			return nil
		},
	}

	configCmd.AddCommand(initCmd, validateCmd)
	return configCmd
}

func newVersionCommand(cc *commandContext, info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc.io.Println("schoolsync client")
			cc.io.Printf("Version:    %s\n", info.Version)
			cc.io.Printf("Build Date: %s\n", info.BuildDate)
			cc.io.Printf("Git Commit: %s\n", info.GitCommit)
			return nil
		},
	}
}
