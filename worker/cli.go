package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voxmesh/voxmesh/config"
	"github.com/voxmesh/voxmesh/logging"
)

// Run is the worker CLI entry. It wires the `dev` and `start` subcommands and
// blocks until the selected command completes.
func Run(opts Options) error {
	if opts.AgentName == "" {
		opts.AgentName = "voxmesh-agent"
	}

	var (
		configPath string
		room       string
	)

	root := &cobra.Command{
		Use:           opts.AgentName,
		Short:         fmt.Sprintf("%s voice agent worker", opts.AgentName),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (env vars override)")
	root.PersistentFlags().StringVar(&room, "room", "", "platform room to join")

	root.AddCommand(
		runCmd(&opts, &configPath, &room, "dev",
			"Run in development mode with verbose text logs", logging.LogLevelDebug, "text"),
		runCmd(&opts, &configPath, &room, "start",
			"Run in production mode with JSON logs", logging.LogLevelInfo, "json"),
	)

	return root.Execute()
}

func runCmd(opts *Options, configPath, room *string, use, short string, level logging.LogLevel, format string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Logging.Format == "" {
				cfg.Logging.Format = format
			}

			logger := logging.NewSlogLogger(level, cfg.Logging.Format, use == "dev").
				WithComponent("worker")

			if opts.Prewarm != nil {
				if err := opts.Prewarm(cfg); err != nil {
					return fmt.Errorf("prewarm failed: %w", err)
				}
				logger.Debug("worker.prewarm.done")
			}

			jobRoom := *room
			if jobRoom == "" {
				if use == "dev" {
					jobRoom = "dev-room"
				} else {
					return fmt.Errorf("--room is required")
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := RunJob(ctx, cfg, logger, jobRoom, *opts); err != nil {
				logger.Error("worker.job.failed", "error", err)
				return err
			}

			logger.Info("worker.job.done", "room", jobRoom)
			return nil
		},
	}
}
