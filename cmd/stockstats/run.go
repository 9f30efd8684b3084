package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rickgao/stockstats/internal/pipeline"
	"github.com/rickgao/stockstats/internal/trigger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the job once with the sentinel command",
	Long: `Run the job once, as if a trigger event had been delivered.

By default the event carries the configured sentinel command, so the
pipeline runs. Pass --command to send a different payload.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, cleanup, err := pipeline.Build(ctx, cfg, logger, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer cleanup()

		command, _ := cmd.Flags().GetString("command")
		if command == "" {
			command = cfg.Trigger.Command
		}

		h := trigger.NewHandler(cfg.Trigger.Command, p, logger)
		return h.Handle(ctx, trigger.Event{Data: command})
	},
}

func init() {
	runCmd.Flags().String("command", "", "event payload (default: the configured sentinel)")
}
