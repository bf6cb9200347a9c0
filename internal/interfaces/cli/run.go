package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

// NewRunCmd creates the run command: collect, render and publish one report.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Collect, render and publish today's report",
		Long: `Run one monitor pass: search RECAP, resolve news lawsuits to dockets,
extract complaint text, render the report, then update the daily GitHub issue
and post a Slack summary.  Optional sinks (run lock, report archive, report
events, metrics push) are enabled by their configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runMonitor(cmd, cliCtx)
		},
	}
}

func runMonitor(cmd *cobra.Command, cliCtx *CLIContext) error {
	cfg, logger := cliCtx.Config, cliCtx.Logger
	defer func() { _ = logger.Sync() }()

	if err := cfg.ValidatePublish(); err != nil {
		return errors.Wrap(err, errors.ErrCodeMissingConfig, "publish settings incomplete")
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	// Step 1: wire dependencies.
	metrics, err := newRunMetrics(logger)
	if err != nil {
		return err
	}
	pipeline, err := newPipeline(cfg, logger, metrics)
	if err != nil {
		return wrapRunError(err, "pipeline setup failed")
	}
	publisher, cl, err := newPublisher(cfg, logger, metrics)
	if err != nil {
		return wrapRunError(err, "publisher setup failed")
	}
	defer cl.closeAll(logger)

	// Step 2: collect and render.
	report, err := pipeline.Run(ctx)
	if err != nil {
		metrics.RecordRunEnd(false)
		pushMetrics(ctx, cfg, metrics, logger)
		return wrapRunError(err, "report collection failed")
	}

	// Step 3: publish.
	out, err := publisher.Publish(ctx, report)
	metrics.RecordRunEnd(err == nil)
	pushMetrics(ctx, cfg, metrics, logger)
	if err != nil {
		return wrapRunError(err, "report publish failed")
	}

	logger.Info("run finished",
		logging.Int("issue", out.Issue.Number),
		logging.Bool("base_snapshot", out.BaseSnapshot),
		logging.Int("skipped", out.Skipped),
		logging.Int("news_lawsuits", report.Counts.NewsLawsuits),
		logging.Int("dockets", report.Counts.Dockets),
		logging.Int("documents", report.Counts.Documents),
	)
	PrintSuccess(cmd, fmt.Sprintf("published to %s (skipped %d lines)", out.IssueURL, out.Skipped))
	return nil
}

//Personal.AI order the ending
