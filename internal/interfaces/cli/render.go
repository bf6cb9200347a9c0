package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

var renderOutput string

// NewRenderCmd creates the render command, which prints the report without
// publishing it.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Collect and render the report without publishing it",
		Long: `Collect sources and render the Markdown report exactly as "run" would,
then write it to stdout or --output.  No issue, chat or optional sink is
touched, so GitHub and Slack settings are not required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runRender(cmd, cliCtx)
		},
	}
	cmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write the report to this file instead of stdout")
	return cmd
}

func runRender(cmd *cobra.Command, cliCtx *CLIContext) error {
	cfg, logger := cliCtx.Config, cliCtx.Logger
	defer func() { _ = logger.Sync() }()

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	metrics, err := newRunMetrics(logger)
	if err != nil {
		return err
	}
	pipeline, err := newPipeline(cfg, logger, metrics)
	if err != nil {
		return wrapRunError(err, "pipeline setup failed")
	}

	report, err := pipeline.Run(ctx)
	if err != nil {
		return wrapRunError(err, "report collection failed")
	}

	var w io.Writer = cmd.OutOrStdout()
	if renderOutput != "" {
		f, err := os.Create(renderOutput)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "cannot create output file").WithDetail(renderOutput)
		}
		defer f.Close()
		w = f
	}
	if _, err := fmt.Fprint(w, report.Markdown); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "write report failed")
	}

	// The diagnostic was still written; the exit status reports the failure.
	if report.RenderErr != nil {
		return report.RenderErr
	}
	return nil
}

//Personal.AI order the ending
