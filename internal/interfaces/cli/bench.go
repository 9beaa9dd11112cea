package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantnexusai/faves-v3-benchmark/internal/application/benchmark"
)

func newBenchCmd(opts *RootOptions) *cobra.Command {
	var (
		groundTruth string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Evaluate detection accuracy against a labelled compound set",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			rows, err := benchmark.LoadGroundTruth(cmd.Context(), groundTruth)
			if err != nil {
				return err
			}

			svc, cleanup, err := buildCoreService(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()
			defer svc.Close()

			report, err := benchmark.NewEvaluator(svc, logger).Run(cmd.Context(), rows)
			if err != nil {
				return err
			}

			if output != "" {
				if err := benchmark.WriteMarkdown(report, output); err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "report written to %s\n", output)
			} else {
				fmt.Fprint(os.Stdout, benchmark.Markdown(report))
			}

			m := report.Metrics
			fmt.Fprintf(os.Stderr, "sensitivity=%.1f%% specificity=%.1f%% f1=%.3f accuracy=%.1f%%\n",
				m.Sensitivity*100, m.Specificity*100, m.F1Score, m.Accuracy*100)
			return nil
		},
	}

	cmd.Flags().StringVar(&groundTruth, "ground-truth", "", "labelled compound CSV (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the markdown report to this path")
	_ = cmd.MarkFlagRequired("ground-truth")
	return cmd
}
