package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	appcompliance "github.com/quantnexusai/faves-v3-benchmark/internal/application/compliance"
	domain "github.com/quantnexusai/faves-v3-benchmark/internal/domain/compliance"
)

func newClassifyCmd(opts *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify <smiles> [<smiles>...]",
		Short: "Classify one or more SMILES structures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			svc, cleanup, err := buildCoreService(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()
			defer svc.Close()

			for _, smiles := range args {
				result, err := svc.Classify(cmd.Context(), &appcompliance.ClassifyInput{SMILES: smiles})
				if err != nil {
					return err
				}
				if asJSON {
					data, err := json.MarshalIndent(result, "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(os.Stdout, string(data))
					continue
				}
				printResult(result)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit full results as JSON")
	return cmd
}

func printResult(r *domain.Result) {
	fmt.Printf("%s\n", r.Input)
	fmt.Printf("  canonical: %s\n", r.Canonical)
	fmt.Printf("  status:    %s (flags=%d)\n", r.Status, r.FlagCount)
	if r.MatchedName != "" {
		fmt.Printf("  matched:   %s", r.MatchedName)
		if r.Schedule != "" {
			fmt.Printf(" (schedule %s)", r.Schedule)
		}
		fmt.Println()
	}
	if len(r.ScaffoldHits) > 0 {
		ids := make([]string, 0, len(r.ScaffoldHits))
		for _, hit := range r.ScaffoldHits {
			ids = append(ids, fmt.Sprintf("%s/%s", hit.PatternID, hit.Class))
		}
		fmt.Printf("  scaffolds: %s\n", strings.Join(ids, ", "))
	}
	for _, w := range r.Warnings {
		fmt.Printf("  warning:   %s\n", w)
	}
}
