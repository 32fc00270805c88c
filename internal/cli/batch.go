package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/phishlens/internal/model"
	"github.com/ppiankov/phishlens/internal/pipeline"
	"github.com/ppiankov/phishlens/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	batchJSON    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Classify URLs from a file",
	Long: `Batch classifies every URL in a file (one per line; blank lines and
lines starting with '#' are skipped). Verdicts are printed in input order,
duplicates included.

Example:
  phishlens batch urls.txt
  phishlens batch urls.txt --concurrency 8 --json results.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		return runBatchFile(cmd, cfg, args[0], batchJSON, batchTimeout)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchJSON, "json", "", "write all verdicts as JSON to this path")
	batchCmd.Flags().Int("concurrency", 1, "number of concurrent workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "deadline for threat-intel lookups; later URLs are still classified")

	_ = viper.BindPFlag("concurrency.workers", batchCmd.Flags().Lookup("concurrency"))
}

func runBatchFile(cmd *cobra.Command, cfg *model.Config, file, jsonPath string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	workers := cfg.Concurrency.Workers
	if workers <= 0 {
		workers = 1
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
		fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
		fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", timeout)
		fmt.Fprintf(os.Stderr, "\n")
	}

	processor := worker.NewBatchProcessor(newAnalyzer(cfg), workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer()
	out := cmd.OutOrStdout()

	counts := map[model.Label]int{}
	failures := 0
	for _, result := range results {
		if result.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.URL, result.Error)
			continue
		}
		counts[result.Verdict.Label]++
		if err := renderer.RenderSummary(out, *result.Verdict); err != nil {
			return fmt.Errorf("print summary: %w", err)
		}
	}

	if jsonPath != "" {
		if err := renderer.RenderJSON(worker.Verdicts(results), jsonPath); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:       %d URLs\n", len(results))
	fmt.Fprintf(os.Stderr, "  Safe:        %d\n", counts[model.LabelSafe])
	fmt.Fprintf(os.Stderr, "  Suspicious:  %d\n", counts[model.LabelSuspicious])
	fmt.Fprintf(os.Stderr, "  Dangerous:   %d\n", counts[model.LabelDangerous])
	if failures > 0 {
		fmt.Fprintf(os.Stderr, "  Failures:    %d\n", failures)
	}
	if jsonPath != "" {
		fmt.Fprintf(os.Stderr, "  Output:      %s\n", jsonPath)
	}
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
