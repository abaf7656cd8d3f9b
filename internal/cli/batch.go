package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/AkmelFed12/quizgen/internal/pipeline"
	"github.com/AkmelFed12/quizgen/internal/worker"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <runs.yaml>",
	Short: "Run several generation passes from a manifest in parallel",
	Long: `Batch executes every run listed in a YAML manifest:
- The corpus is loaded once and shared read-only by all runs
- Runs execute in parallel with a configurable worker count
- Each run has its own seed, tier and output file

Manifest format:
  runs:
    - name: medium-7
      count: 500
      difficulty: medium
      seed: 7
      output: data/medium-7.csv

Example:
  quizgen batch runs.yaml
  quizgen batch runs.yaml --concurrency 8 --timeout 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	fs := batchCmd.Flags()
	fs.Int("concurrency", runtime.NumCPU(), "number of concurrent workers")
	fs.Duration("batch-timeout", 30*time.Minute, "total timeout for batch processing")

	addSourceFlags(fs)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applySourceFlags(cmd, cfg); err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers, err = cmd.Flags().GetInt("concurrency")
		if err != nil {
			return err
		}
	}
	batchTimeout, err := cmd.Flags().GetDuration("batch-timeout")
	if err != nil {
		return err
	}

	manifest, err := worker.ReadManifest(file)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  quizgen Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Manifest:     %s\n", file)
	fmt.Fprintf(os.Stderr, "  Runs:         %d\n", len(manifest.Runs))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	p := pipeline.NewPipeline(cfg, log)

	fmt.Fprintf(os.Stderr, "⚙️  Loading corpus...\n")
	corpus, err := p.Corpus(ctx)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d surahs, %d verses\n", corpus.Bounds.ChapterCount, corpus.Bounds.VerseCount)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	results := processor.ProcessRuns(ctx, manifest.Runs)

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Spec.Name, result.Error)
			continue
		}
		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s: %d questions → %s (%v)\n",
			result.Spec.Name, result.Written, result.Spec.Output, result.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d runs\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d runs failed", failureCount, len(results))
	}
	return nil
}
