package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AkmelFed12/quizgen/internal/model"
	"github.com/AkmelFed12/quizgen/internal/pipeline"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a quiz question file",
	Long: `Generate loads the Quran corpus (from cache or the network), builds every
question of the selected tier, removes duplicates, shuffles the set and
writes exactly --count questions to a CSV file.

Nothing is written when fewer questions are available than requested.

Example:
  quizgen generate
  quizgen generate --count 500 --difficulty medium --seed 7 --output data/medium.csv
  quizgen generate --sqlite data/questions.db --no-cache`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	def := model.DefaultConfig()
	fs := generateCmd.Flags()

	// Generation flags
	fs.Int("count", def.Generation.Count, "number of questions to write")
	fs.String("difficulty", def.Generation.Difficulty, "question tier: hard|medium (aliases elevated|standard)")
	fs.Int64("seed", def.Generation.Seed, "random seed")

	// Output flags
	fs.String("output", def.Output.Path, "output CSV path")
	fs.String("sqlite", "", "also export the questions to this SQLite database (optional)")

	addSourceFlags(fs)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applySourceFlags(cmd, cfg); err != nil {
		return err
	}
	req, err := generateRequest(cmd, cfg)
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

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Source:     %s\n", cfg.Source.URL)
		fmt.Fprintf(os.Stderr, "Cache:      %v\n", cfg.Cache.Enabled)
		fmt.Fprintf(os.Stderr, "Difficulty: %s\n", req.Difficulty)
		fmt.Fprintf(os.Stderr, "Seed:       %d\n", req.Seed)
		fmt.Fprintf(os.Stderr, "Count:      %d\n", req.Count)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg, log)
	result, err := p.Generate(ctx, req)
	if err != nil {
		return err
	}

	printRunSummary(os.Stderr, result, cfg.Output.Verbose)
	return nil
}

// generateRequest resolves the run parameters from flags and config
func generateRequest(cmd *cobra.Command, cfg *model.Config) (pipeline.Request, error) {
	fs := cmd.Flags()

	if fs.Changed("count") {
		v, err := fs.GetInt("count")
		if err != nil {
			return pipeline.Request{}, err
		}
		cfg.Generation.Count = v
	}
	if fs.Changed("difficulty") {
		v, err := fs.GetString("difficulty")
		if err != nil {
			return pipeline.Request{}, err
		}
		cfg.Generation.Difficulty = v
	}
	if fs.Changed("seed") {
		v, err := fs.GetInt64("seed")
		if err != nil {
			return pipeline.Request{}, err
		}
		cfg.Generation.Seed = v
	}
	if fs.Changed("output") {
		v, err := fs.GetString("output")
		if err != nil {
			return pipeline.Request{}, err
		}
		cfg.Output.Path = v
	}
	if fs.Changed("sqlite") {
		v, err := fs.GetString("sqlite")
		if err != nil {
			return pipeline.Request{}, err
		}
		cfg.Output.SQLitePath = v
	}

	difficulty, err := model.ParseDifficulty(cfg.Generation.Difficulty)
	if err != nil {
		return pipeline.Request{}, err
	}
	if cfg.Generation.Count < 0 {
		return pipeline.Request{}, fmt.Errorf("count must not be negative: %d", cfg.Generation.Count)
	}
	if cfg.Output.Path == "" {
		return pipeline.Request{}, fmt.Errorf("output path is required")
	}

	return pipeline.Request{
		Count:      cfg.Generation.Count,
		Difficulty: difficulty,
		Seed:       cfg.Generation.Seed,
		Output:     cfg.Output.Path,
		SQLitePath: cfg.Output.SQLitePath,
	}, nil
}

func printRunSummary(w io.Writer, result *pipeline.RunResult, detailed bool) {
	fmt.Fprintf(w, "✓ Wrote %d questions to %s\n", len(result.Questions), result.Output)
	if result.SQLitePath != "" {
		fmt.Fprintf(w, "✓ Exported %d questions to %s\n", len(result.Questions), result.SQLitePath)
	}
	if !detailed {
		return
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Run ID:     %s\n", result.RunID)
	fmt.Fprintf(w, "  Accepted:   %d\n", result.Stats.Accepted)
	fmt.Fprintf(w, "  Skipped:    %d\n", result.Stats.Skipped)
	fmt.Fprintf(w, "  Duplicates: %d\n", result.Stats.Duplicate)
	fmt.Fprintf(w, "  Malformed:  %d\n", result.Stats.Malformed)
	fmt.Fprintf(w, "  Duration:   %v\n", result.Duration)

	kinds := make([]string, 0, len(result.PerKind))
	for kind := range result.PerKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(w, "    %-22s %d\n", kind, result.PerKind[kind])
	}
	fmt.Fprintf(w, "\n")
}
