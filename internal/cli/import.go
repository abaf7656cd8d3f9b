package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AkmelFed12/quizgen/internal/store"
	"github.com/AkmelFed12/quizgen/internal/validate"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <questions.csv>",
	Short: "Import a question CSV into PostgreSQL",
	Long: `Import reads a question CSV, validates every row and inserts the valid
rows into the quiz_questions table of the database named by DATABASE_URL.

Rows with fewer than 7 columns, an empty question, a correct index outside
0..3 or an unknown difficulty are skipped. All rows go in one transaction:
a database error leaves the table unchanged.

Example:
  DATABASE_URL=postgres://localhost:5432/quiz quizgen import data/quiz_questions_10000.csv
  quizgen import questions.csv --chunk-size 1000`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Int("chunk-size", store.DefaultChunkSize, "rows per INSERT statement")
}

func runImport(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("chunk-size") {
		cfg.Database.ChunkSize, err = cmd.Flags().GetInt("chunk-size")
		if err != nil {
			return err
		}
	}
	if cfg.Database.ChunkSize > store.MaxChunkSize {
		return fmt.Errorf("chunk size %d exceeds the PostgreSQL parameter limit (max %d rows per statement)",
			cfg.Database.ChunkSize, store.MaxChunkSize)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open CSV: %w", err)
	}
	defer f.Close()

	set, err := validate.ReadImportCSV(f)
	if err != nil {
		return err
	}
	if cfg.Output.Verbose {
		for _, rejected := range set.Rejected {
			fmt.Fprintf(os.Stderr, "  skipped %v\n", rejected)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pool, err := store.NewPool(ctx, cfg.Database.URL, store.PoolConfig{
		MaxConns: cfg.Database.MaxConnections,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	importer := store.NewImporter(store.NewTransactor(pool), cfg.Database.ChunkSize)
	importer.OnProgress(func(inserted int) {
		log.Debug("chunk inserted", zap.Int("inserted", inserted), zap.Int("total", len(set.Rows)))
	})

	inserted, err := importer.Import(ctx, set.Rows)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Import done. Inserted: %d. Skipped: %d.\n", inserted, set.Skipped())
	return nil
}
