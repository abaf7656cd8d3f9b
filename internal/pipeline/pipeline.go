package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AkmelFed12/quizgen/internal/model"
	"github.com/AkmelFed12/quizgen/internal/quiz"
	"github.com/AkmelFed12/quizgen/internal/store"
	"github.com/AkmelFed12/quizgen/internal/worker"
)

// CorpusLoader supplies the corpus
type CorpusLoader interface {
	Load(ctx context.Context) (*model.Corpus, error)
}

// Pipeline orchestrates load, generate and write
type Pipeline struct {
	loader   CorpusLoader
	renderer *Renderer
	config   *model.Config
	log      *zap.Logger

	mu     sync.Mutex
	corpus *model.Corpus
}

// NewPipeline creates a pipeline that loads the corpus as configured
func NewPipeline(cfg *model.Config, log *zap.Logger) *Pipeline {
	return NewPipelineWithLoader(cfg, NewLoader(cfg, log), log)
}

// NewPipelineWithLoader creates a pipeline around an existing loader
func NewPipelineWithLoader(cfg *model.Config, loader CorpusLoader, log *zap.Logger) *Pipeline {
	return &Pipeline{
		loader:   loader,
		renderer: NewRenderer(),
		config:   cfg,
		log:      log,
	}
}

// Request describes one generation run
type Request struct {
	Count      int
	Difficulty model.Difficulty
	Seed       int64
	Output     string // CSV path
	SQLitePath string // Optional SQLite export
}

// RunResult is the outcome of a successful run
type RunResult struct {
	RunID      string
	Questions  []model.Question
	Stats      quiz.Stats
	PerKind    map[string]int
	Output     string
	SQLitePath string
	Duration   time.Duration
}

// Corpus loads the corpus once and reuses it for later runs
func (p *Pipeline) Corpus(ctx context.Context) (*model.Corpus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.corpus != nil {
		return p.corpus, nil
	}

	corpus, err := p.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	p.corpus = corpus
	return corpus, nil
}

// Generate runs one generation pass and writes its outputs. Nothing is
// written unless the full requested count was produced.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*RunResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := p.log.With(
		zap.String("run_id", runID),
		zap.String("difficulty", string(req.Difficulty)),
		zap.Int64("seed", req.Seed),
		zap.Int("count", req.Count),
	)

	corpus, err := p.Corpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	result, err := quiz.Generate(corpus, quiz.Params{
		Count:      req.Count,
		Difficulty: req.Difficulty,
		Seed:       req.Seed,
		Sample: map[string]int{
			quiz.KindVerseJuz:  p.config.Generation.Sample.Juz,
			quiz.KindVersePage: p.config.Generation.Sample.Page,
		},
	})
	if err != nil {
		log.Error("generation failed", zap.Error(err))
		return nil, err
	}

	log.Debug("candidates collected",
		zap.Int("accepted", result.Stats.Accepted),
		zap.Int("skipped", result.Stats.Skipped),
		zap.Int("duplicate", result.Stats.Duplicate),
		zap.Int("malformed", result.Stats.Malformed),
		zap.Any("per_kind", result.PerKind),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := p.renderer.RenderCSV(result.Questions, req.Output); err != nil {
		return nil, fmt.Errorf("render CSV: %w", err)
	}
	if req.SQLitePath != "" {
		if err := store.ExportSQLite(ctx, req.SQLitePath, result.Questions); err != nil {
			// A failed run leaves no CSV behind
			if rmErr := os.Remove(req.Output); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				log.Warn("failed to remove CSV after export error", zap.Error(rmErr))
			}
			return nil, fmt.Errorf("export sqlite: %w", err)
		}
	}

	run := &RunResult{
		RunID:      runID,
		Questions:  result.Questions,
		Stats:      result.Stats,
		PerKind:    result.PerKind,
		Output:     req.Output,
		SQLitePath: req.SQLitePath,
		Duration:   time.Since(start),
	}

	log.Info("questions written",
		zap.String("output", req.Output),
		zap.Int("written", len(result.Questions)),
		zap.Duration("duration", run.Duration),
	)

	return run, nil
}

// Run executes one batch manifest entry, filling unset fields from config
func (p *Pipeline) Run(ctx context.Context, spec worker.RunSpec) (int, error) {
	raw := p.config.Generation.Difficulty
	if spec.Difficulty != "" {
		raw = spec.Difficulty
	}
	difficulty, err := model.ParseDifficulty(raw)
	if err != nil {
		return 0, err
	}

	result, err := p.Generate(ctx, Request{
		Count:      spec.Count,
		Difficulty: difficulty,
		Seed:       spec.Seed,
		Output:     spec.Output,
		SQLitePath: spec.SQLite,
	})
	if err != nil {
		return 0, err
	}
	return len(result.Questions), nil
}
