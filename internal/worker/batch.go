package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AkmelFed12/quizgen/internal/model"
)

// RunSpec is one generation run of a batch manifest. An empty difficulty
// falls back to the configured default.
type RunSpec struct {
	Name       string `yaml:"name"`
	Count      int    `yaml:"count"`
	Difficulty string `yaml:"difficulty"`
	Seed       int64  `yaml:"seed"`
	Output     string `yaml:"output"`
	SQLite     string `yaml:"sqlite,omitempty"`
}

// Manifest lists the runs of a batch
type Manifest struct {
	Runs []RunSpec `yaml:"runs"`
}

// Runner executes one generation run and reports how many questions it wrote
type Runner interface {
	Run(ctx context.Context, spec RunSpec) (int, error)
}

// RunJob adapts a RunSpec to the pool
type RunJob struct {
	Index  int
	Spec   RunSpec
	Runner Runner
}

// Execute executes the run
func (j *RunJob) Execute(ctx context.Context) Result {
	start := time.Now()
	written, err := j.Runner.Run(ctx, j.Spec)
	return &RunResult{
		Index:    j.Index,
		Spec:     j.Spec,
		Written:  written,
		Duration: time.Since(start),
		Error:    err,
	}
}

// RunResult is the outcome of one run
type RunResult struct {
	Index    int
	Spec     RunSpec
	Written  int
	Duration time.Duration
	Error    error
}

// GetError returns the error from the run
func (r *RunResult) GetError() error {
	return r.Error
}

// BatchProcessor executes manifest runs concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessRuns executes runs and returns their results in manifest order
func (b *BatchProcessor) ProcessRuns(ctx context.Context, runs []RunSpec) []*RunResult {
	if len(runs) == 0 {
		return []*RunResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, spec := range runs {
		pool.Submit(&RunJob{
			Index:  i,
			Spec:   spec,
			Runner: b.runner,
		})
	}

	results := pool.Wait()

	runResults := make([]*RunResult, 0, len(runs))
	seen := make(map[int]bool, len(results))
	for _, result := range results {
		rr := result.(*RunResult)
		seen[rr.Index] = true
		runResults = append(runResults, rr)
	}

	// Runs never picked up before cancellation
	for i, spec := range runs {
		if !seen[i] {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			runResults = append(runResults, &RunResult{Index: i, Spec: spec, Error: err})
		}
	}
	sort.Slice(runResults, func(i, j int) bool {
		return runResults[i].Index < runResults[j].Index
	})

	return runResults
}

// ProcessFile reads a manifest and executes its runs
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*RunResult, error) {
	manifest, err := ReadManifest(filePath)
	if err != nil {
		return nil, err
	}
	return b.ProcessRuns(ctx, manifest.Runs), nil
}

// ReadManifest reads and validates a YAML batch manifest
func ReadManifest(filePath string) (*Manifest, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// Validate checks that every run is complete and that no two runs share a
// name or an output path
func (m *Manifest) Validate() error {
	names := make(map[string]bool)
	outputs := make(map[string]bool)
	var errs []error

	for i, run := range m.Runs {
		label := run.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
			errs = append(errs, fmt.Errorf("run %s: name is required", label))
		} else if names[run.Name] {
			errs = append(errs, fmt.Errorf("run %s: duplicate name", label))
		}
		names[run.Name] = true

		if strings.TrimSpace(run.Output) == "" {
			errs = append(errs, fmt.Errorf("run %s: output is required", label))
		} else if outputs[run.Output] {
			errs = append(errs, fmt.Errorf("run %s: output %s used by another run", label, run.Output))
		}
		outputs[run.Output] = true

		if run.Count < 0 {
			errs = append(errs, fmt.Errorf("run %s: count must not be negative", label))
		}
		if run.Difficulty != "" {
			if _, err := model.ParseDifficulty(run.Difficulty); err != nil {
				errs = append(errs, fmt.Errorf("run %s: %w", label, err))
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}
	return nil
}
