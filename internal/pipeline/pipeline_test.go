package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AkmelFed12/quizgen/internal/cache"
	"github.com/AkmelFed12/quizgen/internal/extract"
	"github.com/AkmelFed12/quizgen/internal/logger"
	"github.com/AkmelFed12/quizgen/internal/model"
	"github.com/AkmelFed12/quizgen/internal/quiz"
	"github.com/AkmelFed12/quizgen/internal/worker"
)

const sourcePath = "/v1/quran/quran-uthmani"

// corpusPayload renders 8 chapters of 3..10 verses in the alquran.cloud shape
func corpusPayload(t *testing.T) []byte {
	t.Helper()

	type ayah struct {
		NumberInSurah int    `json:"numberInSurah"`
		Juz           int    `json:"juz"`
		Page          int    `json:"page"`
		Text          string `json:"text"`
	}
	type surah struct {
		Number         int    `json:"number"`
		EnglishName    string `json:"englishName"`
		RevelationType string `json:"revelationType"`
		Ayahs          []ayah `json:"ayahs"`
	}

	var surahs []surah
	global := 0
	for c := 1; c <= 8; c++ {
		s := surah{Number: c, EnglishName: fmt.Sprintf("Surah-%d", c), RevelationType: "Meccan"}
		if c%2 == 0 {
			s.RevelationType = "Medinan"
		}
		for v := 1; v <= c+2; v++ {
			s.Ayahs = append(s.Ayahs, ayah{
				NumberInSurah: v,
				Juz:           global/10 + 1,
				Page:          global/3 + 1,
				Text:          fmt.Sprintf("chapter%d verse%d words", c, v),
			})
			global++
		}
		surahs = append(surahs, s)
	}

	data, err := json.Marshal(map[string]any{
		"code":   200,
		"status": "OK",
		"data":   map[string]any{"surahs": surahs},
	})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

type sourceServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newSourceServer(t *testing.T, payload []byte, robots string) *sourceServer {
	t.Helper()
	s := &sourceServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			if robots == "" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(robots))
		case sourcePath:
			s.hits.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(payload)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func testConfig(t *testing.T, sourceURL string) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Source.URL = sourceURL
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	cfg.RateLimiting.RequestsPerSecond = 1000
	cfg.RateLimiting.BurstSize = 10
	cfg.HTTP.Timeout = 5 * time.Second
	return cfg
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return records
}

func TestLoader_CachesCorpus(t *testing.T) {
	server := newSourceServer(t, corpusPayload(t), "")
	cfg := testConfig(t, server.URL+sourcePath)
	ctx := context.Background()

	first, err := NewLoader(cfg, logger.Nop()).Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if first.Bounds.ChapterCount != 8 || first.Bounds.VerseCount != 52 {
		t.Errorf("Unexpected bounds: %+v", first.Bounds)
	}

	// A second loader shares only the disk cache
	second, err := NewLoader(cfg, logger.Nop()).Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if second.Bounds != first.Bounds {
		t.Errorf("Expected cached corpus to match, got %+v", second.Bounds)
	}
	if server.hits.Load() != 1 {
		t.Errorf("Expected 1 download, got %d", server.hits.Load())
	}
}

func TestLoader_InvalidCachedPayloadRefetched(t *testing.T) {
	server := newSourceServer(t, corpusPayload(t), "")
	cfg := testConfig(t, server.URL+sourcePath)

	disk := cache.NewDiskCache(cfg.Cache.Dir, 0)
	if err := disk.Set(cache.CacheKey(cfg.Source.URL), []byte(`{"data":{"surahs":[]}}`), 0); err != nil {
		t.Fatal(err)
	}

	corpus, err := NewLoader(cfg, logger.Nop()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if corpus.Bounds.ChapterCount != 8 {
		t.Errorf("Expected fresh corpus, got %+v", corpus.Bounds)
	}
	if server.hits.Load() != 1 {
		t.Errorf("Expected refetch, got %d downloads", server.hits.Load())
	}
}

func TestLoader_CacheDisabled(t *testing.T) {
	server := newSourceServer(t, corpusPayload(t), "")
	cfg := testConfig(t, server.URL+sourcePath)
	cfg.Cache.Enabled = false

	for i := 0; i < 2; i++ {
		if _, err := NewLoader(cfg, logger.Nop()).Load(context.Background()); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}
	if server.hits.Load() != 2 {
		t.Errorf("Expected 2 downloads without cache, got %d", server.hits.Load())
	}
	if _, err := os.Stat(cfg.Cache.Dir); !os.IsNotExist(err) {
		t.Error("Expected no cache directory")
	}
}

func TestLoader_SourceErrors(t *testing.T) {
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(context.Context, time.Duration) error { return nil }
	defer func() { fetchSleepFunc = origSleep }()

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewLoader(testConfig(t, server.URL+sourcePath), logger.Nop()).Load(context.Background())
		if !errors.Is(err, ErrSourceUnavailable) {
			t.Errorf("Expected ErrSourceUnavailable, got %v", err)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		server := newSourceServer(t, []byte(`{"data":{"surahs":[]}}`), "")

		_, err := NewLoader(testConfig(t, server.URL+sourcePath), logger.Nop()).Load(context.Background())
		if !errors.Is(err, extract.ErrMalformedCorpus) {
			t.Errorf("Expected ErrMalformedCorpus, got %v", err)
		}
	})

	t.Run("robots disallow", func(t *testing.T) {
		server := newSourceServer(t, corpusPayload(t), "User-agent: *\nDisallow: /v1/\n")
		cfg := testConfig(t, server.URL+sourcePath)
		cfg.HTTP.RespectRobots = true

		_, err := NewLoader(cfg, logger.Nop()).Load(context.Background())
		if !errors.Is(err, ErrDisallowed) {
			t.Errorf("Expected ErrDisallowed, got %v", err)
		}
		if server.hits.Load() != 0 {
			t.Errorf("Expected no download, got %d", server.hits.Load())
		}
	})
}

func TestPipeline_Generate(t *testing.T) {
	server := newSourceServer(t, corpusPayload(t), "")
	cfg := testConfig(t, server.URL+sourcePath)
	out := t.TempDir()

	p := NewPipeline(cfg, logger.Nop())
	result, err := p.Generate(context.Background(), Request{
		Count:      50,
		Difficulty: model.DifficultyHard,
		Seed:       42,
		Output:     filepath.Join(out, "quiz.csv"),
		SQLitePath: filepath.Join(out, "quiz.db"),
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.RunID == "" {
		t.Error("Expected a run id")
	}

	records := readCSV(t, filepath.Join(out, "quiz.csv"))
	if len(records) != 51 {
		t.Fatalf("Expected header plus 50 rows, got %d", len(records))
	}
	for i, col := range CSVHeader {
		if records[0][i] != col {
			t.Errorf("Header column %d = %q, want %q", i, records[0][i], col)
		}
	}
	for _, row := range records[1:] {
		if row[6] != "hard" || row[9] != model.StatusValidated {
			t.Errorf("Unexpected row: %v", row)
		}
	}

	if _, err := os.Stat(filepath.Join(out, "quiz.db")); err != nil {
		t.Errorf("Expected SQLite export: %v", err)
	}
}

func TestPipeline_SQLiteFailureRemovesCSV(t *testing.T) {
	server := newSourceServer(t, corpusPayload(t), "")
	out := t.TempDir()
	csvPath := filepath.Join(out, "quiz.csv")

	// A directory cannot be opened as a database
	dbPath := filepath.Join(out, "quiz.db")
	if err := os.Mkdir(dbPath, 0755); err != nil {
		t.Fatal(err)
	}

	_, err := NewPipeline(testConfig(t, server.URL+sourcePath), logger.Nop()).Generate(context.Background(), Request{
		Count:      10,
		Difficulty: model.DifficultyHard,
		Seed:       42,
		Output:     csvPath,
		SQLitePath: dbPath,
	})
	if err == nil {
		t.Fatal("Expected the SQLite export to fail")
	}
	if _, statErr := os.Stat(csvPath); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("Expected no CSV after a failed export, stat error = %v", statErr)
	}
}

func TestPipeline_Deterministic(t *testing.T) {
	server := newSourceServer(t, corpusPayload(t), "")
	cfg := testConfig(t, server.URL+sourcePath)
	out := t.TempDir()
	p := NewPipeline(cfg, logger.Nop())

	for _, name := range []string{"a.csv", "b.csv"} {
		_, err := p.Generate(context.Background(), Request{
			Count:      120,
			Difficulty: model.DifficultyMedium,
			Seed:       7,
			Output:     filepath.Join(out, name),
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
	}

	a, _ := os.ReadFile(filepath.Join(out, "a.csv"))
	b, _ := os.ReadFile(filepath.Join(out, "b.csv"))
	if !bytes.Equal(a, b) {
		t.Error("Expected byte-identical output for identical inputs")
	}
}

func TestPipeline_ZeroCount(t *testing.T) {
	server := newSourceServer(t, corpusPayload(t), "")
	path := filepath.Join(t.TempDir(), "empty.csv")

	_, err := NewPipeline(testConfig(t, server.URL+sourcePath), logger.Nop()).Generate(context.Background(), Request{
		Count:      0,
		Difficulty: model.DifficultyHard,
		Seed:       42,
		Output:     path,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 1 {
		t.Errorf("Expected header only, got %d records", len(records))
	}
}

func TestPipeline_InsufficientWritesNothing(t *testing.T) {
	server := newSourceServer(t, corpusPayload(t), "")
	out := t.TempDir()
	path := filepath.Join(out, "quiz.csv")

	_, err := NewPipeline(testConfig(t, server.URL+sourcePath), logger.Nop()).Generate(context.Background(), Request{
		Count:      10000,
		Difficulty: model.DifficultyHard,
		Seed:       42,
		Output:     path,
	})

	var insufficient *quiz.InsufficientError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Expected *quiz.InsufficientError, got %v", err)
	}
	if insufficient.Requested != 10000 {
		t.Errorf("Unexpected shortfall: %+v", insufficient)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no output artifacts, found %d", len(entries))
	}
}

func TestPipeline_RunSpec(t *testing.T) {
	server := newSourceServer(t, corpusPayload(t), "")
	cfg := testConfig(t, server.URL+sourcePath)
	out := t.TempDir()
	p := NewPipeline(cfg, logger.Nop())

	results := worker.NewBatchProcessor(p, 2).ProcessRuns(context.Background(), []worker.RunSpec{
		{Name: "hard", Count: 30, Difficulty: "elevated", Seed: 1, Output: filepath.Join(out, "hard.csv")},
		{Name: "default", Count: 20, Seed: 2, Output: filepath.Join(out, "default.csv")},
		{Name: "too-many", Count: 5000, Difficulty: "standard", Seed: 3, Output: filepath.Join(out, "many.csv")},
	})

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].Error != nil || results[0].Written != 30 {
		t.Errorf("Unexpected first result: %+v", results[0])
	}
	if results[1].Error != nil || results[1].Written != 20 {
		t.Errorf("Unexpected second result: %+v", results[1])
	}
	if results[2].Error == nil {
		t.Error("Expected oversized run to fail")
	}
	if server.hits.Load() != 1 {
		t.Errorf("Expected corpus downloaded once, got %d", server.hits.Load())
	}

	rows := readCSV(t, filepath.Join(out, "default.csv"))
	if rows[1][6] != "hard" {
		t.Errorf("Expected default difficulty hard, got %q", rows[1][6])
	}
}
