package model

import "time"

// DefaultSourceURL is the alquran.cloud endpoint serving the Uthmani text
// with per-ayah page and juz metadata
const DefaultSourceURL = "https://api.alquran.cloud/v1/quran/quran-uthmani"

// Config is the complete quizgen configuration
type Config struct {
	Source       SourceConfig       `yaml:"source" mapstructure:"source"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Generation   GenerationConfig   `yaml:"generation" mapstructure:"generation"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Database     DatabaseConfig     `yaml:"database" mapstructure:"database"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// SourceConfig locates the corpus
type SourceConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// HTTPConfig controls corpus retrieval
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxRetries    int           `yaml:"max_retries" mapstructure:"max_retries"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls the corpus payload cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"` // 0 keeps entries forever
}

// RateLimitingConfig paces requests to the corpus host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// GenerationConfig holds the core generation parameters
type GenerationConfig struct {
	Count      int          `yaml:"count" mapstructure:"count"`
	Difficulty string       `yaml:"difficulty" mapstructure:"difficulty"`
	Seed       int64        `yaml:"seed" mapstructure:"seed"`
	Sample     SampleConfig `yaml:"sample" mapstructure:"sample"`
}

// SampleConfig caps how many verse records the medium tier uses for the
// juz and page question types. Zero means every record.
type SampleConfig struct {
	Juz  int `yaml:"juz" mapstructure:"juz"`
	Page int `yaml:"page" mapstructure:"page"`
}

// OutputConfig controls where results are written
type OutputConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	SQLitePath string `yaml:"sqlite_path,omitempty" mapstructure:"sqlite_path"`
	Verbose    bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DatabaseConfig is used by the import command
type DatabaseConfig struct {
	URL            string `yaml:"-" mapstructure:"url"` // From DATABASE_URL, never written to disk
	ChunkSize      int    `yaml:"chunk_size" mapstructure:"chunk_size"`
	MaxConnections int32  `yaml:"max_connections" mapstructure:"max_connections"`
}

// ConcurrencyConfig controls the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LogConfig selects the logger flavour ("production" or anything else for development)
type LogConfig struct {
	Env string `yaml:"env" mapstructure:"env"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			URL: DefaultSourceURL,
		},
		HTTP: HTTPConfig{
			Timeout:       2 * time.Minute,
			UserAgent:     "quizgen/0.1 (+https://github.com/AkmelFed12/quizgen)",
			MaxBodyBytes:  64 << 20,
			MaxRetries:    3,
			RespectRobots: false,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "data/cache",
			MemoryTTL: time.Hour,
			DiskTTL:   0,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 1,
			BurstSize:         1,
		},
		Generation: GenerationConfig{
			Count:      10000,
			Difficulty: string(DifficultyHard),
			Seed:       42,
		},
		Output: OutputConfig{
			Path: "data/quiz_questions_10000.csv",
		},
		Database: DatabaseConfig{
			ChunkSize:      500,
			MaxConnections: 4,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Log: LogConfig{
			Env: "development",
		},
	}
}
