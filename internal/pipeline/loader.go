package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/AkmelFed12/quizgen/internal/cache"
	"github.com/AkmelFed12/quizgen/internal/extract"
	"github.com/AkmelFed12/quizgen/internal/model"
	"github.com/AkmelFed12/quizgen/internal/util"
	"github.com/AkmelFed12/quizgen/internal/worker"
)

var (
	// ErrSourceUnavailable wraps every failure to retrieve the corpus
	ErrSourceUnavailable = errors.New("corpus source unavailable")

	// ErrDisallowed is returned when robots.txt forbids the source URL
	ErrDisallowed = errors.New("disallowed by robots.txt")
)

// Loader returns the corpus from the cache or the network
type Loader struct {
	url     string
	fetcher *Fetcher
	cache   cache.Cache         // nil when caching is disabled
	robots  *util.RobotsChecker // nil unless robots.txt is respected
	limiter *worker.Limiter
	log     *zap.Logger
}

// NewLoader wires a loader from configuration
func NewLoader(cfg *model.Config, log *zap.Logger) *Loader {
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	fetcher := NewFetcher(
		cfg.HTTP.Timeout,
		cfg.HTTP.UserAgent,
		cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.InsecureTLS,
		cfg.HTTP.HTTPProxy,
		cfg.HTTP.HTTPSProxy,
		cfg.HTTP.NoProxy,
	).WithLimiter(limiter).WithMaxAttempts(cfg.HTTP.MaxRetries)

	l := &Loader{
		url:     cfg.Source.URL,
		fetcher: fetcher,
		limiter: limiter,
		log:     log,
	}
	if cfg.Cache.Enabled {
		l.cache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}
	if cfg.HTTP.RespectRobots {
		l.robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, fetcher.Client())
	}
	return l
}

// Load returns the validated corpus. A cached payload that no longer
// decodes is discarded and fetched again.
func (l *Loader) Load(ctx context.Context) (*model.Corpus, error) {
	key := cache.CacheKey(l.url)

	if l.cache != nil {
		if data, ok := l.cache.Get(key); ok {
			corpus, err := extract.DecodeCorpus(data)
			if err == nil {
				l.logLoaded("cache", data, corpus)
				return corpus, nil
			}
			l.log.Warn("discarding cached corpus", zap.String("key", key), zap.Error(err))
			_ = l.cache.Delete(key)
		}
	}

	data, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	corpus, err := extract.DecodeCorpus(data)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.Set(key, data, 0); err != nil {
			l.log.Warn("failed to cache corpus", zap.Error(err))
		}
	}

	l.logLoaded("network", data, corpus)
	return corpus, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if l.robots != nil {
		allowed, delay, err := l.robots.CanFetch(ctx, l.url)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrDisallowed, l.url)
		}
		if delay > 0 {
			if parsed, err := url.Parse(l.url); err == nil {
				l.limiter.SetHostRate(parsed.Host, 1/delay.Seconds(), 1)
			}
		}
	}

	l.log.Info("downloading corpus", zap.String("url", l.url))

	result, err := l.fetcher.FetchWithRetry(ctx, l.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return result.Body, nil
}

func (l *Loader) logLoaded(from string, data []byte, corpus *model.Corpus) {
	l.log.Info("corpus loaded",
		zap.String("from", from),
		zap.String("fingerprint", cache.Digest(data)[:16]),
		zap.Int("chapters", corpus.Bounds.ChapterCount),
		zap.Int("verses", corpus.Bounds.VerseCount),
		zap.Int("pages", corpus.Bounds.PageCount),
		zap.Int("juz", corpus.Bounds.JuzCount),
	)
}
