package commands

import (
	"fmt"
	"time"

	"github.com/wonny/vquant/backend/internal/brain"
	"github.com/wonny/vquant/backend/internal/external/cafef"
	"github.com/wonny/vquant/backend/internal/external/f319"
	"github.com/wonny/vquant/backend/internal/external/finbert"
	"github.com/wonny/vquant/backend/internal/external/hsx"
	"github.com/wonny/vquant/backend/internal/external/vci"
	"github.com/wonny/vquant/backend/internal/s0_data/fetcher"
	"github.com/wonny/vquant/backend/internal/s0_data/reportstore"
	"github.com/wonny/vquant/backend/internal/s1_universe"
	"github.com/wonny/vquant/backend/internal/s2_scores"
	"github.com/wonny/vquant/backend/internal/s3_sentiment"
	"github.com/wonny/vquant/backend/internal/s4_decision"
	"github.com/wonny/vquant/backend/pkg/config"
	"github.com/wonny/vquant/backend/pkg/database"
	"github.com/wonny/vquant/backend/pkg/httputil"
	"github.com/wonny/vquant/backend/pkg/logger"
	"github.com/wonny/vquant/backend/pkg/redis"
)

// The scraped sources block default Go client headers.
const scrapeUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// runtime bundles everything a command may need. withDatabase controls
// whether Postgres is part of the wiring; one-off inspection commands
// run without it.
type runtime struct {
	cfg *config.Config
	log *logger.Logger

	db    *database.DB
	rdb   *redis.Client
	store *reportstore.Store

	vciClient    *vci.Client
	fetcher      *fetcher.Fetcher
	scoreBuilder *s2_scores.Builder
	gatherer     *s3_sentiment.Gatherer
	orchestrator *brain.Orchestrator

	universeRepo  *s1_universe.Repository
	scoreRepo     *s2_scores.Repository
	sentimentRepo *s3_sentiment.Repository
	decisionRepo  *s4_decision.Repository
}

// initRuntime wires the full dependency graph bottom-up.
func initRuntime(withDatabase bool) (*runtime, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Redis (optional, degrades to pass-through when disabled)
	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(rdb, "vquant")
	limiter := redis.NewRateLimiter(rdb, "vquant")

	// 4. Database (optional)
	r := &runtime{cfg: cfg, log: log, rdb: rdb}
	if withDatabase {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		r.db = db
		r.universeRepo = s1_universe.NewRepository(db.Pool)
		r.scoreRepo = s2_scores.NewRepository(db.Pool)
		r.sentimentRepo = s3_sentiment.NewRepository(db.Pool)
		r.decisionRepo = s4_decision.NewRepository(db.Pool)
	}

	// 5. Local statement store
	store, err := reportstore.Open(cfg.DataDir, log)
	if err != nil {
		r.close()
		return nil, fmt.Errorf("open report store: %w", err)
	}
	r.store = store

	// 6. HTTP clients: one API client, one scrape client with a shared
	// sliding-window budget, one classifier client with a model-sized
	// timeout.
	apiClient := httputil.New(log)
	scrapeClient := httputil.New(log).
		WithUserAgent(scrapeUserAgent).
		WithRateLimiter(limiter, redis.RateLimitConfig{
			Key:    "scrape",
			Limit:  60,
			Window: time.Minute,
		})
	finbertClient := httputil.NewWithTimeout(log, cfg.FinBERT.Timeout)

	// 7. External sources
	r.vciClient = vci.NewClient(apiClient, log, cfg.VCI.BaseURL, cfg.VCI.RatePerSec)
	quotes := vci.NewCachedQuotes(r.vciClient, cache, log)
	hsxClient := hsx.NewClient(scrapeClient, log, cfg.HSX.BaseURL, cfg.HSX.MaxPages)
	cafefClient := cafef.NewClient(scrapeClient, log, cfg.CafeF.BaseURL)
	f319Client := f319.NewClient(scrapeClient, log, cfg.F319.BaseURL, cfg.F319.MaxPages)
	classifier := finbert.NewCachedClassifier(
		finbert.NewClient(finbertClient, log, cfg.FinBERT.URL), cache, log)

	// 8. Pipeline stages
	r.fetcher = fetcher.New(r.vciClient, store, fetcher.DefaultRetryPolicy(), log)
	r.scoreBuilder = s2_scores.NewBuilder(r.fetcher, quotes, cfg.Pipeline.Workers, log)
	r.gatherer = s3_sentiment.NewGatherer(hsxClient, cafefClient, f319Client, classifier, cfg.HSX.LookbackDays, log)

	// 9. Orchestrator
	screen := s1_universe.ScreenConfig{
		TargetCount:  cfg.Pipeline.TargetCount,
		MinFScore:    cfg.Pipeline.MinFScore,
		MaxSectorPE:  cfg.Pipeline.MaxSectorPE,
		MinSectorROE: cfg.Pipeline.MinSectorROE,
	}
	r.orchestrator = brain.NewOrchestrator(
		store, r.vciClient,
		s1_universe.NewBuilder(log), r.scoreBuilder, r.gatherer,
		r.universeRepo, r.scoreRepo, r.sentimentRepo, r.decisionRepo,
		screen, log,
	)

	return r, nil
}

func (r *runtime) close() {
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.WithError(err).Warn("report store close failed")
		}
	}
	if r.db != nil {
		r.db.Close()
	}
	if r.rdb != nil {
		_ = r.rdb.Close()
	}
}
