// Package brain coordinates the full scoring pipeline.
package brain

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/internal/s0_data/reportstore"
	"github.com/wonny/vquant/backend/internal/s1_universe"
	"github.com/wonny/vquant/backend/internal/s2_scores"
	"github.com/wonny/vquant/backend/internal/s3_sentiment"
	"github.com/wonny/vquant/backend/internal/s4_decision"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// MarketSource provides the full-market fundamentals snapshot.
type MarketSource interface {
	Screener(ctx context.Context, exchanges []string) ([]contracts.FundamentalsRow, error)
}

// ProgressFunc receives stage transitions for live run tracking. May
// be nil.
type ProgressFunc func(stage string, detail string)

// Orchestrator coordinates the entire 5-stage pipeline
// ⭐ SSOT: pipeline sequencing lives here and only here.
type Orchestrator struct {
	store           *reportstore.Store
	market          MarketSource
	universeBuilder *s1_universe.Builder
	scoreBuilder    *s2_scores.Builder
	gatherer        *s3_sentiment.Gatherer

	universeRepo  *s1_universe.Repository
	scoreRepo     *s2_scores.Repository
	sentimentRepo *s3_sentiment.Repository
	decisionRepo  *s4_decision.Repository

	screen s1_universe.ScreenConfig
	logger *logger.Logger
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	Date     time.Time
	Progress ProgressFunc
	// Candidates caps how many universe leaders get fundamental
	// scoring. Zero means twice the target list size.
	Candidates int
	// SkipPersist runs without writing to Postgres, for local
	// inspection.
	SkipPersist bool
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	Date            time.Time
	Success         bool
	Error           error
	CompletedStages []string
	Universe        *contracts.Universe
	Targets         []s1_universe.Target
	Report          []contracts.ReportRow
	Integrity       contracts.IntegrityReport
	Duration        time.Duration
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	store *reportstore.Store,
	market MarketSource,
	universeBuilder *s1_universe.Builder,
	scoreBuilder *s2_scores.Builder,
	gatherer *s3_sentiment.Gatherer,
	universeRepo *s1_universe.Repository,
	scoreRepo *s2_scores.Repository,
	sentimentRepo *s3_sentiment.Repository,
	decisionRepo *s4_decision.Repository,
	screen s1_universe.ScreenConfig,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:           store,
		market:          market,
		universeBuilder: universeBuilder,
		scoreBuilder:    scoreBuilder,
		gatherer:        gatherer,
		universeRepo:    universeRepo,
		scoreRepo:       scoreRepo,
		sentimentRepo:   sentimentRepo,
		decisionRepo:    decisionRepo,
		screen:          screen,
		logger:          log,
	}
}

func (o *Orchestrator) progress(cfg RunConfig, stage, detail string) {
	if cfg.Progress != nil {
		cfg.Progress(stage, detail)
	}
	o.logger.WithFields(map[string]interface{}{
		"stage":  stage,
		"detail": detail,
	}).Info("Pipeline progress")
}

// Run executes the complete pipeline:
// S0 base → S1 universe → S2 scores → screen → S3 sentiment →
// technicals → S4 fusion.
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	startTime := time.Now()
	if cfg.Date.IsZero() {
		cfg.Date = startTime
	}
	runDate := cfg.Date.Format("2006-01-02")

	result := &RunResult{
		Date:            cfg.Date,
		CompletedStages: make([]string, 0),
	}
	var failures []contracts.Failure

	// S0: fundamentals base, refreshed only past a fiscal deadline.
	o.progress(cfg, "S0:Base", "loading market fundamentals")
	base, err := o.loadBase(ctx, cfg.Date)
	if err != nil {
		result.Error = fmt.Errorf("S0 failed: %w", err)
		return result, result.Error
	}
	result.CompletedStages = append(result.CompletedStages, "S0:Base")

	// S1: clean, rank, profile sectors.
	o.progress(cfg, "S1:Universe", fmt.Sprintf("%d raw rows", len(base)))
	universe := o.universeBuilder.Build(base, cfg.Date)
	result.Universe = universe
	if !cfg.SkipPersist && o.universeRepo != nil {
		if err := o.universeRepo.SaveUniverse(ctx, universe); err != nil {
			result.Error = fmt.Errorf("S1 persist failed: %w", err)
			return result, result.Error
		}
	}
	result.CompletedStages = append(result.CompletedStages, "S1:Universe")

	// S2: accounting scores over the cheapest slice of the universe.
	limit := cfg.Candidates
	if limit <= 0 {
		limit = o.screen.TargetCount * 2
	}
	candidates := candidateTickers(universe, limit)
	o.progress(cfg, "S2:Scores", fmt.Sprintf("%d candidates", len(candidates)))
	scores, scoreFailures := o.scoreBuilder.FundamentalScores(ctx, candidates)
	failures = append(failures, scoreFailures...)

	fscores := make(map[string]contracts.FScore, len(scores))
	for t, s := range scores {
		fscores[t] = s.FScore
	}
	if !cfg.SkipPersist && o.scoreRepo != nil {
		if err := o.scoreRepo.SaveScores(ctx, runDate, scores); err != nil {
			result.Error = fmt.Errorf("S2 persist failed: %w", err)
			return result, result.Error
		}
	}
	result.CompletedStages = append(result.CompletedStages, "S2:Scores")

	// Conviction screen picks the target list for the scraping stages.
	targets := s1_universe.Screen(universe, fscores, o.screen)
	result.Targets = targets
	if !cfg.SkipPersist && o.universeRepo != nil {
		if err := o.universeRepo.SaveTargets(ctx, runDate, targets); err != nil {
			result.Error = fmt.Errorf("target persist failed: %w", err)
			return result, result.Error
		}
	}

	tickers := make([]string, len(targets))
	targetInfos := make([]s3_sentiment.TargetInfo, len(targets))
	for i, t := range targets {
		tickers[i] = t.Ticker
		exchange := ""
		if row, ok := universe.Row(t.Ticker); ok {
			exchange = row.Exchange
		}
		targetInfos[i] = s3_sentiment.TargetInfo{Ticker: t.Ticker, Exchange: exchange}
	}

	// S3: sentiment over the target list.
	o.progress(cfg, "S3:Sentiment", fmt.Sprintf("%d targets", len(tickers)))
	items := o.gatherer.Gather(ctx, targetInfos)
	combined := s3_sentiment.Aggregate(items)
	if !cfg.SkipPersist && o.sentimentRepo != nil {
		if err := o.sentimentRepo.SaveCombined(ctx, runDate, combined); err != nil {
			result.Error = fmt.Errorf("S3 persist failed: %w", err)
			return result, result.Error
		}
	}
	result.CompletedStages = append(result.CompletedStages, "S3:Sentiment")

	// Technicals for the same targets.
	o.progress(cfg, "S2:Technicals", fmt.Sprintf("%d targets", len(tickers)))
	technicals, techFailures := o.scoreBuilder.TechnicalSnapshots(ctx, tickers)
	failures = append(failures, techFailures...)
	if !cfg.SkipPersist && o.scoreRepo != nil {
		if err := o.scoreRepo.SaveTechnicals(ctx, runDate, technicals); err != nil {
			result.Error = fmt.Errorf("technical persist failed: %w", err)
			return result, result.Error
		}
	}
	result.CompletedStages = append(result.CompletedStages, "S2:Technicals")

	// S4: fuse and rank.
	o.progress(cfg, "S4:Fusion", fmt.Sprintf("%d tickers", len(tickers)))
	report := s4_decision.BuildReport(tickers, s4_decision.Inputs{
		Universe:   universe,
		Scores:     scores,
		Sentiment:  combined,
		Technicals: technicals,
	}, o.logger)
	result.Report = report
	result.Integrity = buildIntegrity(cfg.Date, len(candidates), failures)

	if !cfg.SkipPersist && o.decisionRepo != nil {
		if err := o.decisionRepo.SaveReport(ctx, runDate, report, result.Integrity); err != nil {
			result.Error = fmt.Errorf("S4 persist failed: %w", err)
			return result, result.Error
		}
	}
	result.CompletedStages = append(result.CompletedStages, "S4:Fusion")

	result.Success = true
	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"duration":  result.Duration.String(),
		"rows":      len(report),
		"succeeded": result.Integrity.Succeeded,
		"failed":    result.Integrity.Failed,
	}).Info("Pipeline run complete")
	return result, nil
}

// loadBase serves the stored fundamentals base when it is still inside
// the current reporting window, refetching from the screener otherwise.
func (o *Orchestrator) loadBase(ctx context.Context, now time.Time) ([]contracts.FundamentalsRow, error) {
	if o.store.BaseValid(now) {
		rows, _, err := o.store.GetBase()
		if err == nil {
			o.logger.WithField("rows", len(rows)).Info("Using stored fundamentals base")
			return rows, nil
		}
		o.logger.WithError(err).Warn("stored base unreadable, refetching")
	}

	rows, err := o.market.Screener(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("screener fetch: %w", err)
	}
	if err := o.store.PutBase(rows, now); err != nil {
		o.logger.WithError(err).Warn("base store write failed")
	}
	return rows, nil
}

// candidateTickers takes the top slice of the universe by final rank.
func candidateTickers(u *contracts.Universe, limit int) []string {
	if limit <= 0 || limit > len(u.Rows) {
		limit = len(u.Rows)
	}
	type ranked struct {
		ticker string
		rank   int
	}
	all := make([]ranked, 0, len(u.Ranks))
	for t, r := range u.Ranks {
		all = append(all, ranked{ticker: t, rank: r.FinalRank})
	}
	// Selection by final rank, ascending. Stable so equal ranks keep
	// map-independent ordering via the ticker tiebreak.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].rank != all[j].rank {
			return all[i].rank < all[j].rank
		}
		return all[i].ticker < all[j].ticker
	})
	if limit > len(all) {
		limit = len(all)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = all[i].ticker
	}
	return out
}

func buildIntegrity(runAt time.Time, total int, failures []contracts.Failure) contracts.IntegrityReport {
	return contracts.IntegrityReport{
		RunAt:     runAt,
		Total:     total,
		Succeeded: total - len(failures),
		Failed:    len(failures),
		Failures:  failures,
	}
}
