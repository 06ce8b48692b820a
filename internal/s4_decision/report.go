package s4_decision

import (
	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/internal/s1_universe"
	"github.com/wonny/vquant/backend/internal/s2_scores"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// Inputs carries everything the fusion stage consumes, keyed by
// ticker. Maps may be sparse: a ticker missing from any of them gets
// that signal's neutral default.
type Inputs struct {
	Universe   *contracts.Universe
	Scores     map[string]s2_scores.TickerScores
	Sentiment  map[string]contracts.CombinedSentiment
	Technicals map[string]contracts.TechnicalSnapshot
}

// BuildReport fuses all signals for the given tickers and returns the
// ordered report: action rank ascending, alpha descending within a
// rank.
func BuildReport(tickers []string, in Inputs, log *logger.Logger) []contracts.ReportRow {
	rows := make([]contracts.ReportRow, 0, len(tickers))

	for _, ticker := range tickers {
		row, _ := in.Universe.Row(ticker)
		sector, _ := in.Universe.SectorFor(ticker)
		scores := in.Scores[ticker]
		sentiment := in.Sentiment[ticker]
		snap, hasTech := in.Technicals[ticker]
		if !hasTech {
			snap = contracts.TechnicalSnapshot{Ticker: ticker, State: contracts.TrendNoData}
		}

		discount := s1_universe.RelativeDiscount(row.PE, sector.MedianPE)
		alpha := AlphaScore(scores.FScore, discount, sentiment.Final)
		decision := Fuse(ticker, scores.MScore.Flag(), alpha, snap.State)

		rows = append(rows, contracts.ReportRow{
			Ticker:         ticker,
			FinalAction:    decision.Action,
			ActionRank:     decision.ActionRank,
			AlphaScore:     alpha,
			CurrentPrice:   snap.Price,
			TechnicalState: snap.State,
			AccountingRisk: decision.Risk,
			RSI14:          snap.DisplayRSI(),
			PE:             row.PE,
			SectorPE:       sector.MedianPE,
			FinalSentiment: sentiment.Final,
		})
	}

	contracts.SortReport(rows)

	log.WithField("rows", len(rows)).Info("Report assembled")
	return rows
}
