package contracts

import (
	"sort"
	"time"
)

// FinalAction is the fused verdict for one ticker.
type FinalAction string

const (
	ActionStrongBuy FinalAction = "STRONG_BUY_VALUE_PLUS_DIP"
	ActionBuy       FinalAction = "BUY_MOMENTUM_PLUS_VALUE"
	ActionWatchlist FinalAction = "WATCHLIST_WAIT_FOR_UPTREND"
	ActionHold      FinalAction = "HOLD_NEUTRAL"
	ActionPass      FinalAction = "PASS_LOW_CONVICTION"
	ActionAvoid     FinalAction = "AVOID_ACCOUNTING_RED_FLAG"
)

// actionRanks maps each action to its sort rank. Lower rank means more
// actionable; the report is ordered by rank ascending.
var actionRanks = map[FinalAction]int{
	ActionStrongBuy: 0,
	ActionBuy:       1,
	ActionWatchlist: 2,
	ActionHold:      3,
	ActionPass:      4,
	ActionAvoid:     5,
}

// Rank returns the sort rank for the action. Unknown actions sort last.
func (a FinalAction) Rank() int {
	if r, ok := actionRanks[a]; ok {
		return r
	}
	return len(actionRanks)
}

// AlphaPassThreshold: composite conviction below this is a PASS before
// any technical state is consulted.
const AlphaPassThreshold = 50.0

// Decision is the fusion output for one ticker before report assembly.
type Decision struct {
	Ticker     string      `json:"ticker"`
	Action     FinalAction `json:"final_action"`
	ActionRank int         `json:"action_rank"`
	Alpha      float64     `json:"alpha_score"`
	Risk       RiskFlag    `json:"accounting_risk"`
	Trend      TrendState  `json:"technical_signal"`
}

// ReportRow is one line of the final report. Field set and names match
// the externally consumed JSON contract.
type ReportRow struct {
	Ticker         string      `json:"ticker"`
	FinalAction    FinalAction `json:"FINAL_ACTION"`
	ActionRank     int         `json:"action_rank"`
	AlphaScore     float64     `json:"ALPHA_SCORE"`
	CurrentPrice   float64     `json:"current_price"`
	TechnicalState TrendState  `json:"technical_signal"`
	AccountingRisk RiskFlag    `json:"accounting_risk"`
	RSI14          float64     `json:"RSI_14"`
	PE             float64     `json:"pe"`
	SectorPE       float64     `json:"sector_pe"`
	FinalSentiment float64     `json:"final_sentiment"`
}

// SortReport orders rows by action rank ascending, then alpha score
// descending within the same rank.
func SortReport(rows []ReportRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ActionRank != rows[j].ActionRank {
			return rows[i].ActionRank < rows[j].ActionRank
		}
		return rows[i].AlphaScore > rows[j].AlphaScore
	})
}

// Failure records one ticker that dropped out of the run, with the
// pipeline phase where it failed.
type Failure struct {
	Ticker string `json:"ticker"`
	Phase  string `json:"phase"`
	Cause  string `json:"cause"`
}

// IntegrityReport summarises run completeness so a consumer can judge
// whether the report is trustworthy.
type IntegrityReport struct {
	RunAt     time.Time `json:"run_at"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
}

// SuccessRate returns succeeded/total in [0,1]; 0 for an empty run.
func (r IntegrityReport) SuccessRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Succeeded) / float64(r.Total)
}
