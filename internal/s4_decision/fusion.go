// Package s4_decision fuses the accounting, valuation, sentiment and
// technical signals into one ranked action table.
package s4_decision

import (
	"github.com/wonny/vquant/backend/internal/contracts"
)

// Alpha component weights.
const (
	qualityWeight   = 0.4
	discountWeight  = 0.3
	sentimentWeight = 0.3
)

// AlphaScore is the 0–100 composite conviction:
// 40% fundamental quality, 30% relative cheapness, 30% sentiment.
// The discount enters negated — cheaper than the sector raises alpha.
func AlphaScore(fscore contracts.FScore, discount, sentiment float64) float64 {
	return (qualityWeight*fscore.Normalized() +
		discountWeight*(-clip(discount)) +
		sentimentWeight*sentiment) * 100
}

func clip(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// Fuse applies the decision matrix in strict precedence order. The
// forensic veto comes first: no alpha, however high, overrides an
// accounting red flag.
func Fuse(ticker string, risk contracts.RiskFlag, alpha float64, trend contracts.TrendState) contracts.Decision {
	var action contracts.FinalAction
	switch {
	case risk == contracts.RiskHigh:
		action = contracts.ActionAvoid
	case alpha < contracts.AlphaPassThreshold:
		action = contracts.ActionPass
	case trend == contracts.TrendDowntrend || trend == contracts.TrendFallingKnife:
		action = contracts.ActionWatchlist
	case trend == contracts.TrendStrongBuyDip:
		action = contracts.ActionStrongBuy
	case trend == contracts.TrendUptrend:
		action = contracts.ActionBuy
	default:
		action = contracts.ActionHold
	}

	return contracts.Decision{
		Ticker:     ticker,
		Action:     action,
		ActionRank: action.Rank(),
		Alpha:      alpha,
		Risk:       risk,
		Trend:      trend,
	}
}
