package s2_scores

import (
	"math"

	"github.com/wonny/vquant/backend/internal/contracts"
)

// rsiPeriod is Wilder's classic lookback.
const rsiPeriod = 14

// RSI computes the relative strength index of a close series using
// Wilder's smoothing, expressed as an exponentially weighted mean with
// center of mass period−1 and a minimum of period observations. The
// returned flag is false until enough history has accumulated. A
// series with no losses converges to 100 without dividing by zero.
func RSI(closes []float64, period int) (float64, bool) {
	if len(closes) < period+1 {
		return 0, false
	}

	gains := make([]float64, 0, len(closes)-1)
	losses := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains = append(gains, delta)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -delta)
		}
	}

	// Wilder's smoothing: center of mass period−1 ⇒ alpha 1/period.
	alpha := 1.0 / float64(period)
	avgGain := ewmMean(gains, alpha)
	avgLoss := ewmMean(losses, alpha)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50, true
		}
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// ewmMean is the adjusted exponentially weighted mean of the whole
// series: newer observations carry weight (1−alpha)^age, normalized
// over the observed points.
func ewmMean(xs []float64, alpha float64) float64 {
	num, den := 0.0, 0.0
	w := 1.0
	for i := len(xs) - 1; i >= 0; i-- {
		num += w * xs[i]
		den += w
		w *= 1 - alpha
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// SMA returns the simple moving average of the last window closes.
func SMA(closes []float64, window int) (float64, bool) {
	if window <= 0 || len(closes) < window {
		return 0, false
	}
	sum := 0.0
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return sum / float64(window), true
}

// Classify builds the technical snapshot for a ticker from its daily
// bars, oldest first. Fewer than 200 closes means SMA200 cannot exist
// and the snapshot is undefined. A missing RSI reads as the neutral 50
// for display but is flagged estimated.
func Classify(ticker string, bars []contracts.PriceBar) contracts.TechnicalSnapshot {
	if len(bars) < contracts.MinClosesForTrend {
		return contracts.TechnicalSnapshot{Ticker: ticker, State: contracts.TrendNoData}
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	price := closes[len(closes)-1]

	sma50, _ := SMA(closes, 50)
	sma200, _ := SMA(closes, 200)

	rsi, ok := RSI(closes, rsiPeriod)
	estimated := !ok || math.IsNaN(rsi)
	if estimated {
		rsi = contracts.RSIDisplayDefault
	}

	snap := contracts.TechnicalSnapshot{
		Ticker:       ticker,
		Price:        price,
		RSI14:        rsi,
		SMA50:        sma50,
		SMA200:       sma200,
		RSIEstimated: estimated,
		Valid:        true,
	}

	uptrend := price > sma200
	oversold := rsi < contracts.RSIOversold
	switch {
	case uptrend && oversold:
		snap.State = contracts.TrendStrongBuyDip
	case uptrend:
		snap.State = contracts.TrendUptrend
	case oversold:
		snap.State = contracts.TrendFallingKnife
	default:
		snap.State = contracts.TrendDowntrend
	}
	return snap
}
