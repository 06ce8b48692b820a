package s2_scores

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/vquant/backend/internal/contracts"
)

func barsFromCloses(closes []float64) []contracts.PriceBar {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = contracts.PriceBar{Date: start.AddDate(0, 0, i), Close: c, Volume: 1}
	}
	return bars
}

func TestRSIMonotonicRiseApproaches100(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi, ok := RSI(closes, 14)
	assert.True(t, ok)
	assert.InDelta(t, 100.0, rsi, 1e-9, "no losses must drive RSI to 100 without a division error")
}

func TestRSIMonotonicFallApproachesZero(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	rsi, ok := RSI(closes, 14)
	assert.True(t, ok)
	assert.InDelta(t, 0.0, rsi, 1e-9)
}

func TestRSIInsufficientHistory(t *testing.T) {
	closes := make([]float64, 14) // needs period+1
	_, ok := RSI(closes, 14)
	assert.False(t, ok)
}

func TestRSIFlatSeriesNeutral(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 50
	}
	rsi, ok := RSI(closes, 14)
	assert.True(t, ok)
	assert.InDelta(t, 50.0, rsi, 1e-9)
}

func TestRSIBounded(t *testing.T) {
	closes := []float64{10, 12, 11, 13, 12, 14, 13, 15, 14, 16, 15, 17, 16, 18, 17, 19}
	rsi, ok := RSI(closes, 14)
	assert.True(t, ok)
	assert.Greater(t, rsi, 50.0, "mostly rising series must read bullish")
	assert.Less(t, rsi, 100.0)
}

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	got, ok := SMA(closes, 3)
	assert.True(t, ok)
	assert.InDelta(t, 4.0, got, 1e-9)

	_, ok = SMA(closes, 10)
	assert.False(t, ok)
}

func TestClassifyRequires200Closes(t *testing.T) {
	snap := Classify("FPT", barsFromCloses(make([]float64, 199)))
	assert.False(t, snap.Valid)
	assert.Equal(t, contracts.TrendNoData, snap.State)
}

func TestClassifyStates(t *testing.T) {
	// 250 flat closes at 100, then shape the tail.
	base := func() []float64 {
		closes := make([]float64, 250)
		for i := range closes {
			closes[i] = 100
		}
		return closes
	}

	t.Run("uptrend", func(t *testing.T) {
		closes := base()
		// Steady rise keeps price above SMA200 and RSI hot.
		for i := 200; i < 250; i++ {
			closes[i] = 100 + float64(i-199)
		}
		snap := Classify("FPT", barsFromCloses(closes))
		assert.True(t, snap.Valid)
		assert.Equal(t, contracts.TrendUptrend, snap.State)
	})

	t.Run("strong buy dip", func(t *testing.T) {
		closes := base()
		// Long rise, then a sharp pullback that stays above SMA200.
		for i := 50; i < 240; i++ {
			closes[i] = 100 + float64(i-49)
		}
		for i := 240; i < 250; i++ {
			closes[i] = closes[239] - 3*float64(i-239)
		}
		snap := Classify("FPT", barsFromCloses(closes))
		assert.True(t, snap.Valid)
		assert.Greater(t, snap.Price, snap.SMA200)
		assert.Less(t, snap.RSI14, contracts.RSIOversold)
		assert.Equal(t, contracts.TrendStrongBuyDip, snap.State)
	})

	t.Run("falling knife", func(t *testing.T) {
		closes := base()
		// Relentless slide: below SMA200 and oversold.
		for i := 100; i < 250; i++ {
			closes[i] = 100 - 0.3*float64(i-99)
		}
		snap := Classify("FPT", barsFromCloses(closes))
		assert.True(t, snap.Valid)
		assert.Less(t, snap.Price, snap.SMA200)
		assert.Less(t, snap.RSI14, contracts.RSIOversold)
		assert.Equal(t, contracts.TrendFallingKnife, snap.State)
	})

	t.Run("downtrend", func(t *testing.T) {
		closes := base()
		// Below SMA200 but recently recovering, so RSI is not oversold.
		for i := 100; i < 240; i++ {
			closes[i] = 100 - 0.3*float64(i-99)
		}
		for i := 240; i < 250; i++ {
			closes[i] = closes[239] + 0.5*float64(i-239)
		}
		snap := Classify("FPT", barsFromCloses(closes))
		assert.True(t, snap.Valid)
		assert.Less(t, snap.Price, snap.SMA200)
		assert.GreaterOrEqual(t, snap.RSI14, contracts.RSIOversold)
		assert.Equal(t, contracts.TrendDowntrend, snap.State)
	})
}
