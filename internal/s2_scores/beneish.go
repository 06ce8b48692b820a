package s2_scores

import (
	"math"

	"github.com/wonny/vquant/backend/internal/contracts"
)

// Beneish M-score weights.
const (
	mIntercept = -4.84
	wDSRI      = 0.92
	wGMI       = 0.528
	wAQI       = 0.404
	wSGI       = 0.892
	wDEPI      = 0.115
	wSGAI      = -0.172
	wTATA      = 4.679
	wLVGI      = -0.327
)

// BeneishMScore computes the earnings-manipulation score from the
// balance sheet and income statement. Any ratio with an unavailable or
// zero denominator falls back to its neutral value (1.0 for index
// ratios, 0 for TATA and margin components), so the formula degrades
// instead of failing. The score is undefined when either statement has
// fewer than two yearly rows.
func BeneishMScore(ticker string, b contracts.StatementBundle) contracts.MScore {
	if !b.Balance.HasYears(2) || !b.Income.HasYears(2) {
		return contracts.MScore{Ticker: ticker, Valid: false}
	}

	revCY := Lookup(b.Income, 0, Revenue)
	revPY := Lookup(b.Income, 1, Revenue)

	// DSRI: receivables growing faster than sales suggests channel
	// stuffing.
	recCY := Lookup(b.Balance, 0, Receivables)
	recPY := Lookup(b.Balance, 1, Receivables)
	dsri := 1.0
	if revCY != 0 && revPY != 0 && recPY != 0 {
		dsri = (recCY / revCY) / (recPY / revPY)
	}

	// GMI: deteriorating margin pressures management toward fakery.
	gmCY := grossMargin(revCY, Lookup(b.Income, 0, CostOfGoodsSold))
	gmPY := grossMargin(revPY, Lookup(b.Income, 1, CostOfGoodsSold))
	gmi := 1.0
	if gmCY != 0 {
		gmi = gmPY / gmCY
	}

	// AQI: rising share of soft assets hints at capitalized expenses.
	taCY := Lookup(b.Balance, 0, TotalAssets)
	taPY := Lookup(b.Balance, 1, TotalAssets)
	aqCY := assetQuality(Lookup(b.Balance, 0, CurrentAssets), Lookup(b.Balance, 0, FixedAssets), taCY)
	aqPY := assetQuality(Lookup(b.Balance, 1, CurrentAssets), Lookup(b.Balance, 1, FixedAssets), taPY)
	aqi := 1.0
	if aqPY != 0 {
		aqi = aqCY / aqPY
	}

	// SGI: implausible growth.
	sgi := 1.0
	if revPY != 0 {
		sgi = revCY / revPY
	}

	// DEPI pinned: depreciation schedules are not available from this
	// data source. Simplification, not a bug.
	depi := 1.0

	// SGAI: overheads rising out of proportion.
	sgaCY := Lookup(b.Income, 0, SGAExpenses)
	sgaPY := Lookup(b.Income, 1, SGAExpenses)
	sgai := 1.0
	if revCY != 0 && revPY != 0 && sgaPY != 0 {
		sgai = (sgaCY / revCY) / (sgaPY / revPY)
	}

	// LVGI: leverage creeping up to fund operations.
	levCY := leverage(Lookup(b.Balance, 0, CurrentLiabilities), Lookup(b.Balance, 0, LongTermDebt), taCY)
	levPY := leverage(Lookup(b.Balance, 1, CurrentLiabilities), Lookup(b.Balance, 1, LongTermDebt), taPY)
	lvgi := 1.0
	if levPY != 0 {
		lvgi = levCY / levPY
	}

	// TATA: accrual proxy. Cash-and-equivalents stands in for cash
	// flow from operations; a documented approximation.
	tata := 0.0
	if taCY != 0 {
		tata = (Lookup(b.Income, 0, NetIncome) - Lookup(b.Balance, 0, CashAndEquivalents)) / taCY
	}

	indices := contracts.MIndices{
		DSRI: dsri, GMI: gmi, AQI: aqi, SGI: sgi,
		DEPI: depi, SGAI: sgai, LVGI: lvgi, TATA: tata,
	}

	m := mIntercept +
		wDSRI*dsri + wGMI*gmi + wAQI*aqi + wSGI*sgi +
		wDEPI*depi + wSGAI*sgai + wTATA*tata + wLVGI*lvgi

	if math.IsNaN(m) || math.IsInf(m, 0) {
		return contracts.MScore{Ticker: ticker, Valid: false, Indices: indices}
	}
	return contracts.MScore{Ticker: ticker, Value: m, Valid: true, Indices: indices}
}

func assetQuality(currentAssets, fixedAssets, totalAssets float64) float64 {
	if totalAssets == 0 {
		return 0
	}
	return 1 - (currentAssets+fixedAssets)/totalAssets
}

func leverage(currentLiabilities, longTermDebt, totalAssets float64) float64 {
	if totalAssets == 0 {
		return 0
	}
	return (currentLiabilities + longTermDebt) / totalAssets
}
