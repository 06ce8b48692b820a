package s2_scores

import (
	"math"

	"github.com/wonny/vquant/backend/internal/contracts"
)

// PiotroskiScore runs the nine binary quality tests over two
// consecutive fiscal years. The score is undefined (Valid=false), not
// zero, when any statement has fewer than two yearly rows: "failed to
// compute" and "computed 0" must stay distinguishable.
func PiotroskiScore(ticker string, b contracts.StatementBundle) contracts.FScore {
	if !b.Balance.HasYears(2) || !b.Income.HasYears(2) || !b.Cash.HasYears(2) {
		return contracts.FScore{Ticker: ticker, Valid: false}
	}

	score := 0

	// Profitability.
	netIncomeCY := Lookup(b.Income, 0, NetIncome)
	totalAssetsCY := Lookup(b.Balance, 0, TotalAssets)
	totalAssetsPY := Lookup(b.Balance, 1, TotalAssets)
	avgAssetsCY := (totalAssetsCY + totalAssetsPY) / 2

	roaCY := ratio(netIncomeCY, avgAssetsCY)
	if roaCY > 0 {
		score++
	}

	cfoCY := Lookup(b.Cash, 0, OperatingCashFlow)
	if cfoCY > 0 {
		score++
	}

	netIncomePY := Lookup(b.Income, 1, NetIncome)
	roaPY := ratio(netIncomePY, totalAssetsPY)
	if roaCY > roaPY {
		score++
	}
	if cfoCY > netIncomeCY {
		score++
	}

	// Leverage, liquidity, dilution.
	levCY := ratio(Lookup(b.Balance, 0, LongTermDebt), avgAssetsCY)
	levPY := ratio(Lookup(b.Balance, 1, LongTermDebt), totalAssetsPY)
	if levCY < levPY {
		score++
	}

	crCY := ratio(Lookup(b.Balance, 0, CurrentAssets), Lookup(b.Balance, 0, CurrentLiabilities))
	crPY := ratio(Lookup(b.Balance, 1, CurrentAssets), Lookup(b.Balance, 1, CurrentLiabilities))
	if crCY > crPY {
		score++
	}

	if Lookup(b.Balance, 0, ShareCapital) <= Lookup(b.Balance, 1, ShareCapital) {
		score++
	}

	// Operating efficiency.
	revCY := Lookup(b.Income, 0, Revenue)
	revPY := Lookup(b.Income, 1, Revenue)
	gmCY := grossMargin(revCY, Lookup(b.Income, 0, CostOfGoodsSold))
	gmPY := grossMargin(revPY, Lookup(b.Income, 1, CostOfGoodsSold))
	if gmCY > gmPY {
		score++
	}

	if ratio(revCY, avgAssetsCY) > ratio(revPY, totalAssetsPY) {
		score++
	}

	return contracts.FScore{Ticker: ticker, Value: score, Valid: true}
}

// ratio is num/den with a zero denominator reading as 0, not a panic.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// grossMargin takes |COGS| because some statement templates report
// costs as negative values.
func grossMargin(revenue, cogs float64) float64 {
	if revenue == 0 {
		return 0
	}
	return (revenue - math.Abs(cogs)) / revenue
}
