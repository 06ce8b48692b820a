// Package s2_scores computes the per-ticker quality, forensic and
// technical signals.
package s2_scores

import (
	"sort"
	"strings"

	"github.com/wonny/vquant/backend/internal/contracts"
)

// Concept names a canonical financial line item independent of how a
// provider labels it.
type Concept string

const (
	NetIncome          Concept = "net_income"
	TotalAssets        Concept = "total_assets"
	OperatingCashFlow  Concept = "operating_cash_flow"
	LongTermDebt       Concept = "long_term_debt"
	CurrentAssets      Concept = "current_assets"
	CurrentLiabilities Concept = "current_liabilities"
	ShareCapital       Concept = "share_capital"
	Revenue            Concept = "revenue"
	CostOfGoodsSold    Concept = "cogs"
	Receivables        Concept = "receivables"
	FixedAssets        Concept = "fixed_assets"
	SGAExpenses        Concept = "sga_expenses"
	CashAndEquivalents Concept = "cash_and_equivalents"
)

// conceptKeywords is the ordered concept→accepted-label-substring
// table. Providers label the same item differently across statement
// templates; matching is case-insensitive substring, earlier keywords
// win. Data, not code: extend here, not in scorer logic.
var conceptKeywords = map[Concept][]string{
	NetIncome:          {"net profit", "net income", "profit after tax"},
	TotalAssets:        {"total assets"},
	OperatingCashFlow:  {"net cash flows from operating", "net cash inflows/outflows from operating"},
	LongTermDebt:       {"long-term liabilities", "non-current liabilities"},
	CurrentAssets:      {"current assets", "short-term assets"},
	CurrentLiabilities: {"current liabilities", "short-term liabilities"},
	ShareCapital:       {"share capital", "paid-in capital", "charter capital"},
	Revenue:            {"revenue", "net revenue"},
	CostOfGoodsSold:    {"cost of goods sold", "cost of sales"},
	Receivables:        {"receivables", "short-term receivables"},
	FixedAssets:        {"fixed assets", "property, plant"},
	SGAExpenses:        {"selling expenses", "admin", "operating expenses"},
	CashAndEquivalents: {"cash", "cash equivalents"},
}

// Lookup resolves a concept's value in the yearIdx-th most recent row
// of a statement (0 = current year). Missing statement, row or label
// yields 0: absent line items read as zero, never as an error.
func Lookup(stmt *contracts.FinancialStatement, yearIdx int, concept Concept) float64 {
	if stmt == nil || yearIdx < 0 || yearIdx >= len(stmt.Rows) {
		return 0
	}
	keywords, ok := conceptKeywords[concept]
	if !ok {
		return 0
	}
	row := stmt.Rows[yearIdx]

	// Sorted labels make the keyword scan deterministic when several
	// labels contain the same keyword.
	labels := make([]string, 0, len(row))
	for label := range row {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, kw := range keywords {
		for _, label := range labels {
			if strings.Contains(strings.ToLower(label), kw) {
				return row[label]
			}
		}
	}
	return 0
}
