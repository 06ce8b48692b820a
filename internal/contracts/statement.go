package contracts

import "time"

// StatementKind identifies one of the three fiscal statement kinds.
type StatementKind string

const (
	BalanceSheet    StatementKind = "bs"
	IncomeStatement StatementKind = "is"
	CashFlow        StatementKind = "cf"
)

// AllStatementKinds lists the kinds a full scoring run needs.
var AllStatementKinds = []StatementKind{BalanceSheet, IncomeStatement, CashFlow}

// YearRow is one fiscal-year row of a statement: line-item label (free
// text, possibly in the source language) to numeric value. Unparseable
// source fields are stored as 0 by the clients, never dropped.
type YearRow map[string]float64

// FinancialStatement is one statement kind for one ticker, ordered most
// recent year first. Index 0 = current year, index 1 = prior year.
type FinancialStatement struct {
	Ticker    string        `json:"ticker"`
	Kind      StatementKind `json:"kind"`
	Rows      []YearRow     `json:"rows"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// HasYears reports whether the statement carries at least n yearly rows.
// Scoring requires two; fewer makes the score undefined, not zero.
func (s *FinancialStatement) HasYears(n int) bool {
	return s != nil && len(s.Rows) >= n
}

// Empty reports whether the statement has no usable rows.
func (s *FinancialStatement) Empty() bool {
	return s == nil || len(s.Rows) == 0
}

// StatementBundle holds the three statements scoring consumes.
type StatementBundle struct {
	Balance *FinancialStatement
	Income  *FinancialStatement
	Cash    *FinancialStatement
}

// Complete reports whether every statement is present with at least two
// fiscal years.
func (b *StatementBundle) Complete() bool {
	return b != nil &&
		b.Balance.HasYears(2) &&
		b.Income.HasYears(2) &&
		b.Cash.HasYears(2)
}
