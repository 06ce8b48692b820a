// Package s1_universe builds the ranked candidate universe from the
// full-market fundamentals snapshot.
package s1_universe

import (
	"sort"
	"time"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// Builder turns raw screener rows into a cleaned, ranked universe.
type Builder struct {
	logger *logger.Logger
}

// NewBuilder creates a universe builder.
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{logger: log}
}

// Build cleans the snapshot, computes value ranks and sector profiles.
func (b *Builder) Build(rows []contracts.FundamentalsRow, asOf time.Time) *contracts.Universe {
	clean := cleanRows(rows)

	u := &contracts.Universe{
		Date:    asOf,
		Rows:    clean,
		Ranks:   rankRows(clean),
		Sectors: BuildSectorProfiles(rows),
	}

	b.logger.WithFields(map[string]interface{}{
		"raw":     len(rows),
		"ranked":  len(u.Rows),
		"sectors": len(u.Sectors),
	}).Info("Universe built")
	return u
}

// cleanRows keeps rows usable for value ranking: positive earnings,
// book value and market cap. Negative-P/E names cannot be ranked on
// cheapness.
func cleanRows(rows []contracts.FundamentalsRow) []contracts.FundamentalsRow {
	clean := make([]contracts.FundamentalsRow, 0, len(rows))
	for _, r := range rows {
		if r.PE > 0 && r.PB > 0 && r.MarketCap > 0 {
			clean = append(clean, r)
		}
	}
	return clean
}

// rankRows assigns ordinal ranks per dimension (1 = best), sums them
// into a composite and ranks the composite. Ties keep the input's
// natural order.
func rankRows(rows []contracts.FundamentalsRow) map[string]contracts.RankRecord {
	n := len(rows)
	records := make(map[string]contracts.RankRecord, n)
	if n == 0 {
		return records
	}

	peOrder := ordinalRank(rows, func(a, b contracts.FundamentalsRow) bool { return a.PE < b.PE })
	pbOrder := ordinalRank(rows, func(a, b contracts.FundamentalsRow) bool { return a.PB < b.PB })
	roeOrder := ordinalRank(rows, func(a, b contracts.FundamentalsRow) bool { return a.ROE > b.ROE })

	type comp struct {
		ticker    string
		composite int
	}
	composites := make([]comp, 0, n)
	for i, r := range rows {
		c := peOrder[i] + pbOrder[i] + roeOrder[i]
		records[r.Ticker] = contracts.RankRecord{
			Ticker:    r.Ticker,
			PERank:    peOrder[i],
			PBRank:    pbOrder[i],
			ROERank:   roeOrder[i],
			Composite: c,
		}
		composites = append(composites, comp{ticker: r.Ticker, composite: c})
	}

	sort.SliceStable(composites, func(i, j int) bool {
		return composites[i].composite < composites[j].composite
	})
	for rank, c := range composites {
		rec := records[c.ticker]
		rec.FinalRank = rank + 1
		records[c.ticker] = rec
	}
	return records
}

// ordinalRank returns each row's 1-based position under the given
// strict ordering, stable over input order for ties.
func ordinalRank(rows []contracts.FundamentalsRow, less func(a, b contracts.FundamentalsRow) bool) []int {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return less(rows[idx[a]], rows[idx[b]])
	})
	ranks := make([]int, len(rows))
	for pos, original := range idx {
		ranks[original] = pos + 1
	}
	return ranks
}
