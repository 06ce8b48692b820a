package s1_universe

import (
	"sort"

	"github.com/wonny/vquant/backend/internal/contracts"
)

// sectorPECap excludes distressed near-zero-earnings names whose P/E
// explodes into the hundreds and would drag the sector median.
const sectorPECap = 200

// BuildSectorProfiles aggregates per-industry medians from the raw
// snapshot. Rows need pe>0, pe<cap and mcap>0 to contribute.
func BuildSectorProfiles(rows []contracts.FundamentalsRow) map[string]contracts.SectorProfile {
	type bucket struct {
		pe, pb, roe []float64
		mcap        float64
	}
	buckets := make(map[string]*bucket)

	for _, r := range rows {
		if r.Industry == "" || r.PE <= 0 || r.PE >= sectorPECap || r.MarketCap <= 0 {
			continue
		}
		b, ok := buckets[r.Industry]
		if !ok {
			b = &bucket{}
			buckets[r.Industry] = b
		}
		b.pe = append(b.pe, r.PE)
		b.pb = append(b.pb, r.PB)
		b.roe = append(b.roe, r.ROE)
		b.mcap += r.MarketCap
	}

	profiles := make(map[string]contracts.SectorProfile, len(buckets))
	for industry, b := range buckets {
		profiles[industry] = contracts.SectorProfile{
			Industry:       industry,
			MedianPE:       median(b.pe),
			MedianPB:       median(b.pb),
			MedianROE:      median(b.roe),
			TotalMarketCap: b.mcap,
			Count:          len(b.pe),
		}
	}
	return profiles
}

// RelativeDiscount is (pe − sector_pe)/sector_pe clipped to [−1, 1].
// Negative means cheaper than the sector. Zero sector P/E yields zero:
// no peer group, no opinion.
func RelativeDiscount(pe, sectorPE float64) float64 {
	if sectorPE == 0 {
		return 0
	}
	d := (pe - sectorPE) / sectorPE
	if d > 1 {
		return 1
	}
	if d < -1 {
		return -1
	}
	return d
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
