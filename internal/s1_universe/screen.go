package s1_universe

import (
	"sort"

	"github.com/wonny/vquant/backend/internal/contracts"
)

// ScreenConfig bounds the conviction screen that picks the target list
// for the expensive per-ticker stages.
type ScreenConfig struct {
	TargetCount  int
	MinFScore    int
	MaxSectorPE  float64
	MinSectorROE float64
}

// DefaultScreenConfig mirrors the screen's standing parameters: skip
// bubble sectors, skip dead sectors, demand mid-quality fundamentals.
func DefaultScreenConfig() ScreenConfig {
	return ScreenConfig{
		TargetCount:  50,
		MinFScore:    5,
		MaxSectorPE:  25.0,
		MinSectorROE: 5.0,
	}
}

// Target is one shortlisted ticker with its conviction score.
type Target struct {
	Ticker     string  `json:"ticker"`
	Industry   string  `json:"industry"`
	PE         float64 `json:"pe"`
	SectorPE   float64 `json:"sector_pe"`
	FScore     int     `json:"piotroski_f_score"`
	Conviction float64 `json:"final_conviction_score"`
}

// Screen shortlists the universe to at most TargetCount names:
// quality (F-Score ≥ min), sector sanity (median P/E below bubble cap,
// median ROE above dead floor), ordered by conviction. Conviction
// blends quality, relative cheapness and sector profitability.
func Screen(u *contracts.Universe, fscores map[string]contracts.FScore, cfg ScreenConfig) []Target {
	var targets []Target
	for _, row := range u.Rows {
		fs, ok := fscores[row.Ticker]
		if !ok || !fs.Valid || fs.Value < cfg.MinFScore {
			continue
		}
		sector, ok := u.Sectors[row.Industry]
		if !ok || sector.MedianPE >= cfg.MaxSectorPE || sector.MedianROE <= cfg.MinSectorROE {
			continue
		}

		// Unclipped: a deep discount should keep lifting conviction.
		discount := (row.PE - sector.MedianPE) / sector.MedianPE
		conviction := 0.4*(float64(fs.Value)/9.0) +
			0.4*(-discount) +
			0.2*(sector.MedianROE/20.0)

		targets = append(targets, Target{
			Ticker:     row.Ticker,
			Industry:   row.Industry,
			PE:         row.PE,
			SectorPE:   sector.MedianPE,
			FScore:     fs.Value,
			Conviction: conviction,
		})
	}

	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Conviction > targets[j].Conviction
	})
	if cfg.TargetCount > 0 && len(targets) > cfg.TargetCount {
		targets = targets[:cfg.TargetCount]
	}
	return targets
}
