package contracts

// FScore is a Piotroski fundamental-quality score: an integer 0-9 built
// from nine independent binary tests. Valid distinguishes "failed to
// compute" (missing statements) from a computed score of 0.
type FScore struct {
	Ticker string `json:"ticker"`
	Value  int    `json:"value"`
	Valid  bool   `json:"valid"`
}

// Normalized returns the score on a 0-1 scale, 0 when undefined.
func (f FScore) Normalized() float64 {
	if !f.Valid {
		return 0
	}
	return float64(f.Value) / 9.0
}

// RiskFlag is the forensic verdict derived from the Beneish M-Score.
type RiskFlag string

const (
	RiskHigh RiskFlag = "HIGH_RISK"
	RiskSafe RiskFlag = "SAFE"
)

// MScoreThreshold is the published Beneish cut-off: scores above it
// (note: -1.0 is above -2.22) suggest earnings manipulation.
const MScoreThreshold = -2.22

// MIndices are the eight Beneish sub-indices. Each defaults to its
// neutral value (1.0 for index ratios, 0 for TATA) when inputs are
// unavailable, so a partial statement still yields a finite score.
type MIndices struct {
	DSRI float64 `json:"dsri"` // days-sales-in-receivables index
	GMI  float64 `json:"gmi"`  // gross margin index
	AQI  float64 `json:"aqi"`  // asset quality index
	SGI  float64 `json:"sgi"`  // sales growth index
	DEPI float64 `json:"depi"` // pinned 1.0, schedules unavailable upstream
	SGAI float64 `json:"sgai"` // SG&A index
	LVGI float64 `json:"lvgi"` // leverage index
	TATA float64 `json:"tata"` // accruals proxy: (net income - cash) / assets
}

// MScore is a Beneish forensic-accounting score.
type MScore struct {
	Ticker  string   `json:"ticker"`
	Value   float64  `json:"value"`
	Valid   bool     `json:"valid"`
	Indices MIndices `json:"indices"`
}

// Flag maps the score onto the risk verdict. An undefined score is
// reported SAFE-by-absence: the fusion engine treats it as no red flag
// rather than inventing one.
func (m MScore) Flag() RiskFlag {
	if m.Valid && m.Value > MScoreThreshold {
		return RiskHigh
	}
	return RiskSafe
}
