package contracts

import "time"

// FundamentalsRow is one ticker's cross-sectional snapshot from the
// market screener: the raw material for universe ranking.
type FundamentalsRow struct {
	Ticker    string  `json:"ticker"`
	Exchange  string  `json:"exchange"`
	Industry  string  `json:"industry"`
	PE        float64 `json:"pe"`
	PB        float64 `json:"pb"`
	ROE       float64 `json:"roe"`
	MarketCap float64 `json:"market_cap"`
	EPS       float64 `json:"eps"`
	BVPS      float64 `json:"bvps"`
}

// RankRecord holds one ticker's ordinal ranks across the three value
// dimensions. Lower composite = more attractive. Ties keep natural
// (input) ordinal order.
type RankRecord struct {
	Ticker    string `json:"ticker"`
	PERank    int    `json:"pe_rank"`  // ascending: cheaper first
	PBRank    int    `json:"pb_rank"`  // ascending
	ROERank   int    `json:"roe_rank"` // descending: higher return first
	Composite int    `json:"composite_rank_score"`
	FinalRank int    `json:"final_rank"`
}

// SectorProfile aggregates one industry, recomputed per scoring run from
// the full market universe rather than persisted as ticker state.
type SectorProfile struct {
	Industry       string  `json:"industry"`
	MedianPE       float64 `json:"sector_pe"`
	MedianPB       float64 `json:"sector_pb"`
	MedianROE      float64 `json:"sector_roe"`
	TotalMarketCap float64 `json:"total_sector_mcap"`
	Count          int     `json:"stock_count"`
}

// Universe is the cleaned, ranked candidate set passed downstream.
type Universe struct {
	Date    time.Time                `json:"date"`
	Rows    []FundamentalsRow        `json:"rows"`
	Ranks   map[string]RankRecord    `json:"ranks"`   // by ticker
	Sectors map[string]SectorProfile `json:"sectors"` // by industry
}

// Row returns the fundamentals for a ticker, if present.
func (u *Universe) Row(ticker string) (FundamentalsRow, bool) {
	for _, r := range u.Rows {
		if r.Ticker == ticker {
			return r, true
		}
	}
	return FundamentalsRow{}, false
}

// SectorFor returns the sector profile for a ticker's industry.
func (u *Universe) SectorFor(ticker string) (SectorProfile, bool) {
	row, ok := u.Row(ticker)
	if !ok {
		return SectorProfile{}, false
	}
	profile, ok := u.Sectors[row.Industry]
	return profile, ok
}

// PriceBar is one daily observation of a price series.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}
