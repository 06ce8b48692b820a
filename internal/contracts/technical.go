package contracts

// TrendState is the technical classification of a price series.
type TrendState string

const (
	// TrendStrongBuyDip: price above SMA200, oversold, long-term
	// uptrend still intact.
	TrendStrongBuyDip TrendState = "STRONG_BUY_DIP"
	// TrendUptrend: price above SMA200 without the oversold entry.
	TrendUptrend TrendState = "UPTREND"
	// TrendFallingKnife: price below SMA200 and still oversold. Cheap
	// keeps getting cheaper.
	TrendFallingKnife TrendState = "FALLING_KNIFE"
	// TrendDowntrend: price below SMA200 without an oversold reading.
	TrendDowntrend TrendState = "DOWNTREND"
	// TrendNoData: fewer than the minimum closes required for SMA200.
	TrendNoData TrendState = "NO_DATA"
)

// MinClosesForTrend is the minimum history required before a trend
// classification is attempted. SMA200 needs 200 closes.
const MinClosesForTrend = 200

// RSIOversold marks the dip-entry zone; RSIOverbought the sell zone.
// The entry band is looser than the classic 30 so shallow pullbacks in
// strong names still register.
const (
	RSIOversold   = 40.0
	RSIOverbought = 70.0
)

// RSIDisplayDefault is shown when RSI could not be computed. 50 is the
// indicator's neutral midpoint.
const RSIDisplayDefault = 50.0

// TechnicalSnapshot holds the indicator values and derived state for
// one ticker as of the latest close.
type TechnicalSnapshot struct {
	Ticker       string     `json:"ticker"`
	Price        float64    `json:"current_price"`
	RSI14        float64    `json:"rsi_14"`
	SMA50        float64    `json:"sma_50"`
	SMA200       float64    `json:"sma_200"`
	RSIEstimated bool       `json:"rsi_estimated"`
	Valid        bool       `json:"valid"`
	State        TrendState `json:"technical_signal"`
}

// DisplayRSI returns the RSI value for report output, substituting the
// neutral default when the real value is unavailable.
func (t TechnicalSnapshot) DisplayRSI() float64 {
	if t.RSIEstimated || !t.Valid {
		return RSIDisplayDefault
	}
	return t.RSI14
}
