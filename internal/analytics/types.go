package analytics

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// ReturnBasis selects the observations fed to the Sharpe and Sortino ratios.
type ReturnBasis string

const (
	// BasisPnL uses the raw per-trade PnL amounts.
	BasisPnL ReturnBasis = "pnl"
	// BasisReturn uses per-trade PnL divided by committed capital.
	BasisReturn ReturnBasis = "return"
)

// DefaultAnnualization is the number of trading days in a year.
const DefaultAnnualization = 252

// Options tunes how a ledger is reduced to a Report.
type Options struct {
	// InitialCapital is the equity baseline. Zero means the capital of the
	// chronologically first trade.
	InitialCapital float64
	ReturnBasis    ReturnBasis
	// DownsideTarget is the Sortino threshold; observations strictly below it count as downside.
	DownsideTarget      float64
	AnnualizationFactor float64
	// AggregateByDate emits one equity point per distinct date instead of one per trade.
	AggregateByDate bool
}

// DefaultOptions returns the options matching the journal's historical behavior.
func DefaultOptions() Options {
	return Options{
		ReturnBasis:         BasisPnL,
		AnnualizationFactor: DefaultAnnualization,
	}
}

func (o Options) withDefaults() Options {
	if o.ReturnBasis == "" {
		o.ReturnBasis = BasisPnL
	}
	if o.AnnualizationFactor <= 0 {
		o.AnnualizationFactor = DefaultAnnualization
	}
	return o
}

// Ratio is a statistic that may be undefined, e.g. when its denominator is zero.
type Ratio struct {
	Value   float64
	Defined bool
}

// Undefined is the sentinel for a statistic that cannot be computed.
var Undefined = Ratio{}

// Defined wraps a computed value. Non-finite values collapse to Undefined.
func Defined(v float64) Ratio {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined
	}
	return Ratio{Value: v, Defined: true}
}

// String renders the ratio with two decimals, or "n/a".
func (r Ratio) String() string {
	if !r.Defined {
		return "n/a"
	}
	return strconv.FormatFloat(r.Value, 'f', 2, 64)
}

// MarshalJSON encodes an undefined ratio as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts a number or null.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Undefined
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Defined(v)
	return nil
}

// EquityPoint is one value of the equity curve.
type EquityPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// DrawdownPoint is the percentage decline from the running equity peak.
type DrawdownPoint struct {
	Date    time.Time `json:"date"`
	Percent float64   `json:"percent"`
}

// Report holds the performance statistics of a ledger
type Report struct {
	Empty bool `json:"empty"`

	TradeCount int `json:"trade_count"`
	Winners    int `json:"winners"`
	Losers     int `json:"losers"`
	Flat       int `json:"flat"`

	TotalPnL     float64 `json:"total_pnl"`
	TotalFees    float64 `json:"total_fees"`
	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"`
	ProfitFactor Ratio   `json:"profit_factor"`

	InitialCapital float64 `json:"initial_capital"`
	FinalEquity    float64 `json:"final_equity"`

	HitRatio          float64 `json:"hit_ratio"`           // Percentage of trades with pnl > 0
	MaxDrawdown       float64 `json:"max_drawdown"`        // Most negative percentage drawdown
	MaxDrawdownAmount float64 `json:"max_drawdown_amount"` // Most negative equity - peak, in currency
	Sharpe            Ratio   `json:"sharpe"`
	Sortino           Ratio   `json:"sortino"`

	Equity   []EquityPoint   `json:"equity"`
	Drawdown []DrawdownPoint `json:"drawdown"`
}
