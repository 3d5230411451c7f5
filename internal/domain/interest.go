package domain

import "github.com/shopspring/decimal"

var (
	// DemandRatePerSecond is simple interest accrued per elapsed second.
	DemandRatePerSecond = decimal.RequireFromString("0.0003")

	termRatesPerMinute = map[DepositTerm]decimal.Decimal{
		TermTwoMinutes:   decimal.RequireFromString("0.0007"),
		TermThreeMinutes: decimal.RequireFromString("0.0009"),
		TermFiveMinutes:  decimal.RequireFromString("0.0010"),
	}
)

// TermRate returns the per-minute rate for a term, or zero for an unknown term.
func TermRate(term DepositTerm) decimal.Decimal {
	if r, ok := termRatesPerMinute[term]; ok {
		return r
	}
	return decimal.Zero
}

// CalculateInterest is the interest the whole principal has earned after
// elapsedSeconds. Demand deposits accrue per second, term deposits per whole minute.
func CalculateInterest(d *Deposit, elapsedSeconds int64) decimal.Decimal {
	return interestOn(d.Amount, d.Type, d.Term, elapsedSeconds)
}

// WithdrawalInterest pro-rates the principal's interest by the withdrawn share:
// principal * rate * t * (amount / principal), computed as amount * rate * t so
// no division is needed. The result is rounded to the money scale.
func WithdrawalInterest(d *Deposit, amount decimal.Decimal, elapsedSeconds int64) decimal.Decimal {
	return interestOn(amount, d.Type, d.Term, elapsedSeconds).Round(MoneyScale)
}

func interestOn(principal decimal.Decimal, typ DepositType, term DepositTerm, elapsedSeconds int64) decimal.Decimal {
	if elapsedSeconds <= 0 {
		return decimal.Zero
	}
	switch typ {
	case DepositTypeDemand:
		return principal.Mul(DemandRatePerSecond).Mul(decimal.NewFromInt(elapsedSeconds))
	case DepositTypeTerm:
		minutes := elapsedSeconds / 60
		return principal.Mul(TermRate(term)).Mul(decimal.NewFromInt(minutes))
	default:
		return decimal.Zero
	}
}

// InterestPoint is one row of an interest projection table.
type InterestPoint struct {
	Time     int64           `json:"time"`
	Interest decimal.Decimal `json:"interest"`
	Total    decimal.Decimal `json:"total"`
}

// ProjectInterest tabulates interest at fixed horizons: 30/60/90/120 seconds for
// demand deposits, 3/6/9/12 minutes for term deposits. Time is reported in the
// deposit's accrual unit (seconds or minutes).
func ProjectInterest(d *Deposit) []InterestPoint {
	var (
		points []int64
		unit   int64 = 1
	)
	switch d.Type {
	case DepositTypeDemand:
		points = []int64{30, 60, 90, 120}
	case DepositTypeTerm:
		points = []int64{3, 6, 9, 12}
		unit = 60
	default:
		return nil
	}

	out := make([]InterestPoint, 0, len(points))
	for _, p := range points {
		interest := CalculateInterest(d, p*unit)
		out = append(out, InterestPoint{
			Time:     p,
			Interest: interest,
			Total:    d.Amount.Add(interest),
		})
	}
	return out
}
