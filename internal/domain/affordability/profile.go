package affordability

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidProfile = errors.New("affordability: invalid financial profile")

type IncomePeriod string

const (
	IncomeMonthly IncomePeriod = "monthly"
	IncomeYearly  IncomePeriod = "yearly"
)

type CreditTier string

const (
	CreditExcellent CreditTier = "EXCELLENT"
	CreditGood      CreditTier = "GOOD"
	CreditFair      CreditTier = "FAIR"
	CreditPoor      CreditTier = "POOR"
)

// ParseCreditTier accepts tiers in any case.
func ParseCreditTier(raw string) (CreditTier, error) {
	tier := CreditTier(strings.ToUpper(strings.TrimSpace(raw)))
	switch tier {
	case CreditExcellent, CreditGood, CreditFair, CreditPoor:
		return tier, nil
	}
	return "", fmt.Errorf("%w: unknown credit tier %q", ErrInvalidProfile, raw)
}

const (
	MinDownPaymentPercent = 5
	MaxDownPaymentPercent = 50
)

// FinancialProfile is the input of a single affordability calculation.
// A zero or negative income is not invalid; the engine returns no result for it.
type FinancialProfile struct {
	Income                 float64
	IncomePeriod           IncomePeriod
	MonthlyDebtObligations float64
	CreditTier             CreditTier
	DownPaymentPercent     int
}

// MonthlyIncome normalizes yearly income to a monthly figure.
func (p FinancialProfile) MonthlyIncome() float64 {
	if p.IncomePeriod == IncomeYearly {
		return p.Income / 12
	}
	return p.Income
}

func (p FinancialProfile) Validate() error {
	if !finite(p.Income) {
		return fmt.Errorf("%w: income must be finite", ErrInvalidProfile)
	}
	switch p.IncomePeriod {
	case IncomeMonthly, IncomeYearly:
	default:
		return fmt.Errorf("%w: income period must be monthly or yearly", ErrInvalidProfile)
	}
	if !finite(p.MonthlyDebtObligations) || p.MonthlyDebtObligations < 0 {
		return fmt.Errorf("%w: monthly debt obligations must be a non-negative number", ErrInvalidProfile)
	}
	if _, err := ParseCreditTier(string(p.CreditTier)); err != nil {
		return err
	}
	if p.DownPaymentPercent < MinDownPaymentPercent || p.DownPaymentPercent > MaxDownPaymentPercent {
		return fmt.Errorf("%w: down payment must be between %d and %d percent", ErrInvalidProfile, MinDownPaymentPercent, MaxDownPaymentPercent)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
