package affordability

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func profile(income, debts float64) FinancialProfile {
	return FinancialProfile{
		Income:                 income,
		IncomePeriod:           IncomeMonthly,
		MonthlyDebtObligations: debts,
		CreditTier:             CreditGood,
		DownPaymentPercent:     20,
	}
}

func TestRentScenario(t *testing.T) {
	got, err := DefaultEngine().Rent(profile(3000, 200))
	if err != nil {
		t.Fatalf("Rent: %v", err)
	}
	if got.MaxMonthlyRent != 880 || got.AffordableRangeMin != 440 || got.AffordableRangeMax != 880 {
		t.Fatalf("unexpected rent affordability %+v", got)
	}
}

func TestRentIncomeCapWinsWithoutDebts(t *testing.T) {
	got, err := DefaultEngine().Rent(profile(3000, 0))
	if err != nil {
		t.Fatalf("Rent: %v", err)
	}
	if got.MaxMonthlyRent != 900 {
		t.Fatalf("max rent = %d, want 900", got.MaxMonthlyRent)
	}
}

func TestBuyScenario(t *testing.T) {
	got, err := DefaultEngine().Buy(profile(5000, 0))
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	want := BuyAffordability{
		MaxPropertyPrice:       207651,
		MonthlyMortgagePayment: 1050,
		RecommendedDownPayment: 41530,
		AffordableRangeMin:     103825,
		AffordableRangeMax:     207651,
		InterestRatePercent:    6.5,
	}
	if *got != want {
		t.Fatalf("got %+v, want %+v", *got, want)
	}
}

func TestYearlyIncomeIsNormalized(t *testing.T) {
	p := profile(36000, 200)
	p.IncomePeriod = IncomeYearly
	got, err := DefaultEngine().Rent(p)
	if err != nil {
		t.Fatalf("Rent: %v", err)
	}
	if got.MaxMonthlyRent != 880 {
		t.Fatalf("max rent = %d, want 880", got.MaxMonthlyRent)
	}
}

func TestNoIncomeReturnsNoResult(t *testing.T) {
	e := DefaultEngine()
	for _, income := range []float64{0, -100} {
		rent, err := e.Rent(profile(income, 0))
		if err != nil || rent != nil {
			t.Fatalf("rent(%v) = %+v, %v", income, rent, err)
		}
		buy, err := e.Buy(profile(income, 0))
		if err != nil || buy != nil {
			t.Fatalf("buy(%v) = %+v, %v", income, buy, err)
		}
	}
}

func TestDebtsAboveCeilingYieldZero(t *testing.T) {
	got, err := DefaultEngine().Buy(profile(2000, 5000))
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if got.MaxPropertyPrice != 0 || got.MonthlyMortgagePayment != 0 || got.AffordableRangeMin != 0 {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestOutputsNeverNegative(t *testing.T) {
	e := DefaultEngine()
	tiers := []CreditTier{CreditExcellent, CreditGood, CreditFair, CreditPoor}
	for _, income := range []float64{1, 950, 4200.5, 12000, 250000, 1e18, 1e300, math.MaxFloat64} {
		for _, debts := range []float64{0, 300, 5000, 1e6} {
			for _, tier := range tiers {
				for _, dp := range []int{5, 20, 50} {
					p := FinancialProfile{Income: income, IncomePeriod: IncomeMonthly, MonthlyDebtObligations: debts, CreditTier: tier, DownPaymentPercent: dp}
					rent, err := e.Rent(p)
					if err != nil {
						t.Fatalf("Rent(%+v): %v", p, err)
					}
					buy, err := e.Buy(p)
					if err != nil {
						t.Fatalf("Buy(%+v): %v", p, err)
					}
					for _, v := range []int64{rent.MaxMonthlyRent, rent.AffordableRangeMin, rent.AffordableRangeMax,
						buy.MaxPropertyPrice, buy.MonthlyMortgagePayment, buy.RecommendedDownPayment, buy.AffordableRangeMin, buy.AffordableRangeMax} {
						if v < 0 {
							t.Fatalf("negative output for %+v: rent %+v buy %+v", p, rent, buy)
						}
					}
					if buy.AffordableRangeMin > buy.AffordableRangeMax || rent.AffordableRangeMin > rent.AffordableRangeMax {
						t.Fatalf("inverted range for %+v", p)
					}
				}
			}
		}
	}
}

func TestHugeIncomeSaturates(t *testing.T) {
	got, err := DefaultEngine().Buy(profile(1e300, 0))
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if got.MaxPropertyPrice != math.MaxInt64 || got.MonthlyMortgagePayment != math.MaxInt64 {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestBetterCreditAffordsMore(t *testing.T) {
	e := DefaultEngine()
	prev := int64(math.MaxInt64)
	for _, tier := range []CreditTier{CreditExcellent, CreditGood, CreditFair, CreditPoor} {
		p := profile(6000, 400)
		p.CreditTier = tier
		got, err := e.Buy(p)
		if err != nil {
			t.Fatalf("Buy: %v", err)
		}
		if got.MaxPropertyPrice >= prev {
			t.Fatalf("%s price %d not below previous %d", tier, got.MaxPropertyPrice, prev)
		}
		prev = got.MaxPropertyPrice
	}
}

func TestValidateRejectsBadProfiles(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FinancialProfile)
	}{
		{"negative debts", func(p *FinancialProfile) { p.MonthlyDebtObligations = -1 }},
		{"unknown tier", func(p *FinancialProfile) { p.CreditTier = "PLATINUM" }},
		{"unknown period", func(p *FinancialProfile) { p.IncomePeriod = "weekly" }},
		{"down payment too low", func(p *FinancialProfile) { p.DownPaymentPercent = 4 }},
		{"down payment too high", func(p *FinancialProfile) { p.DownPaymentPercent = 51 }},
		{"nan income", func(p *FinancialProfile) { p.Income = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := profile(4000, 100)
			tt.mutate(&p)
			if _, err := DefaultEngine().Buy(p); !errors.Is(err, ErrInvalidProfile) {
				t.Fatalf("Buy err = %v", err)
			}
			if _, err := DefaultEngine().Rent(p); !errors.Is(err, ErrInvalidProfile) {
				t.Fatalf("Rent err = %v", err)
			}
		})
	}
}

func TestMonthlyPaymentInvertsLoanPrincipal(t *testing.T) {
	for _, rate := range []float64{0, 3.25, 6.5, 12} {
		principal := LoanPrincipal(1050, rate, 360)
		payment := MonthlyPayment(principal, rate, 360)
		if math.Abs(payment-1050) > 1e-6 {
			t.Fatalf("rate %v: payment = %v, want 1050", rate, payment)
		}
	}
	if got := LoanPrincipal(100, 0, 12); got != 1200 {
		t.Fatalf("zero-rate principal = %v", got)
	}
}

func TestLoadRatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	content := "loan_term_months: 180\nrates:\n  good: 4.0\n  POOR: 10\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	e, err := LoadRatesFile(path)
	if err != nil {
		t.Fatalf("LoadRatesFile: %v", err)
	}
	if e.LoanTermMonths != 180 || e.Rates[CreditGood] != 4.0 || e.Rates[CreditPoor] != 10 || e.Rates[CreditExcellent] != 5.5 {
		t.Fatalf("unexpected engine %+v", e)
	}

	if _, err := ParseRates([]byte("rates:\n  GOLD: 1\n")); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("unknown tier err = %v", err)
	}
	if _, err := LoadRatesFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
