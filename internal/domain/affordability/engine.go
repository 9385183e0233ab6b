package affordability

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	HousingRatio      = 0.28
	TotalDebtRatio    = 0.36
	RentIncomeCap     = 0.30
	MortgageSafety    = 0.75
	DefaultLoanMonths = 360
)

// RentAffordability is the rent ceiling for a profile, in whole currency units.
type RentAffordability struct {
	MaxMonthlyRent     int64 `json:"max_monthly_rent"`
	AffordableRangeMin int64 `json:"affordable_range_min"`
	AffordableRangeMax int64 `json:"affordable_range_max"`
}

// BuyAffordability is the purchase ceiling for a profile, in whole currency units.
type BuyAffordability struct {
	MaxPropertyPrice       int64   `json:"max_property_price"`
	MonthlyMortgagePayment int64   `json:"monthly_mortgage_payment"`
	RecommendedDownPayment int64   `json:"recommended_down_payment"`
	AffordableRangeMin     int64   `json:"affordable_range_min"`
	AffordableRangeMax     int64   `json:"affordable_range_max"`
	InterestRatePercent    float64 `json:"interest_rate_percent"`
}

// Engine holds the lending assumptions. The zero value is not usable; start
// from DefaultEngine.
type Engine struct {
	Rates          map[CreditTier]float64
	LoanTermMonths int
}

func DefaultRates() map[CreditTier]float64 {
	return map[CreditTier]float64{
		CreditExcellent: 5.5,
		CreditGood:      6.5,
		CreditFair:      7.5,
		CreditPoor:      8.5,
	}
}

func DefaultEngine() *Engine {
	return &Engine{Rates: DefaultRates(), LoanTermMonths: DefaultLoanMonths}
}

type ratesFile struct {
	LoanTermMonths int                `yaml:"loan_term_months"`
	Rates          map[string]float64 `yaml:"rates"`
}

// LoadRatesFile builds an engine from a YAML file of annual percentage rates per
// credit tier. Tiers missing from the file keep their default rate.
func LoadRatesFile(path string) (*Engine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("affordability: read rates: %w", err)
	}
	return ParseRates(raw)
}

func ParseRates(raw []byte) (*Engine, error) {
	var file ratesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("affordability: parse rates: %w", err)
	}
	engine := DefaultEngine()
	if file.LoanTermMonths != 0 {
		if file.LoanTermMonths < 0 {
			return nil, fmt.Errorf("affordability: loan term must be positive, got %d", file.LoanTermMonths)
		}
		engine.LoanTermMonths = file.LoanTermMonths
	}
	for name, rate := range file.Rates {
		tier, err := ParseCreditTier(name)
		if err != nil {
			return nil, err
		}
		if !finite(rate) || rate < 0 {
			return nil, fmt.Errorf("affordability: rate for %s must be non-negative", tier)
		}
		engine.Rates[tier] = rate
	}
	return engine, nil
}

func (e *Engine) rateFor(tier CreditTier) (float64, error) {
	rate, ok := e.Rates[tier]
	if !ok {
		return 0, fmt.Errorf("%w: no rate for credit tier %q", ErrInvalidProfile, tier)
	}
	return rate, nil
}

// availableForHousing is what the total-debt ceiling leaves after existing debts.
func availableForHousing(income, debts float64) float64 {
	return math.Max(0, income*TotalDebtRatio-debts)
}

// Rent returns nil, nil when the profile has no positive income.
func (e *Engine) Rent(profile FinancialProfile) (*RentAffordability, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	income := profile.MonthlyIncome()
	if income <= 0 {
		return nil, nil
	}
	// both the rent cap and the debt ceiling apply; the tighter one wins
	maxRent := math.Min(income*RentIncomeCap, availableForHousing(income, profile.MonthlyDebtObligations))
	return &RentAffordability{
		MaxMonthlyRent:     WholeUnits(maxRent),
		AffordableRangeMin: WholeUnits(maxRent * 0.5),
		AffordableRangeMax: WholeUnits(maxRent),
	}, nil
}

// Buy returns nil, nil when the profile has no positive income.
func (e *Engine) Buy(profile FinancialProfile) (*BuyAffordability, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	income := profile.MonthlyIncome()
	if income <= 0 {
		return nil, nil
	}
	rate, err := e.rateFor(profile.CreditTier)
	if err != nil {
		return nil, err
	}

	housing := income * HousingRatio
	payment := math.Min(housing, availableForHousing(income, profile.MonthlyDebtObligations)) * MortgageSafety
	principal := LoanPrincipal(payment, rate, e.loanTerm())
	downFraction := float64(profile.DownPaymentPercent) / 100
	price := principal / (1 - downFraction)

	return &BuyAffordability{
		MaxPropertyPrice:       WholeUnits(price),
		MonthlyMortgagePayment: WholeUnits(payment),
		RecommendedDownPayment: WholeUnits(price * downFraction),
		AffordableRangeMin:     WholeUnits(price * 0.5),
		AffordableRangeMax:     WholeUnits(price),
		InterestRatePercent:    rate,
	}, nil
}

func (e *Engine) loanTerm() int {
	if e.LoanTermMonths <= 0 {
		return DefaultLoanMonths
	}
	return e.LoanTermMonths
}

// LoanPrincipal is the present value of months payments of payment at the
// given annual rate: P = M[(1+i)^n - 1] / [i(1+i)^n].
func LoanPrincipal(payment, annualRatePercent float64, months int) float64 {
	if payment <= 0 || months <= 0 {
		return 0
	}
	i := annualRatePercent / 100 / 12
	n := float64(months)
	if i == 0 {
		return payment * n
	}
	growth := math.Pow(1+i, n)
	return payment * (growth - 1) / (i * growth)
}

// MonthlyPayment is the inverse of LoanPrincipal: the fixed payment that
// amortizes principal over months.
func MonthlyPayment(principal, annualRatePercent float64, months int) float64 {
	if principal <= 0 || months <= 0 {
		return 0
	}
	i := annualRatePercent / 100 / 12
	n := float64(months)
	if i == 0 {
		return principal / n
	}
	growth := math.Pow(1+i, n)
	return principal * i * growth / (growth - 1)
}

// WholeUnits truncates to whole units, saturating at math.MaxInt64.
func WholeUnits(v float64) int64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(v))
}
