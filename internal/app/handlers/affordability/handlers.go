package affordability

import (
	"context"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/dto"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/queries"
	domain "github.com/Sani5012/Find-That-Home-sub000/internal/domain/affordability"
)

const (
	RentKey            = "affordability.rent"
	BuyKey             = "affordability.buy"
	MortgagePaymentKey = "affordability.mortgage_payment"
)

// ProfileInput is the wire form of a financial profile. Income may be zero or
// negative; the engine answers those with an empty result.
type ProfileInput struct {
	Income                 float64 `validate:"lte=100000000"`
	IncomePeriod           string  `validate:"omitempty,oneof=monthly yearly"`
	MonthlyDebtObligations float64 `validate:"gte=0"`
	CreditTier             string  `validate:"omitempty,credit_tier"`
	DownPaymentPercent     int     `validate:"omitempty,gte=5,lte=50"`
}

const (
	defaultDownPaymentPercent = 20
	defaultCreditTier         = domain.CreditGood
)

func (in ProfileInput) Profile() domain.FinancialProfile {
	period := domain.IncomePeriod(in.IncomePeriod)
	if period == "" {
		period = domain.IncomeMonthly
	}
	tier := defaultCreditTier
	if in.CreditTier != "" {
		if parsed, err := domain.ParseCreditTier(in.CreditTier); err == nil {
			tier = parsed
		} else {
			tier = domain.CreditTier(in.CreditTier)
		}
	}
	down := in.DownPaymentPercent
	if down == 0 {
		down = defaultDownPaymentPercent
	}
	return domain.FinancialProfile{
		Income:                 in.Income,
		IncomePeriod:           period,
		MonthlyDebtObligations: in.MonthlyDebtObligations,
		CreditTier:             tier,
		DownPaymentPercent:     down,
	}
}

type RentQuery struct {
	Profile ProfileInput
}

func (RentQuery) Key() string { return RentKey }

type BuyQuery struct {
	Profile ProfileInput
}

func (BuyQuery) Key() string { return BuyKey }

type MortgagePaymentQuery struct {
	Principal         float64 `validate:"gt=0,lte=1000000000"`
	AnnualRatePercent float64 `validate:"gte=0,lte=30"`
	TermMonths        int     `validate:"omitempty,gt=0,lte=600"`
}

func (MortgagePaymentQuery) Key() string { return MortgagePaymentKey }

type Handlers struct {
	Engine *domain.Engine
}

func (h *Handlers) engine() *domain.Engine {
	if h.Engine == nil {
		return domain.DefaultEngine()
	}
	return h.Engine
}

func (h *Handlers) Rent(_ context.Context, q RentQuery) (dto.RentAffordabilityResult, error) {
	res, err := h.engine().Rent(q.Profile.Profile())
	if err != nil {
		return dto.RentAffordabilityResult{}, err
	}
	return dto.MapRent(res), nil
}

func (h *Handlers) Buy(_ context.Context, q BuyQuery) (dto.BuyAffordabilityResult, error) {
	res, err := h.engine().Buy(q.Profile.Profile())
	if err != nil {
		return dto.BuyAffordabilityResult{}, err
	}
	return dto.MapBuy(res), nil
}

func (h *Handlers) MortgagePayment(_ context.Context, q MortgagePaymentQuery) (dto.MortgagePayment, error) {
	term := q.TermMonths
	if term == 0 {
		term = h.engine().LoanTermMonths
	}
	payment := domain.MonthlyPayment(q.Principal, q.AnnualRatePercent, term)
	total := payment * float64(term)
	return dto.MortgagePayment{
		MonthlyPayment: domain.WholeUnits(payment),
		TotalPaid:      domain.WholeUnits(total),
		TotalInterest:  domain.WholeUnits(total - q.Principal),
		TermMonths:     term,
	}, nil
}

// Register wires the affordability queries onto bus.
func Register(bus *queries.InMemoryBus, h *Handlers) {
	queries.RegisterHandler[RentQuery, dto.RentAffordabilityResult](bus, RentKey, queries.HandlerFunc[RentQuery, dto.RentAffordabilityResult](h.Rent))
	queries.RegisterHandler[BuyQuery, dto.BuyAffordabilityResult](bus, BuyKey, queries.HandlerFunc[BuyQuery, dto.BuyAffordabilityResult](h.Buy))
	queries.RegisterHandler[MortgagePaymentQuery, dto.MortgagePayment](bus, MortgagePaymentKey, queries.HandlerFunc[MortgagePaymentQuery, dto.MortgagePayment](h.MortgagePayment))
}
