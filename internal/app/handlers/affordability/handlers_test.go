package affordability

import (
	"context"
	"errors"
	"testing"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/dto"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/middleware"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/queries"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/validation"
	domain "github.com/Sani5012/Find-That-Home-sub000/internal/domain/affordability"
)

func newBus() queries.Bus {
	bus := queries.NewInMemoryBus()
	Register(bus, &Handlers{Engine: domain.DefaultEngine()})
	return middleware.ChainQueries(bus, middleware.QueryValidation(validation.New()))
}

func TestRentThroughBus(t *testing.T) {
	res, err := queries.Ask[RentQuery, dto.RentAffordabilityResult](context.Background(), newBus(), RentQuery{
		Profile: ProfileInput{Income: 3000, MonthlyDebtObligations: 200},
	})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if res.Affordability == nil || res.Affordability.MaxMonthlyRent != 880 {
		t.Fatalf("unexpected %+v", res)
	}
	if res.SuggestedPriceRange == nil || res.SuggestedPriceRange.Min != 440 || res.SuggestedPriceRange.Max != 880 {
		t.Fatalf("suggested range = %+v", res.SuggestedPriceRange)
	}
}

func TestBuyDefaultsToGoodCreditAndTwentyPercentDown(t *testing.T) {
	res, err := queries.Ask[BuyQuery, dto.BuyAffordabilityResult](context.Background(), newBus(), BuyQuery{
		Profile: ProfileInput{Income: 60000, IncomePeriod: "yearly"},
	})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if res.Affordability == nil || res.Affordability.MaxPropertyPrice != 207651 || res.Affordability.RecommendedDownPayment != 41530 {
		t.Fatalf("unexpected %+v", res.Affordability)
	}
}

func TestZeroIncomeYieldsNullAffordability(t *testing.T) {
	res, err := queries.Ask[BuyQuery, dto.BuyAffordabilityResult](context.Background(), newBus(), BuyQuery{})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if res.Affordability != nil || res.SuggestedPriceRange != nil {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestInvalidProfileIsRejected(t *testing.T) {
	bus := newBus()
	cases := []ProfileInput{
		{Income: 4000, CreditTier: "platinum"},
		{Income: 4000, DownPaymentPercent: 60},
		{Income: 4000, MonthlyDebtObligations: -5},
		{Income: 4000, IncomePeriod: "weekly"},
	}
	for _, in := range cases {
		if _, err := queries.Ask[BuyQuery, dto.BuyAffordabilityResult](context.Background(), bus, BuyQuery{Profile: in}); !errors.Is(err, validation.ErrInvalidInput) {
			t.Fatalf("%+v err = %v", in, err)
		}
	}
}

func TestMortgagePayment(t *testing.T) {
	res, err := queries.Ask[MortgagePaymentQuery, dto.MortgagePayment](context.Background(), newBus(), MortgagePaymentQuery{
		Principal:         166121.36,
		AnnualRatePercent: 6.5,
	})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if res.MonthlyPayment != 1049 && res.MonthlyPayment != 1050 {
		t.Fatalf("payment = %d", res.MonthlyPayment)
	}
	if res.TermMonths != 360 || res.TotalInterest <= 0 {
		t.Fatalf("unexpected %+v", res)
	}
	if _, err := queries.Ask[MortgagePaymentQuery, dto.MortgagePayment](context.Background(), newBus(), MortgagePaymentQuery{}); !errors.Is(err, validation.ErrInvalidInput) {
		t.Fatalf("zero principal err = %v", err)
	}
}
