package dto

import (
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/affordability"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/preferences"
)

// RentAffordabilityResult carries a nil Affordability when the profile has no income.
type RentAffordabilityResult struct {
	Affordability       *affordability.RentAffordability `json:"affordability"`
	SuggestedPriceRange *preferences.PriceRange          `json:"suggested_price_range,omitempty"`
}

type BuyAffordabilityResult struct {
	Affordability       *affordability.BuyAffordability `json:"affordability"`
	SuggestedPriceRange *preferences.PriceRange         `json:"suggested_price_range,omitempty"`
}

type MortgagePayment struct {
	MonthlyPayment int64 `json:"monthly_payment"`
	TotalPaid      int64 `json:"total_paid"`
	TotalInterest  int64 `json:"total_interest"`
	TermMonths     int   `json:"term_months"`
}

func MapRent(res *affordability.RentAffordability) RentAffordabilityResult {
	out := RentAffordabilityResult{Affordability: res}
	if res != nil {
		out.SuggestedPriceRange = &preferences.PriceRange{
			Min: float64(res.AffordableRangeMin),
			Max: float64(res.AffordableRangeMax),
		}
	}
	return out
}

func MapBuy(res *affordability.BuyAffordability) BuyAffordabilityResult {
	out := BuyAffordabilityResult{Affordability: res}
	if res != nil {
		out.SuggestedPriceRange = &preferences.PriceRange{
			Min: float64(res.AffordableRangeMin),
			Max: float64(res.AffordableRangeMax),
		}
	}
	return out
}
