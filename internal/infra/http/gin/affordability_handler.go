package ginserver

import (
	"fmt"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/dto"
	affordabilityapp "github.com/Sani5012/Find-That-Home-sub000/internal/app/handlers/affordability"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/queries"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/validation"
)

type AffordabilityHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

type profileRequest struct {
	Income                 float64 `json:"income"`
	IncomePeriod           string  `json:"income_period"`
	MonthlyDebtObligations float64 `json:"monthly_debt_obligations"`
	CreditTier             string  `json:"credit_tier"`
	DownPaymentPercent     int     `json:"down_payment_percent"`
}

func (r profileRequest) input() affordabilityapp.ProfileInput {
	return affordabilityapp.ProfileInput{
		Income:                 r.Income,
		IncomePeriod:           r.IncomePeriod,
		MonthlyDebtObligations: r.MonthlyDebtObligations,
		CreditTier:             r.CreditTier,
		DownPaymentPercent:     r.DownPaymentPercent,
	}
}

type mortgagePaymentRequest struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermMonths        int     `json:"term_months"`
}

func (h AffordabilityHandler) Rent(c *gin.Context) {
	var req profileRequest
	if !h.bind(c, "rent affordability", &req) {
		return
	}
	result, err := queries.Ask[affordabilityapp.RentQuery, dto.RentAffordabilityResult](c.Request.Context(), h.Queries, affordabilityapp.RentQuery{Profile: req.input()})
	if err != nil {
		writeError(c, h.Logger, "rent affordability", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AffordabilityHandler) Buy(c *gin.Context) {
	var req profileRequest
	if !h.bind(c, "buy affordability", &req) {
		return
	}
	result, err := queries.Ask[affordabilityapp.BuyQuery, dto.BuyAffordabilityResult](c.Request.Context(), h.Queries, affordabilityapp.BuyQuery{Profile: req.input()})
	if err != nil {
		writeError(c, h.Logger, "buy affordability", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AffordabilityHandler) MortgagePayment(c *gin.Context) {
	var req mortgagePaymentRequest
	if !h.bind(c, "mortgage payment", &req) {
		return
	}
	query := affordabilityapp.MortgagePaymentQuery{
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRatePercent,
		TermMonths:        req.TermMonths,
	}
	result, err := queries.Ask[affordabilityapp.MortgagePaymentQuery, dto.MortgagePayment](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, h.Logger, "mortgage payment", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AffordabilityHandler) bind(c *gin.Context, op string, dst any) bool {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "affordability handler unavailable"})
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, h.Logger, op, fmt.Errorf("%w: %v", validation.ErrInvalidInput, err))
		return false
	}
	return true
}

var _ AffordabilityHTTP = AffordabilityHandler{}
