package ginserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/dto"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/handlers/search"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/queries"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/validation"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/proximity"
)

// SearchHandler wires the proximity search queries to HTTP.
type SearchHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h SearchHandler) Nearby(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search handler unavailable"})
		return
	}
	p := queryParser{c: c}
	query := search.NearbyQuery{
		Lat:         p.floatPtr("lat"),
		Lon:         p.floatPtr("lon"),
		RadiusMiles: p.radius(),
		Criteria:    p.criteria(),
	}
	if p.err != nil {
		writeError(c, h.Logger, "nearby search", p.err)
		return
	}
	result, err := queries.Ask[search.NearbyQuery, dto.NearbyResults](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, h.Logger, "nearby search", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SearchHandler) LocationSearch(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search handler unavailable"})
		return
	}
	p := queryParser{c: c}
	query := search.LocationSearchQuery{
		Query:       strings.TrimSpace(c.Query("q")),
		RadiusMiles: p.radius(),
		Criteria:    p.criteria(),
	}
	if p.err != nil {
		writeError(c, h.Logger, "location search", p.err)
		return
	}
	result, err := queries.Ask[search.LocationSearchQuery, dto.NearbyResults](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, h.Logger, "location search", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ SearchHTTP = SearchHandler{}

// queryParser reads typed query parameters and keeps the first parse error.
type queryParser struct {
	c   *gin.Context
	err error
}

func (p *queryParser) fail(key, raw string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s=%q is not a number", validation.ErrInvalidInput, key, raw)
	}
}

func (p *queryParser) floatPtr(key string) *float64 {
	raw := strings.TrimSpace(p.c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw)
		return nil
	}
	return &v
}

func (p *queryParser) intPtr(key string) *int {
	raw := strings.TrimSpace(p.c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw)
		return nil
	}
	return &v
}

func (p *queryParser) ints(key string) []int {
	parts := splitCSV(p.c.Query(key))
	if len(parts) == 0 {
		return nil
	}
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			p.fail(key, part)
			return nil
		}
		out = append(out, v)
	}
	return out
}

func (p *queryParser) bool(key string) bool {
	raw := strings.TrimSpace(p.c.Query(key))
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%w: %s=%q is not a boolean", validation.ErrInvalidInput, key, raw)
	}
	return v
}

// radius returns 0 when absent so the handler applies its default; an
// explicit non-positive value is rejected here.
func (p *queryParser) radius() float64 {
	v := p.floatPtr("radius")
	if v == nil {
		return 0
	}
	if err := proximity.ValidateRadius(*v); err != nil && p.err == nil {
		p.err = err
	}
	return *v
}

func (p *queryParser) criteria() search.Criteria {
	limit := 0
	if v := p.intPtr("limit"); v != nil {
		limit = *v
	}
	return search.Criteria{
		PriceMin:       p.floatPtr("price_min"),
		PriceMax:       p.floatPtr("price_max"),
		Bedrooms:       p.ints("bedrooms"),
		PropertyTypes:  splitCSV(p.c.Query("types")),
		LifestyleTags:  splitCSV(p.c.Query("tags")),
		MaxNoiseLevel:  p.intPtr("max_noise"),
		MinWalkability: p.intPtr("min_walkability"),
		Score:          p.bool("score"),
		Limit:          limit,
		IgnoreStored:   p.bool("ignore_stored"),
	}
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
