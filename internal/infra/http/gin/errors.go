package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"github.com/Sani5012/Find-That-Home-sub000/internal/app/handlers/search"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/identity"
	"github.com/Sani5012/Find-That-Home-sub000/internal/app/validation"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/affordability"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/geo"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/location"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/preferences"
	"github.com/Sani5012/Find-That-Home-sub000/internal/domain/proximity"
)

var invalidInput = []error{
	validation.ErrInvalidInput,
	geo.ErrInvalidCoordinate,
	proximity.ErrInvalidRadius,
	preferences.ErrInvalidPreferences,
	affordability.ErrInvalidProfile,
}

// statusFor maps application errors onto HTTP status codes.
func statusFor(err error) (int, string) {
	for _, target := range invalidInput {
		if errors.Is(err, target) {
			return http.StatusBadRequest, "invalid_input"
		}
	}
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, search.ErrOriginUnknown):
		return http.StatusUnprocessableEntity, "origin_unknown"
	case errors.Is(err, location.ErrNotFound):
		return http.StatusNotFound, "location_not_found"
	case errors.Is(err, location.ErrPermissionDenied):
		return http.StatusFailedDependency, "location_permission_denied"
	case errors.Is(err, location.ErrTimeout):
		return http.StatusGatewayTimeout, "location_timeout"
	case errors.Is(err, location.ErrUnavailable):
		return http.StatusServiceUnavailable, "location_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(c *gin.Context, logger *slog.Logger, op string, err error) {
	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.ErrorContext(c.Request.Context(), op+" failed", "error", err)
		}
		message = "internal error"
	}
	c.JSON(status, gin.H{"error": message, "code": code})
}
