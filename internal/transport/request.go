package transport

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// parseID reads the {id} path parameter
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.InvalidInputf("id must be a positive integer")
	}
	return id, nil
}

// parsePage reads page and size, applying the listing defaults
func parsePage(r *http.Request) (domain.Page, error) {
	q := r.URL.Query()

	number, err := intParam(q.Get("page"), 1, "page")
	if err != nil {
		return domain.Page{}, err
	}
	size, err := intParam(q.Get("size"), domain.DefaultPageSize, "size")
	if err != nil {
		return domain.Page{}, err
	}
	return domain.NewPage(number, size)
}

func intParam(raw string, fallback int, name string) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.InvalidInputf("%s must be an integer", name)
	}
	return v, nil
}

func int64Param(raw, name string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.InvalidInputf("%s must be an integer", name)
	}
	return &v, nil
}

func boolParam(raw, name string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.InvalidInputf("%s must be a boolean", name)
	}
	return v, nil
}

// priceParam parses a non-negative decimal
func priceParam(raw, name string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.InvalidInputf("%s must be a number", name)
	}
	if v.IsNegative() {
		return nil, domain.InvalidInputf("%s must be greater than or equal to 0", name)
	}
	return &v, nil
}

// timeParam accepts RFC3339 timestamps or plain YYYY-MM-DD dates
func timeParam(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, domain.InvalidInputf("%s must be an RFC3339 timestamp or a YYYY-MM-DD date", name)
	}
	return &d.Time, nil
}

// respondDecodeError answers a failed DecodeAndValidate call
func respondDecodeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Debug("Request validation failed", zap.Error(err))

	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}

	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
