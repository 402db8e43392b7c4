package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/infrastructure/auth"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status and writes it. Details of
// unexpected errors stay in the logs.
func writeDomainError(w http.ResponseWriter, err error, message string) {
	status := mapDomainError(err)
	details := err.Error()
	if status == http.StatusInternalServerError {
		details = ""
	}
	writeError(w, status, message, details)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrGoalNotFound),
		errors.Is(err, domain.ErrAssetNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidTransactionType),
		errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, domain.ErrInvalidGoalTarget),
		errors.Is(err, domain.ErrInvalidBillingDay),
		errors.Is(err, domain.ErrInvalidTicker),
		errors.Is(err, domain.ErrInvalidOrderType),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidDescription),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooWeak):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrAssetExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// requireUser returns the session user, writing a 401 when there is none.
// The session gate normally redirects before a handler runs.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return "", false
	}
	return userID, true
}

// parsePeriod reads ?year=&month=. ok is false when neither is present.
// A missing half defaults to the corresponding part of now.
func parsePeriod(r *http.Request, now time.Time) (period domain.Period, ok bool, err error) {
	q := r.URL.Query()
	yearStr, monthStr := q.Get("year"), q.Get("month")
	if yearStr == "" && monthStr == "" {
		return domain.PeriodOf(now), false, nil
	}

	current := domain.PeriodOf(now)
	year, month := current.Year, current.Month

	if yearStr != "" {
		if year, err = strconv.Atoi(yearStr); err != nil {
			return domain.Period{}, false, fmt.Errorf("%w: year %q", domain.ErrInvalidPeriod, yearStr)
		}
	}
	if monthStr != "" {
		if month, err = strconv.Atoi(monthStr); err != nil {
			return domain.Period{}, false, fmt.Errorf("%w: month %q", domain.ErrInvalidPeriod, monthStr)
		}
	}

	period, err = domain.NewPeriod(year, month)
	if err != nil {
		return domain.Period{}, false, err
	}
	return period, true, nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
