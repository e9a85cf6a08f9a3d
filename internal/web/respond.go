package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/shared"
)

// StatusFor maps a service error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, shared.ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, shared.ErrNotAuthenticated),
		errors.Is(err, shared.ErrSessionExpired),
		errors.Is(err, shared.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrForbidden), errors.Is(err, shared.ErrBanned):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrWeakPassword),
		errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeJSON encodes v before writing the status line, so a value that cannot be encoded
// yields a 500 instead of an empty success response.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorBody{Error: "internal server error"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
	return err
}

// respond writes v as JSON and logs values that could not be encoded.
func (a *App) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		a.logger.Error("failed to encode response", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

// fail writes err as a JSON error body. Server errors are logged and their detail withheld.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal server error"
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

// parseRange reads the startDate and endDate query parameters.
func parseRange(q url.Values) (models.Date, models.Date, error) {
	rawStart, rawEnd := q.Get("startDate"), q.Get("endDate")
	if rawStart == "" || rawEnd == "" {
		return models.Date{}, models.Date{}, fmt.Errorf("%w: startDate and endDate are required", shared.ErrInvalidDate)
	}

	start, err := models.ParseDate(rawStart)
	if err != nil {
		return models.Date{}, models.Date{}, fmt.Errorf("%w: %v", shared.ErrInvalidDate, err)
	}
	end, err := models.ParseDate(rawEnd)
	if err != nil {
		return models.Date{}, models.Date{}, fmt.Errorf("%w: %v", shared.ErrInvalidDate, err)
	}
	return start, end, nil
}

// safeReturnURL keeps redirects on this site.
func safeReturnURL(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, `/\`) {
		return "/"
	}
	return raw
}
