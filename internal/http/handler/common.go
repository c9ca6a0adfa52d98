package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/ui"
)

// Envelope wraps every console response: the payload plus the
// notifications raised while serving the request
type Envelope struct {
	Data          any               `json:"data,omitempty"`
	Notifications []ui.Notification `json:"notifications"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.NewAPIError(status, message))
}

// respondError maps err onto a status and sends it. Backend APIErrors keep
// their status and field messages.
func respondError(w http.ResponseWriter, err error) {
	status := domain.StatusCode(err)
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		body := *apiErr
		if body.Status == 0 {
			body.Status = status
		}
		respondJSON(w, status, body)
		return
	}
	respondWithError(w, status, err.Error())
}

// decodeJSON reads a JSON request body into target
func decodeJSON(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// idParam reads the {id} path parameter
func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// intQuery reads a non-negative integer query parameter, def when absent
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

// confirmed reports whether the request carries confirm=true
func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}

func attachment(w http.ResponseWriter, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
