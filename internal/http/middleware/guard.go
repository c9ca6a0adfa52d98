package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/domain"
)

// Session is what the guards read from the operator's session
type Session interface {
	Guard(route auth.Route) error
	Can(action auth.Action) bool
	UserContext() *auth.UserContext
}

// RequireRoute admits requests only when the operator may open route. The
// operator is added to the request context.
func RequireRoute(s Session, route auth.Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := s.Guard(route); err != nil {
				status := http.StatusForbidden
				if errors.Is(err, domain.ErrNotLoggedIn) {
					status = http.StatusUnauthorized
				}
				deny(w, status, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), s.UserContext())))
		})
	}
}

// RequireAction admits requests only when the operator's role permits action
func RequireAction(s Session, action auth.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.Can(action) {
				deny(w, http.StatusForbidden, domain.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.NewAPIError(status, err.Error()))
}
