package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/session"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// SessionService is the operator session as the console sees it
type SessionService interface {
	Login(ctx context.Context, email string) (*domain.User, error)
	Logout()
	IsLoggedIn() bool
	CurrentUser() *domain.User
	Role() auth.Role
	TokenInfo() (*session.TokenInfo, error)
}

// SessionView describes the signed-in operator
type SessionView struct {
	LoggedIn    bool          `json:"loggedIn"`
	User        *domain.User  `json:"user,omitempty"`
	Role        auth.Role     `json:"role,omitempty"`
	Permissions []auth.Action `json:"permissions"`
	Route       auth.Route    `json:"route,omitempty"`
	ExpiresAt   *time.Time    `json:"expiresAt,omitempty"`
}

type SessionHandler struct {
	session  SessionService
	routes   *ui.RouteTracker
	feed     *ui.Feed
	validate *validator.Validate
	logger   *zap.Logger
}

func NewSessionHandler(s SessionService, routes *ui.RouteTracker, feed *ui.Feed, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{session: s, routes: routes, feed: feed, validate: domain.NewValidator(), logger: logger}
}

func (h *SessionHandler) view() SessionView {
	v := SessionView{Permissions: []auth.Action{}, Route: h.routes.Current()}
	if !h.session.IsLoggedIn() {
		return v
	}
	v.LoggedIn = true
	v.User = h.session.CurrentUser()
	v.Role = h.session.Role()
	v.Permissions = auth.Permissions(v.Role)
	if info, err := h.session.TokenInfo(); err == nil && !info.ExpiresAt.IsZero() {
		v.ExpiresAt = &info.ExpiresAt
	}
	return v
}

// Get returns the current session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Envelope{Data: h.view(), Notifications: []ui.Notification{}})
}

// Login signs the operator in with an email address
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, &domain.APIError{
			Type:   domain.ErrorTypeValidation,
			Title:  "Validation Error",
			Status: http.StatusBadRequest,
			Detail: "One or more fields failed validation",
			Errors: domain.FieldErrors(err),
		})
		return
	}

	if _, err := h.session.Login(r.Context(), req.Email); err != nil {
		h.logger.Info("console login failed", zap.Error(err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Data: h.view(), Notifications: h.feed.Since(mark)})
}

// Logout clears the session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	h.session.Logout()
	respondJSON(w, http.StatusOK, Envelope{Data: h.view(), Notifications: h.feed.Since(mark)})
}

// Notifications returns notifications newer than ?since=
func (h *SessionHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	since, err := intQuery(r, "since", 0)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Notifications: h.feed.Since(uint64(since))})
}
