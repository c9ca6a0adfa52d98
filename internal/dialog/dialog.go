// Package dialog holds modal-scoped controllers. Each one works on a single
// record and hands a typed outcome back to the screen that opened it.
package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/ui"
)

// Confirm asks c a yes/no question, filling in the default title and message
func Confirm(ctx context.Context, c ui.Confirmer, title, message string) bool {
	if title == "" {
		title = ui.DefaultConfirmTitle
	}
	if message == "" {
		message = ui.DefaultConfirmMessage
	}
	return c.Confirm(ctx, title, message)
}

// ClientsAPI is what the client dialogs need from the backend
type ClientsAPI interface {
	Get(ctx context.Context, id int64) (*domain.Client, error)
	Create(ctx context.Context, req domain.CreateClientRequest) (*domain.Client, error)
	Update(ctx context.Context, id int64, req domain.UpdateClientRequest) (*domain.Client, error)
	Delete(ctx context.Context, id int64) error
}

// DraftsAPI is what the draft dialog needs from the backend
type DraftsAPI interface {
	Update(ctx context.Context, id int64, req domain.UpdateDraftRequest) (*domain.Draft, error)
	Delete(ctx context.Context, id int64) error
}

// formError wraps validator output so callers can match ErrInvalidForm and
// still read the per-field messages
func formError(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrInvalidForm, &domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: 400,
		Detail: "One or more fields failed validation",
		Errors: domain.FieldErrors(err),
	})
}

// tidy trims a form payload and turns empty optional fields into nil
func tidy(req domain.CreateClientRequest) domain.CreateClientRequest {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		return domain.OptionalString(strings.TrimSpace(*s))
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.DisplayName = trim(req.DisplayName)
	req.Details = trim(req.Details)
	req.Location = trim(req.Location)
	return req
}
