package dialog

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/ui"
)

// Client form messages
const (
	MsgClientCreated      = "Client created successfully"
	MsgClientCreateFailed = "Failed to create client"
	MsgClientUpdated      = "Client updated successfully"
	MsgClientUpdateFailed = "Failed to update client"
)

// FormMode says whether a ClientForm adds or edits
type FormMode string

const (
	FormAdd  FormMode = "add"
	FormEdit FormMode = "edit"
)

// ClientForm adds a new client or edits an existing one. Local validation
// runs first and blocks the request when it fails.
type ClientForm struct {
	mode     FormMode
	client   *domain.Client
	svc      ClientsAPI
	notifier ui.Notifier
	validate *validator.Validate
}

// NewAddForm opens an empty form
func NewAddForm(svc ClientsAPI, notifier ui.Notifier) *ClientForm {
	return &ClientForm{mode: FormAdd, svc: svc, notifier: notifier, validate: domain.NewValidator()}
}

// NewEditForm opens a form prefilled with client
func NewEditForm(svc ClientsAPI, notifier ui.Notifier, client domain.Client) *ClientForm {
	return &ClientForm{mode: FormEdit, client: &client, svc: svc, notifier: notifier, validate: domain.NewValidator()}
}

// Mode returns whether the form adds or edits
func (f *ClientForm) Mode() FormMode { return f.mode }

// Initial returns the values the form starts with. New clients start active.
func (f *ClientForm) Initial() domain.CreateClientRequest {
	if f.client == nil {
		active := true
		return domain.CreateClientRequest{Active: &active}
	}
	return domain.ClientRequestFrom(*f.client)
}

// Submit validates req and then creates or updates the client
func (f *ClientForm) Submit(ctx context.Context, req domain.CreateClientRequest) (*domain.Client, error) {
	req = tidy(req)
	if err := f.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, formError(err)
		}
		return nil, err
	}

	if f.mode == FormAdd {
		created, err := f.svc.Create(ctx, req)
		if err != nil {
			f.notifier.Notify(MsgClientCreateFailed)
			return nil, err
		}
		f.notifier.Notify(MsgClientCreated)
		return created, nil
	}

	updated, err := f.svc.Update(ctx, f.client.ID, req.ToUpdateRequest())
	if err != nil {
		f.notifier.Notify(MsgClientUpdateFailed)
		return nil, err
	}
	f.notifier.Notify(MsgClientUpdated)
	f.client = updated
	return updated, nil
}
