package dialog

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// Draft dialog messages
const (
	MsgDraftUpdated               = "Draft updated successfully"
	MsgDraftUpdateFailed          = "Failed to update draft"
	MsgDraftPosted                = "Draft posted as client"
	MsgDraftPostFailed            = "Failed to post as client"
	MsgDraftDeleteAfterPostFailed = "Failed to delete draft"
)

// DraftOutcome is handed back to the drafts list when the dialog closes
type DraftOutcome struct {
	Updated *domain.Draft
	Posted  bool
	DraftID int64
	Client  *domain.Client
}

// ClientCreator creates the client a draft is posted as
type ClientCreator interface {
	Create(ctx context.Context, req domain.CreateClientRequest) (*domain.Client, error)
}

// DraftDetail edits a draft or posts it as a real client
type DraftDetail struct {
	drafts   DraftsAPI
	clients  ClientCreator
	notifier ui.Notifier
	logger   *zap.Logger
	validate *validator.Validate
	draft    domain.Draft
}

// NewDraftDetail opens the dialog for draft
func NewDraftDetail(drafts DraftsAPI, clients ClientCreator, notifier ui.Notifier, logger *zap.Logger, draft domain.Draft) *DraftDetail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftDetail{
		drafts:   drafts,
		clients:  clients,
		notifier: notifier,
		logger:   logger,
		validate: domain.NewValidator(),
		draft:    draft,
	}
}

// Draft returns the draft as currently shown
func (d *DraftDetail) Draft() domain.Draft { return d.draft }

// Initial returns the form values the dialog starts with
func (d *DraftDetail) Initial() domain.CreateClientRequest {
	return d.draft.PostRequest()
}

func (d *DraftDetail) check(req domain.CreateClientRequest) (domain.CreateClientRequest, error) {
	req = tidy(req)
	if err := d.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return req, formError(err)
		}
		return req, err
	}
	return req, nil
}

// Save updates the draft with the form values
func (d *DraftDetail) Save(ctx context.Context, req domain.CreateClientRequest) (DraftOutcome, error) {
	req, err := d.check(req)
	if err != nil {
		return DraftOutcome{}, err
	}

	updated, err := d.drafts.Update(ctx, d.draft.ID, domain.UpdateDraftRequest(req))
	if err != nil {
		d.logger.Warn("failed to update draft", zap.Int64("draft_id", d.draft.ID), zap.Error(err))
		d.notifier.Notify(MsgDraftUpdateFailed)
		return DraftOutcome{}, err
	}
	d.notifier.Notify(MsgDraftUpdated)
	d.draft = *updated
	return DraftOutcome{Updated: updated, DraftID: updated.ID}, nil
}

// PostAsClient creates a client from the form values and then deletes the
// draft. Missing optional values are sent as empty strings.
func (d *DraftDetail) PostAsClient(ctx context.Context, req domain.CreateClientRequest) (DraftOutcome, error) {
	req, err := d.check(req)
	if err != nil {
		return DraftOutcome{}, err
	}
	req = postPayload(req)

	client, err := d.clients.Create(ctx, req)
	if err != nil {
		d.logger.Warn("failed to post draft as client", zap.Int64("draft_id", d.draft.ID), zap.Error(err))
		d.notifier.Notify(MsgDraftPostFailed)
		return DraftOutcome{}, err
	}

	if err := d.drafts.Delete(ctx, d.draft.ID); err != nil {
		d.logger.Warn("client created but draft not deleted",
			zap.Int64("draft_id", d.draft.ID),
			zap.Int64("client_id", client.ID),
			zap.Error(err),
		)
		d.notifier.Notify(MsgDraftDeleteAfterPostFailed)
		return DraftOutcome{Client: client, DraftID: d.draft.ID}, err
	}

	d.notifier.Notify(MsgDraftPosted)
	return DraftOutcome{Posted: true, DraftID: d.draft.ID, Client: client}, nil
}

func postPayload(req domain.CreateClientRequest) domain.CreateClientRequest {
	orEmpty := func(s *string) *string {
		v := domain.StringValue(s)
		return &v
	}
	req.DisplayName = orEmpty(req.DisplayName)
	req.Details = orEmpty(req.Details)
	req.Location = orEmpty(req.Location)
	if req.Active == nil {
		active := false
		req.Active = &active
	}
	return req
}
