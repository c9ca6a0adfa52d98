package listview

import (
	"context"
	"fmt"

	"github.com/straye-as/client-admin/internal/dialog"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// DeleteDraftTitle is the title of the draft delete confirmation
const DeleteDraftTitle = "Delete Draft"

// DraftsAPI is what the drafts list needs from the backend
type DraftsAPI interface {
	List(ctx context.Context) ([]domain.Draft, error)
	Delete(ctx context.Context, id int64) error
}

// DraftsController is the drafts screen
type DraftsController struct {
	*Controller[domain.Draft]
}

// NewDraftsController creates the drafts screen
func NewDraftsController(api DraftsAPI, notifier ui.Notifier, confirmer ui.Confirmer, logger *zap.Logger) *DraftsController {
	return &DraftsController{
		Controller: NewController(Options[domain.Draft]{
			Entity: Entity{Singular: "draft", Plural: "drafts"},
			Schema: DraftSchema,
			Load:   api.List,
			Delete: api.Delete,
			ConfirmDelete: func(d domain.Draft) (string, string) {
				return DeleteDraftTitle, fmt.Sprintf("Are you sure you want to delete %q?", d.FullName)
			},
			PageSize:  10,
			Notifier:  notifier,
			Confirmer: confirmer,
			Logger:    logger,
		}),
	}
}

// ApplyDraftOutcome replaces an updated draft or drops a posted one. The
// dialog has already told the user what happened.
func (c *DraftsController) ApplyDraftOutcome(outcome dialog.DraftOutcome) {
	switch {
	case outcome.Posted:
		c.Remove(outcome.DraftID)
	case outcome.Updated != nil:
		c.Replace(*outcome.Updated)
	}
}
