package listview

import (
	"context"
	"fmt"
	"io"

	"github.com/straye-as/client-admin/internal/dialog"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/importer"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// MsgNothingToExport is shown when an export is asked for an empty list
const MsgNothingToExport = "No clients to export"

// ExportedMessage reports a finished export
func ExportedMessage(n int, format importer.Format) string {
	return fmt.Sprintf("Exported %d client(s) as %s", n, format.Label())
}

// ClientsAPI is what the clients list needs from the backend
type ClientsAPI interface {
	List(ctx context.Context) ([]domain.Client, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// ClientsController is the clients screen
type ClientsController struct {
	*Controller[domain.Client]
	api      ClientsAPI
	notifier ui.Notifier
	logger   *zap.Logger
}

// NewClientsController creates the clients screen
func NewClientsController(api ClientsAPI, notifier ui.Notifier, confirmer ui.Confirmer, logger *zap.Logger) *ClientsController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientsController{
		Controller: NewController(Options[domain.Client]{
			Entity: Entity{Singular: "client", Plural: "clients"},
			Schema: ClientSchema,
			Load:   api.List,
			Delete: api.Delete,
			ConfirmDelete: func(c domain.Client) (string, string) {
				return dialog.DeleteClientTitle, fmt.Sprintf("Are you sure you want to delete client %q?", c.FullName)
			},
			PageSize:  10,
			Notifier:  notifier,
			Confirmer: confirmer,
			Logger:    logger,
		}),
		api:      api,
		notifier: notifier,
		logger:   logger,
	}
}

// Init loads the list and then asks the backend for the total count. A
// failed count keeps the length of the fetched list.
func (c *ClientsController) Init(ctx context.Context) error {
	if err := c.Load(ctx); err != nil {
		return err
	}
	n, err := c.api.Count(ctx)
	if err != nil {
		c.logger.Debug("client count unavailable", zap.Error(err))
		return nil
	}
	c.SetCount(n)
	return nil
}

// Reload fetches the list again
func (c *ClientsController) Reload(ctx context.Context) error {
	return c.Load(ctx)
}

// ApplyDetailOutcome reloads after the detail view edited or deleted its client
func (c *ClientsController) ApplyDetailOutcome(ctx context.Context, outcome dialog.DetailOutcome) error {
	if !outcome.Edited && !outcome.Deleted {
		return nil
	}
	return c.Reload(ctx)
}

// ImportCompleted reloads after an import that created at least one client
func (c *ClientsController) ImportCompleted(ctx context.Context, count int) error {
	if count <= 0 {
		return nil
	}
	return c.Reload(ctx)
}

// Export writes every fetched client to w, ignoring the filter
func (c *ClientsController) Export(w io.Writer, format importer.Format) (int, error) {
	clients := c.Records()
	if len(clients) == 0 {
		c.notifier.Notify(MsgNothingToExport)
		return 0, domain.ErrNothingToExport
	}
	if err := importer.Export(w, clients, format); err != nil {
		return 0, err
	}
	c.notifier.Notify(ExportedMessage(len(clients), format))
	return len(clients), nil
}
