package dialog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// Client detail messages
const (
	MsgDetailLoadFailed   = "Failed to load client details."
	MsgDetailUpdated      = "Client updated"
	MsgDetailDeleted      = "Client deleted successfully"
	MsgDetailDeleteFailed = "Failed to delete client"
	DeleteClientTitle     = "Delete Client"
)

// ErrNoClient is returned by actions on a detail view whose fetch failed
var ErrNoClient = errors.New("no client loaded")

// DetailOutcome is handed back to the list when the detail view closes
type DetailOutcome struct {
	Edited  bool
	Deleted bool
	Client  *domain.Client
}

// DetailState is a snapshot of what the detail view shows
type DetailState struct {
	Client  *domain.Client
	Loading bool
	Error   string
	// Cause is the failure behind Error
	Cause error
}

// ClientDetail shows one client. Opened by id it fetches loudly; opened with
// a record it shows that record at once and refreshes it silently.
type ClientDetail struct {
	svc       ClientsAPI
	notifier  ui.Notifier
	confirmer ui.Confirmer
	logger    *zap.Logger

	mu      sync.Mutex
	state   DetailState
	closed  bool
	outcome DetailOutcome
	wg      sync.WaitGroup
}

// DetailDeps bundles the collaborators of a ClientDetail
type DetailDeps struct {
	Clients   ClientsAPI
	Notifier  ui.Notifier
	Confirmer ui.Confirmer
	Logger    *zap.Logger
}

func newDetail(deps DetailDeps) *ClientDetail {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientDetail{
		svc:       deps.Clients,
		notifier:  deps.Notifier,
		confirmer: deps.Confirmer,
		logger:    logger,
	}
}

// OpenClientByID fetches the client before returning. A failed fetch leaves
// the view open with an error message and no client.
func OpenClientByID(ctx context.Context, deps DetailDeps, id int64) *ClientDetail {
	d := newDetail(deps)
	d.state.Loading = true

	client, err := d.svc.Get(ctx, id)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Loading = false
	if err != nil {
		d.logger.Warn("failed to load client details", zap.Int64("client_id", id), zap.Error(err))
		d.state.Error = MsgDetailLoadFailed
		d.state.Cause = err
		return d
	}
	d.state.Client = client
	return d
}

// OpenClient shows client immediately and refreshes it in the background.
// Refresh failures keep the shown data and set no error. A client without
// an id is shown as given.
func OpenClient(ctx context.Context, deps DetailDeps, client domain.Client) *ClientDetail {
	d := newDetail(deps)
	d.state.Client = &client
	if client.ID == 0 {
		return d
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		fresh, err := d.svc.Get(ctx, client.ID)
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.closed {
			return
		}
		if err != nil {
			d.logger.Debug("silent client refresh failed", zap.Int64("client_id", client.ID), zap.Error(err))
			return
		}
		d.state.Client = fresh
	}()
	return d
}

// Wait blocks until the background refresh, if any, has finished
func (d *ClientDetail) Wait() {
	d.wg.Wait()
}

// State returns a copy of the current view state
func (d *ClientDetail) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.state
	if s.Client != nil {
		c := *s.Client
		s.Client = &c
	}
	return s
}

// Close dismisses the view and returns its outcome. Results arriving later are ignored.
func (d *ClientDetail) Close() DetailOutcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return d.outcome
}

// Closed reports whether the view has been dismissed
func (d *ClientDetail) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *ClientDetail) current() (domain.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Client == nil {
		return domain.Client{}, ErrNoClient
	}
	return *d.state.Client, nil
}

// EditForm opens the edit form for the shown client
func (d *ClientDetail) EditForm() (*ClientForm, error) {
	client, err := d.current()
	if err != nil {
		return nil, err
	}
	return NewEditForm(d.svc, d.notifier, client), nil
}

// Edit submits req through the edit form. On success the view closes with an
// Edited outcome carrying the saved client.
func (d *ClientDetail) Edit(ctx context.Context, req domain.CreateClientRequest) (DetailOutcome, error) {
	form, err := d.EditForm()
	if err != nil {
		return DetailOutcome{}, err
	}
	updated, err := form.Submit(ctx, req)
	if err != nil {
		return DetailOutcome{}, err
	}

	d.notifier.Notify(MsgDetailUpdated)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Client = updated
	d.outcome = DetailOutcome{Edited: true, Client: updated}
	d.closed = true
	return d.outcome, nil
}

// Delete asks for confirmation and deletes the shown client
func (d *ClientDetail) Delete(ctx context.Context) (DetailOutcome, error) {
	client, err := d.current()
	if err != nil {
		return DetailOutcome{}, err
	}

	msg := fmt.Sprintf("Are you sure you want to delete client %q?", client.FullName)
	if !Confirm(ctx, d.confirmer, DeleteClientTitle, msg) {
		return DetailOutcome{}, domain.ErrCancelled
	}

	if err := d.svc.Delete(ctx, client.ID); err != nil {
		d.logger.Warn("failed to delete client", zap.Int64("client_id", client.ID), zap.Error(err))
		d.notifier.Notify(MsgDetailDeleteFailed)
		return DetailOutcome{}, err
	}

	d.notifier.Notify(MsgDetailDeleted)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outcome = DetailOutcome{Deleted: true, Client: &client}
	d.closed = true
	return d.outcome, nil
}
