package handler

import (
	"context"
	"net/http"

	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/dialog"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/listview"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// DraftGetter fetches one draft
type DraftGetter interface {
	Get(ctx context.Context, id int64) (*domain.Draft, error)
}

// Reloader refreshes a screen
type Reloader interface {
	Reload(ctx context.Context) error
}

// DraftHandler serves the drafts screen and the draft dialog
type DraftHandler struct {
	list    *listview.DraftsController
	drafts  dialog.DraftsAPI
	getter  DraftGetter
	clients dialog.ClientCreator
	// clientList is reloaded after a draft is posted; nil skips it
	clientList Reloader
	feed       *ui.Feed
	routes     *ui.RouteTracker
	logger     *zap.Logger
}

// DraftHandlerDeps bundles the collaborators of a DraftHandler
type DraftHandlerDeps struct {
	List       *listview.DraftsController
	Drafts     dialog.DraftsAPI
	Getter     DraftGetter
	Clients    dialog.ClientCreator
	ClientList Reloader
	Feed       *ui.Feed
	Routes     *ui.RouteTracker
	Logger     *zap.Logger
}

func NewDraftHandler(deps DraftHandlerDeps) *DraftHandler {
	return &DraftHandler{
		list:       deps.List,
		drafts:     deps.Drafts,
		getter:     deps.Getter,
		clients:    deps.Clients,
		clientList: deps.ClientList,
		feed:       deps.Feed,
		routes:     deps.Routes,
		logger:     deps.Logger,
	}
}

func (h *DraftHandler) ensureLoaded(r *http.Request) {
	if h.list.Loaded() {
		return
	}
	if err := h.list.Load(r.Context()); err != nil {
		h.logger.Debug("drafts list load failed", zap.Error(err))
	}
}

// List returns the visible page of the drafts screen
// @Summary List drafts
// @Tags Drafts
// @Success 200 {object} Envelope
// @Router /drafts [get]
func (h *DraftHandler) List(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	h.routes.Navigate(auth.RouteDrafts)
	if r.URL.Query().Get("refresh") == "true" {
		_ = h.list.Load(r.Context())
	}
	h.ensureLoaded(r)

	if err := applyListQuery(r, h.list); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	page := toListPage(h.list.View(), h.list.Query(), h.list.Count(), h.list.Loading())
	respondJSON(w, http.StatusOK, Envelope{Data: page, Notifications: h.feed.Since(mark)})
}

// draft returns the draft from the list, or fetches it
func (h *DraftHandler) draft(r *http.Request, id int64) (domain.Draft, error) {
	if d, ok := h.list.Find(id); ok {
		return d, nil
	}
	d, err := h.getter.Get(r.Context(), id)
	if err != nil {
		return domain.Draft{}, err
	}
	return *d, nil
}

func (h *DraftHandler) open(r *http.Request, id int64) (*dialog.DraftDetail, error) {
	d, err := h.draft(r, id)
	if err != nil {
		return nil, err
	}
	return dialog.NewDraftDetail(h.drafts, h.clients, h.feed, h.logger, d), nil
}

// Get opens the draft dialog
// @Summary Get draft
// @Tags Drafts
// @Param id path int true "Draft ID"
// @Success 200 {object} Envelope
// @Router /drafts/{id} [get]
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.draft(r, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Data: d, Notifications: []ui.Notification{}})
}

// Update saves the draft
// @Summary Update draft
// @Tags Drafts
// @Accept json
// @Param id path int true "Draft ID"
// @Success 200 {object} Envelope
// @Router /drafts/{id} [put]
func (h *DraftHandler) Update(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req domain.CreateClientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	dlg, err := h.open(r, id)
	if err != nil {
		respondError(w, err)
		return
	}
	outcome, err := dlg.Save(r.Context(), req)
	if err != nil {
		respondJSON(w, domain.StatusCode(err), Envelope{Data: errorBody(err), Notifications: h.feed.Since(mark)})
		return
	}
	h.list.ApplyDraftOutcome(outcome)
	respondJSON(w, http.StatusOK, Envelope{Data: outcome.Updated, Notifications: h.feed.Since(mark)})
}

// Post creates a client from the draft and deletes the draft
// @Summary Post draft as client
// @Tags Drafts
// @Accept json
// @Param id path int true "Draft ID"
// @Success 201 {object} Envelope
// @Router /drafts/{id}/post [post]
func (h *DraftHandler) Post(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	dlg, err := h.open(r, id)
	if err != nil {
		respondError(w, err)
		return
	}
	req := dlg.Initial()
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	outcome, err := dlg.PostAsClient(r.Context(), req)
	if outcome.Client != nil && h.clientList != nil {
		if rerr := h.clientList.Reload(r.Context()); rerr != nil {
			h.logger.Debug("clients reload after post failed", zap.Error(rerr))
		}
	}
	if err != nil {
		respondJSON(w, domain.StatusCode(err), Envelope{Data: errorBody(err), Notifications: h.feed.Since(mark)})
		return
	}
	h.list.ApplyDraftOutcome(outcome)
	respondJSON(w, http.StatusCreated, Envelope{Data: outcome.Client, Notifications: h.feed.Since(mark)})
}

// Delete deletes a draft. The request must carry confirm=true.
// @Summary Delete draft
// @Tags Drafts
// @Param id path int true "Draft ID"
// @Param confirm query bool true "Confirm the deletion"
// @Success 204
// @Router /drafts/{id} [delete]
func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.ensureLoaded(r)

	ctx := ui.WithConfirmation(r.Context(), confirmed(r))
	if err := h.list.Delete(ctx, id); err != nil {
		respondJSON(w, domain.StatusCode(err), Envelope{Data: errorBody(err), Notifications: h.feed.Since(mark)})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
