package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/dialog"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/importer"
	"github.com/straye-as/client-admin/internal/listview"
	"github.com/straye-as/client-admin/internal/storage"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// ExportLocation is returned when an export is kept in storage
type ExportLocation struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Count    int    `json:"count"`
	Bytes    int64  `json:"bytes"`
}

// ClientHandler serves the clients screen and the client detail view
type ClientHandler struct {
	list    *listview.ClientsController
	api     dialog.ClientsAPI
	storage storage.Storage
	feed    *ui.Feed
	routes  *ui.RouteTracker
	logger  *zap.Logger
	now     func() time.Time
}

// NewClientHandler creates the handler. store may be nil, which disables
// keeping exports.
func NewClientHandler(list *listview.ClientsController, api dialog.ClientsAPI, store storage.Storage, feed *ui.Feed, routes *ui.RouteTracker, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		list:    list,
		api:     api,
		storage: store,
		feed:    feed,
		routes:  routes,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *ClientHandler) deps() dialog.DetailDeps {
	return dialog.DetailDeps{
		Clients:   h.api,
		Notifier:  h.feed,
		Confirmer: ui.ContextConfirmer{},
		Logger:    h.logger,
	}
}

// ensureLoaded runs the screen's first load. A failed load has already been
// reported to the operator and leaves the list empty.
func (h *ClientHandler) ensureLoaded(r *http.Request) {
	if h.list.Loaded() {
		return
	}
	if err := h.list.Init(r.Context()); err != nil {
		h.logger.Debug("clients list load failed", zap.Error(err))
	}
}

// List returns the visible page of the clients screen
// @Summary List clients
// @Tags Clients
// @Produce json
// @Param q query string false "Filter"
// @Param sort query string false "Sort key"
// @Param dir query string false "asc or desc"
// @Param page query int false "Page index"
// @Param size query int false "Page size, 0 for all"
// @Success 200 {object} Envelope
// @Router /clients [get]
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	h.routes.Navigate(auth.RouteClients)
	h.ensureLoaded(r)

	if err := applyListQuery(r, h.list); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	page := toListPage(h.list.View(), h.list.Query(), h.list.Count(), h.list.Loading())
	respondJSON(w, http.StatusOK, Envelope{Data: page, Notifications: h.feed.Since(mark)})
}

// Reload fetches the clients list again
// @Summary Reload clients
// @Tags Clients
// @Success 200 {object} Envelope
// @Router /clients/reload [post]
func (h *ClientHandler) Reload(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	if err := h.list.Init(r.Context()); err != nil {
		respondJSON(w, domain.StatusCode(err), Envelope{Notifications: h.feed.Since(mark)})
		return
	}
	page := toListPage(h.list.View(), h.list.Query(), h.list.Count(), h.list.Loading())
	respondJSON(w, http.StatusOK, Envelope{Data: page, Notifications: h.feed.Since(mark)})
}

// Create submits the add-client form
// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Success 201 {object} Envelope
// @Failure 400 {object} domain.APIError
// @Router /clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	form := dialog.NewAddForm(h.api, h.feed)
	req := form.Initial()
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := form.Submit(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	h.list.Insert(*created)
	respondJSON(w, http.StatusCreated, Envelope{Data: created, Notifications: h.feed.Since(mark)})
}

// Get opens the detail view of one client
// @Summary Get client
// @Tags Clients
// @Param id path int true "Client ID"
// @Success 200 {object} Envelope
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail := dialog.OpenClientByID(r.Context(), h.deps(), id)
	defer detail.Close()
	state := detail.State()
	if state.Client == nil {
		status := http.StatusInternalServerError
		if state.Cause != nil {
			status = domain.StatusCode(state.Cause)
		}
		respondJSON(w, status, Envelope{
			Data:          domain.NewAPIError(status, state.Error),
			Notifications: h.feed.Since(mark),
		})
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Data: state.Client, Notifications: h.feed.Since(mark)})
}

// Update edits a client from its detail view
// @Summary Update client
// @Tags Clients
// @Accept json
// @Param id path int true "Client ID"
// @Success 200 {object} Envelope
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	detail, err := h.openDetail(r, id)
	if err != nil {
		respondError(w, err)
		return
	}
	outcome, err := detail.Edit(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.list.ApplyDetailOutcome(r.Context(), outcome); err != nil {
		h.logger.Debug("clients reload after edit failed", zap.Error(err))
	}
	respondJSON(w, http.StatusOK, Envelope{Data: outcome.Client, Notifications: h.feed.Since(mark)})
}

// Delete deletes a client. The request must carry confirm=true.
// @Summary Delete client
// @Tags Clients
// @Param id path int true "Client ID"
// @Param confirm query bool true "Confirm the deletion"
// @Success 204
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := ui.WithConfirmation(r.Context(), confirmed(r))
	r = r.WithContext(ctx)

	if _, inList := h.list.Find(id); inList {
		err = h.list.Delete(ctx, id)
	} else {
		err = h.deleteFromDetail(r, id)
	}
	if err != nil {
		respondJSON(w, domain.StatusCode(err), Envelope{Data: errorBody(err), Notifications: h.feed.Since(mark)})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandler) deleteFromDetail(r *http.Request, id int64) error {
	detail, err := h.openDetail(r, id)
	if err != nil {
		return err
	}
	outcome, err := detail.Delete(r.Context())
	if err != nil {
		return err
	}
	if err := h.list.ApplyDetailOutcome(r.Context(), outcome); err != nil {
		h.logger.Debug("clients reload after delete failed", zap.Error(err))
	}
	return nil
}

// openDetail opens the detail view for id, from the list when it is there
func (h *ClientHandler) openDetail(r *http.Request, id int64) (*dialog.ClientDetail, error) {
	if c, ok := h.list.Find(id); ok {
		detail := dialog.OpenClient(r.Context(), h.deps(), c)
		detail.Wait()
		return detail, nil
	}
	detail := dialog.OpenClientByID(r.Context(), h.deps(), id)
	if state := detail.State(); state.Client == nil {
		detail.Close()
		if state.Cause != nil {
			return nil, state.Cause
		}
		return nil, dialog.ErrNoClient
	}
	return detail, nil
}

// Export downloads every fetched client, or keeps the file in storage when
// store=true
// @Summary Export clients
// @Tags Clients
// @Param format query string false "csv or excel"
// @Param store query bool false "Keep the file in storage"
// @Success 200 {file} file
// @Router /clients/export [get]
func (h *ClientHandler) Export(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	rawFormat := r.URL.Query().Get("format")
	if rawFormat == "" {
		rawFormat = string(importer.FormatCSV)
	}
	format, err := importer.ParseFormat(rawFormat)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.ensureLoaded(r)

	var buf bytes.Buffer
	n, err := h.list.Export(&buf, format)
	if err != nil {
		respondJSON(w, domain.StatusCode(err), Envelope{Data: errorBody(err), Notifications: h.feed.Since(mark)})
		return
	}

	if r.URL.Query().Get("store") == "true" {
		h.storeExport(w, r, mark, format, n, &buf)
		return
	}
	attachment(w, format.Filename(), format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *ClientHandler) storeExport(w http.ResponseWriter, r *http.Request, mark uint64, format importer.Format, n int, buf *bytes.Buffer) {
	if h.storage == nil {
		respondWithError(w, http.StatusServiceUnavailable, "export storage is not configured")
		return
	}
	name := storage.ExportName(format.Filename(), h.now())
	written, err := h.storage.Put(r.Context(), name, format.ContentType(), buf)
	if err != nil {
		h.logger.Error("failed to store export", zap.String("name", name), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to store export")
		return
	}
	respondJSON(w, http.StatusCreated, Envelope{
		Data:          ExportLocation{Name: name, Location: h.storage.Location(name), Count: n, Bytes: written},
		Notifications: h.feed.Since(mark),
	})
}

// Template downloads the empty import workbook
// @Summary Import template
// @Tags Import
// @Success 200 {file} file
// @Router /clients/import/template [get]
func (h *ClientHandler) Template(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := importer.WriteTemplate(&buf); err != nil {
		h.logger.Error("failed to build import template", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to build template")
		return
	}
	attachment(w, importer.TemplateFilename, importer.FormatExcel.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// errorBody is the APIError carried in an Envelope for err
func errorBody(err error) *domain.APIError {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return domain.NewAPIError(domain.StatusCode(err), err.Error())
}
