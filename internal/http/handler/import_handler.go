package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/importer"
	"github.com/straye-as/client-admin/internal/storage"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// ImportView is the state of the import dialog
type ImportView struct {
	State   importer.State  `json:"state"`
	Result  importer.Result `json:"result"`
	Created *int            `json:"created,omitempty"`
}

// ImportHandler serves the bulk import dialog
type ImportHandler struct {
	pipeline *importer.Pipeline
	storage  storage.Storage
	feed     *ui.Feed
	logger   *zap.Logger
	maxBytes int64
}

// NewImportHandler creates the handler. store may be nil, which disables
// importing from a stored object.
func NewImportHandler(pipeline *importer.Pipeline, store storage.Storage, feed *ui.Feed, maxBytes int64, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{pipeline: pipeline, storage: store, feed: feed, logger: logger, maxBytes: maxBytes}
}

func (h *ImportHandler) view() ImportView {
	return ImportView{State: h.pipeline.State(), Result: h.pipeline.Result()}
}

// Get returns the dialog state
// @Summary Import state
// @Tags Import
// @Success 200 {object} Envelope
// @Router /clients/import [get]
func (h *ImportHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Envelope{Data: h.view(), Notifications: []ui.Notification{}})
}

// Upload parses a workbook from the multipart field "file", or from the
// stored object named by ?source=
// @Summary Upload import file
// @Tags Import
// @Accept multipart/form-data
// @Param file formData file false "Workbook"
// @Param source query string false "Stored object name"
// @Success 200 {object} Envelope
// @Router /clients/import [post]
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()

	src, err := h.source(w, r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, storage.ErrNotFound) {
			status = http.StatusNotFound
		}
		respondWithError(w, status, err.Error())
		return
	}
	defer src.Close()

	if err := h.pipeline.Load(r.Context(), src); err != nil {
		respondJSON(w, http.StatusBadRequest, Envelope{
			Data:          domain.NewAPIError(http.StatusBadRequest, importer.MsgParseFailed),
			Notifications: h.feed.Since(mark),
		})
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Data: h.view(), Notifications: h.feed.Since(mark)})
}

func (h *ImportHandler) source(w http.ResponseWriter, r *http.Request) (io.ReadCloser, error) {
	if name := r.URL.Query().Get("source"); name != "" {
		if h.storage == nil {
			return nil, errors.New("import storage is not configured")
		}
		return h.storage.Open(r.Context(), name)
	}

	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.New("file too large")
		}
		return nil, errors.New("a spreadsheet is required in field \"file\"")
	}
	return file, nil
}

// Submit creates every valid row in one request
// @Summary Submit import
// @Tags Import
// @Success 201 {object} Envelope
// @Router /clients/import/submit [post]
func (h *ImportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	if len(h.pipeline.Result().Valid) == 0 {
		respondJSON(w, http.StatusBadRequest, Envelope{
			Data:          errorBody(domain.ErrNothingToSubmit),
			Notifications: h.feed.Since(mark),
		})
		return
	}

	created, err := h.pipeline.Submit(r.Context())
	if err != nil {
		respondJSON(w, domain.StatusCode(err), Envelope{
			Data:          domain.NewAPIError(domain.StatusCode(err), importer.MsgSubmitFailed),
			Notifications: h.feed.Since(mark),
		})
		return
	}
	v := h.view()
	v.Created = &created
	respondJSON(w, http.StatusCreated, Envelope{Data: v, Notifications: h.feed.Since(mark)})
}

// Reset closes the dialog and discards the parsed rows
// @Summary Reset import
// @Tags Import
// @Success 204
// @Router /clients/import [delete]
func (h *ImportHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.pipeline.Reset()
	w.WriteHeader(http.StatusNoContent)
}
