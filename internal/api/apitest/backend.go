// Package apitest provides an in-memory fake of the client-management
// backend for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/client-admin/internal/api"
	"github.com/straye-as/client-admin/internal/domain"
)

// Backend is a fake backend served by httptest
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	clients  map[int64]domain.Client
	drafts   map[int64]domain.Draft
	logs     []domain.AuditLog
	users    map[string]domain.User
	nextID   int64
	failures map[string]int
	calls    map[string]int
	bodies   map[string][]json.RawMessage
	auth     map[string]string
}

// NewBackend starts a fake backend that is closed when the test ends
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		clients:  make(map[int64]domain.Client),
		drafts:   make(map[int64]domain.Draft),
		users:    make(map[string]domain.User),
		nextID:   1,
		failures: make(map[string]int),
		calls:    make(map[string]int),
		bodies:   make(map[string][]json.RawMessage),
		auth:     make(map[string]string),
	}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Post("/api/auth/login", b.login)
	r.Get("/api/clients", b.listClients)
	r.Post("/api/clients", b.createClient)
	r.Get("/api/clients/count", b.countClients)
	r.Get("/api/clients/search", b.searchClients)
	r.Post("/api/clients/bulk", b.bulkCreate)
	r.Get("/api/clients/{id}", b.getClient)
	r.Put("/api/clients/{id}", b.updateClient)
	r.Delete("/api/clients/{id}", b.deleteClient)
	r.Get("/api/drafts", b.listDrafts)
	r.Post("/api/drafts", b.createDraft)
	r.Get("/api/drafts/{id}", b.getDraft)
	r.Put("/api/drafts/{id}", b.updateDraft)
	r.Delete("/api/drafts/{id}", b.deleteDraft)
	r.Get("/api/logs", b.listLogs)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the backend base URL
func (b *Backend) URL() string { return b.Server.URL }

// Client returns an SDK client with a plain transport
func (b *Backend) Client() *api.Client {
	return api.NewClient(b.Server.URL, b.Server.Client())
}

// Fail makes every request matching "METHOD /route/pattern" answer status
// until Recover is called. Example: b.Fail("GET /api/clients/{id}", 500).
func (b *Backend) Fail(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = status
}

// Recover clears a failure set with Fail
func (b *Backend) Recover(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, route)
}

// Calls returns how many requests hit "METHOD /route/pattern"
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// Bodies returns the raw request bodies received on a route
func (b *Backend) Bodies(route string) []json.RawMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]json.RawMessage(nil), b.bodies[route]...)
}

// Authorization returns the last Authorization header seen on a route
func (b *Backend) Authorization(route string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.auth[route]
}

// AddUser registers a user that can log in
func (b *Backend) AddUser(u domain.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[u.Email] = u
}

// AddClient stores a client and returns it with its assigned id
func (b *Backend) AddClient(c domain.Client) domain.Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.ID = b.nextID
	b.nextID++
	b.clients[c.ID] = c
	return c
}

// AddDraft stores a draft and returns it with its assigned id
func (b *Backend) AddDraft(d domain.Draft) domain.Draft {
	b.mu.Lock()
	defer b.mu.Unlock()
	d.ID = b.nextID
	b.nextID++
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
		d.UpdatedAt = d.CreatedAt
	}
	b.drafts[d.ID] = d
	return d
}

// AddLog stores an audit log entry
func (b *Backend) AddLog(l domain.AuditLog) domain.AuditLog {
	b.mu.Lock()
	defer b.mu.Unlock()
	l.ID = b.nextID
	b.nextID++
	b.logs = append(b.logs, l)
	return l
}

// ClientByID returns a stored client
func (b *Backend) ClientByID(id int64) (domain.Client, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.clients[id]
	return c, ok
}

// DraftByID returns a stored draft
func (b *Backend) DraftByID(id int64) (domain.Draft, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.drafts[id]
	return d, ok
}

// ClientCount returns the number of stored clients
func (b *Backend) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.NewRouteContext()
		route := r.Method + " " + r.URL.Path
		if chi.RouteContext(r.Context()) != nil && chi.RouteContext(r.Context()).Routes != nil {
			if chi.RouteContext(r.Context()).Routes.Match(rctx, r.Method, r.URL.Path) {
				route = r.Method + " " + rctx.RoutePattern()
			}
		}

		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		b.mu.Lock()
		b.calls[route]++
		if len(body) > 0 {
			b.bodies[route] = append(b.bodies[route], json.RawMessage(body))
		}
		b.auth[route] = r.Header.Get("Authorization")
		status, failing := b.failures[route]
		b.mu.Unlock()

		if failing {
			writeJSON(w, status, map[string]string{"error": http.StatusText(status), "message": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Bad request", "message": "invalid id"})
		return 0, false
	}
	return id, true
}

func notFound(w http.ResponseWriter, what string, id int64) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error":   what + " not found",
		"message": fmt.Sprintf("%s not found with id %d", what, id),
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeBody(r, &req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"email": "must not be blank"})
		return
	}
	b.mu.Lock()
	user, ok := b.users[req.Email]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized", "message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, domain.LoginResponse{Token: "token-" + strconv.FormatInt(user.ID, 10), User: user})
}

func (b *Backend) sortedClients() []domain.Client {
	out := make([]domain.Client, 0, len(b.clients))
	for _, c := range b.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) listClients(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.sortedClients())
}

func (b *Backend) countClients(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, len(b.clients))
}

func (b *Backend) searchClients(w http.ResponseWriter, r *http.Request) {
	keyword := strings.ToLower(r.URL.Query().Get("keyword"))
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []domain.Client{}
	for _, c := range b.sortedClients() {
		if strings.Contains(strings.ToLower(c.FullName), keyword) || strings.Contains(strings.ToLower(c.Email), keyword) {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func clientFromRequest(req domain.CreateClientRequest) domain.Client {
	c := domain.Client{
		FullName:    req.FullName,
		DisplayName: domain.StringValue(req.DisplayName),
		Email:       req.Email,
		Details:     domain.StringValue(req.Details),
		Location:    domain.StringValue(req.Location),
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	return c
}

// newClientFromRequest applies the create defaults: a missing active flag
// means active
func newClientFromRequest(req domain.CreateClientRequest) domain.Client {
	c := clientFromRequest(req)
	if req.Active == nil {
		c.Active = true
	}
	return c
}

func (b *Backend) createClient(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Bad request", "message": err.Error()})
		return
	}
	if req.FullName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"fullName": "must not be blank"})
		return
	}
	writeJSON(w, http.StatusCreated, b.AddClient(newClientFromRequest(req)))
}

func (b *Backend) bulkCreate(w http.ResponseWriter, r *http.Request) {
	var reqs []domain.CreateClientRequest
	if err := decodeBody(r, &reqs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Bad request", "message": err.Error()})
		return
	}
	created := make([]domain.Client, 0, len(reqs))
	for _, req := range reqs {
		created = append(created, b.AddClient(newClientFromRequest(req)))
	}
	writeJSON(w, http.StatusCreated, created)
}

func (b *Backend) getClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	c, found := b.ClientByID(id)
	if !found {
		notFound(w, "Client", id)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (b *Backend) updateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req domain.CreateClientRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Bad request", "message": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.clients[id]; !found {
		notFound(w, "Client", id)
		return
	}
	c := clientFromRequest(req)
	c.ID = id
	b.clients[id] = c
	writeJSON(w, http.StatusOK, c)
}

func (b *Backend) deleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.clients[id]; !found {
		notFound(w, "Client", id)
		return
	}
	delete(b.clients, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listDrafts(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Draft, 0, len(b.drafts))
	for _, d := range b.drafts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func draftFromRequest(req domain.CreateDraftRequest) domain.Draft {
	d := domain.Draft{
		FullName:    req.FullName,
		DisplayName: domain.StringValue(req.DisplayName),
		Email:       req.Email,
		Details:     domain.StringValue(req.Details),
		Location:    domain.StringValue(req.Location),
	}
	if req.Active != nil {
		d.Active = *req.Active
	}
	return d
}

func (b *Backend) createDraft(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDraftRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Bad request", "message": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, b.AddDraft(draftFromRequest(req)))
}

func (b *Backend) getDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	d, found := b.DraftByID(id)
	if !found {
		notFound(w, "Draft", id)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (b *Backend) updateDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req domain.CreateDraftRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Bad request", "message": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	existing, found := b.drafts[id]
	if !found {
		notFound(w, "Draft", id)
		return
	}
	d := draftFromRequest(req)
	d.ID = id
	d.CreatedByEmail = existing.CreatedByEmail
	d.CreatedByName = existing.CreatedByName
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = time.Now().UTC()
	b.drafts[id] = d
	writeJSON(w, http.StatusOK, d)
}

func (b *Backend) deleteDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.drafts[id]; !found {
		notFound(w, "Draft", id)
		return
	}
	delete(b.drafts, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listLogs(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]domain.AuditLog{}, b.logs...))
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
