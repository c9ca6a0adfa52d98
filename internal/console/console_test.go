package console_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/straye-as/client-admin/internal/api/apitest"
	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/config"
	"github.com/straye-as/client-admin/internal/console"
	"github.com/straye-as/client-admin/internal/dialog"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/importer"
	"github.com/straye-as/client-admin/internal/session"
	"github.com/straye-as/client-admin/internal/storage"
	"github.com/straye-as/client-admin/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	adminEmail  = "admin@example.com"
	viewerEmail = "viewer@example.com"
)

type fixture struct {
	backend *apitest.Backend
	console *console.Console
	session *session.Manager
	routes  *ui.RouteTracker
	baseDir string
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Name: "Client Admin", Environment: "test"},
		Import:    config.ImportConfig{MaxUploadSizeMB: 1},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:4200"}},
		Security:  config.SecurityConfig{ContentTypeNosniff: true, FrameOptions: "DENY"},
		RateLimit: config.RateLimitConfig{Enabled: false},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := apitest.NewBackend(t)
	backend.AddUser(domain.User{ID: 1, Email: adminEmail, FullName: "Admin", Role: "ADMIN", Active: true})
	backend.AddUser(domain.User{ID: 2, Email: viewerEmail, FullName: "Viewer", Role: "VIEWER", Active: true})

	logger := zap.NewNop()
	feed := ui.NewFeed(50, logger)
	routes := &ui.RouteTracker{}
	mgr, err := session.Open(context.Background(), session.NewMemoryStore(), routes, feed, logger)
	require.NoError(t, err)
	client := backend.Client()
	mgr.SetAuthenticator(client.Auth)

	baseDir := t.TempDir()
	store, err := storage.NewLocalStorage(baseDir)
	require.NoError(t, err)

	c := console.New(console.Deps{
		Config:  testConfig(),
		API:     client,
		Session: mgr,
		Storage: store,
		Feed:    feed,
		Routes:  routes,
		Logger:  logger,
	})
	t.Cleanup(c.Close)
	return &fixture{backend: backend, console: c, session: mgr, routes: routes, baseDir: baseDir}
}

type envelope struct {
	Data          json.RawMessage   `json:"data"`
	Notifications []ui.Notification `json:"notifications"`
}

func (e envelope) messages() []string {
	out := make([]string, 0, len(e.Notifications))
	for _, n := range e.Notifications {
		out = append(out, n.Message)
	}
	return out
}

func (f *fixture) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.console.Handler().ServeHTTP(rec, req)
	return rec
}

func (f *fixture) doJSON(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	rec := f.do(t, method, path, reader, "application/json")
	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (f *fixture) login(t *testing.T, email string) {
	t.Helper()
	rec, _ := f.doJSON(t, http.MethodPost, "/console/v1/session", domain.LoginRequest{Email: email})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

type clientPage struct {
	Items     []domain.Client `json:"items"`
	Total     int             `json:"total"`
	Count     int64           `json:"count"`
	PageIndex int             `json:"pageIndex"`
	PageCount int             `json:"pageCount"`
	Loading   bool            `json:"loading"`
}

func TestHealthAndSecurityHeaders(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t)

	rec, env := f.doJSON(t, http.MethodGet, "/console/v1/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `false`, string(mustField(t, env.Data, "loggedIn")))

	rec, _ = f.doJSON(t, http.MethodGet, "/console/v1/clients", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.RouteLogin, f.routes.Current())

	rec, env = f.doJSON(t, http.MethodPost, "/console/v1/session", domain.LoginRequest{Email: adminEmail})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `true`, string(mustField(t, env.Data, "loggedIn")))
	assert.JSONEq(t, `"ADMIN"`, string(mustField(t, env.Data, "role")))

	rec, _ = f.doJSON(t, http.MethodDelete, "/console/v1/session", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.session.IsLoggedIn())
}

func TestLoginRejectsInvalidEmail(t *testing.T) {
	f := newFixture(t)
	rec, _ := f.doJSON(t, http.MethodPost, "/console/v1/session", domain.LoginRequest{Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.backend.Calls("POST /api/auth/login"))

	rec, _ = f.doJSON(t, http.MethodPost, "/console/v1/session", domain.LoginRequest{Email: "nobody@example.com"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, f.session.IsLoggedIn())
}

func mustField(t *testing.T, raw json.RawMessage, name string) json.RawMessage {
	t.Helper()
	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &obj))
	v, ok := obj[name]
	require.True(t, ok, "missing field %s in %s", name, raw)
	return v
}

func TestClientsListFilterSortPage(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"Charlie", "alice", "Bob"} {
		f.backend.AddClient(domain.Client{FullName: name, Email: strings.ToLower(name) + "@example.com", Active: true})
	}
	f.login(t, adminEmail)

	rec, env := f.doJSON(t, http.MethodGet, "/console/v1/clients?sort=fullName&dir=asc&size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page clientPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, int64(3), page.Count)
	assert.Equal(t, 2, page.PageCount)
	assert.False(t, page.Loading)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "alice", page.Items[0].FullName)
	assert.Equal(t, "Bob", page.Items[1].FullName)
	assert.Equal(t, auth.RouteClients, f.routes.Current())

	_, env = f.doJSON(t, http.MethodGet, "/console/v1/clients?page=1", nil)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Charlie", page.Items[0].FullName)

	_, env = f.doJSON(t, http.MethodGet, "/console/v1/clients?q=BOB", nil)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 0, page.PageIndex)

	assert.Equal(t, 1, f.backend.Calls("GET /api/clients"))
}

func TestClientsListLoadFailureNotifies(t *testing.T) {
	f := newFixture(t)
	f.backend.Fail("GET /api/clients", http.StatusInternalServerError)
	f.login(t, adminEmail)

	rec, env := f.doJSON(t, http.MethodGet, "/console/v1/clients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, env.messages(), "Failed to load clients")
}

func TestCreateClient(t *testing.T) {
	f := newFixture(t)
	f.login(t, adminEmail)
	f.doJSON(t, http.MethodGet, "/console/v1/clients", nil)

	rec, env := f.doJSON(t, http.MethodPost, "/console/v1/clients", map[string]any{"fullName": "", "email": "bad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.backend.Calls("POST /api/clients"))

	rec, env = f.doJSON(t, http.MethodPost, "/console/v1/clients", map[string]any{
		"fullName": "New Client",
		"email":    "new@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{dialog.MsgClientCreated}, env.messages())
	var created domain.Client
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.Active)

	// the add form starts active, so an omitted flag goes out as true
	bodies := f.backend.Bodies("POST /api/clients")
	require.Len(t, bodies, 1)
	var sent map[string]any
	require.NoError(t, json.Unmarshal(bodies[0], &sent))
	assert.Equal(t, true, sent["active"])

	_, env = f.doJSON(t, http.MethodGet, "/console/v1/clients", nil)
	var page clientPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Count)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "New Client", page.Items[0].FullName)
}

func TestGetClientNotFound(t *testing.T) {
	f := newFixture(t)
	f.login(t, adminEmail)

	rec, env := f.doJSON(t, http.MethodGet, "/console/v1/clients/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `"`+dialog.MsgDetailLoadFailed+`"`, string(mustField(t, env.Data, "detail")))

	rec, _ = f.doJSON(t, http.MethodGet, "/console/v1/clients/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateClientFromDetail(t *testing.T) {
	f := newFixture(t)
	c := f.backend.AddClient(domain.Client{FullName: "Old", Email: "old@example.com", Active: true})
	f.login(t, adminEmail)

	rec, env := f.doJSON(t, http.MethodPut, "/console/v1/clients/1", map[string]any{
		"fullName": "Renamed",
		"email":    "old@example.com",
		"active":   true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{dialog.MsgClientUpdated, dialog.MsgDetailUpdated}, env.messages())

	stored, ok := f.backend.ClientByID(c.ID)
	require.True(t, ok)
	assert.Equal(t, "Renamed", stored.FullName)
}

func TestDeleteClientNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	c := f.backend.AddClient(domain.Client{FullName: "Doomed", Email: "doomed@example.com"})
	f.login(t, adminEmail)
	f.doJSON(t, http.MethodGet, "/console/v1/clients", nil)

	rec, _ := f.doJSON(t, http.MethodDelete, "/console/v1/clients/1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.backend.Calls("DELETE /api/clients/{id}"))

	rec, _ = f.doJSON(t, http.MethodDelete, "/console/v1/clients/1?confirm=true", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok := f.backend.ClientByID(c.ID)
	assert.False(t, ok)

	rec, env := f.doJSON(t, http.MethodGet, "/console/v1/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, env.messages(), "Client deleted")
}

func TestViewerPermissions(t *testing.T) {
	f := newFixture(t)
	f.login(t, viewerEmail)

	rec, _ := f.doJSON(t, http.MethodGet, "/console/v1/clients", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.doJSON(t, http.MethodPost, "/console/v1/clients", map[string]any{"fullName": "X", "email": "x@example.com"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = f.doJSON(t, http.MethodGet, "/console/v1/drafts", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, auth.RouteClients, f.routes.Current())

	rec, _ = f.doJSON(t, http.MethodGet, "/console/v1/logs", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func importWorkbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &r))
	}
	var buf bytes.Buffer
	_, err := wb.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func multipartFile(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "clients.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestImportUploadAndSubmit(t *testing.T) {
	f := newFixture(t)
	f.login(t, adminEmail)
	f.doJSON(t, http.MethodGet, "/console/v1/clients", nil)

	wb := importWorkbook(t,
		[]any{"fullName", "email", "active"},
		[]any{"Ada", "ada@example.com", "yes"},
		[]any{"", "broken", ""},
	)
	body, contentType := multipartFile(t, wb.Bytes())
	rec := f.do(t, http.MethodPost, "/console/v1/clients/import", body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var view struct {
		State  importer.State  `json:"state"`
		Result importer.Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, importer.StatePartitioned, view.State)
	assert.Len(t, view.Result.Valid, 1)
	require.Len(t, view.Result.Errors, 1)
	assert.Equal(t, 3, view.Result.Errors[0].Row)

	rec, env = f.doJSON(t, http.MethodPost, "/console/v1/clients/import/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{importer.ImportedMessage(1)}, env.messages())
	assert.Equal(t, 1, f.backend.ClientCount())

	// the clients screen reloaded after the import
	assert.Equal(t, 2, f.backend.Calls("GET /api/clients"))
}

func TestImportRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	f.login(t, adminEmail)

	body, contentType := multipartFile(t, []byte("not a workbook"))
	rec := f.do(t, http.MethodPost, "/console/v1/clients/import", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, []string{importer.MsgParseFailed}, env.messages())

	rec, _ = f.doJSON(t, http.MethodPost, "/console/v1/clients/import/submit", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.backend.Calls("POST /api/clients/bulk"))
}

func TestImportFromStoredObject(t *testing.T) {
	f := newFixture(t)
	f.login(t, adminEmail)

	wb := importWorkbook(t, []any{"Full Name", "Email"}, []any{"Grace", "grace@example.com"})
	require.NoError(t, os.MkdirAll(filepath.Join(f.baseDir, "imports"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.baseDir, "imports", "batch.xlsx"), wb.Bytes(), 0o644))

	rec := f.do(t, http.MethodPost, "/console/v1/clients/import?source=imports/batch.xlsx", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/console/v1/clients/import?source=imports/missing.xlsx", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportDownloadAndStore(t *testing.T) {
	f := newFixture(t)
	f.backend.AddClient(domain.Client{FullName: "Ada", Email: "ada@example.com", Active: true})
	f.login(t, adminEmail)

	rec := f.do(t, http.MethodGet, "/console/v1/clients/export?format=csv", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "clients.csv")
	assert.Contains(t, rec.Body.String(), "ada@example.com")

	rec, env := f.doJSON(t, http.MethodGet, "/console/v1/clients/export?format=excel&store=true", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var loc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &loc))
	assert.Equal(t, 1, loc.Count)
	assert.True(t, strings.HasPrefix(loc.Name, "exports/"))
	_, err := os.Stat(filepath.Join(f.baseDir, filepath.FromSlash(loc.Name)))
	assert.NoError(t, err)

	rec = f.do(t, http.MethodGet, "/console/v1/clients/export?format=pdf", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEmptyList(t *testing.T) {
	f := newFixture(t)
	f.login(t, adminEmail)

	rec, env := f.doJSON(t, http.MethodGet, "/console/v1/clients/export", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.messages(), "No clients to export")
}

func TestImportTemplate(t *testing.T) {
	f := newFixture(t)
	f.login(t, adminEmail)

	rec := f.do(t, http.MethodGet, "/console/v1/clients/import/template", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), importer.TemplateFilename)

	rows, err := importer.Parse(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestDraftPostAsClient(t *testing.T) {
	f := newFixture(t)
	d := f.backend.AddDraft(domain.Draft{FullName: "Draft Person", Email: "draft@example.com"})
	f.login(t, adminEmail)

	rec, env := f.doJSON(t, http.MethodGet, "/console/v1/drafts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, auth.RouteDrafts, f.routes.Current())

	rec, env = f.doJSON(t, http.MethodPost, "/console/v1/drafts/1/post", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{dialog.MsgDraftPosted}, env.messages())

	_, ok := f.backend.DraftByID(d.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, f.backend.ClientCount())

	_, env = f.doJSON(t, http.MethodGet, "/console/v1/drafts", nil)
	var page struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Zero(t, page.Total)
}

func TestDraftUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	d := f.backend.AddDraft(domain.Draft{FullName: "Draft Person", Email: "draft@example.com"})
	f.login(t, adminEmail)

	rec, env := f.doJSON(t, http.MethodPut, "/console/v1/drafts/1", map[string]any{
		"fullName": "Edited Draft",
		"email":    "draft@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{dialog.MsgDraftUpdated}, env.messages())

	stored, ok := f.backend.DraftByID(d.ID)
	require.True(t, ok)
	assert.Equal(t, "Edited Draft", stored.FullName)

	rec, _ = f.doJSON(t, http.MethodDelete, "/console/v1/drafts/1?confirm=true", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok = f.backend.DraftByID(d.ID)
	assert.False(t, ok)
}

func TestLogsActionFilter(t *testing.T) {
	f := newFixture(t)
	f.backend.AddLog(domain.AuditLog{Action: "CREATE", EntityType: "Client"})
	f.backend.AddLog(domain.AuditLog{Action: "DELETE", EntityType: "Client"})
	f.backend.AddLog(domain.AuditLog{Action: "CREATE", EntityType: "Draft"})
	f.login(t, adminEmail)

	rec, env := f.doJSON(t, http.MethodGet, "/console/v1/logs?action=CREATE", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Total   int      `json:"total"`
		Action  string   `json:"action"`
		Actions []string `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "CREATE", page.Action)
	assert.ElementsMatch(t, []string{"CREATE", "DELETE"}, page.Actions)
}

func TestDashboardHidesLogsFromViewer(t *testing.T) {
	f := newFixture(t)
	f.backend.AddClient(domain.Client{FullName: "Ada", Email: "ada@example.com", Active: true, Location: "Oslo"})
	f.backend.AddClient(domain.Client{FullName: "Bob", Email: "bob@example.com"})
	f.backend.AddLog(domain.AuditLog{Action: "CREATE"})
	f.login(t, viewerEmail)

	rec, env := f.doJSON(t, http.MethodGet, "/console/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		Total      int               `json:"total"`
		Active     int               `json:"active"`
		RecentLogs []domain.AuditLog `json:"recentLogs"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Active)
	assert.Empty(t, summary.RecentLogs)
	assert.Zero(t, f.backend.Calls("GET /api/logs"))
}

func TestScreensRefreshOnlyOpenedScreens(t *testing.T) {
	f := newFixture(t)
	f.login(t, adminEmail)
	f.doJSON(t, http.MethodGet, "/console/v1/clients", nil)

	for _, s := range f.console.Screens() {
		require.NoError(t, s.Load(context.Background()))
	}
	assert.Equal(t, 2, f.backend.Calls("GET /api/clients"))
	assert.Zero(t, f.backend.Calls("GET /api/drafts"))
	assert.Zero(t, f.backend.Calls("GET /api/logs"))

	f.session.Logout()
	for _, s := range f.console.Screens() {
		require.NoError(t, s.Load(context.Background()))
	}
	assert.Equal(t, 2, f.backend.Calls("GET /api/clients"))
}
