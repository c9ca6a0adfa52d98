package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/straye-as/client-admin/internal/api/apitest"
	"github.com/straye-as/client-admin/internal/config"
	"github.com/straye-as/client-admin/internal/dialog"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/session"
	"github.com/straye-as/client-admin/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	adminEmail  = "admin@example.com"
	viewerEmail = "viewer@example.com"
)

type harness struct {
	backend *apitest.Backend
	store   *session.MemoryStore
	cfg     *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := apitest.NewBackend(t)
	backend.AddUser(domain.User{ID: 1, Email: adminEmail, FullName: "Admin", Role: "ADMIN", Active: true})
	backend.AddUser(domain.User{ID: 2, Email: viewerEmail, FullName: "Viewer", Role: "VIEWER", Active: true})

	cfg := &config.Config{
		Backend: config.BackendConfig{BaseURL: backend.URL(), Timeout: 5, RetryWindow: 1},
		Session: config.SessionConfig{Store: "memory"},
		Storage: config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir()},
	}
	h := &harness{backend: backend, store: session.NewMemoryStore(), cfg: cfg}

	prev := appFactory
	appFactory = func(cmd *cobra.Command) (*app, error) {
		term := newTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), assumeYes)
		return assemble(context.Background(), h.cfg, zap.NewNop(), h.store, term, cmd.Name() == "serve", nil)
	}
	t.Cleanup(func() { appFactory = prev })
	return h
}

// resetFlags puts every flag back to its default. Flag values and their
// changed state outlive a single Execute.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

func (h *harness) run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func (h *harness) login(t *testing.T, email string) {
	t.Helper()
	res := h.run(t, "", "login", "--email", email)
	require.NoError(t, res.err)
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	res := h.run(t, "", "login", "--email", adminEmail)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Signed in as Admin (ADMIN)")

	res = h.run(t, "", "whoami")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, adminEmail)
	assert.Contains(t, res.stdout, "clients:delete")

	res = h.run(t, "", "logout")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Signed out")

	res = h.run(t, "", "whoami")
	assert.ErrorIs(t, res.err, domain.ErrNotLoggedIn)
	assert.Contains(t, res.stderr, "clientadmin login")
}

func TestLoginPromptsForEmail(t *testing.T) {
	h := newHarness(t)

	res := h.run(t, viewerEmail+"\n", "login")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Email:")
	assert.Contains(t, res.stdout, "Signed in as Viewer (VIEWER)")
}

func TestLoginRejectsInvalidEmail(t *testing.T) {
	h := newHarness(t)

	res := h.run(t, "", "login", "--email", "not-an-email")
	var apiErr *domain.APIError
	require.ErrorAs(t, res.err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Zero(t, h.backend.Calls("POST /api/auth/login"))
}

func TestClientsListRequiresLogin(t *testing.T) {
	h := newHarness(t)

	res := h.run(t, "", "clients", "list")
	assert.ErrorIs(t, res.err, domain.ErrNotLoggedIn)
	assert.Zero(t, h.backend.Calls("GET /api/clients"))
}

func TestClientsListSortsAndFilters(t *testing.T) {
	h := newHarness(t)
	h.backend.AddClient(domain.Client{FullName: "alice", Email: "alice@example.com", Location: "Oslo", Active: true})
	h.backend.AddClient(domain.Client{FullName: "Bob", Email: "bob@example.com", Location: "Bergen", Active: true})
	h.backend.AddClient(domain.Client{FullName: "carol", Email: "carol@example.com", Location: "Oslo"})
	h.login(t, adminEmail)

	res := h.run(t, "", "clients", "list", "--sort", "fullName", "--dir", "desc")
	require.NoError(t, res.err)
	carol, bob, alice := strings.Index(res.stdout, "carol"), strings.Index(res.stdout, "Bob"), strings.Index(res.stdout, "alice")
	require.True(t, carol >= 0 && bob >= 0 && alice >= 0, res.stdout)
	assert.Less(t, carol, bob)
	assert.Less(t, bob, alice)

	res = h.run(t, "", "clients", "list", "--filter", "oslo")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "alice")
	assert.Contains(t, res.stdout, "carol")
	assert.NotContains(t, res.stdout, "Bob")
	assert.Contains(t, res.stdout, "Page 1 of 1, 2 of 3 clients")
}

func TestClientsListSearch(t *testing.T) {
	h := newHarness(t)
	h.backend.AddClient(domain.Client{FullName: "Jane Smith", Email: "jane@example.com"})
	h.backend.AddClient(domain.Client{FullName: "Bob", Email: "bob@example.com"})
	h.login(t, adminEmail)

	res := h.run(t, "", "clients", "list", "--search", "smith")
	require.NoError(t, res.err)
	assert.Equal(t, 1, h.backend.Calls("GET /api/clients/search"))
	assert.Zero(t, h.backend.Calls("GET /api/clients"))
	assert.Contains(t, res.stdout, "Jane Smith")
	assert.NotContains(t, res.stdout, "Bob")
	assert.Contains(t, res.stdout, `1 client(s) matching "smith"`)
}

func TestClientsAddRejectsInvalidForm(t *testing.T) {
	h := newHarness(t)
	h.login(t, adminEmail)

	res := h.run(t, "", "clients", "add", "--full-name", "Dana", "--email", "nope")
	require.Error(t, res.err)
	assert.Zero(t, h.backend.Calls("POST /api/clients"))
}

func TestClientsAddThenEdit(t *testing.T) {
	h := newHarness(t)
	h.login(t, adminEmail)

	res := h.run(t, "", "clients", "add", "--full-name", "Dana", "--email", "dana@example.com", "--location", "Oslo")
	require.NoError(t, res.err)
	require.Equal(t, 1, h.backend.ClientCount())
	assert.Contains(t, res.stdout, "Dana")

	res = h.run(t, "", "clients", "edit", "1", "--location", "Bergen", "--active", "no")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, dialog.MsgDetailUpdated)

	c, ok := h.backend.ClientByID(1)
	require.True(t, ok)
	assert.Equal(t, "Dana", c.FullName)
	assert.Equal(t, "dana@example.com", c.Email)
	assert.Equal(t, "Bergen", c.Location)
	assert.False(t, c.Active)
}

func TestClientsEditRejectsBadActiveValue(t *testing.T) {
	h := newHarness(t)
	h.backend.AddClient(domain.Client{FullName: "Dana", Email: "dana@example.com"})
	h.login(t, adminEmail)

	res := h.run(t, "", "clients", "edit", "1", "--active", "maybe")
	assert.ErrorContains(t, res.err, "--active")
	assert.Zero(t, h.backend.Calls("PUT /api/clients/{id}"))
}

func TestClientsShowMissing(t *testing.T) {
	h := newHarness(t)
	h.login(t, adminEmail)

	res := h.run(t, "", "clients", "show", "42")
	assert.Equal(t, 404, domain.StatusCode(res.err))
	assert.Contains(t, res.stderr, dialog.MsgDetailLoadFailed)
}

func TestClientsDeleteAsksFirst(t *testing.T) {
	h := newHarness(t)
	h.backend.AddClient(domain.Client{FullName: "Dana", Email: "dana@example.com"})
	h.login(t, adminEmail)

	res := h.run(t, "n\n", "clients", "delete", "1")
	assert.ErrorIs(t, res.err, domain.ErrCancelled)
	assert.Contains(t, res.stderr, dialog.DeleteClientTitle)
	assert.Equal(t, 1, h.backend.ClientCount())

	res = h.run(t, "", "clients", "delete", "1", "--yes")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, dialog.MsgDetailDeleted)
	assert.Zero(t, h.backend.ClientCount())
}

func TestViewerCannotDelete(t *testing.T) {
	h := newHarness(t)
	h.backend.AddClient(domain.Client{FullName: "Dana", Email: "dana@example.com"})
	h.login(t, viewerEmail)

	res := h.run(t, "", "clients", "delete", "1", "--yes")
	assert.ErrorIs(t, res.err, domain.ErrForbidden)
	assert.Contains(t, res.stderr, transport.MsgNotAuthorized)
	assert.Zero(t, h.backend.Calls("DELETE /api/clients/{id}"))

	res = h.run(t, "", "drafts", "list")
	assert.ErrorIs(t, res.err, domain.ErrForbidden)
}

func writeWorkbook(t *testing.T, rows ...[]any) string {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &r))
	}
	path := filepath.Join(t.TempDir(), "clients.xlsx")
	require.NoError(t, wb.SaveAs(path))
	return path
}

func TestClientsImport(t *testing.T) {
	h := newHarness(t)
	h.login(t, adminEmail)
	path := writeWorkbook(t,
		[]any{"Full Name", "Email", "Location", "Active"},
		[]any{"Erin", "erin@example.com", "Oslo", "yes"},
		[]any{"", "bad", "", ""},
		[]any{"Finn", "finn@example.com", "", "false"},
	)

	res := h.run(t, "", "clients", "import", path, "--dry-run")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "3 row(s): 2 valid, 1 invalid")
	assert.Contains(t, res.stdout, "Rejected rows")
	assert.Zero(t, h.backend.Calls("POST /api/clients/bulk"))

	res = h.run(t, "y\n", "clients", "import", path)
	require.NoError(t, res.err)
	assert.Equal(t, 1, h.backend.Calls("POST /api/clients/bulk"))
	assert.Equal(t, 2, h.backend.ClientCount())
	assert.Contains(t, res.stderr, "Imported 2 client(s)")
}

func TestClientsImportNeedsValidRows(t *testing.T) {
	h := newHarness(t)
	h.login(t, adminEmail)
	path := writeWorkbook(t,
		[]any{"Full Name", "Email"},
		[]any{"", "bad"},
	)

	res := h.run(t, "", "clients", "import", path, "--yes")
	assert.ErrorIs(t, res.err, domain.ErrNothingToSubmit)
	assert.Zero(t, h.backend.Calls("POST /api/clients/bulk"))
}

func TestClientsExport(t *testing.T) {
	h := newHarness(t)
	h.login(t, adminEmail)

	res := h.run(t, "", "clients", "export", "--out", "-")
	assert.ErrorIs(t, res.err, domain.ErrNothingToExport)

	h.backend.AddClient(domain.Client{FullName: "Dana", Email: "dana@example.com", Location: "Oslo", Active: true})
	out := filepath.Join(t.TempDir(), "out.csv")
	res = h.run(t, "", "clients", "export", "--out", out)
	require.NoError(t, res.err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dana@example.com")
	assert.Contains(t, res.stderr, "Exported 1 client(s) as CSV")

	res = h.run(t, "", "clients", "export", "--format", "excel", "--store")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Stored 1 client(s) at "+h.cfg.Storage.LocalBasePath)
}

func TestClientsTemplate(t *testing.T) {
	h := newHarness(t)
	out := filepath.Join(t.TempDir(), "template.xlsx")

	res := h.run(t, "", "clients", "template", "--out", out)
	require.NoError(t, res.err)
	wb, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(wb.GetSheetName(0))
	require.NoError(t, err)
	require.NotEmpty(t, rows)
}

func TestDraftsPost(t *testing.T) {
	h := newHarness(t)
	d := h.backend.AddDraft(domain.Draft{FullName: "Gina", Email: "gina@example.com", CreatedByName: "Admin"})
	h.login(t, adminEmail)

	res := h.run(t, "", "drafts", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Gina")

	res = h.run(t, "", "drafts", "post", strconv.FormatInt(d.ID, 10), "--location", "Oslo")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, dialog.MsgDraftPosted)
	_, stillThere := h.backend.DraftByID(d.ID)
	assert.False(t, stillThere)
	require.Equal(t, 1, h.backend.ClientCount())
	c, ok := h.backend.ClientByID(d.ID + 1)
	require.True(t, ok)
	assert.Equal(t, "Gina", c.FullName)
	assert.Equal(t, "Oslo", c.Location)
}

func TestDraftsEditAndDelete(t *testing.T) {
	h := newHarness(t)
	h.backend.AddDraft(domain.Draft{FullName: "Gina", Email: "gina@example.com"})
	h.login(t, adminEmail)

	res := h.run(t, "", "drafts", "edit", "1", "--full-name", "Gina Lee")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, dialog.MsgDraftUpdated)
	d, ok := h.backend.DraftByID(1)
	require.True(t, ok)
	assert.Equal(t, "Gina Lee", d.FullName)

	res = h.run(t, "yes\n", "drafts", "delete", "1")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Draft deleted")
	_, ok = h.backend.DraftByID(1)
	assert.False(t, ok)
}

func TestLogsActionFilter(t *testing.T) {
	h := newHarness(t)
	h.backend.AddLog(domain.AuditLog{Action: "CREATE", EntityType: "client", EntityID: 1, ActorName: "Admin"})
	h.backend.AddLog(domain.AuditLog{Action: "DELETE", EntityType: "client", EntityID: 2, ActorName: "Admin"})
	h.login(t, adminEmail)

	res := h.run(t, "", "logs", "--action", "DELETE")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "client 2")
	assert.NotContains(t, res.stdout, "client 1 ")
	assert.Contains(t, res.stdout, "Actions: ")
}

func TestDashboardHidesLogsFromViewer(t *testing.T) {
	h := newHarness(t)
	h.backend.AddClient(domain.Client{FullName: "Dana", Email: "dana@example.com", Location: "Oslo", Active: true})
	h.backend.AddLog(domain.AuditLog{Action: "CREATE", EntityType: "client", EntityID: 1, ActorName: "Admin"})

	h.login(t, viewerEmail)
	res := h.run(t, "", "dashboard")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Oslo")
	assert.NotContains(t, res.stdout, "Recent activity")
	assert.Zero(t, h.backend.Calls("GET /api/logs"))

	h.login(t, adminEmail)
	res = h.run(t, "", "dashboard")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Recent activity")
}
