package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/dialog"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/importer"
	"github.com/straye-as/client-admin/internal/listview"
	"github.com/straye-as/client-admin/internal/storage"
	"go.uber.org/zap"
)

// listFlags are the filter, sort and page flags shared by the list commands
type listFlags struct {
	filter string
	sort   string
	dir    string
	page   int
	size   int
}

func (f *listFlags) register(cmd *cobra.Command, defaultSize int) {
	cmd.Flags().StringVarP(&f.filter, "filter", "f", "", "Only rows containing this text")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort key")
	cmd.Flags().StringVar(&f.dir, "dir", "asc", "Sort direction: asc or desc")
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&f.size, "size", defaultSize, "Rows per page, 0 for all")
}

type queryable interface {
	SetFilter(filter string)
	SetSort(key string, dir listview.SortDir)
	SetPage(index, size int)
}

func (f *listFlags) apply(list queryable) {
	if f.filter != "" {
		list.SetFilter(f.filter)
	}
	if f.sort != "" {
		list.SetSort(f.sort, listview.ParseSortDir(f.dir))
	}
	list.SetPage(f.page-1, f.size)
}

func pageFooter(w io.Writer, index, count, total int, noun string) {
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Page %d of %d, %d %s", index+1, max(count, 1), total, noun)))
}

// clientFlags are the client form fields. Only flags that were set change
// the form's initial values.
type clientFlags struct {
	fullName    string
	displayName string
	email       string
	location    string
	details     string
	active      string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fullName, "full-name", "", "Full name")
	cmd.Flags().StringVar(&f.displayName, "display-name", "", "Display name")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.location, "location", "", "Location")
	cmd.Flags().StringVar(&f.details, "details", "", "Free-text details")
	cmd.Flags().StringVar(&f.active, "active", "", "Whether the client is active (yes/no)")
}

func (f *clientFlags) apply(cmd *cobra.Command, req domain.CreateClientRequest) (domain.CreateClientRequest, error) {
	changed := cmd.Flags().Changed
	if changed("full-name") {
		req.FullName = f.fullName
	}
	if changed("display-name") {
		req.DisplayName = domain.OptionalString(f.displayName)
	}
	if changed("email") {
		req.Email = f.email
	}
	if changed("location") {
		req.Location = domain.OptionalString(f.location)
	}
	if changed("details") {
		req.Details = domain.OptionalString(f.details)
	}
	if changed("active") {
		active := importer.CoerceBool(f.active)
		if active == nil {
			return req, fmt.Errorf("invalid value %q for --active", f.active)
		}
		req.Active = active
	}
	return req, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func (a *app) detailDeps() dialog.DetailDeps {
	return dialog.DetailDeps{
		Clients:   a.api.Clients,
		Notifier:  a.notifier,
		Confirmer: a.term,
		Logger:    a.logger,
	}
}

// openClient fetches a client into its detail view
func (a *app) openClient(ctx context.Context, id int64) (*dialog.ClientDetail, error) {
	detail := dialog.OpenClientByID(ctx, a.detailDeps(), id)
	state := detail.State()
	if state.Client != nil {
		return detail, nil
	}
	detail.Close()
	a.notifier.Notify(state.Error)
	if state.Cause != nil {
		return nil, state.Cause
	}
	return nil, dialog.ErrNoClient
}

func (a *app) clientsList(ctx context.Context) (*listview.ClientsController, error) {
	list := listview.NewClientsController(a.api.Clients, a.notifier, a.term, a.logger)
	if err := list.Init(ctx); err != nil {
		return nil, err
	}
	return list, nil
}

func printClient(w io.Writer, c *domain.Client) {
	fields(w, fmt.Sprintf("Client %d", c.ID),
		"Full name", c.FullName,
		"Display name", c.DisplayName,
		"Email", c.Email,
		"Location", c.Location,
		"Active", yesNo(c.Active),
		"Details", c.Details,
	)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var clientsCmd = &cobra.Command{
	Use:     "clients",
	Aliases: []string{"client"},
	Short:   "List, edit, import and export clients",
}

var (
	clientsListFlags listFlags
	clientsSearch    string
)

var clientsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List clients",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.guard(auth.RouteClients); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()
		out := cmd.OutOrStdout()

		if clientsSearch != "" {
			found, err := current.api.Clients.Search(ctx, clientsSearch)
			if err != nil {
				current.logger.Warn("client search failed", zap.String("keyword", clientsSearch), zap.Error(err))
				return err
			}
			clientTable(found).render(out)
			fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d client(s) matching %q", len(found), clientsSearch)))
			return nil
		}

		list, err := current.clientsList(ctx)
		if err != nil {
			return err
		}
		clientsListFlags.apply(list)
		page := list.View()

		clientTable(page.Items).render(out)
		pageFooter(out, page.PageIndex, page.PageCount(), page.Total, fmt.Sprintf("of %d clients", list.Count()))
		return nil
	},
}

func clientTable(clients []domain.Client) *table {
	t := newTable("", "ID", "Full name", "Display name", "Email", "Location", "Active")
	for _, c := range clients {
		t.add(strconv.FormatInt(c.ID, 10), c.FullName, c.DisplayName, c.Email, c.Location, yesNo(c.Active))
	}
	return t
}

var clientsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := current.guard(auth.RouteClients); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()

		detail, err := current.openClient(ctx, id)
		if err != nil {
			return err
		}
		defer detail.Close()
		printClient(cmd.OutOrStdout(), detail.State().Client)
		return nil
	},
}

var addFlags clientFlags

var clientsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.require(auth.ActionCreateClient); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()

		form := dialog.NewAddForm(current.api.Clients, current.notifier)
		req, err := addFlags.apply(cmd, form.Initial())
		if err != nil {
			return err
		}
		created, err := form.Submit(ctx, req)
		if err != nil {
			return err
		}
		printClient(cmd.OutOrStdout(), created)
		return nil
	},
}

var editFlags clientFlags

var clientsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a client's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := current.require(auth.ActionEditClient); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()

		detail, err := current.openClient(ctx, id)
		if err != nil {
			return err
		}
		defer detail.Close()
		form, err := detail.EditForm()
		if err != nil {
			return err
		}
		req, err := editFlags.apply(cmd, form.Initial())
		if err != nil {
			return err
		}
		outcome, err := detail.Edit(ctx, req)
		if err != nil {
			return err
		}
		printClient(cmd.OutOrStdout(), outcome.Client)
		return nil
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a client",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := current.require(auth.ActionDeleteClient); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()

		detail, err := current.openClient(ctx, id)
		if err != nil {
			return err
		}
		defer detail.Close()
		_, err = detail.Delete(ctx)
		return err
	},
}

var (
	importSource string
	importDryRun bool
)

var clientsImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Create clients from a spreadsheet",
	Long: `Reads the first sheet of an .xlsx workbook, reports the rows that cannot be
imported and, after confirmation, creates the rest in one request.
--source reads the workbook from the configured storage instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (len(args) == 0) == (importSource == "") {
			return fmt.Errorf("give either a file or --source")
		}
		if err := current.require(auth.ActionImportClients); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()

		r, err := openImport(ctx, args)
		if err != nil {
			return err
		}
		defer r.Close()

		pipeline := importer.NewPipeline(current.api.Clients, current.notifier, current.logger)
		if err := pipeline.Load(ctx, r); err != nil {
			return err
		}
		result := pipeline.Result()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d row(s): %d valid, %d invalid\n", result.Total(), len(result.Valid), len(result.Errors))
		if len(result.Errors) > 0 {
			t := newTable("Rejected rows", "Row", "Issues")
			for _, e := range result.Errors {
				for i, issue := range e.Issues {
					row := ""
					if i == 0 {
						row = strconv.Itoa(e.Row)
					}
					t.add(row, issue)
				}
			}
			t.render(out)
		}

		if importDryRun {
			return nil
		}
		if len(result.Valid) == 0 {
			return domain.ErrNothingToSubmit
		}
		if !current.term.Confirm(ctx, "Import Clients", fmt.Sprintf("Create %d client(s)?", len(result.Valid))) {
			return domain.ErrCancelled
		}
		_, err = pipeline.Submit(ctx)
		return err
	},
}

func openImport(ctx context.Context, args []string) (io.ReadCloser, error) {
	if importSource == "" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	store, err := storage.NewStorage(&current.cfg.Storage, current.logger)
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, importSource)
}

var templateOut string

var clientsTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the empty import workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := templateOut
		if path == "" {
			path = importer.TemplateFilename
		}
		var buf bytes.Buffer
		if err := importer.WriteTemplate(&buf); err != nil {
			return err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write template: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var (
	exportFormat string
	exportOut    string
	exportStore  bool
)

var clientsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every client as CSV or Excel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := importer.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		if err := current.require(auth.ActionExportClients); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()

		list, err := current.clientsList(ctx)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		n, err := list.Export(&buf, format)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if exportStore {
			store, err := storage.NewStorage(&current.cfg.Storage, current.logger)
			if err != nil {
				return err
			}
			name := storage.ExportName(format.Filename(), time.Now())
			if _, err := store.Put(ctx, name, format.ContentType(), &buf); err != nil {
				return err
			}
			fmt.Fprintf(out, "Stored %d client(s) at %s\n", n, store.Location(name))
			return nil
		}

		path := exportOut
		if path == "" {
			path = format.Filename()
		}
		if path == "-" {
			_, err := out.Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Fprintf(out, "Wrote %s\n", filepath.Clean(path))
		return nil
	},
}

func init() {
	clientsListFlags.register(clientsListCmd, 10)
	clientsListCmd.Flags().StringVarP(&clientsSearch, "search", "s", "", "Search clients on the server by name or email")
	addFlags.register(clientsAddCmd)
	editFlags.register(clientsEditCmd)

	clientsImportCmd.Flags().StringVar(&importSource, "source", "", "Object name of a workbook in storage")
	clientsImportCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Only report which rows would be imported")
	clientsTemplateCmd.Flags().StringVarP(&templateOut, "out", "o", "", "Output path (default "+importer.TemplateFilename+")")
	clientsExportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or excel")
	clientsExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", `Output path, "-" for stdout (default clients.<ext>)`)
	clientsExportCmd.Flags().BoolVar(&exportStore, "store", false, "Keep the export in the configured storage")

	clientsCmd.AddCommand(clientsListCmd, clientsShowCmd, clientsAddCmd, clientsEditCmd,
		clientsDeleteCmd, clientsImportCmd, clientsTemplateCmd, clientsExportCmd)
	rootCmd.AddCommand(clientsCmd)
}
