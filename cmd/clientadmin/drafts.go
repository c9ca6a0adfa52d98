package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/dialog"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/listview"
)

const dateLayout = "2006-01-02 15:04"

func (a *app) draftDialog(ctx context.Context, id int64) (*dialog.DraftDetail, error) {
	draft, err := a.api.Drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dialog.NewDraftDetail(a.api.Drafts, a.api.Clients, a.notifier, a.logger, *draft), nil
}

func printDraft(w io.Writer, d domain.Draft) {
	fields(w, fmt.Sprintf("Draft %d", d.ID),
		"Full name", d.FullName,
		"Display name", d.DisplayName,
		"Email", d.Email,
		"Location", d.Location,
		"Active", yesNo(d.Active),
		"Details", d.Details,
		"Created by", fmt.Sprintf("%s <%s>", d.CreatedByName, d.CreatedByEmail),
		"Created", d.CreatedAt.Local().Format(dateLayout),
		"Updated", d.UpdatedAt.Local().Format(dateLayout),
	)
}

var draftsCmd = &cobra.Command{
	Use:     "drafts",
	Aliases: []string{"draft"},
	Short:   "Review, edit and post draft clients",
}

var draftsListFlags listFlags

var draftsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List drafts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.guard(auth.RouteDrafts); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()

		list := listview.NewDraftsController(current.api.Drafts, current.notifier, current.term, current.logger)
		if err := list.Load(ctx); err != nil {
			return err
		}
		draftsListFlags.apply(list)
		page := list.View()

		t := newTable("", "ID", "Full name", "Email", "Location", "Created by", "Updated")
		for _, d := range page.Items {
			t.add(strconv.FormatInt(d.ID, 10), d.FullName, d.Email, d.Location, d.CreatedByName, d.UpdatedAt.Local().Format(dateLayout))
		}
		out := cmd.OutOrStdout()
		t.render(out)
		pageFooter(out, page.PageIndex, page.PageCount(), page.Total, "drafts")
		return nil
	},
}

var draftsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := current.guard(auth.RouteDrafts); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()

		dlg, err := current.draftDialog(ctx, id)
		if err != nil {
			return err
		}
		printDraft(cmd.OutOrStdout(), dlg.Draft())
		return nil
	},
}

var draftEditFlags clientFlags

var draftsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a draft's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := current.require(auth.ActionEditDraft); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()

		dlg, err := current.draftDialog(ctx, id)
		if err != nil {
			return err
		}
		req, err := draftEditFlags.apply(cmd, dlg.Initial())
		if err != nil {
			return err
		}
		outcome, err := dlg.Save(ctx, req)
		if err != nil {
			return err
		}
		printDraft(cmd.OutOrStdout(), *outcome.Updated)
		return nil
	},
}

var draftPostFlags clientFlags

var draftsPostCmd = &cobra.Command{
	Use:   "post <id>",
	Short: "Create a client from a draft and remove the draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := current.require(auth.ActionPostDraft); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()

		dlg, err := current.draftDialog(ctx, id)
		if err != nil {
			return err
		}
		req, err := draftPostFlags.apply(cmd, dlg.Initial())
		if err != nil {
			return err
		}
		outcome, err := dlg.PostAsClient(ctx, req)
		if outcome.Client != nil {
			printClient(cmd.OutOrStdout(), outcome.Client)
		}
		return err
	},
}

var draftsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a draft",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := current.require(auth.ActionDeleteDraft); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()

		list := listview.NewDraftsController(current.api.Drafts, current.notifier, current.term, current.logger)
		if err := list.Load(ctx); err != nil {
			return err
		}
		return list.Delete(ctx, id)
	},
}

func init() {
	draftsListFlags.register(draftsListCmd, 10)
	draftEditFlags.register(draftsEditCmd)
	draftPostFlags.register(draftsPostCmd)

	draftsCmd.AddCommand(draftsListCmd, draftsShowCmd, draftsEditCmd, draftsPostCmd, draftsDeleteCmd)
	rootCmd.AddCommand(draftsCmd)
}
