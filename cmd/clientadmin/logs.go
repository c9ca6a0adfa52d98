package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/dashboard"
	"github.com/straye-as/client-admin/internal/listview"
)

var (
	logsListFlags listFlags
	logsAction    string
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the audit log, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.guard(auth.RouteLogs); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()

		list := listview.NewLogsController(current.api.Logs, current.notifier, current.logger)
		if err := list.Load(ctx); err != nil {
			return err
		}
		logsListFlags.apply(list)
		if logsAction != "" {
			list.SetAction(logsAction)
			list.SetPage(logsListFlags.page-1, logsListFlags.size)
		}
		page := list.View()

		t := newTable("", "Time", "Action", "Entity", "Actor")
		for _, l := range page.Items {
			t.add(l.Timestamp.Local().Format(dateLayout), l.Action,
				fmt.Sprintf("%s %d", l.EntityType, l.EntityID),
				fmt.Sprintf("%s <%s>", l.ActorName, l.ActorEmail))
		}
		out := cmd.OutOrStdout()
		t.render(out)
		pageFooter(out, page.PageIndex, page.PageCount(), page.Total, "entries")
		if actions := list.Actions(); len(actions) > 0 {
			fmt.Fprintln(out, mutedStyle.Render("Actions: "+strings.Join(actions, ", ")))
		}
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summarize clients and recent activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.guard(auth.RouteDashboard); err != nil {
			return err
		}
		ctx, cancel := current.context(cmd)
		defer cancel()

		var logs dashboard.LogLister
		if current.session.Can(auth.ActionViewLogs) {
			logs = current.api.Logs
		}
		summary, err := dashboard.NewAggregator(current.api.Clients, logs, current.logger).Summarize(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fields(out, "Clients",
			"Total", strconv.Itoa(summary.Total),
			"Active", strconv.Itoa(summary.Active),
			"Inactive", strconv.Itoa(summary.Inactive),
		)
		fmt.Fprintln(out)
		byLocation := newTable("By location", "Location", "Clients")
		for _, lc := range summary.ByLocation {
			byLocation.add(lc.Location, strconv.Itoa(lc.Count))
		}
		byLocation.render(out)

		if logs != nil {
			fmt.Fprintln(out)
			recent := newTable("Recent activity", "Time", "Action", "Actor")
			for _, l := range summary.RecentLogs {
				recent.add(l.Timestamp.Local().Format(dateLayout), l.Action, l.ActorName)
			}
			recent.render(out)
		}
		return nil
	},
}

func init() {
	logsListFlags.register(logsCmd, 25)
	logsCmd.Flags().StringVar(&logsAction, "action", "", "Only entries with this exact action")
	rootCmd.AddCommand(logsCmd, dashboardCmd)
}
