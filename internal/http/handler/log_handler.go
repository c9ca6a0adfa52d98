package handler

import (
	"net/http"

	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/dashboard"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/listview"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// LogPage is the logs screen with the actions available to filter on
type LogPage struct {
	ListPage[domain.AuditLog]
	Action  string   `json:"action"`
	Actions []string `json:"actions"`
}

// LogHandler serves the audit logs screen
type LogHandler struct {
	list   *listview.LogsController
	feed   *ui.Feed
	routes *ui.RouteTracker
	logger *zap.Logger
}

func NewLogHandler(list *listview.LogsController, feed *ui.Feed, routes *ui.RouteTracker, logger *zap.Logger) *LogHandler {
	return &LogHandler{list: list, feed: feed, routes: routes, logger: logger}
}

// List returns the visible page of the logs screen
// @Summary List audit logs
// @Tags Logs
// @Param action query string false "Exact action filter"
// @Param q query string false "Filter"
// @Param refresh query bool false "Fetch again"
// @Success 200 {object} Envelope
// @Router /logs [get]
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	h.routes.Navigate(auth.RouteLogs)
	if !h.list.Loaded() || r.URL.Query().Get("refresh") == "true" {
		if err := h.list.Load(r.Context()); err != nil {
			h.logger.Debug("logs load failed", zap.Error(err))
		}
	}

	if r.URL.Query().Has("action") && r.URL.Query().Get("action") != h.list.Action() {
		h.list.SetAction(r.URL.Query().Get("action"))
	}
	if err := applyListQuery(r, h.list); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	actions := h.list.Actions()
	if actions == nil {
		actions = []string{}
	}
	page := LogPage{
		ListPage: toListPage(h.list.View(), h.list.Query(), h.list.Count(), h.list.Loading()),
		Action:   h.list.Action(),
		Actions:  actions,
	}
	respondJSON(w, http.StatusOK, Envelope{Data: page, Notifications: h.feed.Since(mark)})
}

// Permission reports whether the current operator may perform an action
type Permission interface {
	Can(action auth.Action) bool
}

// DashboardHandler serves the summary screen
type DashboardHandler struct {
	clients dashboard.ClientLister
	logs    dashboard.LogLister
	perm    Permission
	feed    *ui.Feed
	routes  *ui.RouteTracker
	logger  *zap.Logger
}

func NewDashboardHandler(clients dashboard.ClientLister, logs dashboard.LogLister, perm Permission, feed *ui.Feed, routes *ui.RouteTracker, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{clients: clients, logs: logs, perm: perm, feed: feed, routes: routes, logger: logger}
}

// Get summarizes the clients and, for roles that may see them, the latest logs
// @Summary Dashboard summary
// @Tags Dashboard
// @Success 200 {object} Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	mark := h.feed.Mark()
	h.routes.Navigate(auth.RouteDashboard)

	var logs dashboard.LogLister
	if h.perm.Can(auth.ActionViewLogs) {
		logs = h.logs
	}
	summary, err := dashboard.NewAggregator(h.clients, logs, h.logger).Summarize(r.Context())
	if err != nil {
		respondJSON(w, domain.StatusCode(err), Envelope{Data: errorBody(err), Notifications: h.feed.Since(mark)})
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Data: summary, Notifications: h.feed.Since(mark)})
}
