package auth

import "strings"

// Role is the fixed set of operator roles. Anything the backend reports that
// is not on the allow-list is treated as RoleViewer.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
)

// ParseRole maps a raw role string from the user profile onto a Role
func ParseRole(raw string) Role {
	switch Role(strings.TrimSpace(raw)) {
	case RoleAdmin:
		return RoleAdmin
	case RoleEditor:
		return RoleEditor
	default:
		return RoleViewer
	}
}

// Action is something an operator can do from a screen
type Action string

const (
	ActionViewClients   Action = "clients:view"
	ActionCreateClient  Action = "clients:create"
	ActionEditClient    Action = "clients:edit"
	ActionDeleteClient  Action = "clients:delete"
	ActionImportClients Action = "clients:import"
	ActionExportClients Action = "clients:export"
	ActionViewDrafts    Action = "drafts:view"
	ActionEditDraft     Action = "drafts:edit"
	ActionPostDraft     Action = "drafts:post"
	ActionDeleteDraft   Action = "drafts:delete"
	ActionViewLogs      Action = "logs:view"
	ActionViewDashboard Action = "dashboard:view"
)

var rolePermissions = map[Role][]Action{
	RoleAdmin: {
		ActionViewClients, ActionCreateClient, ActionEditClient, ActionDeleteClient,
		ActionImportClients, ActionExportClients,
		ActionViewDrafts, ActionEditDraft, ActionPostDraft, ActionDeleteDraft,
		ActionViewLogs, ActionViewDashboard,
	},
	RoleEditor: {
		ActionViewClients, ActionCreateClient, ActionEditClient, ActionDeleteClient,
		ActionImportClients, ActionExportClients,
		ActionViewDrafts, ActionEditDraft, ActionPostDraft, ActionDeleteDraft,
		ActionViewLogs, ActionViewDashboard,
	},
	RoleViewer: {
		ActionViewClients, ActionExportClients, ActionViewDashboard,
	},
}

// Can reports whether role may perform action
func Can(role Role, action Action) bool {
	for _, a := range rolePermissions[ParseRole(string(role))] {
		if a == action {
			return true
		}
	}
	return false
}

// Permissions returns the actions permitted for role
func Permissions(role Role) []Action {
	allowed := rolePermissions[ParseRole(string(role))]
	out := make([]Action, len(allowed))
	copy(out, allowed)
	return out
}

// Route identifies a screen of the console or a CLI command group
type Route string

const (
	RouteLogin     Route = "login"
	RouteClients   Route = "clients"
	RouteDrafts    Route = "drafts"
	RouteLogs      Route = "logs"
	RouteDashboard Route = "dashboard"
)

// routeRoles lists the roles allowed on a route. Routes with no entry are
// open to every signed-in role.
var routeRoles = map[Route][]Role{
	RouteDrafts: {RoleAdmin, RoleEditor},
	RouteLogs:   {RoleAdmin, RoleEditor},
}

// RouteAllows reports whether role may open route
func RouteAllows(route Route, role Role) bool {
	allowed, ok := routeRoles[route]
	if !ok {
		return true
	}
	role = ParseRole(string(role))
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
