package auth_test

import (
	"context"
	"testing"

	"github.com/straye-as/client-admin/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, auth.RoleAdmin, auth.ParseRole("ADMIN"))
	assert.Equal(t, auth.RoleEditor, auth.ParseRole(" EDITOR "))
	assert.Equal(t, auth.RoleViewer, auth.ParseRole("VIEWER"))
	assert.Equal(t, auth.RoleViewer, auth.ParseRole("admin"), "role names are case-sensitive")
	assert.Equal(t, auth.RoleViewer, auth.ParseRole(""))
	assert.Equal(t, auth.RoleViewer, auth.ParseRole("SUPERUSER"))
}

func TestCan(t *testing.T) {
	tests := []struct {
		role   auth.Role
		action auth.Action
		want   bool
	}{
		{auth.RoleAdmin, auth.ActionDeleteClient, true},
		{auth.RoleEditor, auth.ActionImportClients, true},
		{auth.RoleEditor, auth.ActionPostDraft, true},
		{auth.RoleViewer, auth.ActionViewClients, true},
		{auth.RoleViewer, auth.ActionDeleteClient, false},
		{auth.RoleViewer, auth.ActionViewDrafts, false},
		{auth.RoleViewer, auth.ActionViewLogs, false},
		{auth.Role("UNKNOWN"), auth.ActionCreateClient, false},
		{auth.Role("UNKNOWN"), auth.ActionViewClients, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, auth.Can(tt.role, tt.action))
		})
	}
}

func TestPermissionsReturnsCopy(t *testing.T) {
	perms := auth.Permissions(auth.RoleViewer)
	perms[0] = auth.ActionDeleteClient
	assert.False(t, auth.Can(auth.RoleViewer, auth.ActionDeleteClient))
}

func TestRouteAllows(t *testing.T) {
	assert.True(t, auth.RouteAllows(auth.RouteClients, auth.RoleViewer))
	assert.True(t, auth.RouteAllows(auth.RouteDashboard, auth.RoleViewer))
	assert.True(t, auth.RouteAllows(auth.RouteDrafts, auth.RoleEditor))
	assert.False(t, auth.RouteAllows(auth.RouteDrafts, auth.RoleViewer))
	assert.False(t, auth.RouteAllows(auth.RouteLogs, auth.Role("GUEST")))
}

func TestUserContext(t *testing.T) {
	_, ok := auth.FromContext(context.Background())
	assert.False(t, ok)

	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{Email: "a@x.com", Role: auth.RoleEditor})
	user, ok := auth.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "a@x.com", user.Email)
	assert.True(t, user.IsAdminOrEditor())
	assert.True(t, user.Can(auth.ActionDeleteDraft))
}
