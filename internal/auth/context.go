package auth

import "context"

// UserContext holds the operator a console request is served for
type UserContext struct {
	UserID   int64
	FullName string
	Email    string
	Role     Role
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// Can checks if the user's role permits action
func (u *UserContext) Can(action Action) bool {
	return Can(u.Role, action)
}

// IsAdminOrEditor checks if user may manage drafts and read audit logs
func (u *UserContext) IsAdminOrEditor() bool {
	return u.Role == RoleAdmin || u.Role == RoleEditor
}
