package middleware

import (
	"context"

	"github.com/straye-as/client-admin/internal/auth"
)

type holderKey struct{}

func withUserHolder(ctx context.Context, h *userHolder) context.Context {
	return context.WithValue(ctx, holderKey{}, h)
}

// withUser stores the operator in ctx and in the logging holder, if any
func withUser(ctx context.Context, user *auth.UserContext) context.Context {
	if h, ok := ctx.Value(holderKey{}).(*userHolder); ok {
		h.user = user
	}
	return auth.WithUserContext(ctx, user)
}
