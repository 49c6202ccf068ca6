package api

import (
	"context"

	"github.com/rpupo63/portfolio-cms-backend/auth"
)

// ctxWithIdentity adds the authenticated caller to the context
func ctxWithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return auth.WithIdentity(ctx, identity)
}

// ctxGetIdentity retrieves the caller stored by the auth middleware
func ctxGetIdentity(ctx context.Context) (auth.Identity, error) {
	return auth.FromContext(ctx)
}

// actor returns the caller for audit purposes; requests that reached an
// admin handler always carry one, anything else is recorded as the system.
func actor(ctx context.Context) auth.Identity {
	identity, err := ctxGetIdentity(ctx)
	if err != nil {
		return auth.System
	}
	return identity
}
