// Package identity resolves the authenticated caller from a request context.
package identity

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

var ErrUnauthenticated = errors.New("missing or invalid authentication claims")

type Identity struct {
	UserID string
	Role   user.Role
}

func (i Identity) IsAdmin() bool   { return i.Role == user.RoleAdmin }
func (i Identity) IsManager() bool { return i.Role == user.RoleManager }

type ctxKey struct{}

// System is the identity used by scheduled jobs and the CLI.
var System = Identity{UserID: "system", Role: user.RoleAdmin}

// WithIdentity attaches an explicit identity, taking precedence over JWT claims.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, error) {
	if id, ok := ctx.Value(ctxKey{}).(Identity); ok {
		return id, nil
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil || claims == nil {
		return Identity{}, ErrUnauthenticated
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, ErrUnauthenticated
	}

	roleStr, _ := claims["role"].(string)
	role := user.Role(roleStr)
	if !role.Valid() {
		return Identity{}, ErrUnauthenticated
	}

	return Identity{UserID: userID, Role: role}, nil
}
