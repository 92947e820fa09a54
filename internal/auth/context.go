package auth

import "context"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type contextKey struct{}

// Identity is the verified caller attached to a request context.
type Identity struct {
	UserID   string
	Username string
	Name     string
	Role     Role
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

func IsAdmin(ctx context.Context) bool {
	id, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return id.Role == RoleAdmin
}
