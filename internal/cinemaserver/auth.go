package cinemaserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
)

// Role grants access to operations.
type Role string

const (
	// RoleUser may run queries and subscriptions.
	RoleUser Role = "USER"
	// RoleAdmin may also run mutations.
	RoleAdmin Role = "ADMIN"
)

var (
	errUnauthenticated = errors.New("principal is not authorized")
	errForbidden       = errors.New("not enough rights")
)

// User is an account accepted by basic authentication.
type User struct {
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Role     Role   `yaml:"role"`
}

type principalKey struct{}

// WithPrincipal returns a context carrying the authenticated user.
func WithPrincipal(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, principalKey{}, u)
}

// Principal returns the authenticated user of ctx, if any.
func Principal(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(principalKey{}).(*User)
	return u, ok && u != nil
}

// requireRole fails unless the principal has one of roles.
func requireRole(ctx context.Context, roles ...Role) error {
	u, ok := Principal(ctx)
	if !ok {
		return errUnauthenticated
	}
	for _, r := range roles {
		if u.Role == r {
			return nil
		}
	}
	return fmt.Errorf("%s: %w", u.Name, errForbidden)
}

// basicAuth rejects requests without valid credentials and stores the
// user in the request context. It runs before the WebSocket upgrade, so
// subscriptions are authenticated by their handshake.
func basicAuth(users []User, next http.Handler) http.Handler {
	byName := make(map[string]*User, len(users))
	for i := range users {
		byName[users[i].Name] = &users[i]
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, password, ok := r.BasicAuth()
		if ok {
			if u, found := byName[name]; found &&
				subtle.ConstantTimeCompare([]byte(password), []byte(u.Password)) == 1 {
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), u)))
				return
			}
		}
		w.Header().Set("WWW-Authenticate", `Basic realm="cinema"`)
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	})
}
