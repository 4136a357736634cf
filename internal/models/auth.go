package models

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// AuthContext identifies the caller of every engine operation.
type AuthContext struct {
	UserID string
	Role   Role
	Token  string
}

// Is reports whether the caller holds one of the given roles.
func (a AuthContext) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// JWTClaims is the payload of bearer tokens issued by the tutoring platform.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

type authContextKey struct{}

// ContextWithAuth attaches the caller to ctx so outbound clients can forward its token.
func ContextWithAuth(ctx context.Context, auth AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// AuthFromContext returns the caller attached by ContextWithAuth.
func AuthFromContext(ctx context.Context) (AuthContext, bool) {
	auth, ok := ctx.Value(authContextKey{}).(AuthContext)
	return auth, ok
}
