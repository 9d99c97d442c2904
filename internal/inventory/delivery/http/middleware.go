package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/auth"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
	ScopeKey    contextKey = "scope"
)

// AuthMiddleware validates the bearer token and stores the claims in context.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := claimsFromRequest(r)
		if err != nil {
			apierror.Respond(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UsernameKey, claims.Username())
		ctx = context.WithValue(ctx, ScopeKey, claims.Scope)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// AdminMiddleware requires the ROLE_ADMIN authority.
func AdminMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := claimsFromRequest(r)
		if err != nil {
			apierror.Respond(w, err)
			return
		}
		if !claims.HasRole(auth.RoleAdmin) {
			apierror.Respond(w, apierror.New(apierror.KindForbidden, apierror.CodeForbidden,
				"Se requiere rol de administrador"))
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UsernameKey, claims.Username())
		ctx = context.WithValue(ctx, ScopeKey, claims.Scope)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func claimsFromRequest(r *http.Request) (*auth.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, apierror.New(apierror.KindUnauthenticated, apierror.CodeUnauthenticated,
			"Se requiere el encabezado Authorization")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, apierror.New(apierror.KindUnauthenticated, apierror.CodeUnauthenticated,
			"Formato de autorización no válido")
	}

	claims, err := auth.ValidateToken(parts[1])
	if err != nil {
		return nil, apierror.Wrap(apierror.KindUnauthenticated, apierror.CodeUnauthenticated,
			"Token no válido", err)
	}
	return claims, nil
}

// actorID extracts the authenticated user id, or 0 for service calls.
func actorID(ctx context.Context) uint {
	if id, ok := ctx.Value(UserIDKey).(uint); ok {
		return id
	}
	return 0
}
