package middleware

import (
	"bijouterie_server/lib"
	"bijouterie_server/services"
	"bijouterie_server/structs"
	"bijouterie_server/structs/tables"
	"context"
	"net/http"

	"github.com/MonkyMars/gecho"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// UserAuthMiddleware protects routes to only logged-in users
func (mw *Middleware) UserAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := lib.GetCookieValue(lib.AccessCookieName, r)
		if err != nil {
			gecho.Unauthorized(w, gecho.WithMessage("Session manquante, veuillez vous connecter"), gecho.Send())
			return
		}

		claims, err := mw.auth.Authenticate(token)
		if err != nil {
			mw.logger.Warn("Rejected access token", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("Session invalide ou expirée"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminAuthMiddleware protects routes to only admin users
// Must be used after UserAuthMiddleware
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaimsFromContext(r.Context())
		if !ok {
			gecho.Unauthorized(w, gecho.WithMessage("Session manquante, veuillez vous connecter"), gecho.Send())
			return
		}

		if claims.Role != string(tables.RoleAdmin) {
			mw.logger.Warn("Non-admin user attempted to access admin route", gecho.Field("user_id", claims.Sub), gecho.Field("role", claims.Role))
			gecho.Forbidden(w, gecho.WithMessage("Accès réservé aux administrateurs"), gecho.Send())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClaimsFromContext is a helper function to extract the claims from request context
func GetClaimsFromContext(ctx context.Context) (*structs.AuthClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AuthClaims)
	return claims, ok
}

// AuthContextFrom turns the request claims into the caller identity passed to services.
// A request without claims yields an anonymous caller.
func AuthContextFrom(r *http.Request) services.AuthContext {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		return services.AuthContext{}
	}
	return services.AuthContext{UserID: claims.Sub, Role: tables.Role(claims.Role)}
}
