package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type callerKey struct{}

// AuthRequired rejects requests without a valid access token and stores the
// caller's claims in the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			caller, err := jwt.ClaimsFromMap(claims)
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), callerKey{}, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// Caller returns the claims stored by AuthRequired.
func Caller(ctx context.Context) (jwt.Claims, bool) {
	c, ok := ctx.Value(callerKey{}).(jwt.Claims)
	return c, ok
}

// WithCaller stores claims the way AuthRequired does.
func WithCaller(ctx context.Context, c jwt.Claims) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}
