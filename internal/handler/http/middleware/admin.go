package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := Caller(r.Context())
		if !ok {
			response.Unauthorized(w, "Invalid token")
			return
		}
		if !caller.IsAdmin() {
			response.Forbidden(w, "Admin privilege required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// StaffOnly requires a caller linked to a staff record.
func StaffOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := Caller(r.Context())
		if !ok {
			response.Unauthorized(w, "Invalid token")
			return
		}
		if caller.StaffID == "" {
			response.Forbidden(w, "Staff account required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
