package auth

import (
	"net/http"
	"strings"

	"github.com/example/anihub/internal/platform/api"
)

// RequireAdmin allows the request only if RequireUser already injected
// role=admin into the context.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := RoleFromContext(r.Context())
		if strings.ToLower(strings.TrimSpace(role)) != "admin" {
			api.Forbidden(w, "you do not have permission to perform this action.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
