package middleware

import (
	"net/http"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"

	"go.uber.org/zap"
)

// RequireRole gates a route behind a minimum role. Access follows the
// ordered hierarchy guest < user < admin: a request passes when the
// authenticated role is at least the route's minimum. Requests that never
// went through AuthMiddleware have no role in context and are rejected.
func RequireRole(min domain.Role, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			role, ok := domain.ParseRole(raw)
			if !ok || !role.AtLeast(min) {
				logger.Warn("User role below route minimum",
					zap.String("role", raw),
					zap.String("required", string(min)),
				)
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is shorthand for the admin-only routes.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(domain.RoleAdmin, logger)
}
