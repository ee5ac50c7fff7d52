package middleware

import (
	"fmt"
	"net/http"

	"appraisal/internal/apperror"
	"appraisal/internal/domain/auth"
	"appraisal/internal/transport/http/api"
)

// RequireAction rejects actors whose role may never perform action. Record
// level checks stay with the owning service.
func RequireAction(action auth.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				api.ErrorResponse(w, apperror.Unauthenticated("authentication required"), GetRequestID(r.Context()))
				return
			}
			if !actor.Role.Allows(action) {
				msg := fmt.Sprintf("role %s is not authorized: %s", actor.Role, auth.RequiredRoleMessage(action))
				api.ErrorResponse(w, apperror.Forbidden(auth.RuleRole, msg), GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
