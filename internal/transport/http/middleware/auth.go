package middleware

import (
	"context"
	"net/http"
	"strings"

	"appraisal/internal/apperror"
	"appraisal/internal/domain/auth"
	"appraisal/internal/requestctx"
	"appraisal/internal/transport/http/api"
)

// ActorResolver loads the live user behind a token subject.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (auth.Actor, error)
}

// Authenticate admits a request only when it carries a valid bearer token
// whose subject still resolves to a stored user. The actor's role comes from
// the store, not from the token.
func Authenticate(tokens *auth.Tokens, resolver ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := GetRequestID(r.Context())

			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				api.ErrorResponse(w, apperror.Unauthenticated("authentication required"), reqID)
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				api.ErrorResponse(w, apperror.Unauthenticated("invalid or expired token"), reqID)
				return
			}
			actor, err := resolver.ResolveActor(r.Context(), claims.UserID)
			if err != nil {
				api.ErrorResponse(w, err, reqID)
				return
			}

			ctx := requestctx.WithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func GetActor(ctx context.Context) (auth.Actor, bool) {
	return requestctx.GetActor(ctx)
}
