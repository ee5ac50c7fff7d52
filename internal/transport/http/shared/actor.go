package shared

import (
	"net/http"

	"appraisal/internal/apperror"
	"appraisal/internal/domain/auth"
	"appraisal/internal/requestctx"
	"appraisal/internal/transport/http/api"
)

// Actor returns the authenticated actor or writes a 401 and reports false.
func Actor(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	actor, ok := requestctx.GetActor(r.Context())
	if !ok {
		api.ErrorResponse(w, apperror.Unauthenticated("authentication required"), requestctx.GetRequestID(r.Context()))
		return auth.Actor{}, false
	}
	return actor, true
}

// Fail writes err using the request's id.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	api.ErrorResponse(w, err, requestctx.GetRequestID(r.Context()))
}

func OK(w http.ResponseWriter, r *http.Request, data any) {
	api.Success(w, data, requestctx.GetRequestID(r.Context()))
}

func Created(w http.ResponseWriter, r *http.Request, data any) {
	api.Created(w, data, requestctx.GetRequestID(r.Context()))
}
