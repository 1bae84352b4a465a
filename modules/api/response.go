package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gymgo/gymgo/pkg/email"
	"github.com/gymgo/gymgo/pkg/storage"
	"github.com/gymgo/gymgo/svc/media"
	"github.com/gymgo/gymgo/svc/member"
	"github.com/gymgo/gymgo/svc/notification"
	"github.com/gymgo/gymgo/svc/organization"
	"github.com/gymgo/gymgo/svc/quota"
)

// envelope is the uniform JSON body for every response. Data carries the
// payload on success; Error carries the machine key and the user-facing
// message on failure.
type envelope struct {
	Code  int          `json:"code"`
	Data  any          `json:"data,omitempty"`
	Error *errorDetail `json:"error,omitempty"`
}

type errorDetail struct {
	Key     string `json:"key"`
	Message string `json:"message,omitempty"`
}

func respond(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Code: code, Data: data})
}

func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	code, key, msg := classify(err)
	if code >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		// Do not leak internals on 5xx.
		msg = ""
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Code: code, Error: &errorDetail{Key: key, Message: msg}})
}

// classify maps domain errors to HTTP status codes. Plan-limit denials keep
// the engine's user-facing message so clients can show it verbatim.
func classify(err error) (code int, key, msg string) {
	var limitErr *quota.LimitError
	if errors.As(err, &limitErr) {
		return http.StatusForbidden, "plan_limit_exceeded", limitErr.Result.Message
	}
	var sizeErr *media.FileSizeError
	if errors.As(err, &sizeErr) {
		return http.StatusForbidden, "plan_limit_exceeded", sizeErr.Result.Message
	}
	var featErr *notification.FeatureError
	if errors.As(err, &featErr) {
		return http.StatusForbidden, "feature_not_available", featErr.Message
	}

	switch {
	case errors.Is(err, quota.ErrLimitExceeded):
		return http.StatusForbidden, "plan_limit_exceeded", err.Error()
	case errors.Is(err, notification.ErrFeatureDisabled):
		return http.StatusForbidden, "feature_not_available", err.Error()
	case errors.Is(err, organization.ErrNotFound),
		errors.Is(err, member.ErrNotFound),
		errors.Is(err, media.ErrNotFound),
		errors.Is(err, quota.ErrOrganizationNotFound):
		return http.StatusNotFound, "not_found", ""
	case errors.Is(err, organization.ErrSlugTaken):
		return http.StatusConflict, "slug_taken", ""
	case errors.Is(err, member.ErrEmailTaken):
		return http.StatusConflict, "email_taken", ""
	case errors.Is(err, organization.ErrInvalidTier),
		errors.Is(err, member.ErrInvalidName),
		errors.Is(err, member.ErrInvalidRole),
		errors.Is(err, media.ErrInvalidCategory),
		errors.Is(err, media.ErrInvalidContent),
		errors.Is(err, notification.ErrInvalidMessage),
		errors.Is(err, email.ErrInvalidParams),
		errors.Is(err, storage.ErrNilFileHeader),
		errors.Is(err, errBadRequest):
		return http.StatusUnprocessableEntity, "validation_error", err.Error()
	case errors.Is(err, notification.ErrDeliveryFailed):
		return http.StatusBadGateway, "delivery_failed", ""
	default:
		return http.StatusInternalServerError, "internal_error", ""
	}
}

// errBadRequest tags malformed request bodies and path parameters so classify
// maps them to 422 without a dedicated sentinel per handler.
var errBadRequest = errors.New("api.errors.bad_request")

func badRequest(reason string) error {
	return fmt.Errorf("%w: %s", errBadRequest, reason)
}
