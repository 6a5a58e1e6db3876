package http

import (
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"

	dErrors "nidbridge/pkg/domain-errors"
	"nidbridge/pkg/platform/httputil"
	"nidbridge/pkg/requestcontext"
)

// decodeValid decodes the body into T and runs struct validation. On any
// failure the error response is already written and the bool is false.
func decodeValid[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (T, bool) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[T](w, r, logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		var zero T
		return zero, false
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"request_id", requestcontext.RequestID(ctx),
			"path", r.URL.Path,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, err.Error()))
		var zero T
		return zero, false
	}
	return req, true
}
