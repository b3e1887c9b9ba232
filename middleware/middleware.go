// Package middleware validates JSON request bodies at HTTP boundaries.
package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"
	j "github.com/goccy/go-json"

	"github.com/reoring/formskema"
	"github.com/reoring/formskema/dataset"
	"github.com/reoring/formskema/internal/logging"
)

// DefaultMaxBytes bounds request bodies unless WithMaxBytes says otherwise.
const DefaultMaxBytes = 1 << 20

type ctxKeyData struct{}

// ContextWithData attaches the validated document to ctx.
func ContextWithData(ctx context.Context, ds dataset.Dataset) context.Context {
	return context.WithValue(ctx, ctxKeyData{}, ds)
}

// DataFromContext returns the document stored by Validate.
func DataFromContext(ctx context.Context) (dataset.Dataset, bool) {
	ds, ok := ctx.Value(ctxKeyData{}).(dataset.Dataset)
	return ds, ok
}

// ErrorPayload shapes a failed report for JSON responses.
func ErrorPayload(r *formskema.Report) map[string]any {
	return map[string]any{"issues": r.Issues(), "messages": r.Messages}
}

type options struct {
	maxBytes int64
	logger   *slog.Logger
}

// Option configures Validate.
type Option func(*options)

// WithMaxBytes limits the request body size.
func WithMaxBytes(n int64) Option { return func(o *options) { o.maxBytes = n } }

// WithLogger logs rejected requests at debug level.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// Validate decodes the JSON body, validates it against c and passes the
// request on with the document in its context. Malformed bodies get 400,
// invalid ones 422 with the ErrorPayload.
func Validate(c *formskema.Compiled, opts ...Option) func(http.Handler) http.Handler {
	o := options{maxBytes: DefaultMaxBytes, logger: logging.NewDiscard()}
	for _, opt := range opts {
		opt(&o)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, o.maxBytes))
			if err != nil {
				status := http.StatusBadRequest
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					status = http.StatusRequestEntityTooLarge
				}
				o.logger.Debug("request body rejected", "path", req.URL.Path, "error", err)
				writeJSON(w, status, map[string]any{"error": err.Error()})
				return
			}
			ds, err := dataset.DecodeJSON(body)
			if err != nil {
				o.logger.Debug("request body rejected", "path", req.URL.Path, "error", err)
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
				return
			}

			r := c.Validate(ds)
			if !r.Valid() {
				o.logger.Debug("request invalid", "path", req.URL.Path, "issues", len(r.Issues()))
				writeJSON(w, http.StatusUnprocessableEntity, ErrorPayload(r))
				return
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, req.WithContext(ContextWithData(req.Context(), ds)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = j.NewEncoder(w).Encode(v)
}
