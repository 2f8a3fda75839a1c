package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cirocosta/todoapi/internal/errs"
)

// handlerFunc is an HTTP handler that leaves error responses to the caller
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts a handlerFunc, translating the returned error into a JSON
// error response. An *errs.HTTPError is served as is. Anything else is
// logged and served as a generic 500 that never leaks the cause.
// Errors returned after the response has started are only logged.
func handle(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		err := fn(rw, r)
		if err == nil {
			return
		}

		if rw.wroteHeader {
			zerolog.Ctx(r.Context()).Warn().Err(err).
				Int("status", rw.statusCode).
				Msg("failed to write response")
			return
		}
		writeError(rw, r, err)
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		zerolog.Ctx(r.Context()).Error().Stack().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("unhandled error")
		httpErr = errs.NewInternalServerError()
	}

	if werr := writeJSON(w, httpErr.Status, httpErr); werr != nil {
		zerolog.Ctx(r.Context()).Warn().Err(werr).Msg("failed to write error response")
	}
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encode response")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}
