package middleware

import (
	"fmt"
	"net/http"

	"github.com/marlowpress/storefront-backend/api/responses"
	pkgerrors "github.com/marlowpress/storefront-backend/pkg/errors"
	"github.com/marlowpress/storefront-backend/pkg/logger"
)

// Recoverer converts a handler panic into a logged 500 carrying the standard
// error envelope, so one bad checkout request cannot take the process down.
// http.ErrAbortHandler is re-raised for net/http to suppress.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}

				ctx := r.Context()
				if logg != nil {
					logg.Error(logg.WithField(ctx, "path", r.URL.Path), "recovered from handler panic", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unhandled panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
