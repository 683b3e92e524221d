package middleware

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pratama/commerce/internal/apperrors"
	inHttp "github.com/pratama/commerce/internal/http"
)

func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := r.Context()
		logger := zerolog.Ctx(c).With().Str("tag", "RecoverPanic").Logger()

		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				logger.Error().Err(err).Stack().Msg("recovered from panic")
				inHttp.WriteError(c, w, r, apperrors.Internal("Internal Server Error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
