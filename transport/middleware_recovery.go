package transport

import (
	"net/http"
	"runtime/debug"

	"github.com/muhammadheryan/artisanhub/constant"
	"github.com/muhammadheryan/artisanhub/utils/errors"
	"github.com/muhammadheryan/artisanhub/utils/logger"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a panic into a 500 with the generic message.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				writeError(w, errors.SetCustomError(constant.ErrInternal))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
