package transport

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/muhammadheryan/artisanhub/constant"
	"github.com/muhammadheryan/artisanhub/utils/errors"
	"github.com/muhammadheryan/artisanhub/utils/logger"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("[writeJSON] err encode response", zap.String("error", err.Error()))
	}
}

func writeSuccess(w http.ResponseWriter, body interface{}) {
	writeJSON(w, http.StatusOK, body)
}

// writeError renders err as {"message": ...}. Anything that is not a
// CustomError is reported as a generic server error.
func writeError(w http.ResponseWriter, err error) {
	var ce errors.CustomError
	if !stderrors.As(err, &ce) {
		logger.Error("[writeError] unmapped error", zap.String("error", err.Error()))
		ce = errors.SetCustomError(constant.ErrInternal)
	}

	if ce.ErrorHTTPCode() >= http.StatusInternalServerError {
		fields := []zap.Field{zap.String("code", ce.ErrorCode())}
		if cause := stderrors.Unwrap(ce); cause != nil {
			fields = append(fields, zap.String("cause", cause.Error()))
		}
		logger.Error("[writeError] request failed", fields...)
	}

	writeJSON(w, ce.ErrorHTTPCode(), ErrorResponse{Message: ce.Error()})
}
