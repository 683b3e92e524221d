package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pratama/commerce/internal/apperrors"
)

// ErrorResponse is the uniform error envelope returned by every endpoint.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	ErrorCode string    `json:"errorCode"`
}

// ValidationErrorResponse extends the envelope with the per-field error map.
type ValidationErrorResponse struct {
	ErrorResponse
	ValidationErrors map[string]string `json:"validationErrors"`
}

func WriteJson(c context.Context, w http.ResponseWriter, statusCode int, body any) {
	logger := zerolog.Ctx(c).With().Str("tag", "WriteJson").Logger()

	w.Header().Set(KeyHeaderContentType, ValueHeaderApplicationJson)
	w.WriteHeader(statusCode)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("failed encoding response body")
	}
}

// WriteError translates an application error into the envelope. Unknown
// errors become 500 INTERNAL_SERVER_ERROR.
func WriteError(c context.Context, w http.ResponseWriter, r *http.Request, err error) {
	base := ErrorResponse{
		Timestamp: time.Now().UTC(),
		Message:   err.Error(),
		Path:      r.URL.Path,
		ErrorCode: apperrors.CodeInternal,
	}
	status := http.StatusInternalServerError

	var validationErr *apperrors.ValidationError
	var appErr *apperrors.Error
	switch {
	case errors.As(err, &validationErr):
		base.Message = validationErr.Error()
		base.ErrorCode = apperrors.CodeBadRequest
		WriteJson(c, w, http.StatusBadRequest, ValidationErrorResponse{
			ErrorResponse:    base,
			ValidationErrors: validationErr.Fields,
		})
		return
	case errors.As(err, &appErr):
		base.Message = appErr.Message
		base.ErrorCode = appErr.Code
		status = appErr.Status
	}

	WriteJson(c, w, status, base)
}
