package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduquest/client/internal/app/models/dto"
	"github.com/eduquest/client/internal/pkg/apperrors"
	"github.com/eduquest/client/internal/pkg/logger"
	"github.com/eduquest/client/internal/pkg/validation"
)

// HandleAPIError maps an error onto the JSON error response and aborts the request
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Int("status", status).Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	message := err.Error()

	var ce *apperrors.CustomError
	hasCustom := errors.As(err, &ce)

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
		fields := validation.Fields(err)
		verrs := dto.NewValidationErrors()
		for _, name := range fields.Fields() {
			verrs.AddError(name, fields[name])
		}
		if verrs.HasErrors() {
			// the first failing field is the one a form should focus
			detail = detail.WithField(verrs.Errors[0].Field).WithDetails(verrs)
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, message)
	case errors.Is(err, apperrors.ErrAuthInProgress):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeAuthInProgress, message).
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrStaleResponse):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeStaleSession, message).
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	}

	if apiErr, ok := apperrors.AsAPIError(err); ok {
		status, code := apiErr.Status, codeForStatus(apiErr.Status)
		if apiErr.IsTransport() {
			status, code = http.StatusBadGateway, dto.ErrorCodeBackendUnreachable
		}
		if !hasCustom {
			message = apperrors.BackendMessage(err, http.StatusText(status))
		}
		detail := dto.NewErrorDetail(code, message)
		if apiErr.IsTransport() {
			detail = detail.WithSeverity(dto.ErrorSeverityCritical)
		}
		return status, detail
	}

	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
}

func codeForStatus(status int) dto.ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return dto.ErrorCodeUnauthorized
	case http.StatusForbidden:
		return dto.ErrorCodeForbidden
	case http.StatusNotFound:
		return dto.ErrorCodeResourceNotFound
	case http.StatusConflict:
		return dto.ErrorCodeConflict
	case http.StatusBadRequest:
		return dto.ErrorCodeBadRequest
	default:
		return dto.ErrorCodeBackendError
	}
}
