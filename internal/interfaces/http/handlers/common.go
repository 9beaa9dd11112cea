// Package handlers implements the HTTP endpoints of the classification API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps an application error to its HTTP status. Server-side
// codes are masked so internals never leak to callers; client-side codes
// carry their message and detail through.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    string(apperrors.ErrCodeInternal),
			Message: apperrors.DefaultMessageForCode(apperrors.ErrCodeInternal),
		})
		return
	}

	status := apperrors.HTTPStatusForCode(appErr.Code)
	resp := ErrorResponse{Code: string(appErr.Code), Message: appErr.Message}
	if apperrors.IsClientError(appErr.Code) {
		resp.Detail = appErr.Detail
	} else if status >= 500 {
		resp.Message = apperrors.DefaultMessageForCode(appErr.Code)
	}
	c.JSON(status, resp)
}
