package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tillpoint/tillpoint-api/pkg/apperror"
)

// APIResponse is the standard response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError is the error payload inside the envelope
type APIError struct {
	Kind    apperror.Kind          `json:"kind"`
	Message string                 `json:"message"`
	Fields  []apperror.FieldError  `json:"fields,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response derived from the application error
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	c.JSON(appErr.Code, APIResponse{
		Success: false,
		Error: &APIError{
			Kind:    appErr.Kind,
			Message: appErr.Message,
			Fields:  appErr.Errors,
			Details: appErr.Details,
		},
	})
}

// BadRequest sends a 400 with the given message
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Error: &APIError{
			Kind:    apperror.KindValidation,
			Message: message,
		},
	})
}
