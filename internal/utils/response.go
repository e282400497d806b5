package utils

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body of every failed API request.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

const (
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "RESOURCE_NOT_FOUND"
	CodeConflict       = "ALREADY_EXISTS"
	CodeAIUnavailable  = "AI_SERVICE_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
	CodeTooLarge       = "PAYLOAD_TOO_LARGE"
	CodeInvalidLedger  = "INVALID_CHAIN"
	CodeNoData         = "NO_DATA"
	CodeInvalidRequest = "INVALID_REQUEST"
)

// SendError aborts the request with the standard error body.
func SendError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code})
}

// SendErrorDetails is SendError with extra machine-readable details.
func SendErrorDetails(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code, Details: details})
}
