package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nobzo-blog/internal/validation"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Message string                  `json:"message"`
	Details []validation.FieldIssue `json:"details,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Message answers 200 with a message and no data.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
	})
}

func Error(c *gin.Context, httpStatus int, message string, details ...validation.FieldIssue) {
	c.JSON(httpStatus, APIResponse{
		Success: false,
		Error: &APIError{
			Message: message,
			Details: details,
		},
	})
}
