package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nobzo-blog/internal/app"
	"nobzo-blog/internal/transport/http/response"
	"nobzo-blog/internal/validation"
)

const internalErrorMessage = "Internal Server Error"

// ErrorResponder writes the envelope for the last error a handler or
// middleware attached with c.Error.
func ErrorResponder() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			response.Error(c, http.StatusBadRequest, "Validation failed", verr.Issues...)
		case errors.Is(err, app.ErrEmailExists), errors.Is(err, app.ErrSlugExists):
			response.Error(c, http.StatusBadRequest, err.Error())
		case isTokenError(err), errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, app.ErrForbidden):
			response.Error(c, http.StatusForbidden, err.Error())
		case errors.Is(err, app.ErrPostNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
			response.Error(c, http.StatusInternalServerError, internalErrorMessage)
		}
	}
}

// Recovery turns a panic into the 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		response.Error(c, http.StatusInternalServerError, internalErrorMessage)
		c.Abort()
	})
}
