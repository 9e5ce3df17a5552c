package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"nobzo-blog/internal/validation"
)

func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return validation.NewError("body", "Request body must be a valid JSON object")
	}
	return nil
}

func bindQuery(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindQuery(dst); err != nil {
		return validation.NewError("query", "Query parameters are malformed")
	}
	return nil
}

// postIDParam parses the :id path parameter as a positive integer.
func postIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, validation.NewError("id", "Id must be a positive number")
	}
	return uint(id), nil
}
