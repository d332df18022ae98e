package handler

import (
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/gin-gonic/gin"
)

// respondError writes the error envelope directly, for handlers that
// answer before reaching ErrorTranslator. Same shape, same mode rule.
func respondError(c *gin.Context, status int, message string) {
	var stack *string
	if gin.Mode() != gin.ReleaseMode {
		s := string(debug.Stack())
		stack = &s
	}
	c.JSON(status, gin.H{"message": message, "stack": stack})
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// parseUintParam reads a numeric path parameter. Malformed ids are
// reported as ErrResourceNotFound and end up as a 404, never a 400.
func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, ErrResourceNotFound
	}
	return uint(id), nil
}
