package handler

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studylog/internal/logger"
	"github.com/studylog/internal/service"
	"gorm.io/gorm"
)

// ErrResourceNotFound covers requests that name nothing at all: an
// id-shaped input that failed to parse, or a path no route matches.
// Both are deliberately surfaced as a 404.
var ErrResourceNotFound = errors.New("Resource not found")

// NoRoute handles unmatched paths through the shared envelope.
func NoRoute(c *gin.Context) {
	c.Error(ErrResourceNotFound)
}

// ErrorTranslator is the single place handler errors become HTTP
// responses. Handlers attach errors via c.Error and return; this
// middleware maps them onto the envelope {message, stack}, where stack
// is only populated outside release mode.
func ErrorTranslator() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, message := classifyError(err, c.Writer.Status())

		if status >= http.StatusInternalServerError {
			logger.Errorw("request failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err.Error(),
			)
		}

		var stack *string
		if gin.Mode() != gin.ReleaseMode {
			s := string(debug.Stack())
			stack = &s
		}

		c.JSON(status, gin.H{"message": message, "stack": stack})
	}
}

func classifyError(err error, currentStatus int) (int, string) {
	var validation *service.ValidationError

	switch {
	case errors.Is(err, ErrResourceNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, service.ErrBlogNotFound):
		return http.StatusNotFound, "Blog not found"
	case errors.Is(err, service.ErrAuthorNotFound):
		return http.StatusNotFound, "Author not found"
	case errors.Is(err, service.ErrSlugTaken):
		return http.StatusBadRequest, "Blog with this slug already exists"
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case isDuplicateKey(err):
		return http.StatusBadRequest, "Duplicate field value entered"
	}

	status := http.StatusInternalServerError
	if currentStatus != http.StatusOK {
		status = currentStatus
	}
	return status, err.Error()
}

// isDuplicateKey catches unique-constraint violations that slipped past
// the slug pre-check, e.g. two concurrent creates with the same slug.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
