// Package respond writes the JSON error bodies shared by all handlers
package respond

import (
	"errors"
	"net/http"

	"elivtory/inventory-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var statuses = map[error]int{
	service.ErrValidation:            http.StatusBadRequest,
	service.ErrConflict:              http.StatusConflict,
	service.ErrNotFound:              http.StatusNotFound,
	service.ErrAuth:                  http.StatusUnauthorized,
	service.ErrInvalidOrExpiredToken: http.StatusNotFound,
	service.ErrUnauthorized:          http.StatusUnauthorized,
	service.ErrForbidden:             http.StatusUnauthorized,
	service.ErrEmailDelivery:         http.StatusInternalServerError,
}

// Status maps err to the HTTP status it is reported with
func Status(err error) int {
	var e *service.Error
	if errors.As(err, &e) {
		if code, ok := statuses[e.Kind]; ok {
			return code
		}
	}

	return http.StatusInternalServerError
}

// Error writes err as {"error", "requestID"}. Only service errors expose their
// message, everything else is logged and reported as an internal error.
func Error(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	var e *service.Error
	if !errors.As(err, &e) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	code := Status(err)
	if code >= http.StatusInternalServerError {
		zap.L().Error(e.Message, zap.Error(err), zap.String("requestID", requestID))
	} else {
		zap.L().Debug(e.Message, zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(code, gin.H{
		"error":     e.Message,
		"requestID": requestID,
	})
}

// BadBody reports a request body that could not be bound
func BadBody(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	c.JSON(http.StatusBadRequest, gin.H{
		"error":     "Invalid request body",
		"requestID": requestID,
	})

	zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
}
