// Package middleware contains any custom middleware used in the app
package middleware

import (
	"regexp"

	"elivtory/inventory-api/pkg/util"

	"github.com/gin-gonic/gin"
)

const RequestIDHeader = "X-Request-ID"

// Incoming IDs end up in logs, so only short plain ones are trusted
var validRequestID = regexp.MustCompile(`^[a-zA-Z0-9-]{8,64}$`)

// NewRequestIDMiddleware sets requestID for each request. An ID set by a
// proxy in X-Request-ID is kept, otherwise a new one is generated. The ID is
// echoed back in the same header.
func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID.MatchString(id) {
			id = util.RandStr(10)
		}

		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
