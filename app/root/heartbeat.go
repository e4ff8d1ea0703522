package root

import (
	"context"
	"net/http"
	"time"

	"elivtory/inventory-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Heartbeat reports whether the server and its database are alive
func Heartbeat(c *gin.Context, d *internal.Deps) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := d.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}

	if err != nil {
		zap.L().Error("Database is unreachable", zap.Error(err))
		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.Status(http.StatusOK)
}
