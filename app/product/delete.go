package product

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"elivtory/inventory-api/app/respond"
	"elivtory/inventory-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ProductDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	product, ok := findOwned(ctx, c, d)
	if !ok {
		return
	}

	if err := d.DB.WithContext(ctx).Delete(product).Error; err != nil {
		respond.Error(c, fmt.Errorf("failed to delete product, %w", err))
		return
	}

	// The row is gone, a leftover object is only wasted space
	if err := d.Uploader.Delete(ctx, product.Image); err != nil {
		zap.L().Error("Failed to delete product image", zap.Error(err), zap.String("requestID", requestID))
	}

	invalidate(d, userID, product.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted.",
	})
}
