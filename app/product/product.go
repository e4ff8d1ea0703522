// Package product contains the handlers for the inventory of a user
package product

import (
	"context"
	"errors"

	"elivtory/inventory-api/app/respond"
	"elivtory/inventory-api/internal"
	"elivtory/inventory-api/internal/model"
	"elivtory/inventory-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CacheKey is the response cache key of a product GET for a user
func CacheKey(userID, path string) string {
	return "products:" + userID + ":" + path
}

// invalidate drops the cached list and, if id is set, the cached product
func invalidate(d *internal.Deps, userID, id string) {
	if d.Cache == nil {
		return
	}

	keys := []string{CacheKey(userID, "/api/products")}
	if id != "" {
		keys = append(keys, CacheKey(userID, "/api/products/"+id))
	}

	for _, k := range keys {
		if err := d.Cache.Delete(k); err != nil {
			zap.L().Debug("Failed to invalidate cache", zap.String("key", k), zap.Error(err))
		}
	}
}

// findOwned loads the product from the :id param and checks that the
// current user owns it. The error response is already written when ok is false.
func findOwned(ctx context.Context, c *gin.Context, d *internal.Deps) (p *model.Product, ok bool) {
	userID := c.MustGet("userID").(string)

	var product model.Product
	err := d.DB.WithContext(ctx).
		Where("id = ?", c.Param("id")).
		First(&product).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respond.Error(c, service.NewError(service.ErrNotFound, "Product not found"))
			return nil, false
		}

		respond.Error(c, err)
		return nil, false
	}

	if product.UserID != userID {
		respond.Error(c, service.NewError(service.ErrForbidden, "User not authorized"))
		return nil, false
	}

	return &product, true
}
