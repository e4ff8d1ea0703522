package product

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"elivtory/inventory-api/app/respond"
	"elivtory/inventory-api/internal"
	"elivtory/inventory-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductUpdate replaces the fields that were sent. A new image replaces the
// stored one, which is removed from storage afterwards.
func ProductUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fields := formFields(c)

	quantity, price, err := validators.ProductValidator(fields, true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	findCtx, cancelFind := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancelFind()

	product, ok := findOwned(findCtx, c, d)
	if !ok {
		return
	}

	img, ok := uploadImage(c.Request.Context(), c, d)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if fields.Name != "" {
		product.Name = fields.Name
	}
	if fields.Category != "" {
		product.Category = fields.Category
	}
	if fields.Quantity != "" {
		product.Quantity = quantity
	}
	if fields.Price != "" {
		product.Price = price
	}
	if fields.Description != "" {
		product.Description = fields.Description
	}

	old := product.Image
	if img != nil {
		product.Image = *img
	}

	if err := d.DB.WithContext(ctx).Save(product).Error; err != nil {
		if img != nil {
			if err := d.Uploader.Delete(context.Background(), *img); err != nil {
				zap.L().Error("Failed to remove orphaned image", zap.Error(err), zap.String("requestID", requestID))
			}
		}

		respond.Error(c, fmt.Errorf("failed to update product, %w", err))
		return
	}

	if img != nil {
		if err := d.Uploader.Delete(ctx, old); err != nil {
			zap.L().Error("Failed to delete replaced image", zap.Error(err), zap.String("requestID", requestID))
		}
	}

	invalidate(d, userID, product.ID)
	c.JSON(http.StatusOK, product)
}
