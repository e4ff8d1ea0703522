package product

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"elivtory/inventory-api/app/respond"
	"elivtory/inventory-api/internal"
	"elivtory/inventory-api/internal/model"

	"github.com/gin-gonic/gin"
)

func ProductList(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	products := []model.Product{}
	err := d.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&products).
		Error
	if err != nil {
		respond.Error(c, fmt.Errorf("failed to fetch products, %w", err))
		return
	}

	c.JSON(http.StatusOK, products)
}

func ProductFetch(c *gin.Context, d *internal.Deps) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	product, ok := findOwned(ctx, c, d)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, product)
}
