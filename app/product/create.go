package product

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"elivtory/inventory-api/app/respond"
	"elivtory/inventory-api/internal"
	"elivtory/inventory-api/internal/model"
	"elivtory/inventory-api/pkg/util"
	"elivtory/inventory-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func formFields(c *gin.Context) *validators.ProductFields {
	return &validators.ProductFields{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Category:    strings.TrimSpace(c.PostForm("category")),
		Quantity:    strings.TrimSpace(c.PostForm("quantity")),
		Price:       strings.TrimSpace(c.PostForm("price")),
		Description: strings.TrimSpace(c.PostForm("description")),
	}
}

// uploadImage stores the optional image form field. A nil image with ok set
// means none was sent.
func uploadImage(ctx context.Context, c *gin.Context, d *internal.Deps) (img *model.ProductImage, ok bool) {
	requestID := c.MustGet("requestID").(string)

	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, true
		}

		respond.BadBody(c, err)
		return nil, false
	}

	img, code, err := d.Uploader.Do(ctx, fh)
	if err != nil {
		if code >= http.StatusInternalServerError {
			respond.Error(c, fmt.Errorf("failed to upload image, %w", err))
			return nil, false
		}

		c.JSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return nil, false
	}

	return img, true
}

func ProductCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fields := formFields(c)

	quantity, price, err := validators.ProductValidator(fields, false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	// The uploader bounds the upload itself, the database gets its own deadline afterwards
	img, ok := uploadImage(c.Request.Context(), c, d)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	id, err := util.NewID()
	if err != nil {
		respond.Error(c, fmt.Errorf("failed to generate product ID, %w", err))
		return
	}

	product := model.Product{
		ID:          id,
		UserID:      userID,
		Name:        fields.Name,
		SKU:         fmt.Sprintf("SKU-%d", time.Now().UnixMilli()),
		Category:    fields.Category,
		Quantity:    quantity,
		Price:       price,
		Description: fields.Description,
	}
	if img != nil {
		product.Image = *img
	}

	if err := d.DB.WithContext(ctx).Create(&product).Error; err != nil {
		if img != nil {
			if err := d.Uploader.Delete(context.Background(), *img); err != nil {
				zap.L().Error("Failed to remove orphaned image", zap.Error(err), zap.String("requestID", requestID))
			}
		}

		respond.Error(c, fmt.Errorf("failed to create product, %w", err))
		return
	}

	invalidate(d, userID, "")
	c.JSON(http.StatusCreated, product)
}
