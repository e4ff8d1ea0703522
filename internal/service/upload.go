package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"elivtory/inventory-api/internal/model"
	"elivtory/inventory-api/pkg/util"
	"elivtory/inventory-api/pkg/validators"
)

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
}

// Uploader validates product images and puts them into the image store
type Uploader struct {
	Images  ImageStore
	MaxSize int64
}

func NewUploader(images ImageStore, maxSize int64) *Uploader {
	return &Uploader{
		Images:  images,
		MaxSize: maxSize,
	}
}

// Do validates fh and stores it under a random key. On failure the returned
// status code tells the handler how to respond.
func (u *Uploader) Do(ctx context.Context, fh *multipart.FileHeader) (*model.ProductImage, int, error) {
	code, f, mime, err := validators.ImageValidator(fh, u.MaxSize)
	if err != nil {
		return nil, code, err
	}
	defer f.Close()

	key := util.RandStr(16) + extensions[mime]

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	url, err := u.Images.Put(ctx, key, f, fh.Size, mime)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	return &model.ProductImage{
		FileName: fh.Filename,
		FilePath: url,
		FileType: mime,
		FileSize: FormatFileSize(fh.Size),
		Key:      key,
	}, 0, nil
}

// Delete removes a stored product image. Images without a key are ignored.
func (u *Uploader) Delete(ctx context.Context, img model.ProductImage) error {
	if img.Key == "" {
		return nil
	}

	return u.Images.Delete(ctx, img.Key)
}

// FormatFileSize renders n bytes the way the front end displays it
func FormatFileSize(n int64) string {
	const unit = 1000
	if n < unit {
		return fmt.Sprintf("%d bytes", n)
	}

	units := []string{"KB", "MB", "GB", "TB"}
	v := float64(n)
	i := -1
	for v >= unit && i < len(units)-1 {
		v /= unit
		i++
	}

	return fmt.Sprintf("%.3f %s", v, units[i])
}
