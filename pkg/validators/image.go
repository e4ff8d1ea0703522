package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrImageTooLarge        = errors.New("image too large")
	ErrImageNameTooLong     = errors.New("image name is too long")
	ErrImageTypeUnsupported = errors.New("only .png, .jpg and .jpeg formats are allowed")
	ErrNoImage              = errors.New("no image provided")
)

const maxImageNameSize = 245

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/jpg"}

// ImageValidator checks an uploaded product image. On success the opened file
// is returned rewound to the start together with its sniffed MIME type. The
// caller must close the file.
func ImageValidator(fh *multipart.FileHeader, maxSize int64) (int, multipart.File, string, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, "", ErrNoImage
	}

	if len(fh.Filename) > maxImageNameSize {
		return http.StatusBadRequest, nil, "", ErrImageNameTooLong
	}

	if fh.Size > maxSize {
		return http.StatusRequestEntityTooLarge, nil, "", ErrImageTooLarge
	}

	// Headers are easy to spoof, so the content is sniffed as well
	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, "", err
	}

	if !mimetype.EqualsAny(mime.String(), allowedImageTypes...) {
		f.Close()
		return http.StatusBadRequest, nil, "", ErrImageTypeUnsupported
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, "", err
	}

	return 0, f, mime.String(), nil
}
