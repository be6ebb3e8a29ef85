package media

import (
	"context"
	"errors"
	"io"
	"net/http"
)

var (
	// ErrTooLarge is returned when the file exceeds the size limit.
	ErrTooLarge = errors.New("file exceeds size limit")

	// ErrUnsupportedType is returned for content types outside the
	// allow-list.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// UploadResult is the hosted location of an uploaded file.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Uploader pushes a file to the media host and returns its hosted URL.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename, folder string) (*UploadResult, error)
}

// allowedTypes is the upload allow-list: identity documents, resumes and
// salary slips.
var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// AllowedContentType reports whether ct may be uploaded.
func AllowedContentType(ct string) bool {
	return allowedTypes[ct]
}

// CheckUpload validates the declared size and sniffed content type of an
// upload. The content type comes from the bytes, never the client header.
// Returns ErrTooLarge or ErrUnsupportedType on rejection.
func CheckUpload(declaredSize, maxBytes int64, data []byte) (string, error) {
	if declaredSize > maxBytes || int64(len(data)) > maxBytes {
		return "", ErrTooLarge
	}
	ct := http.DetectContentType(data)
	if !AllowedContentType(ct) {
		return ct, ErrUnsupportedType
	}
	return ct, nil
}
