package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const defaultCloudinaryFolder = "lovelane"

// CloudinaryHost uploads to a Cloudinary folder and returns the secure delivery URL.
type CloudinaryHost struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryHost(cld *cloudinary.Cloudinary, folder string) *CloudinaryHost {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = defaultCloudinaryFolder
	}
	return &CloudinaryHost{cld: cld, folder: folder}
}

func (h *CloudinaryHost) Upload(ctx context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if h.cld == nil {
		return "", fmt.Errorf("cloudinary client is nil")
	}
	if key == "" || body == nil {
		return "", ErrValidation
	}

	publicID := strings.TrimSuffix(path.Base(key), path.Ext(key))
	res, err := h.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		Folder:         h.folder,
		PublicID:       publicID,
		ResourceType:   "image",
		Transformation: "q_auto,f_auto",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res == nil {
		return "", fmt.Errorf("cloudinary upload returned no result")
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}
