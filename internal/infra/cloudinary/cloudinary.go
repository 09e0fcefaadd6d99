package cloudinary

import (
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
)

// NewClient parses a cloudinary://<key>:<secret>@<cloud> URL.
func NewClient(url string) (*cloudinary.Cloudinary, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("cloudinary url is required")
	}

	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}

	return cld, nil
}
