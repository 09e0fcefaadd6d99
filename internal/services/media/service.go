package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yash0834/lovelane-cloudinary-api/internal/pkg/validate"
)

const (
	defaultMaxUploadBytes = 5 << 20
	sniffLen              = 512
)

var (
	ErrValidation      = validate.ErrInvalid
	ErrTooLarge        = errors.New("image exceeds upload limit")
	ErrUnsupportedType = errors.New("file is not an image")
	ErrUpstream        = errors.New("image host failed")
)

// ImageHost stores an image under key and returns a URL clients can load it from.
type ImageHost interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

type Config struct {
	MaxUploadBytes int64
}

type Service struct {
	host ImageHost
	cfg  Config
	log  *zap.Logger
	now  func() time.Time
}

type Upload struct {
	URL         string
	Key         string
	ContentType string
	Size        int64
}

var extensionsByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

func NewService(host ImageHost, cfg Config, log *zap.Logger) *Service {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		host: host,
		cfg:  cfg,
		log:  log,
		now:  time.Now,
	}
}

func (s *Service) MaxUploadBytes() int64 {
	return s.cfg.MaxUploadBytes
}

// UploadImage checks size and sniffed content type before anything reaches
// the host. A returned URL always points at a stored image.
func (s *Service) UploadImage(ctx context.Context, fileName string, body io.Reader, size int64) (Upload, error) {
	if body == nil || size <= 0 {
		return Upload{}, fmt.Errorf("image file is empty: %w", ErrValidation)
	}
	if size > s.cfg.MaxUploadBytes {
		return Upload{}, ErrTooLarge
	}
	if s.host == nil {
		return Upload{}, fmt.Errorf("image host is not configured")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Upload{}, fmt.Errorf("read image header: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return Upload{}, fmt.Errorf("image file is empty: %w", ErrValidation)
	}

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return Upload{}, ErrUnsupportedType
	}

	key := buildObjectKey(s.now(), fileName, contentType)
	url, err := s.host.Upload(ctx, key, io.MultiReader(bytes.NewReader(head), body), size, contentType)
	if err != nil {
		s.log.Error("image upload failed", zap.String("key", key), zap.Error(err))
		return Upload{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if strings.TrimSpace(url) == "" {
		return Upload{}, fmt.Errorf("%w: host returned no url", ErrUpstream)
	}

	return Upload{
		URL:         url,
		Key:         key,
		ContentType: contentType,
		Size:        size,
	}, nil
}

func buildObjectKey(now time.Time, fileName, contentType string) string {
	ext, ok := extensionsByType[contentType]
	if !ok {
		ext = strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	}
	if ext == "" {
		ext = ".img"
	}
	return fmt.Sprintf("images/%s/%s%s", now.UTC().Format("2006/01/02"), uuid.NewString(), ext)
}
