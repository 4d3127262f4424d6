package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// MaxImageSize is the upload limit for menu images.
const MaxImageSize = 5 << 20

// imageExtensions lists the accepted content types.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type uploadService struct {
	images ports.ImageStore
	now    func() time.Time
	log    zerolog.Logger
}

// NewUploadService returns an UploadService writing to images.
func NewUploadService(images ports.ImageStore, log zerolog.Logger) ports.UploadService {
	return &uploadService{images: images, now: time.Now, log: log}
}

// StoreImage sniffs the content type from the bytes themselves; the declared
// type and filename are ignored.
func (s *uploadService) StoreImage(ctx context.Context, r io.Reader, size int64) (*ports.UploadedImage, error) {
	if size > MaxImageSize {
		return nil, fmt.Errorf("%w: File size too large. Maximum size is 5MB.", domain.ErrValidation)
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: No file uploaded", domain.ErrValidation)
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("%w: File size too large. Maximum size is 5MB.", domain.ErrValidation)
	}

	contentType := mimetype.Detect(data).String()
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: Invalid file type. Only JPEG, PNG, GIF, and WebP are allowed.", domain.ErrValidation)
	}

	filename := fmt.Sprintf("menu-%d-%s%s", s.now().UnixMilli(), uuid.NewString()[:8], ext)
	key := "menu/" + filename
	if err := s.images.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	s.log.Info().Str("key", key).Int("size", len(data)).Str("type", contentType).Msg("image uploaded")
	return &ports.UploadedImage{
		URL:         s.images.URL(key),
		Filename:    filename,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}
