package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
)

var (
	ErrImageTooLarge = errors.New("image exceeds maximum size")
	ErrBadImage      = errors.New("not a valid JPEG or PNG image")
)

// ImageProcessor validates and normalizes uploaded post images before they
// reach the asset store.
type ImageProcessor struct {
	MaxSize int64 // bytes
	MaxDim  int   // longest edge in pixels after normalization
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{
		MaxSize: 5 * 1024 * 1024, // 5MB
		MaxDim:  1600,
	}
}

// Validate checks size and that the bytes decode as JPEG or PNG.
func (p *ImageProcessor) Validate(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return ErrImageTooLarge
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return ErrBadImage
	}
}

// Process validates and, if the image is larger than MaxDim on either edge,
// downscales and re-encodes it as JPEG quality 90. Images already within
// bounds pass through untouched.
func (p *ImageProcessor) Process(data []byte, contentType string) ([]byte, string, error) {
	if err := p.Validate(data); err != nil {
		return nil, "", err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	if cfg.Width <= p.MaxDim && cfg.Height <= p.MaxDim {
		return data, contentType, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	resized := imaging.Fit(img, p.MaxDim, p.MaxDim, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 90}); err != nil {
		return nil, "", fmt.Errorf("cannot encode image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
