package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidImage    = errors.New("uploaded file is not a valid image")
	ErrImageProcessing = errors.New("image processing error")
)

// ImageProcessor turns raw upload bytes into the final avatar bytes.
type ImageProcessor interface {
	Process(raw []byte) ([]byte, error)
}

// AssetStore is a durable byte store keyed by generated unique names.
// Delete on a missing key is a no-op.
type AssetStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
