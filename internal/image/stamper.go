// Package image processes uploaded avatars before storage.
package image

import (
	"bytes"
	"fmt"
	goimage "image"

	"github.com/disintegration/imaging"

	"clienthub/internal/domain"
)

// Stamper composites a fixed watermark overlay onto uploaded avatars.
// The overlay is loaded once at startup and never mutated afterwards, so a
// single Stamper is safe for concurrent use.
type Stamper struct {
	overlay goimage.Image
}

func NewStamper(overlayPath string) (*Stamper, error) {
	overlay, err := imaging.Open(overlayPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load watermark overlay: %w", err)
	}

	return &Stamper{overlay: overlay}, nil
}

// NewStamperFromImage builds a Stamper from an already decoded overlay.
func NewStamperFromImage(overlay goimage.Image) *Stamper {
	return &Stamper{overlay: overlay}
}

// Process decodes raw upload bytes, composites the overlay so that its
// bottom-right corner aligns with the image's bottom-right corner, and
// re-encodes as PNG. An overlay larger than the image yields a negative
// offset; imaging clips the overlap, no bounds check is done here.
func (s *Stamper) Process(raw []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}

	srcBounds := src.Bounds()
	overlayBounds := s.overlay.Bounds()
	pos := goimage.Pt(
		srcBounds.Dx()-overlayBounds.Dx(),
		srcBounds.Dy()-overlayBounds.Dy(),
	)

	stamped := imaging.Overlay(src, s.overlay, pos, 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, stamped, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", domain.ErrImageProcessing, err)
	}

	return buf.Bytes(), nil
}
