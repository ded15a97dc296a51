package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// Thumbnail: small and aggressively compressed for grid loading.
	thumbnailMaxDim  = 400
	thumbnailQuality = 60

	// Original: bounded for viewing/download, moderate compression.
	originalMaxDim  = 1920
	originalQuality = 85
)

// ImageVariants holds the two encoded renditions derived from one upload.
type ImageVariants struct {
	Thumbnail []byte
	Original  []byte
}

// DeriveImageVariants decodes an uploaded image and produces the thumbnail
// and bounded-original JPEG renditions.
func DeriveImageVariants(data []byte) (*ImageVariants, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("while decoding image: %w", err)
	}

	thumb, err := encodeScaled(src, thumbnailMaxDim, thumbnailQuality)
	if err != nil {
		return nil, err
	}
	original, err := encodeScaled(src, originalMaxDim, originalQuality)
	if err != nil {
		return nil, err
	}

	return &ImageVariants{Thumbnail: thumb, Original: original}, nil
}

// DeriveImageSingle produces the legacy single-variant rendition, bounded
// like the original variant. Kept for records that predate the two-URL
// layout.
func DeriveImageSingle(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("while decoding image: %w", err)
	}
	return encodeScaled(src, originalMaxDim, originalQuality)
}

func encodeScaled(src image.Image, maxDim, quality int) ([]byte, error) {
	scaled := scaleToFit(src, maxDim)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("while encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

// scaleToFit bounds the longer edge at maxDim, preserving aspect ratio.
// Images already within the bound are returned as-is; there is no
// upscaling.
func scaleToFit(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	var dw, dh int
	if w >= h {
		dw = maxDim
		dh = h * maxDim / w
	} else {
		dh = maxDim
		dw = w * maxDim / h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
