package services

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 50, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeJPEGBounds(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestDeriveImageVariantsScalesDown(t *testing.T) {
	variants, err := DeriveImageVariants(makePNG(t, 3000, 1500))
	require.NoError(t, err)

	tw, th := decodeJPEGBounds(t, variants.Thumbnail)
	assert.Equal(t, thumbnailMaxDim, tw)
	assert.Equal(t, 200, th)

	ow, oh := decodeJPEGBounds(t, variants.Original)
	assert.Equal(t, originalMaxDim, ow)
	assert.Equal(t, 960, oh)
}

func TestDeriveImageVariantsPortrait(t *testing.T) {
	variants, err := DeriveImageVariants(makePNG(t, 1000, 4000))
	require.NoError(t, err)

	tw, th := decodeJPEGBounds(t, variants.Thumbnail)
	assert.Equal(t, thumbnailMaxDim, th)
	assert.Equal(t, 100, tw)

	_, oh := decodeJPEGBounds(t, variants.Original)
	assert.Equal(t, originalMaxDim, oh)
}

func TestDeriveImageVariantsNoUpscale(t *testing.T) {
	variants, err := DeriveImageVariants(makePNG(t, 300, 200))
	require.NoError(t, err)

	tw, th := decodeJPEGBounds(t, variants.Thumbnail)
	assert.Equal(t, 300, tw)
	assert.Equal(t, 200, th)

	ow, oh := decodeJPEGBounds(t, variants.Original)
	assert.Equal(t, 300, ow)
	assert.Equal(t, 200, oh)
}

func TestDeriveImageVariantsRejectsNonImage(t *testing.T) {
	_, err := DeriveImageVariants([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestDeriveImageSingle(t *testing.T) {
	data, err := DeriveImageSingle(makePNG(t, 2500, 2500))
	require.NoError(t, err)

	w, h := decodeJPEGBounds(t, data)
	assert.Equal(t, originalMaxDim, w)
	assert.Equal(t, originalMaxDim, h)
}
