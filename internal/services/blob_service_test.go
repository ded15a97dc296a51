package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptart/backend/internal/config"
)

func testBlobService() *BlobService {
	return &BlobService{
		cfg: &config.Config{
			MediaS3Endpoint:    "https://media.example.com",
			MediaS3Region:      "us-east-1",
			MediaImagesBucket:  "gallery-images",
			UploadMaxImageSize: 1024,
		},
	}
}

func TestThumbKey(t *testing.T) {
	assert.Equal(t, "images/abc_thumb.png", thumbKey("images/abc.png"))
	assert.Equal(t, "images/abc_thumb.jpeg", thumbKey("images/abc.jpeg"))
	assert.Equal(t, "noext_thumb", thumbKey("noext"))
}

func TestURLAndKeyRoundTrip(t *testing.T) {
	s := testBlobService()

	u := s.URL("images/abc.png")
	assert.Equal(t, "https://media.example.com/gallery-images/images%2Fabc.png", u)

	key, err := s.keyFromURL(u)
	require.NoError(t, err)
	assert.Equal(t, "images/abc.png", key)
}

func TestURLVirtualHostFallback(t *testing.T) {
	s := testBlobService()
	s.cfg.MediaS3Endpoint = ""

	u := s.URL("images/abc.png")
	assert.Equal(t, "https://gallery-images.s3.us-east-1.amazonaws.com/images%2Fabc.png", u)

	key, err := s.keyFromURL(u)
	require.NoError(t, err)
	assert.Equal(t, "images/abc.png", key)
}

func TestKeyFromURLRejectsEmpty(t *testing.T) {
	s := testBlobService()
	_, err := s.keyFromURL("https://media.example.com/gallery-images/")
	assert.Error(t, err)
}

func TestValidateImage(t *testing.T) {
	s := testBlobService()

	// Minimal PNG header so content sniffing sees an image.
	pngData := []byte("\x89PNG\r\n\x1a\n" + "0000000000")

	mime, err := s.validateImage("photo.png", pngData)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = s.validateImage("photo.txt", pngData)
	assert.Error(t, err, "text extension is rejected")

	_, err = s.validateImage("photo.png", []byte("plain text content here"))
	assert.Error(t, err, "non-image content is rejected")

	big := make([]byte, 2048)
	copy(big, pngData)
	_, err = s.validateImage("photo.png", big)
	assert.Error(t, err, "oversized image is rejected")
}
