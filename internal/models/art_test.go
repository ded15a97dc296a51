package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtPiecePublished(t *testing.T) {
	art := &ArtPiece{}
	assert.True(t, art.Published(), "missing flag means published")

	published := true
	art.IsPublished = &published
	assert.True(t, art.Published())

	published = false
	assert.False(t, art.Published())
}

func TestArtPieceCountersClampAtZero(t *testing.T) {
	art := &ArtPiece{Likes: -3, Views: -1}
	assert.Equal(t, int64(0), art.LikeCount())
	assert.Equal(t, int64(0), art.ViewCount())

	art.Likes = 7
	art.Views = 12
	assert.Equal(t, int64(7), art.LikeCount())
	assert.Equal(t, int64(12), art.ViewCount())
}

func TestArtPieceOriginalURLFallback(t *testing.T) {
	art := &ArtPiece{
		ImageURLs:    []string{"thumb0", "thumb1", "thumb2"},
		OriginalURLs: []string{"orig0", "orig1"},
	}

	assert.Equal(t, "orig0", art.OriginalURL(0))
	assert.Equal(t, "orig1", art.OriginalURL(1))
	// No original variant for index 2; fall back to the thumbnail.
	assert.Equal(t, "thumb2", art.OriginalURL(2))

	assert.Equal(t, "", art.OriginalURL(-1))
	assert.Equal(t, "", art.OriginalURL(3))
}

func TestArtPieceOriginalURLWithoutOriginals(t *testing.T) {
	art := &ArtPiece{ImageURLs: []string{"thumb0"}}
	assert.Equal(t, "thumb0", art.OriginalURL(0))
}
