package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptart/backend/internal/models"
)

func TestCursorRoundTrip(t *testing.T) {
	in := pageCursor{
		CreatedAt: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
		ID:        "abc123",
	}

	encoded := encodeCursor(in)
	require.NotEmpty(t, encoded)

	out, err := decodeCursor(encoded)
	require.NoError(t, err)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, in.ID, out.ID)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := decodeCursor("not base64!!!")
	assert.ErrorIs(t, err, ErrInvalidCursor)

	// Valid base64 but not a cursor payload.
	_, err = decodeCursor("aGVsbG8")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestDecodeCursorRejectsEmptyID(t *testing.T) {
	encoded := encodeCursor(pageCursor{CreatedAt: time.Now()})
	_, err := decodeCursor(encoded)
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestFilterPublished(t *testing.T) {
	pub := true
	unpub := false
	pieces := []*models.ArtPiece{
		{ID: "a", IsPublished: &pub},
		{ID: "b", IsPublished: &unpub},
		{ID: "c"}, // legacy record without the flag
	}

	visible := filterPublished(pieces)
	require.Len(t, visible, 2)
	assert.Equal(t, "a", visible[0].ID)
	assert.Equal(t, "c", visible[1].ID)
}

func TestFilterPublishedEmpty(t *testing.T) {
	assert.Empty(t, filterPublished(nil))
}
