package models

import "time"

// ArtPiece is a document in the artPieces collection.
//
// ImageURLs holds thumbnail references; OriginalURLs, when present, is
// index-aligned with ImageURLs and holds the full-resolution variants.
// Records created before the two-variant upload existed have no
// OriginalURLs, so full-resolution access falls back to ImageURLs.
type ArtPiece struct {
	ID             string    `firestore:"-" json:"id"`
	Title          string    `firestore:"title" json:"title"`
	ImageURLs      []string  `firestore:"imageUrls" json:"image_urls"`
	OriginalURLs   []string  `firestore:"originalUrls,omitempty" json:"original_urls,omitempty"`
	Prompt         string    `firestore:"prompt" json:"prompt"`
	NegativePrompt string    `firestore:"negativePrompt,omitempty" json:"negative_prompt,omitempty"`
	Author         string    `firestore:"author" json:"author"`
	UploadedBy     string    `firestore:"uploadedBy,omitempty" json:"uploaded_by,omitempty"`
	Date           string    `firestore:"date" json:"date"`
	Model          string    `firestore:"model" json:"model"`
	Ratio          string    `firestore:"ratio" json:"ratio"`
	Tags           []string  `firestore:"tags" json:"tags"`
	Likes          int64     `firestore:"likes" json:"likes"`
	Views          int64     `firestore:"views" json:"views"`
	IsPublished    *bool     `firestore:"isPublished" json:"is_published,omitempty"`
	CreatedAt      time.Time `firestore:"createdAt" json:"created_at"`
	UpdatedAt      time.Time `firestore:"updatedAt" json:"updated_at"`
}

// Published treats a missing isPublished field as published. Documents
// created before the flag existed never carry it.
func (a *ArtPiece) Published() bool {
	return a.IsPublished == nil || *a.IsPublished
}

// LikeCount clamps the raw counter at zero. The increment primitive does
// not clamp, so a decrement race can leave a negative raw value.
func (a *ArtPiece) LikeCount() int64 {
	if a.Likes < 0 {
		return 0
	}
	return a.Likes
}

// ViewCount clamps the raw counter at zero.
func (a *ArtPiece) ViewCount() int64 {
	if a.Views < 0 {
		return 0
	}
	return a.Views
}

// OriginalURL returns the full-resolution reference for image i, falling
// back to the thumbnail when no original variant exists.
func (a *ArtPiece) OriginalURL(i int) string {
	if i < 0 || i >= len(a.ImageURLs) {
		return ""
	}
	if i < len(a.OriginalURLs) {
		return a.OriginalURLs[i]
	}
	return a.ImageURLs[i]
}

// ArtFormData carries the administrator-editable fields of an ArtPiece.
type ArtFormData struct {
	Title          string   `json:"title" binding:"required"`
	Prompt         string   `json:"prompt" binding:"required"`
	NegativePrompt string   `json:"negative_prompt"`
	Author         string   `json:"author"`
	Model          string   `json:"model"`
	Ratio          string   `json:"ratio"`
	Tags           []string `json:"tags"`
	IsPublished    *bool    `json:"is_published"`
}
