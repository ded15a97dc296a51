package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/promptart/backend/internal/config"
	"github.com/promptart/backend/internal/models"
	"github.com/promptart/backend/internal/services"
	"github.com/promptart/backend/pkg/validation"
)

type AdminHandler struct {
	artService   *services.ArtService
	userService  *services.UserService
	statsService *services.StatsService
	blobService  *services.BlobService
	cfg          *config.Config
}

func NewAdminHandler(artService *services.ArtService, userService *services.UserService, statsService *services.StatsService, blobService *services.BlobService, cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		artService:   artService,
		userService:  userService,
		statsService: statsService,
		blobService:  blobService,
		cfg:          cfg,
	}
}

// ListAllArt retrieves every art piece, published or not, newest first
func (h *AdminHandler) ListAllArt(c *gin.Context) {
	pieces, err := h.artService.ListAllArtPieces(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve art pieces"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"art_pieces": artListPayload(pieces),
		"total":      len(pieces),
	})
}

// CreateArt handles art piece creation with image upload
// POST /admin/art
// Multipart form: files[] (required), title (required), prompt (required),
// negative_prompt, author, model, ratio, tags (comma-separated), is_published
func (h *AdminHandler) CreateArt(c *gin.Context) {
	maxMemory := h.cfg.UploadMaxImageSize * int64(h.cfg.UploadMaxBatchSize)
	if err := c.Request.ParseMultipartForm(maxMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse multipart form"})
		return
	}

	form := c.Request.MultipartForm
	files, ok := form.File["files[]"]
	if !ok || len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "files[] is required"})
		return
	}
	if len(files) > h.cfg.UploadMaxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many files in one batch"})
		return
	}

	title := c.PostForm("title")
	prompt := c.PostForm("prompt")
	if title == "" || prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and prompt are required"})
		return
	}

	formData := models.ArtFormData{
		Title:          title,
		Prompt:         prompt,
		NegativePrompt: c.PostForm("negative_prompt"),
		Author:         c.PostForm("author"),
		Model:          c.PostForm("model"),
		Ratio:          c.PostForm("ratio"),
		Tags:           validation.SanitizeTags(strings.Split(c.PostForm("tags"), ",")),
	}
	if v := c.PostForm("is_published"); v != "" {
		published := v == "true"
		formData.IsPublished = &published
	}

	uploads := make([]services.UploadFile, 0, len(files))
	for _, fh := range files {
		if fh.Size > h.cfg.UploadMaxImageSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large: " + fh.Filename})
			return
		}

		file, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open file: " + fh.Filename})
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file: " + fh.Filename})
			return
		}
		uploads = append(uploads, services.UploadFile{Filename: fh.Filename, Data: data})
	}

	ctx := c.Request.Context()
	imageURLs, originalURLs, err := h.blobService.UploadMultiple(ctx, uploads)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uploadedBy := c.GetString("uid")
	id, err := h.artService.CreateArtPiece(ctx, formData, imageURLs, originalURLs, uploadedBy)
	if err != nil {
		// Uploaded blobs are orphaned at this point; reclaim what we can.
		h.blobService.DeleteMultiple(ctx, imageURLs)
		h.blobService.DeleteMultiple(ctx, originalURLs)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create art piece"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":            id,
		"image_urls":    imageURLs,
		"original_urls": originalURLs,
	})
}

// UpdateArt merges the submitted fields into an existing art piece
func (h *AdminHandler) UpdateArt(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Art piece ID is required"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	art, err := h.artService.GetArtPiece(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve art piece"})
		return
	}
	if art == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Art piece not found"})
		return
	}

	if err := h.artService.UpdateArtPiece(c.Request.Context(), id, updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Art piece updated"})
}

// DeleteArt removes an art piece and its stored images. Blob deletion is
// best effort and runs first; a blob that fails to delete is orphaned
// rather than blocking the document delete.
func (h *AdminHandler) DeleteArt(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Art piece ID is required"})
		return
	}

	ctx := c.Request.Context()
	art, err := h.artService.GetArtPiece(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve art piece"})
		return
	}
	if art == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Art piece not found"})
		return
	}

	h.blobService.DeleteMultiple(ctx, art.ImageURLs)
	h.blobService.DeleteMultiple(ctx, art.OriginalURLs)

	if err := h.artService.DeleteArtPiece(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete art piece"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Art piece deleted"})
}

// ListUsers retrieves all registered users, newest first
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	userList := make([]gin.H, len(users))
	for i, user := range users {
		userList[i] = gin.H{
			"uid":           user.UID,
			"email":         user.Email,
			"display_name":  user.DisplayName,
			"photo_url":     user.PhotoURL,
			"role":          user.Role,
			"is_active":     user.IsActive,
			"created_at":    user.CreatedAt,
			"last_login_at": user.LastLoginAt,
			"liked_count":   len(user.LikedArts),
			"view_count":    len(user.ViewedArts),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"users": userList,
		"total": len(users),
	})
}

// UpdateUserRole changes a user's role
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	uid := c.Param("uid")

	var req struct {
		Role models.UserRole `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.UpdateUserRole(c.Request.Context(), uid, req.Role); err != nil {
		if errors.Is(err, services.ErrInvalidRole) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

// UpdateUserActive enables or disables a user account
func (h *AdminHandler) UpdateUserActive(c *gin.Context) {
	uid := c.Param("uid")

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.UpdateUserActive(c.Request.Context(), uid, *req.IsActive); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

// InitStats creates the stats summary document if it does not exist yet
func (h *AdminHandler) InitStats(c *gin.Context) {
	if err := h.statsService.InitializeStats(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stats initialized"})
}
