package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/promptart/backend/internal/config"
	"github.com/promptart/backend/internal/models"
	"github.com/promptart/backend/internal/services"
)

type PublicHandler struct {
	artService   *services.ArtService
	statsService *services.StatsService
	cfg          *config.Config
}

func NewPublicHandler(artService *services.ArtService, statsService *services.StatsService, cfg *config.Config) *PublicHandler {
	return &PublicHandler{
		artService:   artService,
		statsService: statsService,
		cfg:          cfg,
	}
}

func artPayload(art *models.ArtPiece) gin.H {
	return gin.H{
		"id":              art.ID,
		"title":           art.Title,
		"image_urls":      art.ImageURLs,
		"original_urls":   art.OriginalURLs,
		"prompt":          art.Prompt,
		"negative_prompt": art.NegativePrompt,
		"author":          art.Author,
		"date":            art.Date,
		"model":           art.Model,
		"ratio":           art.Ratio,
		"tags":            art.Tags,
		"likes":           art.LikeCount(),
		"views":           art.ViewCount(),
		"is_published":    art.Published(),
		"created_at":      art.CreatedAt,
		"updated_at":      art.UpdatedAt,
	}
}

func artListPayload(pieces []*models.ArtPiece) []gin.H {
	list := make([]gin.H, len(pieces))
	for i, art := range pieces {
		list[i] = artPayload(art)
	}
	return list
}

// ListArt retrieves one page of published art pieces, newest first.
// Clients key "has more" off a non-empty next_cursor, not the item count:
// unpublished pieces are dropped after the page is fetched, so a short
// page can still have more data behind it.
func (h *PublicHandler) ListArt(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.cfg.DefaultPageSize)))
	if limit <= 0 {
		limit = h.cfg.DefaultPageSize
	}
	if limit > h.cfg.MaxPageSize {
		limit = h.cfg.MaxPageSize
	}
	cursor := c.Query("cursor")

	pieces, nextCursor, err := h.artService.ListArtPieces(c.Request.Context(), limit, cursor, true)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCursor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve art pieces"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"art_pieces":  artListPayload(pieces),
		"next_cursor": nextCursor,
		"has_more":    nextCursor != "",
	})
}

// GetArt retrieves a single published art piece by id
func (h *PublicHandler) GetArt(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Art piece ID is required"})
		return
	}

	art, err := h.artService.GetArtPiece(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve art piece"})
		return
	}
	if art == nil || !art.Published() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Art piece not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"art_piece": artPayload(art)})
}

// GetStats returns the aggregate gallery counters
func (h *PublicHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}
	if stats == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stats not initialized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_art_pieces": stats.TotalArtPieces,
		"total_users":      stats.TotalUsers,
		"total_likes":      stats.TotalLikes,
		"total_views":      stats.TotalViews,
		"last_updated":     stats.LastUpdated,
	})
}
