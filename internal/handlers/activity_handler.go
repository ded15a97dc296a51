package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptart/backend/internal/services"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// ToggleLike flips the liked state for the authenticated user.
// The request carries the liked state as the client observed it, so a
// stale client toggles from what it saw, not from current server state.
func (h *ActivityHandler) ToggleLike(c *gin.Context) {
	artID := c.Param("id")
	if artID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Art piece ID is required"})
		return
	}

	var req struct {
		Liked *bool `json:"liked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := c.GetString("uid")
	if err := h.activityService.ToggleLike(c.Request.Context(), uid, artID, *req.Liked); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"art_id": artID,
		"liked":  !*req.Liked,
	})
}

// RecordView logs a first view of an art piece by the authenticated user.
// Repeat views are acknowledged without effect.
func (h *ActivityHandler) RecordView(c *gin.Context) {
	artID := c.Param("id")
	if artID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Art piece ID is required"})
		return
	}

	uid := c.GetString("uid")
	if err := h.activityService.RecordView(c.Request.Context(), uid, artID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record view"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"art_id": artID})
}

// RecordDownload logs a download by the authenticated user. Every call
// appends a record; repeat downloads are kept.
func (h *ActivityHandler) RecordDownload(c *gin.Context) {
	artID := c.Param("id")
	if artID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Art piece ID is required"})
		return
	}

	uid := c.GetString("uid")
	if err := h.activityService.RecordDownload(c.Request.Context(), uid, artID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record download"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"art_id": artID})
}

// GetActivity returns the authenticated user's liked, downloaded and
// viewed art pieces with each id resolved to its current document. Ids
// pointing at deleted art pieces are dropped from the response.
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	uid := c.GetString("uid")
	ctx := c.Request.Context()

	activity, err := h.activityService.GetUserActivity(ctx, uid)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	likedPieces, err := h.activityService.ResolveArtPiecesByIds(ctx, activity.LikedArts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	downloadedIDs := make([]string, len(activity.DownloadedArts))
	for i, r := range activity.DownloadedArts {
		downloadedIDs[i] = r.ArtID
	}
	downloadedPieces, err := h.activityService.ResolveArtPiecesByIds(ctx, downloadedIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	viewedIDs := make([]string, len(activity.ViewedArts))
	for i, r := range activity.ViewedArts {
		viewedIDs[i] = r.ArtID
	}
	viewedPieces, err := h.activityService.ResolveArtPiecesByIds(ctx, viewedIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked_arts":      artListPayload(likedPieces),
		"downloaded_arts": artListPayload(downloadedPieces),
		"viewed_arts":     artListPayload(viewedPieces),
		"downloads":       activity.DownloadedArts,
		"views":           activity.ViewedArts,
	})
}
