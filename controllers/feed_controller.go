package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"VibeShared/cache"
	"VibeShared/models"
	httpctx "VibeShared/utils/httpctx"

	"github.com/gin-gonic/gin"
)

const feedCacheTTL = 30 * time.Second

type feedCursor struct {
	CreatedAt time.Time
	ID        uint
}

func parseFeedCursor(value string) (*feedCursor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor")
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return nil, err
	}
	return &feedCursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: uint(id)}, nil
}

type feedPage struct {
	Posts      []PostDTO `json:"posts"`
	NextCursor *string   `json:"next_cursor"`
}

// GetFeed godoc
// @Summary      Get the home feed
// @Description  Recent posts from the viewer and approved follows, newest first (cursor-based pagination)
// @Tags         feed
// @Produce      json
// @Param        limit   query  int     false  "Max results (default 20, max 100)"
// @Param        cursor  query  string  false  "Pagination cursor"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /feed [get]
// @Security     BearerAuth
func (server *Server) GetFeed(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit := parseLimit(c.DefaultQuery("limit", "20"))
	cursor, err := parseFeedCursor(c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
		return
	}

	cacheKey := fmt.Sprintf("feed:%d:%s:%d", requestorID, c.Query("cursor"), limit)
	if cached, err := cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
		var page feedPage
		if json.Unmarshal([]byte(cached), &page) == nil {
			c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": page})
			return
		}
	}

	query := server.DB.
		Preload("Author").
		Joins("JOIN users ON users.id = posts.author_id").
		Where(
			"posts.author_id = ? OR posts.author_id IN (SELECT followed_id FROM follows WHERE follower_id = ? AND status = ?)",
			requestorID, requestorID, models.FollowStatusApproved,
		).
		Where("users.status = ?", models.UserStatusActive).
		Where("posts.author_id NOT IN (SELECT blocked_id FROM blocks WHERE blocker_id = ?)", requestorID).
		Where("posts.author_id NOT IN (SELECT blocker_id FROM blocks WHERE blocked_id = ?)", requestorID)

	if cursor != nil {
		query = query.Where(
			"(posts.created_at < ?) OR (posts.created_at = ? AND posts.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var posts []models.Post
	if err := query.Order("posts.created_at DESC, posts.id DESC").
		Limit(limit + 1).
		Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching feed"})
		return
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}

	page := feedPage{Posts: make([]PostDTO, 0, len(posts))}
	for i := range posts {
		page.Posts = append(page.Posts, postToDTO(&posts[i]))
	}
	if hasMore {
		last := posts[len(posts)-1]
		next := fmt.Sprintf("%d:%d", last.CreatedAt.UnixNano(), last.ID)
		page.NextCursor = &next
	}

	if raw, err := json.Marshal(page); err == nil {
		_ = cache.Set(context.Background(), cacheKey, raw, feedCacheTTL)
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": page})
}
