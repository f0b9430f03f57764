package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"VibeShared/models"
	httpctx "VibeShared/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowUser godoc
// @Summary      Follow a user
// @Description  Follow another user; private accounts receive a pending request
// @Tags         follows
// @Produce      json
// @Param        id   path      string  true  "User ID to follow"
// @Success      201  {object}  SimpleMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /users/{id}/follow [post]
// @Security     BearerAuth
func (server *Server) FollowUser(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil || !target.IsActive() {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	targetID := target.ID
	if requestorID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	if rejected, err := rejectIfBlocked(c, server.DB, requestorID, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error following user"})
		return
	} else if rejected {
		return
	}

	status := models.FollowStatusApproved
	if target.IsPrivate {
		status = models.FollowStatusPending
	}

	created := false
	err = server.DB.Transaction(func(tx *gorm.DB) error {
		follow := models.Follow{
			FollowerID: requestorID,
			FollowedID: targetID,
			Status:     status,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		created = true

		if status != models.FollowStatusApproved {
			return nil
		}
		if err := tx.Model(&models.User{}).
			Where("id = ?", requestorID).
			UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", targetID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error following user"})
		return
	}

	if !created {
		c.JSON(http.StatusConflict, gin.H{"status": http.StatusConflict, "error": "Follow request already exists"})
		return
	}

	notifType := models.NotificationTypeFollow
	if status == models.FollowStatusPending {
		notifType = models.NotificationTypeFollowRequest
	}
	if err := models.NotifyUser(server.DB, targetID, requestorID, notifType, nil, nil); err != nil {
		log.Printf("follow notification: %v", err)
	}

	message := "User followed successfully"
	if status == models.FollowStatusPending {
		message = "Follow request sent"
	}
	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "response": message})
}

// GetFollowRequests godoc
// @Summary      List pending follow requests
// @Description  List follow requests awaiting the authenticated user's approval
// @Tags         follows
// @Produce      json
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /follow-requests [get]
// @Security     BearerAuth
func (server *Server) GetFollowRequests(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	follow := models.Follow{}
	pending, err := follow.FindPendingRequests(server.DB, requestorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching follow requests"})
		return
	}

	requests := make([]FollowRequestDTO, 0, len(*pending))
	for _, edge := range *pending {
		var follower models.User
		if err := server.DB.Where("id = ?", edge.FollowerID).Take(&follower).Error; err != nil {
			continue
		}
		requests = append(requests, FollowRequestDTO{
			Follower:  userToSummaryDTO(&follower),
			Status:    edge.Status,
			CreatedAt: edge.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": requests})
}

// AcceptFollowRequest godoc
// @Summary      Accept a follow request
// @Description  Approve a pending follow request from another user
// @Tags         follows
// @Produce      json
// @Param        id   path      string  true  "Follower user ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /follow-requests/{id}/accept [post]
// @Security     BearerAuth
func (server *Server) AcceptFollowRequest(c *gin.Context) {
	server.resolveFollowRequest(c, true)
}

// RejectFollowRequest godoc
// @Summary      Reject a follow request
// @Description  Reject a pending follow request; the edge is deleted without notification
// @Tags         follows
// @Produce      json
// @Param        id   path      string  true  "Follower user ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /follow-requests/{id}/reject [post]
// @Security     BearerAuth
func (server *Server) RejectFollowRequest(c *gin.Context) {
	server.resolveFollowRequest(c, false)
}

// resolveFollowRequest acts on a pending edge addressed to the
// authenticated user. Only the followed party may act; a missing or
// already-resolved edge is a 404, never a silent success.
func (server *Server) resolveFollowRequest(c *gin.Context, accept bool) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	follower, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Follow request not found"})
		return
	}

	err = server.DB.Transaction(func(tx *gorm.DB) error {
		var edge models.Follow
		if err := tx.Where("follower_id = ? AND followed_id = ? AND status = ?",
			follower.ID, requestorID, models.FollowStatusPending).Take(&edge).Error; err != nil {
			return err
		}

		if !accept {
			return tx.Delete(&edge).Error
		}

		if err := tx.Model(&models.Follow{}).Where("id = ?", edge.ID).
			Update("status", models.FollowStatusApproved).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).
			Where("id = ?", follower.ID).
			UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", requestorID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Follow request not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating follow request"})
		return
	}

	// The requester's cached feed pages reflect the old edge state.
	invalidateFeedCache(follower.ID)

	if accept {
		if err := models.NotifyUser(server.DB, follower.ID, requestorID, models.NotificationTypeFollow, nil, nil); err != nil {
			log.Printf("follow accept notification: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "Follow request accepted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "Follow request rejected"})
}

// UnfollowUser godoc
// @Summary      Unfollow a user
// @Description  Delete the authenticated user's follow edge (pending or approved)
// @Tags         follows
// @Produce      json
// @Param        id   path      string  true  "User ID to unfollow"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/follow [delete]
// @Security     BearerAuth
func (server *Server) UnfollowUser(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	targetID := target.ID
	if requestorID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot unfollow yourself"})
		return
	}

	err = server.DB.Transaction(func(tx *gorm.DB) error {
		var edge models.Follow
		if err := tx.Where("follower_id = ? AND followed_id = ?", requestorID, targetID).
			Take(&edge).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Delete(&edge).Error; err != nil {
			return err
		}
		if edge.Status != models.FollowStatusApproved {
			return nil
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", requestorID).
			UpdateColumn("following_count", gorm.Expr("CASE WHEN following_count > 0 THEN following_count - 1 ELSE 0 END")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", targetID).
			UpdateColumn("followers_count", gorm.Expr("CASE WHEN followers_count > 0 THEN followers_count - 1 ELSE 0 END")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error unfollowing user"})
		return
	}

	// The unfollowed author must drop out of the follower's feed now,
	// not when the cached page expires.
	invalidateFeedCache(requestorID)

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "User unfollowed successfully"})
}

// GetFollowers godoc
// @Summary      List followers
// @Description  List approved followers for a user (cursor-based pagination)
// @Tags         follows
// @Produce      json
// @Param        id      path   string  true   "User ID"
// @Param        limit   query  int     false  "Max results (default 20, max 100)"
// @Param        cursor  query  string  false  "Pagination cursor"
// @Success      200  {object}  FollowListResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/followers [get]
func (server *Server) GetFollowers(c *gin.Context) {
	server.listFollowEdges(c, true)
}

// GetFollowing godoc
// @Summary      List following
// @Description  List users a user is following (cursor-based pagination)
// @Tags         follows
// @Produce      json
// @Param        id      path   string  true   "User ID"
// @Param        limit   query  int     false  "Max results (default 20, max 100)"
// @Param        cursor  query  string  false  "Pagination cursor"
// @Success      200  {object}  FollowListResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/following [get]
func (server *Server) GetFollowing(c *gin.Context) {
	server.listFollowEdges(c, false)
}

func (server *Server) listFollowEdges(c *gin.Context, followers bool) {
	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	viewerID, hasViewer := optionalViewerID(c)
	allowed, err := canViewOwnerContent(server.DB, viewerID, hasViewer, target, httpctx.IsAdminRequest(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking visibility"})
		return
	}
	if !allowed {
		// List endpoints degrade to an empty payload.
		c.JSON(http.StatusOK, gin.H{
			"status": http.StatusOK,
			"response": gin.H{
				"users":       []FollowUserDTO{},
				"next_cursor": nil,
			},
		})
		return
	}

	limit := parseLimit(c.DefaultQuery("limit", "20"))
	cursor, err := parseFollowCursor(c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
		return
	}

	whereClause := "follows.followed_id = ? AND follows.status = ?"
	joinClause := "users.id = follows.follower_id"
	if !followers {
		whereClause = "follows.follower_id = ? AND follows.status = ?"
		joinClause = "users.id = follows.followed_id"
	}

	rows, err := server.fetchFollowRows(
		whereClause,
		[]interface{}{target.ID, models.FollowStatusApproved},
		joinClause,
		limit,
		cursor,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching follows"})
		return
	}

	followingMap, followedByMap, err := loadViewerRelationships(server.DB, viewerID, hasViewer, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading viewer relationships"})
		return
	}
	response, nextCursor := buildFollowListResponse(rows, limit, hasViewer, followingMap, followedByMap)
	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"users":       response,
			"next_cursor": nextCursor,
		},
	})
}

// GetRelationship godoc
// @Summary      Get relationship state
// @Description  Get relationship flags between the authenticated user and a target user
// @Tags         follows
// @Produce      json
// @Param        id   path      string  true  "Target User ID"
// @Success      200  {object}  RelationshipResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/relationship [get]
// @Security     BearerAuth
func (server *Server) GetRelationship(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if requestorID == target.ID {
		c.JSON(http.StatusOK, gin.H{
			"following":   false,
			"followed_by": false,
			"mutual":      false,
			"blocked":     false,
		})
		return
	}

	var rel struct {
		Following  bool `json:"following"`
		FollowedBy bool `json:"followed_by"`
	}
	if err := server.DB.Raw(
		`SELECT
			EXISTS(SELECT 1 FROM follows WHERE follower_id = ? AND followed_id = ? AND status = ?) AS following,
			EXISTS(SELECT 1 FROM follows WHERE follower_id = ? AND followed_id = ? AND status = ?) AS followed_by`,
		requestorID, target.ID, models.FollowStatusApproved,
		target.ID, requestorID, models.FollowStatusApproved,
	).Scan(&rel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking relationship"})
		return
	}

	blocked, err := models.IsBlocked(server.DB, requestorID, target.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking relationship"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following":   rel.Following,
		"followed_by": rel.FollowedBy,
		"mutual":      rel.Following && rel.FollowedBy,
		"blocked":     blocked,
	})
}

func removeUserFollowEdges(tx *gorm.DB, userID uint) error {
	if err := tx.Exec(
		"UPDATE users SET followers_count = CASE WHEN followers_count > 0 THEN followers_count - 1 ELSE 0 END WHERE id IN (SELECT followed_id FROM follows WHERE follower_id = ? AND status = 'approved')",
		userID,
	).Error; err != nil {
		return err
	}
	if err := tx.Exec(
		"UPDATE users SET following_count = CASE WHEN following_count > 0 THEN following_count - 1 ELSE 0 END WHERE id IN (SELECT follower_id FROM follows WHERE followed_id = ? AND status = 'approved')",
		userID,
	).Error; err != nil {
		return err
	}
	return tx.Where("follower_id = ? OR followed_id = ?", userID, userID).
		Delete(&models.Follow{}).Error
}

func loadViewerRelationships(db *gorm.DB, viewerID uint, hasViewer bool, rows []followRow) (map[uint]bool, map[uint]bool, error) {
	followingMap := make(map[uint]bool)
	followedByMap := make(map[uint]bool)
	if !hasViewer || len(rows) == 0 {
		return followingMap, followedByMap, nil
	}

	ids := make([]uint, len(rows))
	for i := range rows {
		ids[i] = rows[i].User.ID
	}

	var followingIDs []uint
	if err := db.Table("follows").
		Select("followed_id").
		Where("follower_id = ? AND status = ? AND followed_id IN ?", viewerID, models.FollowStatusApproved, ids).
		Scan(&followingIDs).Error; err != nil {
		return nil, nil, err
	}
	for _, id := range followingIDs {
		followingMap[id] = true
	}

	var followedByIDs []uint
	if err := db.Table("follows").
		Select("follower_id").
		Where("followed_id = ? AND status = ? AND follower_id IN ?", viewerID, models.FollowStatusApproved, ids).
		Scan(&followedByIDs).Error; err != nil {
		return nil, nil, err
	}
	for _, id := range followedByIDs {
		followedByMap[id] = true
	}

	return followingMap, followedByMap, nil
}

type followRow struct {
	models.User
	FollowID        uint      `gorm:"column:follow_id"`
	FollowCreatedAt time.Time `gorm:"column:follow_created_at"`
}

type followCursor struct {
	CreatedAt time.Time
	ID        uint
}

func parseFollowCursor(value string) (*followCursor, error) {
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
	return &followCursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: uint(id)}, nil
}

func formatFollowCursor(row followRow) string {
	return fmt.Sprintf("%d:%d", row.FollowCreatedAt.UnixNano(), row.FollowID)
}

func parseLimit(value string) int {
	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func (server *Server) fetchFollowRows(whereClause string, whereArgs []interface{}, joinClause string, limit int, cursor *followCursor) ([]followRow, error) {
	query := server.DB.Table("follows").
		Select("follows.id as follow_id, follows.created_at as follow_created_at, users.*").
		Joins("JOIN users ON "+joinClause).
		Where(whereClause, whereArgs...)

	if cursor != nil {
		query = query.Where(
			"(follows.created_at < ?) OR (follows.created_at = ? AND follows.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []followRow
	if err := query.Order("follows.created_at DESC, follows.id DESC").
		Limit(limit + 1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func buildFollowListResponse(rows []followRow, limit int, hasViewer bool, followingMap map[uint]bool, followedByMap map[uint]bool) ([]FollowUserDTO, *string) {
	if len(rows) == 0 {
		return []FollowUserDTO{}, nil
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	users := make([]FollowUserDTO, len(rows))
	for i := range rows {
		user := rows[i].User
		_ = user.AfterFind(nil)
		payload := FollowUserDTO{
			UserDTO: userToDTO(&user),
		}
		if hasViewer {
			following := followingMap[user.ID]
			followedBy := followedByMap[user.ID]
			payload.ViewerFollowing = following
			payload.ViewerFollowedBy = followedBy
			payload.Mutual = following && followedBy
		}
		users[i] = payload
	}

	var nextCursor *string
	if hasMore {
		cursor := formatFollowCursor(rows[len(rows)-1])
		nextCursor = &cursor
	}
	return users, nextCursor
}
