package controllers

import (
	"errors"
	"net/http"

	"VibeShared/models"
	httpctx "VibeShared/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// BlockUser godoc
// @Summary      Block a user
// @Description  Block another user; future interactions in both directions are rejected
// @Tags         blocks
// @Produce      json
// @Param        id   path      string  true  "User ID to block"
// @Success      201  {object}  SimpleMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /users/{id}/block [post]
// @Security     BearerAuth
func (server *Server) BlockUser(c *gin.Context) {
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

	block := models.Block{
		BlockerID: requestorID,
		BlockedID: target.ID,
	}
	err = block.SaveBlock(server.DB)
	if errors.Is(err, models.ErrSelfBlock) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot block yourself"})
		return
	}
	if errors.Is(err, models.ErrAlreadyBlocked) {
		c.JSON(http.StatusConflict, gin.H{"error": "User already blocked"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error blocking user"})
		return
	}

	// Either party may be holding a cached feed page that still contains
	// the other's posts; visibility changes must not wait out the TTL.
	invalidateFeedCache(requestorID)
	invalidateFeedCache(target.ID)

	// Blocking does not cascade: existing likes, comments and follow edges
	// stay in place. Only future interactions and visibility change.
	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "response": "User blocked"})
}

// UnblockUser godoc
// @Summary      Unblock a user
// @Description  Remove the authenticated user's block on another user
// @Tags         blocks
// @Produce      json
// @Param        id   path      string  true  "User ID to unblock"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/block [delete]
// @Security     BearerAuth
func (server *Server) UnblockUser(c *gin.Context) {
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

	block := models.Block{
		BlockerID: requestorID,
		BlockedID: target.ID,
	}
	// Idempotent: unblocking a user who was never blocked is still a 200.
	if _, err := block.DeleteBlock(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error unblocking user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "User unblocked"})
}

// GetBlockedUsers godoc
// @Summary      List blocked users
// @Description  List the accounts the authenticated user has blocked
// @Tags         blocks
// @Produce      json
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /blocks [get]
// @Security     BearerAuth
func (server *Server) GetBlockedUsers(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	block := models.Block{}
	blocks, err := block.FindBlockedUsers(server.DB, requestorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching blocked users"})
		return
	}

	users := make([]UserSummaryDTO, 0, len(*blocks))
	for i := range *blocks {
		users = append(users, userToSummaryDTO(&(*blocks)[i].Blocked))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": users,
	})
}
