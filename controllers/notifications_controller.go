package controllers

import (
	"net/http"

	"VibeShared/models"
	httpctx "VibeShared/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// GetNotifications godoc
// @Summary      List notifications
// @Description  List the authenticated user's notifications, unread first
// @Tags         notifications
// @Produce      json
// @Param        limit  query  int  false  "Max results (default 20, max 100)"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /notifications [get]
// @Security     BearerAuth
func (server *Server) GetNotifications(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit := parseLimit(c.DefaultQuery("limit", "20"))
	notification := models.Notification{}
	notifications, err := notification.FindUserNotifications(server.DB, requestorID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching notifications"})
		return
	}

	payload := make([]NotificationDTO, 0, len(*notifications))
	for _, item := range *notifications {
		payload = append(payload, notificationToDTO(server.DB, item))
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": payload})
}

// MarkNotificationRead godoc
// @Summary      Mark a notification read
// @Description  Mark one of the authenticated user's notifications as read
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id}/read [post]
// @Security     BearerAuth
func (server *Server) MarkNotificationRead(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var target models.Notification
	if err := server.DB.Where("public_id = ? AND recipient_id = ?", c.Param("id"), requestorID).
		Take(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	notification := models.Notification{}
	if _, err := notification.MarkRead(server.DB, requestorID, target.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "Notification marked as read"})
}

// MarkAllNotificationsRead godoc
// @Summary      Mark all notifications read
// @Description  Mark every unread notification of the authenticated user as read
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /notifications/read-all [post]
// @Security     BearerAuth
func (server *Server) MarkAllNotificationsRead(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	notification := models.Notification{}
	updated, err := notification.MarkAllRead(server.DB, requestorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": gin.H{"updated": updated},
	})
}
