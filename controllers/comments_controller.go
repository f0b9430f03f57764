package controllers

import (
	"encoding/json"
	"html"
	"io/ioutil"
	"log"
	"net/http"
	"strings"

	"VibeShared/models"
	httpctx "VibeShared/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateComment godoc
// @Summary      Comment on a post
// @Description  Create a comment (or threaded reply) on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Post ID"
// @Param        comment  body      object  true  "Comment body and optional parent_id"
// @Success      201  {object}  SimpleMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /posts/{id}/comments [post]
// @Security     BearerAuth
func (server *Server) CreateComment(c *gin.Context) {
	errList := map[string]string{}

	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		errList["Unauthorized"] = "Unauthorized"
		c.JSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "error": errList})
		return
	}

	post, owner, allowed, err := server.gatePostInteraction(c, requestorID)
	if err != nil {
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}
	if post == nil || !allowed {
		return
	}

	if owner.CommentPermission == models.CommentPermissionFollowers && requestorID != owner.ID {
		approved, err := models.HasApprovedFollow(server.DB, requestorID, owner.ID)
		if err != nil {
			errList["Other_error"] = "Please try again later"
			c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
			return
		}
		if !approved {
			respondVisibilityDenied(c)
			return
		}
	}

	body, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		errList["Invalid_body"] = "Unable to get request"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	requestBody := struct {
		Body     string  `json:"body"`
		ParentID *string `json:"parent_id"`
	}{}
	if err := json.Unmarshal(body, &requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	comment := models.Comment{
		UserID: requestorID,
		PostID: post.ID,
		Body:   requestBody.Body,
	}

	if requestBody.ParentID != nil && *requestBody.ParentID != "" {
		parent, err := resolveCommentByIdentifier(server.DB, *requestBody.ParentID)
		if err != nil || parent.PostID != post.ID {
			errList["Invalid_parent"] = "Parent comment not found on this post"
			c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "error": errList})
			return
		}
		comment.ParentID = &parent.ID
	}

	comment.Prepare()
	errorMessages := comment.Validate("")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	err = server.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := comment.SaveComment(tx); err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}

	if err := models.NotifyUser(server.DB, owner.ID, requestorID, models.NotificationTypeComment, &post.ID, &comment.ID); err != nil {
		log.Printf("comment notification: %v", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": commentToDTO(server.DB, comment),
	})
}

// GetComments godoc
// @Summary      List comments on a post
// @Description  List comments (threaded replies included) on a post
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id}/comments [get]
func (server *Server) GetComments(c *gin.Context) {
	post, err := resolvePostByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	owner := models.User{}
	ownerRef, err := owner.FindUserByID(server.DB, post.AuthorID)
	if err != nil {
		respondEmptyList(c)
		return
	}

	viewerID, hasViewer := optionalViewerID(c)
	allowed, err := canViewOwnerContent(server.DB, viewerID, hasViewer, ownerRef, httpctx.IsAdminRequest(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking visibility"})
		return
	}
	if !allowed {
		respondEmptyList(c)
		return
	}

	comment := models.Comment{}
	comments, err := comment.GetComments(server.DB, post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching comments"})
		return
	}

	payload := make([]CommentDTO, 0, len(*comments))
	for _, item := range *comments {
		payload = append(payload, commentToDTO(server.DB, item))
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": payload})
}

// UpdateComment godoc
// @Summary      Update a comment
// @Description  Edit a comment's body; only the comment author may edit
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /comments/{id} [put]
// @Security     BearerAuth
func (server *Server) UpdateComment(c *gin.Context) {
	errList := map[string]string{}

	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		errList["Unauthorized"] = "Unauthorized"
		c.JSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "error": errList})
		return
	}

	comment, err := resolveCommentByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		errList["No_comment"] = "Comment not found"
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "error": errList})
		return
	}

	if comment.UserID != requestorID {
		errList["Unauthorized"] = "You are not allowed to edit this comment"
		c.JSON(http.StatusForbidden, gin.H{"status": http.StatusForbidden, "error": errList})
		return
	}

	body, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		errList["Invalid_body"] = "Unable to get request"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	requestBody := struct {
		Body string `json:"body"`
	}{}
	if err := json.Unmarshal(body, &requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	comment.Body = html.EscapeString(strings.TrimSpace(requestBody.Body))
	errorMessages := comment.Validate("")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	commentUpdated, err := comment.UpdateAComment(server.DB)
	if err != nil {
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": commentToDTO(server.DB, *commentUpdated),
	})
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Description  Delete a comment; the author, the post owner, or an admin may delete
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /comments/{id} [delete]
// @Security     BearerAuth
func (server *Server) DeleteComment(c *gin.Context) {
	errList := map[string]string{}

	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		errList["Unauthorized"] = "Unauthorized"
		c.JSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "error": errList})
		return
	}

	comment, err := resolveCommentByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		errList["No_comment"] = "Comment not found"
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "error": errList})
		return
	}

	post := models.Post{}
	postRef, err := post.FindPostByID(server.DB, comment.PostID)
	if err != nil {
		errList["No_post"] = "Post not found"
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "error": errList})
		return
	}

	isAuthor := comment.UserID == requestorID
	isPostOwner := postRef.AuthorID == requestorID
	if !isAuthor && !isPostOwner && !httpctx.IsAdminRequest(c) {
		errList["Unauthorized"] = "You are not allowed to delete this comment"
		c.JSON(http.StatusForbidden, gin.H{"status": http.StatusForbidden, "error": errList})
		return
	}

	err = server.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := comment.DeleteAComment(tx); err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("CASE WHEN comments_count > 0 THEN comments_count - 1 ELSE 0 END")).Error
	})
	if err != nil {
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "Comment deleted"})
}
