package controllers

import (
	"VibeShared/models"

	"gorm.io/gorm"
)

func userToDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:                user.PublicID,
		Username:          user.Username,
		Email:             user.Email,
		AvatarPath:        user.AvatarPath,
		Bio:               user.Bio,
		IsAdmin:           user.IsAdmin,
		IsPrivate:         user.IsPrivate,
		CommentPermission: user.CommentPermission,
		FollowersCount:    int(user.FollowersCount),
		FollowingCount:    int(user.FollowingCount),
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}

func userToSummaryDTO(user *models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:         user.PublicID,
		Username:   user.Username,
		AvatarPath: user.AvatarPath,
	}
}

func resolveUserPublicID(db *gorm.DB, user *models.User, userID uint) string {
	if user != nil && user.PublicID != "" {
		return user.PublicID
	}
	if db == nil || userID == 0 {
		return ""
	}
	var record struct {
		PublicID string
	}
	if err := db.Model(&models.User{}).Select("public_id").Where("id = ?", userID).Take(&record).Error; err != nil {
		return ""
	}
	return record.PublicID
}

func resolvePostPublicID(db *gorm.DB, postID *uint) *string {
	if db == nil || postID == nil || *postID == 0 {
		return nil
	}
	var record struct {
		PublicID string
	}
	if err := db.Model(&models.Post{}).Select("public_id").Where("id = ?", *postID).Take(&record).Error; err != nil {
		return nil
	}
	if record.PublicID == "" {
		return nil
	}
	return &record.PublicID
}

func resolveCommentPublicID(db *gorm.DB, commentID *uint) *string {
	if db == nil || commentID == nil || *commentID == 0 {
		return nil
	}
	var record struct {
		PublicID string
	}
	if err := db.Model(&models.Comment{}).Select("public_id").Where("id = ?", *commentID).Take(&record).Error; err != nil {
		return nil
	}
	if record.PublicID == "" {
		return nil
	}
	return &record.PublicID
}

func postToDTO(post *models.Post) PostDTO {
	return PostDTO{
		ID:            post.PublicID,
		Caption:       post.Caption,
		MediaPath:     post.MediaPath,
		AuthorID:      post.Author.PublicID,
		Author:        userToSummaryDTO(&post.Author),
		LikesCount:    post.LikesCount,
		CommentsCount: post.CommentsCount,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
}

func commentToDTO(db *gorm.DB, comment models.Comment) CommentDTO {
	userPublicID := resolveUserPublicID(db, &comment.Author, comment.UserID)
	return CommentDTO{
		ID:        comment.PublicID,
		UserID:    userPublicID,
		Username:  comment.Author.Username,
		ParentID:  resolveCommentPublicID(db, comment.ParentID),
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

func likeToDTO(db *gorm.DB, like models.Like, postPublicID string) LikeDTO {
	return LikeDTO{
		ID:        like.PublicID,
		UserID:    resolveUserPublicID(db, &like.User, like.UserID),
		Username:  like.User.Username,
		PostID:    postPublicID,
		CreatedAt: like.CreatedAt,
	}
}

func notificationToDTO(db *gorm.DB, notification models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        notification.PublicID,
		Type:      notification.Type,
		Actor:     userToSummaryDTO(&notification.Actor),
		PostID:    resolvePostPublicID(db, notification.PostID),
		Read:      notification.ReadAt != nil,
		CreatedAt: notification.CreatedAt,
	}
}

func tipToDTO(db *gorm.DB, tip models.Tip) TipDTO {
	return TipDTO{
		ID:          tip.PublicID,
		SenderID:    resolveUserPublicID(db, nil, tip.SenderID),
		RecipientID: resolveUserPublicID(db, nil, tip.RecipientID),
		PostID:      resolvePostPublicID(db, tip.PostID),
		AmountCents: tip.AmountCents,
		CreatedAt:   tip.CreatedAt,
	}
}

func withdrawalToDTO(db *gorm.DB, withdrawal models.Withdrawal) WithdrawalDTO {
	return WithdrawalDTO{
		ID:          withdrawal.PublicID,
		UserID:      resolveUserPublicID(db, &withdrawal.User, withdrawal.UserID),
		Username:    withdrawal.User.Username,
		AmountCents: withdrawal.AmountCents,
		Status:      withdrawal.Status,
		ReviewedAt:  withdrawal.ReviewedAt,
		CreatedAt:   withdrawal.CreatedAt,
	}
}
