package controllers

import "time"

type UserDTO struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	AvatarPath        string    `json:"avatar_path"`
	Bio               string    `json:"bio"`
	IsAdmin           bool      `json:"is_admin"`
	IsPrivate         bool      `json:"is_private"`
	CommentPermission string    `json:"comment_permission"`
	FollowersCount    int       `json:"followers_count"`
	FollowingCount    int       `json:"following_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type UserSummaryDTO struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	AvatarPath string `json:"avatar_path"`
}

type FollowUserDTO struct {
	UserDTO
	ViewerFollowing  bool `json:"viewer_following"`
	ViewerFollowedBy bool `json:"viewer_followed_by"`
	Mutual           bool `json:"mutual"`
}

type FollowRequestDTO struct {
	Follower  UserSummaryDTO `json:"follower"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

type PostDTO struct {
	ID            string         `json:"id"`
	Caption       string         `json:"caption"`
	MediaPath     string         `json:"media_path"`
	AuthorID      string         `json:"author_id"`
	Author        UserSummaryDTO `json:"author"`
	LikesCount    int64          `json:"likes_count"`
	CommentsCount int64          `json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type CommentDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	ParentID  *string   `json:"parent_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LikeDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationDTO struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Actor     UserSummaryDTO `json:"actor"`
	PostID    *string        `json:"post_id"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"created_at"`
}

type WalletDTO struct {
	BalanceCents int64     `json:"balance_cents"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type TipDTO struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	PostID      *string   `json:"post_id"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

type WithdrawalDTO struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Username    string     `json:"username"`
	AmountCents int64      `json:"amount_cents"`
	Status      string     `json:"status"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
