package controllers

// Request and response shapes referenced by the swagger annotations on the
// handlers. These exist for documentation only; the handlers build their
// payloads from the DTO types directly.

type ErrorResponse struct {
	Error interface{} `json:"error"`
}

type SimpleMessageResponse struct {
	Status   int         `json:"status"`
	Response interface{} `json:"response"`
}

type UserCreateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserUpdateRequest struct {
	Email           string `json:"email,omitempty"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
	Bio             string `json:"bio,omitempty"`
}

type SettingsUpdateRequest struct {
	IsPrivate         *bool   `json:"is_private,omitempty"`
	CommentPermission *string `json:"comment_permission,omitempty"`
	NotifyLikes       *bool   `json:"notify_likes,omitempty"`
	NotifyComments    *bool   `json:"notify_comments,omitempty"`
	NotifyFollows     *bool   `json:"notify_follows,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	ID         string `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	IsAdmin    bool   `json:"is_admin"`
	AvatarPath string `json:"avatar_path"`
	IsPrivate  bool   `json:"is_private"`
}

type LoginResponseEnvelope struct {
	Status   int           `json:"status"`
	Response LoginResponse `json:"response"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	NewPassword    string `json:"new_password"`
	RetypePassword string `json:"retype_password"`
	Token          string `json:"token"`
}

type CommentCreateRequest struct {
	Body     string  `json:"body"`
	ParentID *string `json:"parent_id,omitempty"`
}

type CommentUpdateRequest struct {
	Body string `json:"body"`
}

type PostUpdateRequest struct {
	Caption string `json:"caption"`
}

type TipCreateRequest struct {
	RecipientID string `json:"recipient_id"`
	PostID      string `json:"post_id,omitempty"`
	AmountCents int64  `json:"amount_cents"`
}

type WithdrawalCreateRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

type WalletCreditRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

type RelationshipResponse struct {
	Following  bool `json:"following"`
	FollowedBy bool `json:"followed_by"`
	Mutual     bool `json:"mutual"`
	Blocked    bool `json:"blocked"`
}

type FollowListPayload struct {
	Users      []FollowUserDTO `json:"users"`
	NextCursor *string         `json:"next_cursor,omitempty"`
}

type FollowListResponse struct {
	Status   int               `json:"status"`
	Response FollowListPayload `json:"response"`
}

type FeedResponse struct {
	Status   int `json:"status"`
	Response struct {
		Posts      []PostDTO `json:"posts"`
		NextCursor *string   `json:"next_cursor"`
	} `json:"response"`
}
