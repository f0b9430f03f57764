package controllers

import (
	"net/http"

	"VibeShared/middlewares"

	"github.com/gin-gonic/gin"
)

func (s *Server) initializeRoutes() {

	s.Router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "VibeShared API"})
	})

	v1 := s.Router.Group("/api/v1")
	{
		// Auth routes
		v1.POST("/login", s.Login)
		v1.POST("/password/forgot", s.ForgotPassword)
		v1.POST("/password/reset", s.ResetPassword)

		// Users routes
		v1.POST("/users", s.CreateUser)
		v1.GET("/users", s.GetUsers)
		v1.GET("/users/:id", middlewares.OptionalTokenMiddleware(s.DB), s.GetUser)
		v1.PUT("/users/settings", middlewares.TokenAuthMiddleware(s.DB), s.UpdateSettings)
		v1.PUT("/users/:id", middlewares.TokenAuthMiddleware(s.DB), s.UpdateUser)
		v1.PUT("/users/:id/avatar", middlewares.TokenAuthMiddleware(s.DB), s.UpdateAvatar)
		v1.DELETE("/users/:id", middlewares.TokenAuthMiddleware(s.DB), s.DeleteUser)

		// Follow routes
		v1.POST("/users/:id/follow", middlewares.TokenAuthMiddleware(s.DB), s.FollowUser)
		v1.DELETE("/users/:id/follow", middlewares.TokenAuthMiddleware(s.DB), s.UnfollowUser)
		v1.GET("/users/:id/followers", middlewares.OptionalTokenMiddleware(s.DB), s.GetFollowers)
		v1.GET("/users/:id/following", middlewares.OptionalTokenMiddleware(s.DB), s.GetFollowing)
		v1.GET("/users/:id/relationship", middlewares.TokenAuthMiddleware(s.DB), s.GetRelationship)
		v1.GET("/follow-requests", middlewares.TokenAuthMiddleware(s.DB), s.GetFollowRequests)
		v1.POST("/follow-requests/:id/accept", middlewares.TokenAuthMiddleware(s.DB), s.AcceptFollowRequest)
		v1.POST("/follow-requests/:id/reject", middlewares.TokenAuthMiddleware(s.DB), s.RejectFollowRequest)

		// Block routes
		v1.POST("/users/:id/block", middlewares.TokenAuthMiddleware(s.DB), s.BlockUser)
		v1.DELETE("/users/:id/block", middlewares.TokenAuthMiddleware(s.DB), s.UnblockUser)
		v1.GET("/blocks", middlewares.TokenAuthMiddleware(s.DB), s.GetBlockedUsers)

		// Post routes
		v1.POST("/posts", middlewares.TokenAuthMiddleware(s.DB), s.CreatePost)
		v1.GET("/posts/:id", middlewares.OptionalTokenMiddleware(s.DB), s.GetPost)
		v1.PUT("/posts/:id", middlewares.TokenAuthMiddleware(s.DB), s.UpdatePost)
		v1.DELETE("/posts/:id", middlewares.TokenAuthMiddleware(s.DB), s.DeletePost)
		v1.GET("/users/:id/posts", middlewares.OptionalTokenMiddleware(s.DB), s.GetUserPosts)

		// Like routes
		v1.POST("/posts/:id/like", middlewares.TokenAuthMiddleware(s.DB), s.LikePost)
		v1.DELETE("/posts/:id/like", middlewares.TokenAuthMiddleware(s.DB), s.UnlikePost)
		v1.GET("/posts/:id/likes", middlewares.OptionalTokenMiddleware(s.DB), s.GetPostLikes)

		// Comment routes
		v1.POST("/posts/:id/comments", middlewares.TokenAuthMiddleware(s.DB), s.CreateComment)
		v1.GET("/posts/:id/comments", middlewares.OptionalTokenMiddleware(s.DB), s.GetComments)
		v1.PUT("/comments/:id", middlewares.TokenAuthMiddleware(s.DB), s.UpdateComment)
		v1.DELETE("/comments/:id", middlewares.TokenAuthMiddleware(s.DB), s.DeleteComment)

		// Feed
		v1.GET("/feed", middlewares.TokenAuthMiddleware(s.DB), s.GetFeed)

		// Notification routes
		v1.GET("/notifications", middlewares.TokenAuthMiddleware(s.DB), s.GetNotifications)
		v1.POST("/notifications/:id/read", middlewares.TokenAuthMiddleware(s.DB), s.MarkNotificationRead)
		v1.POST("/notifications/read-all", middlewares.TokenAuthMiddleware(s.DB), s.MarkAllNotificationsRead)

		// Wallet routes
		v1.GET("/wallet", middlewares.TokenAuthMiddleware(s.DB), s.GetWallet)
		v1.POST("/tips", middlewares.TokenAuthMiddleware(s.DB), s.SendTip)
		v1.GET("/tips/received", middlewares.TokenAuthMiddleware(s.DB), s.GetReceivedTips)
		v1.POST("/wallet/withdrawals", middlewares.TokenAuthMiddleware(s.DB), s.RequestWithdrawal)
		v1.GET("/wallet/withdrawals", middlewares.TokenAuthMiddleware(s.DB), s.GetWithdrawals)

		// Admin routes
		admin := v1.Group("/admin", middlewares.TokenAuthMiddleware(s.DB), middlewares.AdminOnlyMiddleware())
		{
			admin.GET("/withdrawals", s.GetPendingWithdrawals)
			admin.POST("/withdrawals/:id/approve", s.ApproveWithdrawal)
			admin.POST("/withdrawals/:id/reject", s.RejectWithdrawal)
			admin.POST("/users/:id/wallet/credit", s.CreditUserWallet)
			admin.POST("/users/:id/suspend", s.SuspendUser)
			admin.POST("/users/:id/reactivate", s.ReactivateUser)
		}
	}
}
