package controllers

import (
	"errors"
	"log"
	"net/http"

	"VibeShared/models"
	httpctx "VibeShared/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// GetWallet godoc
// @Summary      Get wallet balance
// @Description  Get the authenticated user's wallet, creating it on first access
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /wallet [get]
// @Security     BearerAuth
func (server *Server) GetWallet(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	wallet, err := models.GetOrCreateWallet(server.DB, requestorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": WalletDTO{
			BalanceCents: wallet.BalanceCents,
			UpdatedAt:    wallet.UpdatedAt,
		},
	})
}

// SendTip godoc
// @Summary      Tip a creator
// @Description  Transfer funds from the authenticated user's wallet to another user
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Success      201  {object}  SimpleMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /tips [post]
// @Security     BearerAuth
func (server *Server) SendTip(c *gin.Context) {
	errList := map[string]string{}

	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		errList["Unauthorized"] = "Unauthorized"
		c.JSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "error": errList})
		return
	}

	requestBody := struct {
		RecipientID string `json:"recipient_id"`
		PostID      string `json:"post_id"`
		AmountCents int64  `json:"amount_cents"`
	}{}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	recipient, err := resolveUserByIdentifier(server.DB, requestBody.RecipientID)
	if err != nil || !recipient.IsActive() {
		errList["No_user"] = "User not found"
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "error": errList})
		return
	}

	if rejected, err := rejectIfBlocked(c, server.DB, requestorID, recipient.ID); err != nil {
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	} else if rejected {
		return
	}

	allowed, err := canViewOwnerContent(server.DB, requestorID, true, recipient, httpctx.IsAdminRequest(c))
	if err != nil {
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}
	if !allowed {
		respondVisibilityDenied(c)
		return
	}

	tip := models.Tip{
		SenderID:    requestorID,
		RecipientID: recipient.ID,
		AmountCents: requestBody.AmountCents,
	}
	if requestBody.PostID != "" {
		post, err := resolvePostByIdentifier(server.DB, requestBody.PostID)
		if err != nil || post.AuthorID != recipient.ID {
			errList["Invalid_post"] = "Post not found for this user"
			c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "error": errList})
			return
		}
		tip.PostID = &post.ID
	}

	errorMessages := tip.Validate()
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	tipCreated, err := tip.SaveTip(server.DB)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientFunds) {
			errList["Insufficient_funds"] = "Insufficient wallet balance"
			c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
			return
		}
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}

	if err := models.NotifyUser(server.DB, recipient.ID, requestorID, models.NotificationTypeTip, tip.PostID, nil); err != nil {
		log.Printf("tip notification: %v", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": tipToDTO(server.DB, *tipCreated),
	})
}

// GetReceivedTips godoc
// @Summary      List received tips
// @Description  List tips received by the authenticated user
// @Tags         wallet
// @Produce      json
// @Param        limit  query  int  false  "Max results (default 20, max 100)"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /tips/received [get]
// @Security     BearerAuth
func (server *Server) GetReceivedTips(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit := parseLimit(c.DefaultQuery("limit", "20"))
	tip := models.Tip{}
	tips, err := tip.FindReceivedTips(server.DB, requestorID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching tips"})
		return
	}

	payload := make([]TipDTO, 0, len(*tips))
	for _, item := range *tips {
		payload = append(payload, tipToDTO(server.DB, item))
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": payload})
}

// RequestWithdrawal godoc
// @Summary      Request a withdrawal
// @Description  Request a payout; the amount is held from the wallet until an admin resolves it
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Success      201  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /wallet/withdrawals [post]
// @Security     BearerAuth
func (server *Server) RequestWithdrawal(c *gin.Context) {
	errList := map[string]string{}

	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		errList["Unauthorized"] = "Unauthorized"
		c.JSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "error": errList})
		return
	}

	requestBody := struct {
		AmountCents int64 `json:"amount_cents"`
	}{}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	withdrawal := models.Withdrawal{
		UserID:      requestorID,
		AmountCents: requestBody.AmountCents,
	}
	errorMessages := withdrawal.Validate()
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	withdrawalCreated, err := withdrawal.SaveWithdrawal(server.DB)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientFunds) {
			errList["Insufficient_funds"] = "Insufficient wallet balance"
			c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
			return
		}
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": withdrawalToDTO(server.DB, *withdrawalCreated),
	})
}

// GetWithdrawals godoc
// @Summary      List own withdrawals
// @Description  List the authenticated user's withdrawal requests, newest first
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /wallet/withdrawals [get]
// @Security     BearerAuth
func (server *Server) GetWithdrawals(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	withdrawal := models.Withdrawal{}
	withdrawals, err := withdrawal.FindUserWithdrawals(server.DB, requestorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching withdrawals"})
		return
	}

	payload := make([]WithdrawalDTO, 0, len(*withdrawals))
	for _, item := range *withdrawals {
		payload = append(payload, withdrawalToDTO(server.DB, item))
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": payload})
}

// GetPendingWithdrawals godoc
// @Summary      List pending withdrawals (admin)
// @Description  List all withdrawal requests awaiting review, oldest first
// @Tags         admin
// @Produce      json
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /admin/withdrawals [get]
// @Security     BearerAuth
func (server *Server) GetPendingWithdrawals(c *gin.Context) {
	withdrawal := models.Withdrawal{}
	withdrawals, err := withdrawal.FindPendingWithdrawals(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching withdrawals"})
		return
	}

	payload := make([]WithdrawalDTO, 0, len(*withdrawals))
	for _, item := range *withdrawals {
		payload = append(payload, withdrawalToDTO(server.DB, item))
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": payload})
}

// ApproveWithdrawal godoc
// @Summary      Approve a withdrawal (admin)
// @Description  Approve a pending withdrawal; the held amount leaves the system
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Withdrawal ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /admin/withdrawals/{id}/approve [post]
// @Security     BearerAuth
func (server *Server) ApproveWithdrawal(c *gin.Context) {
	server.resolveWithdrawal(c, true)
}

// RejectWithdrawal godoc
// @Summary      Reject a withdrawal (admin)
// @Description  Reject a pending withdrawal; the held amount returns to the wallet
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Withdrawal ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /admin/withdrawals/{id}/reject [post]
// @Security     BearerAuth
func (server *Server) RejectWithdrawal(c *gin.Context) {
	server.resolveWithdrawal(c, false)
}

func (server *Server) resolveWithdrawal(c *gin.Context, approve bool) {
	reviewerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	withdrawal, err := resolveWithdrawalByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Withdrawal not found"})
		return
	}

	if err := withdrawal.Resolve(server.DB, reviewerID, approve); err != nil {
		if errors.Is(err, models.ErrWithdrawalResolved) {
			c.JSON(http.StatusConflict, gin.H{"status": http.StatusConflict, "error": "Withdrawal already resolved"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating withdrawal"})
		return
	}

	message := "Withdrawal approved"
	if !approve {
		message = "Withdrawal rejected"
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": message})
}

// CreditUserWallet godoc
// @Summary      Credit a wallet (admin)
// @Description  Top up a user's wallet balance
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /admin/users/{id}/wallet/credit [post]
// @Security     BearerAuth
func (server *Server) CreditUserWallet(c *gin.Context) {
	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	requestBody := struct {
		AmountCents int64 `json:"amount_cents"`
	}{}
	if err := c.ShouldBindJSON(&requestBody); err != nil || requestBody.AmountCents <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "A positive amount_cents is required"})
		return
	}

	if err := models.CreditWallet(server.DB, target.ID, requestBody.AmountCents); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error crediting wallet"})
		return
	}

	wallet, err := models.GetOrCreateWallet(server.DB, target.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching wallet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": WalletDTO{
			BalanceCents: wallet.BalanceCents,
			UpdatedAt:    wallet.UpdatedAt,
		},
	})
}
