package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"VibeShared/mailer"
	"VibeShared/models"

	"github.com/gin-gonic/gin"
	"github.com/twinj/uuid"
)

// ForgotPassword godoc
// @Summary      Request a password reset
// @Description  Email a reset token to the account's address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  SimpleMessageResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /password/forgot [post]
func (server *Server) ForgotPassword(c *gin.Context) {
	errList := map[string]string{}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		errList["Invalid_body"] = "Unable to get request"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	requestBody := struct {
		Email string `json:"email"`
	}{}
	if err := json.Unmarshal(body, &requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	user := models.User{Email: requestBody.Email}
	user.Prepare()
	errorMessages := user.Validate("forgotpassword")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	err = server.DB.Model(models.User{}).Where("email = ?", user.Email).Take(&user).Error
	if err != nil {
		errList["No_email"] = "Sorry, we do not recognize this email"
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "error": errList})
		return
	}

	resetPassword := models.ResetPassword{
		Email: user.Email,
		Token: uuid.NewV4().String(),
	}
	resetPassword.Prepare()
	resetDetails, err := resetPassword.SaveDetails(server.DB)
	if err != nil {
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}

	if _, err := mailer.SendResetPassword(user.Email, resetDetails.Token); err != nil {
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Success, please click on the link provided in your email",
	})
}

// ResetPassword godoc
// @Summary      Reset a password
// @Description  Set a new password using an emailed reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  SimpleMessageResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /password/reset [post]
func (server *Server) ResetPassword(c *gin.Context) {
	errList := map[string]string{}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		errList["Invalid_body"] = "Unable to get request"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	requestBody := struct {
		Token          string `json:"token"`
		NewPassword    string `json:"new_password"`
		RetypePassword string `json:"retype_password"`
	}{}
	if err := json.Unmarshal(body, &requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	if requestBody.NewPassword == "" || len(requestBody.NewPassword) < 6 {
		errList["Invalid_password"] = "Password should be at least 6 characters"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}
	if requestBody.NewPassword != requestBody.RetypePassword {
		errList["Password_unequal"] = "Passwords provided do not match"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	resetPassword := models.ResetPassword{}
	err = server.DB.Model(models.ResetPassword{}).Where("token = ?", requestBody.Token).Take(&resetPassword).Error
	if err != nil {
		errList["Invalid_token"] = "Invalid link. Try requesting again"
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "error": errList})
		return
	}
	if time.Now().After(resetPassword.ExpiresAt) {
		_, _ = resetPassword.DeleteDetails(server.DB)
		errList["Expired_token"] = "This link has expired. Try requesting again"
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "error": errList})
		return
	}

	user := models.User{
		Email:    resetPassword.Email,
		Password: requestBody.NewPassword,
	}
	if err := user.UpdatePassword(server.DB); err != nil {
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}

	_, _ = resetPassword.DeleteDetails(server.DB)

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Success, please login with your new password",
	})
}
