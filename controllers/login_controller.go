package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"VibeShared/auth"
	"VibeShared/models"
	"VibeShared/security"
	"VibeShared/utils/formaterror"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Login godoc
// @Summary      Log in
// @Description  Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  SimpleMessageResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /login [post]
func (server *Server) Login(c *gin.Context) {
	errList := map[string]string{}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Unable to get request",
		})
		return
	}
	user := models.User{}
	err = json.Unmarshal(body, &user)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot unmarshal body",
		})
		return
	}
	user.Prepare()
	errorMessages := user.Validate("login")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	userData, err := server.SignIn(user.Email, user.Password)
	if err != nil {
		if err == errAccountSuspended {
			errList["Suspended"] = "This account has been suspended"
			c.JSON(http.StatusForbidden, gin.H{
				"status": http.StatusForbidden,
				"error":  errList,
			})
			return
		}
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  formattedError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userData,
	})
}

var errAccountSuspended = errors.New("account suspended")

func (server *Server) SignIn(email, password string) (map[string]interface{}, error) {
	userData := make(map[string]interface{})

	user := models.User{}
	normalizedEmail := strings.ToLower(email)
	err := server.DB.Model(models.User{}).Where("lower(email) = ?", normalizedEmail).Take(&user).Error
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, errAccountSuspended
	}
	err = security.VerifyPassword(user.Password, password)
	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return nil, err
	}
	token, err := auth.CreateToken(user.ID)
	if err != nil {
		return nil, err
	}
	userData["token"] = token
	userData["id"] = user.PublicID
	userData["email"] = user.Email
	userData["avatar_path"] = user.AvatarPath
	userData["username"] = user.Username
	userData["is_admin"] = user.IsAdmin
	userData["is_private"] = user.IsPrivate

	return userData, nil
}
