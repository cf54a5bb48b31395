package controllers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/team-nuri/api-go/config"
	"github.com/team-nuri/api-go/models"
	"github.com/team-nuri/api-go/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB          *gorm.DB
	KakaoConfig *config.KakaoConfig
	Mailer      *utils.Mailer
}

func NewAuthController(db *gorm.DB, mailer *utils.Mailer) *AuthController {
	return &AuthController{
		DB:          db,
		KakaoConfig: config.NewKakaoConfig(),
		Mailer:      mailer,
	}
}

func apiBaseURL() string {
	base := os.Getenv("API_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return base
}

func frontendBaseURL() string {
	base := os.Getenv("FRONTEND_BASE_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	return base
}

// issueTokens persists a fresh refresh token and returns the standard token
// pair response body.
func (ac *AuthController) issueTokens(user *models.User) (gin.H, error) {
	accessToken, refreshToken, err := utils.GenerateTokenPair(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	if err := ac.DB.Create(&models.RefreshToken{
		UserID:         user.ID,
		Token:          refreshToken,
		ExpirationDate: time.Now().Add(utils.RefreshTokenTTL),
	}).Error; err != nil {
		return nil, err
	}

	return gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          gin.H{"id": user.ID, "email": user.Email, "nickname": user.Nickname, "profileImg": user.ProfileImg},
		"success":       true,
	}, nil
}

func (ac *AuthController) SignUp(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Nickname string `json:"nickname" binding:"required,max=30"`
		Interest string `json:"interest"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if input.Interest != "" && !models.ValidInterest(input.Interest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown interest category", "success": false})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password", "success": false})
		return
	}

	hashedPasswordStr := string(hashedPassword)
	user := models.User{
		Email:    input.Email,
		Password: &hashedPasswordStr,
		Nickname: input.Nickname,
		Interest: input.Interest,
		IsActive: false,
	}

	// Account and its notification settings row are created together.
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.EmailNotificationSetting{UserID: user.ID}).Error
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists", "success": false})
		return
	}

	token, err := utils.MakeActionToken(user.ID, utils.PurposeVerifyEmail, utils.VerifyEmailTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate verification token", "success": false})
		return
	}

	verifyURL := fmt.Sprintf("%s/api/verify-email/%s/%s", apiBaseURL(), utils.EncodeUID(user.ID), token)
	ac.Mailer.Enqueue(utils.Email{
		To:      user.Email,
		Subject: "[Nuri] Verify your email address",
		Body:    "Welcome! Confirm your email address to activate your account:\n\n" + verifyURL,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration complete. Check your email to activate the account.",
		"user":    gin.H{"id": user.ID, "email": user.Email, "nickname": user.Nickname},
	})
}

func (ac *AuthController) VerifyEmail(c *gin.Context) {
	userID, err := utils.DecodeUID(c.Param("uid"))
	if err != nil {
		c.Redirect(http.StatusFound, frontendBaseURL()+"/user/verify_failed.html")
		return
	}

	tokenUserID, err := utils.CheckActionToken(c.Param("token"), utils.PurposeVerifyEmail)
	if err != nil || tokenUserID != userID {
		c.Redirect(http.StatusFound, frontendBaseURL()+"/user/verify_failed.html")
		return
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		c.Redirect(http.StatusFound, frontendBaseURL()+"/user/verify_failed.html")
		return
	}

	if err := ac.DB.Model(&user).Update("is_active", true).Error; err != nil {
		c.Redirect(http.StatusFound, frontendBaseURL()+"/user/verify_failed.html")
		return
	}

	c.Redirect(http.StatusFound, frontendBaseURL()+"/user/login.html")
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if user.Password == nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	response, err := ac.issueTokens(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	c.JSON(http.StatusOK, response)
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var refreshToken models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&refreshToken).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token", "success": false})
		return
	}

	if time.Now().After(refreshToken.ExpirationDate) {
		ac.DB.Delete(&refreshToken)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired", "success": false})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, refreshToken.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found", "success": false})
		return
	}

	accessToken, newRefreshToken, err := utils.GenerateTokenPair(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	// Rotate the stored refresh token in place.
	refreshToken.Token = newRefreshToken
	refreshToken.ExpirationDate = time.Now().Add(utils.RefreshTokenTTL)
	ac.DB.Save(&refreshToken)

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
		"user":          gin.H{"id": user.ID, "email": user.Email, "nickname": user.Nickname, "profileImg": user.ProfileImg},
		"success":       true,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	ac.DB.Where("token = ?", input.RefreshToken).Delete(&models.RefreshToken{})

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "success": true})
}

// PasswordResetRequest always answers success-shaped so the endpoint cannot
// be used to enumerate accounts.
func (ac *AuthController) PasswordResetRequest(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err == nil {
		if token, err := utils.MakeActionToken(user.ID, utils.PurposePasswordReset, utils.PasswordResetTTL); err == nil {
			resetURL := fmt.Sprintf("%s/api/password-reset-check/%s/%s", apiBaseURL(), utils.EncodeUID(user.ID), token)
			ac.Mailer.Enqueue(utils.Email{
				To:      user.Email,
				Subject: "[Nuri] Password reset",
				Body:    "Use the link below to reset your password:\n\n" + resetURL,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset email sent"})
}

func (ac *AuthController) PasswordResetCheck(c *gin.Context) {
	uid := c.Param("uid")
	token := c.Param("token")

	userID, err := utils.DecodeUID(uid)
	if err != nil {
		c.Redirect(http.StatusFound, frontendBaseURL()+"/user/password_reset_failed.html")
		return
	}

	tokenUserID, err := utils.CheckActionToken(token, utils.PurposePasswordReset)
	if err != nil || tokenUserID != userID {
		c.Redirect(http.StatusFound, frontendBaseURL()+"/user/password_reset_failed.html")
		return
	}

	resetURL := fmt.Sprintf("%s/user/password_reset_confirm.html?id=%s&token=%s", frontendBaseURL(), uid, token)
	c.Redirect(http.StatusFound, resetURL)
}

func (ac *AuthController) PasswordResetConfirm(c *gin.Context) {
	var input struct {
		UID      string `json:"uid" binding:"required"`
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	userID, err := utils.DecodeUID(input.UID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "success": false})
		return
	}

	tokenUserID, err := utils.CheckActionToken(input.Token, utils.PurposePasswordReset)
	if err != nil || tokenUserID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "success": false})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "success": false})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password", "success": false})
		return
	}

	if err := ac.DB.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update password", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset complete"})
}

func (ac *AuthController) PasswordChange(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	userID := c.Param("userId")

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if currentUser.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission to change this password"})
		return
	}

	var input struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if user.Password == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account has no password login", "success": false})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.CurrentPassword)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect", "success": false})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password", "success": false})
		return
	}

	if err := ac.DB.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update password", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed"})
}

func (ac *AuthController) KakaoLogin(c *gin.Context) {
	var input struct {
		Code string `json:"code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	token, err := ac.KakaoConfig.ExchangeCode(c.Request.Context(), input.Code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to exchange code with provider", "success": false})
		return
	}

	userInfo, err := ac.KakaoConfig.GetUserInfo(token.AccessToken)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch provider profile", "success": false})
		return
	}

	var user models.User
	err = ac.DB.Where("email = ?", userInfo.Account.Email).First(&user).Error
	if err == nil {
		var socialAccount models.SocialAccount
		if err := ac.DB.Where("user_id = ?", user.ID).First(&socialAccount).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email exists but is not a social account", "success": false})
			return
		}

		if socialAccount.Provider != "kakao" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Account is linked to a different provider", "success": false})
			return
		}

		// Returning social users are reactivated on login.
		if err := ac.DB.Model(&user).Update("is_active", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate account", "success": false})
			return
		}

		response, err := ac.issueTokens(&user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
			return
		}

		c.JSON(http.StatusOK, response)
		return
	}

	if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up account", "success": false})
		return
	}

	// First login with this email: account, social link and notification
	// settings are created atomically. No usable password is set.
	user = models.User{
		Email:    userInfo.Account.Email,
		Nickname: userInfo.Properties.Nickname,
		IsActive: true,
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.SocialAccount{
			UserID:      user.ID,
			Provider:    "kakao",
			UID:         fmt.Sprintf("%d", userInfo.ID),
			AccessToken: token.AccessToken,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.EmailNotificationSetting{UserID: user.ID}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "success": false})
		return
	}

	response, err := ac.issueTokens(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	c.JSON(http.StatusOK, response)
}
