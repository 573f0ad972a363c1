package controllers

import (
	"time"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	ReferralCode    string `json:"referral_code"`
}

// RegisterUser handles user registration. A supplied referral code converts
// after the account row exists; a code that fails validation skips the
// conversion but never fails the signup.
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", "Please check your input data and ensure all required fields are provided correctly.")
		return
	}

	utils.LogInfo("Registration attempt for email: %s, username: %s", req.Email, req.Username)

	if valid, msg := utils.ValidateUsername(req.Username); !valid {
		utils.BadRequest(c, "Invalid username", msg)
		return
	}
	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.BadRequest(c, "Invalid email", msg)
		return
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		utils.BadRequest(c, "Invalid password", msg)
		return
	}
	if req.Password != req.ConfirmPassword {
		utils.BadRequest(c, "Passwords do not match", "Password and confirm password must be the same.")
		return
	}
	if req.FirstName != "" {
		if valid, msg := utils.ValidateName(req.FirstName); !valid {
			utils.BadRequest(c, "Invalid first name", msg)
			return
		}
	}
	if req.LastName != "" {
		if valid, msg := utils.ValidateName(req.LastName); !valid {
			utils.BadRequest(c, "Invalid last name", msg)
			return
		}
	}

	var existing models.User
	if err := config.DB.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		utils.LogError("Registration attempt failed - Email or username already taken: %s", req.Email)
		utils.Conflict(c, "Email or username already registered", nil)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password for email %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	otp := utils.GenerateOTP()
	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserOTP{
			UserID:    user.ID,
			Code:      otp,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}).Error
	})
	if err != nil {
		utils.LogError("Failed to create user for email %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	referralAccepted := false
	if req.ReferralCode != "" {
		if err := AcceptReferralCodeAtSignup(user.ID, user.Email, req.ReferralCode); err != nil {
			// The account stands either way; a bad code only loses the
			// referrer their conversion.
			utils.LogWarn("Referral conversion rejected for user %d: %v", user.ID, err)
		} else {
			referralAccepted = true
		}
	}

	if err := utils.SendOTP(user.Email, otp); err != nil {
		utils.LogWarn("Failed to send OTP email to %s: %v", user.Email, err)
	}

	utils.LogInfo("User %d registered successfully", user.ID)
	data := gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	}
	if req.ReferralCode != "" {
		data["referral_accepted"] = referralAccepted
	}
	utils.Created(c, "Registration successful. Please verify your email.", data)
}

// VerifyOTP confirms the signup OTP and marks the account verified
func VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Email and OTP are required", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if user.IsVerified {
		utils.Success(c, "Account already verified", nil)
		return
	}

	var otpRow models.UserOTP
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").First(&otpRow).Error; err != nil {
		utils.LogError("OTP verification failed for email %s: no OTP on file", req.Email)
		utils.BadRequest(c, "Invalid or expired OTP", nil)
		return
	}
	if otpRow.Code != req.OTP || time.Now().After(otpRow.ExpiresAt) {
		utils.LogError("OTP verification failed for email: %s", req.Email)
		utils.BadRequest(c, "Invalid or expired OTP", nil)
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("is_verified", true).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", user.ID).Delete(&models.UserOTP{}).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to verify account", nil)
		return
	}

	utils.LogInfo("User %d verified successfully", user.ID)
	utils.Success(c, "Account verified successfully", nil)
}

// LoginUser authenticates a user and issues a JWT
func LoginUser(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Email and password are required", err.Error())
		return
	}

	utils.LogInfo("Login attempt for email: %s", req.Email)

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.LogError("Login failed - user not found: %s", req.Email)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if user.IsBlocked {
		utils.LogError("Login attempt by blocked user: %d", user.ID)
		utils.Forbidden(c, "Account is blocked")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login failed - wrong password for user: %d", user.ID)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	config.DB.Model(&user).Update("last_login_at", time.Now())

	utils.LogInfo("User %d logged in successfully", user.ID)
	utils.Success(c, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"is_verified": user.IsVerified,
			"is_admin":    user.IsAdmin,
		},
	})
}
