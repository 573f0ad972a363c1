package controllers

import (
	"errors"
	"time"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplySellerRequest is the seller onboarding payload
type ApplySellerRequest struct {
	StoreName string `json:"store_name" binding:"required"`
	Bio       string `json:"bio"`
	Website   string `json:"website"`
}

// ApplySellerHandler starts seller onboarding for the authenticated user
func ApplySellerHandler(c *gin.Context) {
	utils.LogInfo("ApplySellerHandler called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req ApplySellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "store_name is required", err.Error())
		return
	}

	var existing models.SellerProfile
	if err := config.DB.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		utils.Conflict(c, "Seller application already exists", gin.H{"status": existing.Status})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Failed to check seller status", nil)
		return
	}

	profile := models.SellerProfile{
		UserID:    user.ID,
		StoreName: req.StoreName,
		Bio:       req.Bio,
		Website:   req.Website,
		Status:    models.SellerStatusPending,
	}
	if err := config.DB.Create(&profile).Error; err != nil {
		utils.LogError("Failed to create seller profile for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to submit seller application", nil)
		return
	}

	utils.LogInfo("User %d applied to become a seller", user.ID)
	utils.Created(c, "Seller application submitted", gin.H{"seller_profile": profile})
}

// GetMySellerProfileHandler returns the user's onboarding status
func GetMySellerProfileHandler(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var profile models.SellerProfile
	if err := config.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		utils.NotFound(c, "No seller application found")
		return
	}

	utils.Success(c, "Seller profile retrieved successfully", gin.H{"seller_profile": profile})
}

// AdminReviewSellerHandler approves or rejects a seller application
func AdminReviewSellerHandler(c *gin.Context) {
	utils.LogInfo("AdminReviewSellerHandler called")

	var req struct {
		SellerProfileID uint   `json:"seller_profile_id" binding:"required"`
		Approve         *bool  `json:"approve" binding:"required"`
		Notes           string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "seller_profile_id and approve are required", err.Error())
		return
	}

	var profile models.SellerProfile
	if err := config.DB.First(&profile, req.SellerProfileID).Error; err != nil {
		utils.NotFound(c, "Seller application not found")
		return
	}

	if profile.Status != models.SellerStatusPending {
		utils.BadRequest(c, "Application has already been reviewed", profile.Status)
		return
	}

	updates := map[string]interface{}{"admin_notes": req.Notes}
	if *req.Approve {
		now := time.Now()
		updates["status"] = models.SellerStatusApproved
		updates["approved_at"] = &now
	} else {
		updates["status"] = models.SellerStatusRejected
	}

	if err := config.DB.Model(&profile).Updates(updates).Error; err != nil {
		utils.LogError("Failed to review seller application %d: %v", profile.ID, err)
		utils.InternalServerError(c, "Failed to review application", nil)
		return
	}

	utils.Success(c, "Seller application reviewed", gin.H{"seller_profile": profile})
}

// AdminListSellersHandler returns seller applications by status
func AdminListSellersHandler(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.SellerProfile{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count applications", nil)
		return
	}

	var profiles []models.SellerProfile
	if err := query.Order("created_at ASC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&profiles).Error; err != nil {
		utils.InternalServerError(c, "Failed to load applications", nil)
		return
	}

	utils.SuccessWithPagination(c, "Applications retrieved successfully", gin.H{"applications": profiles}, total, pagination.Page, pagination.Limit)
}
