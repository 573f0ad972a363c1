package controllers

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetMyReferralCodeHandler returns the user's referral code, creating the
// code row on first request.
func GetMyReferralCodeHandler(c *gin.Context) {
	utils.LogInfo("GetMyReferralCodeHandler called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	referral, err := getOrCreateReferralCode(user.ID)
	if err != nil {
		utils.LogError("Failed to get referral code for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get referral code", nil)
		return
	}

	utils.Success(c, "Referral code retrieved successfully", gin.H{
		"referral_code": referral.ReferralCode,
		"referral_url":  fmt.Sprintf("%s/r/%s", os.Getenv("FRONTEND_URL"), referral.ReferralCode),
	})
}

// getOrCreateReferralCode returns the user's earliest referral row, which
// owns the code, creating one when the user has never requested a code.
func getOrCreateReferralCode(userID uint) (*models.Referral, error) {
	var referral models.Referral
	err := config.DB.Where("referrer_id = ?", userID).Order("created_at ASC").First(&referral).Error
	if err == nil {
		return &referral, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.WrapError(err, "failed to load referral code")
	}

	referral = models.Referral{
		ReferrerID:   userID,
		ReferralCode: utils.GenerateReferralCode(),
		Status:       models.ReferralStatusPending,
	}
	if err := config.DB.Create(&referral).Error; err != nil {
		return nil, utils.WrapError(err, "failed to create referral code")
	}
	utils.LogInfo("Created referral code %s for user %d", referral.ReferralCode, userID)
	return &referral, nil
}

// AcceptReferralCodeAtSignup converts a referral when a new user registers
// with a code. The first conversion completes the original pending row;
// later conversions of the same code append completed rows. Validation
// errors block the conversion, warnings do not.
func AcceptReferralCodeAtSignup(newUserID uint, newUserEmail, code string) error {
	var owner models.Referral
	if err := config.DB.Where("referral_code = ?", code).Order("created_at ASC").First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewError("referral code not found")
		}
		return utils.WrapError(err, "failed to look up referral code")
	}

	validation := ValidateReferral(owner.ReferrerID, newUserEmail, code)
	if !validation.Valid {
		return utils.NewError(validation.Errors[0])
	}

	now := time.Now()
	if owner.Status == models.ReferralStatusPending && owner.ReferredID == nil {
		updates := map[string]interface{}{
			"referred_id":  newUserID,
			"status":       models.ReferralStatusCompleted,
			"completed_at": &now,
		}
		if err := config.DB.Model(&owner).Updates(updates).Error; err != nil {
			return utils.WrapError(err, "failed to complete referral")
		}
	} else {
		conversion := models.Referral{
			ReferrerID:   owner.ReferrerID,
			ReferredID:   &newUserID,
			ReferralCode: code,
			Status:       models.ReferralStatusCompleted,
			CompletedAt:  &now,
		}
		if err := config.DB.Create(&conversion).Error; err != nil {
			return utils.WrapError(err, "failed to record referral conversion")
		}
	}

	// Stamp the most recent unconverted click for this code.
	var tracking models.ReferralTracking
	err := config.DB.
		Where("referral_code = ? AND event = ? AND converted = ?", code, models.TrackingEventClick, false).
		Order("created_at DESC").First(&tracking).Error
	if err == nil {
		if err := config.DB.Model(&tracking).Updates(map[string]interface{}{
			"converted":       true,
			"conversion_date": &now,
		}).Error; err != nil {
			utils.LogError("Failed to mark tracking conversion for code %s: %v", code, err)
		}
	}

	utils.LogInfo("Referral code %s converted for new user %d (referrer %d)", code, newUserID, owner.ReferrerID)
	return nil
}

// TrackReferralClickHandler records a referral link visit. Public endpoint;
// the frontend follows the returned landing path.
func TrackReferralClickHandler(c *gin.Context) {
	code := c.Param("code")

	check := ValidateReferralCode(code)
	if !check.IsValid {
		utils.NotFound(c, "Referral code not found")
		return
	}

	tracking := models.ReferralTracking{
		ReferrerID:   check.ReferrerID,
		ReferralCode: code,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		ReferrerURL:  c.Request.Referer(),
		LandingPage:  c.DefaultQuery("landing", "/"),
		Event:        models.TrackingEventClick,
	}
	if err := config.DB.Create(&tracking).Error; err != nil {
		utils.LogError("Failed to record referral click for code %s: %v", code, err)
		utils.InternalServerError(c, "Failed to record visit", nil)
		return
	}

	utils.Success(c, "Referral visit recorded", gin.H{
		"referral_code": code,
		"landing_page":  tracking.LandingPage,
	})
}

// ListMyReferralsHandler returns the user's referrals (conversions first)
func ListMyReferralsHandler(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)
	var referrals []models.Referral
	var total int64

	if err := config.DB.Model(&models.Referral{}).Where("referrer_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count referrals", nil)
		return
	}
	if err := config.DB.Where("referrer_id = ?", user.ID).
		Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&referrals).Error; err != nil {
		utils.InternalServerError(c, "Failed to load referrals", nil)
		return
	}

	utils.SuccessWithPagination(c, "Referrals retrieved successfully", gin.H{"referrals": referrals}, total, pagination.Page, pagination.Limit)
}

// ListMyCommissionsHandler returns the user's commission ledger
func ListMyCommissionsHandler(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)
	status := c.Query("status")

	query := config.DB.Model(&models.ReferralCommission{}).Where("referrer_id = ?", user.ID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count commissions", nil)
		return
	}

	var commissions []models.ReferralCommission
	if err := query.Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&commissions).Error; err != nil {
		utils.InternalServerError(c, "Failed to load commissions", nil)
		return
	}

	utils.SuccessWithPagination(c, "Commissions retrieved successfully", gin.H{"commissions": commissions}, total, pagination.Page, pagination.Limit)
}
