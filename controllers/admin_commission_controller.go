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

// AdminListCommissionsHandler returns the commission queue, optionally
// filtered by status or referrer
func AdminListCommissionsHandler(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.ReferralCommission{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if referrer := c.Query("referrer_id"); referrer != "" {
		query = query.Where("referrer_id = ?", referrer)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count commissions", nil)
		return
	}

	var commissions []models.ReferralCommission
	if err := query.Order("created_at ASC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&commissions).Error; err != nil {
		utils.InternalServerError(c, "Failed to load commissions", nil)
		return
	}

	utils.SuccessWithPagination(c, "Commissions retrieved successfully", gin.H{"commissions": commissions}, total, pagination.Page, pagination.Limit)
}

// AdminConfirmCommissionHandler moves a pending commission to confirmed,
// making it count toward the payable balance
func AdminConfirmCommissionHandler(c *gin.Context) {
	utils.LogInfo("AdminConfirmCommissionHandler called")

	var req struct {
		CommissionID uint `json:"commission_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "commission_id is required", err.Error())
		return
	}

	var commission models.ReferralCommission
	if err := config.DB.First(&commission, req.CommissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Commission not found")
			return
		}
		utils.InternalServerError(c, "Failed to load commission", nil)
		return
	}

	if commission.Status != models.CommissionStatusPending {
		utils.BadRequest(c, "Only pending commissions can be confirmed", commission.Status)
		return
	}

	now := time.Now()
	if err := config.DB.Model(&commission).Updates(map[string]interface{}{
		"status":       models.CommissionStatusConfirmed,
		"confirmed_at": &now,
	}).Error; err != nil {
		utils.LogError("Failed to confirm commission %d: %v", commission.ID, err)
		utils.InternalServerError(c, "Failed to confirm commission", nil)
		return
	}

	utils.Success(c, "Commission confirmed successfully", gin.H{"commission": commission})
}

// AdminCancelCommissionHandler cancels a pending or confirmed commission,
// typically after a refund of the underlying purchase
func AdminCancelCommissionHandler(c *gin.Context) {
	utils.LogInfo("AdminCancelCommissionHandler called")

	var req struct {
		CommissionID uint `json:"commission_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "commission_id is required", err.Error())
		return
	}

	var commission models.ReferralCommission
	if err := config.DB.First(&commission, req.CommissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Commission not found")
			return
		}
		utils.InternalServerError(c, "Failed to load commission", nil)
		return
	}

	if commission.Status != models.CommissionStatusPending && commission.Status != models.CommissionStatusConfirmed {
		utils.BadRequest(c, "Only pending or confirmed commissions can be cancelled", commission.Status)
		return
	}

	if err := config.DB.Model(&commission).Update("status", models.CommissionStatusCancelled).Error; err != nil {
		utils.LogError("Failed to cancel commission %d: %v", commission.ID, err)
		utils.InternalServerError(c, "Failed to cancel commission", nil)
		return
	}

	utils.Success(c, "Commission cancelled successfully", gin.H{"commission": commission})
}
