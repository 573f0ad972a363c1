package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PendingBalanceCents returns the referrer's balance available for payout:
// the sum of pending and confirmed commissions.
func PendingBalanceCents(userID uint) (int64, error) {
	var balance int64
	err := config.DB.Model(&models.ReferralCommission{}).
		Where("referrer_id = ? AND status IN ?", userID,
			[]string{models.CommissionStatusPending, models.CommissionStatusConfirmed}).
		Select("COALESCE(SUM(commission_cents), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, utils.WrapError(err, "failed to sum commission balance")
	}
	return balance, nil
}

// RequestPayout creates a pending payout for the user after checking the
// minimum threshold and the available balance.
func RequestPayout(userID uint, amountCents int64, method string) (*models.ReferralPayout, error) {
	if amountCents < config.MinPayoutCents() {
		return nil, utils.ErrBelowMinimumPayout
	}

	balance, err := PendingBalanceCents(userID)
	if err != nil {
		return nil, err
	}
	if amountCents > balance {
		return nil, utils.ErrInsufficientBalance
	}

	payout := models.ReferralPayout{
		UserID:      userID,
		AmountCents: amountCents,
		Method:      method,
		Status:      models.PayoutStatusPending,
		RequestedAt: time.Now(),
	}
	if err := config.DB.Create(&payout).Error; err != nil {
		return nil, utils.WrapError(err, "failed to create payout")
	}

	notification, err := models.NewPayoutProcessedNotification(userID,
		"Payout requested",
		fmt.Sprintf("Your payout request of %.2f via %s is being reviewed", float64(amountCents)/100, method),
		models.PayoutProcessedData{
			PayoutID:    payout.ID,
			AmountCents: amountCents,
			Method:      method,
			Status:      models.PayoutStatusPending,
		})
	if err == nil {
		err = config.DB.Create(notification).Error
	}
	if err != nil {
		utils.LogError("Failed to create payout-requested notification for user %d: %v", userID, err)
	}

	utils.LogInfo("User %d requested payout %d of %d cents via %s", userID, payout.ID, amountCents, method)
	return &payout, nil
}

// ProcessPayout transitions a payout to a new status. Completion relabels
// every confirmed commission of the payout's user as paid inside a single
// transaction; a partial update must never survive a crash.
func ProcessPayout(payoutID uint, newStatus string, adminID uint, notes string) (*models.ReferralPayout, error) {
	var payout models.ReferralPayout
	if err := config.DB.First(&payout, payoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("payout not found", err)
		}
		return nil, utils.WrapError(err, "failed to load payout")
	}

	if !models.ValidPayoutTransition(payout.Status, newStatus) {
		return nil, utils.ErrInvalidPayoutStatus
	}

	now := time.Now()
	updates := map[string]interface{}{"status": newStatus}
	if notes != "" {
		updates["admin_notes"] = notes
	}

	switch newStatus {
	case models.PayoutStatusProcessing:
		updates["processed_at"] = &now
	case models.PayoutStatusCompleted:
		if payout.ProcessedAt == nil {
			updates["processed_at"] = &now
		}
		updates["completed_at"] = &now
	}

	if newStatus == models.PayoutStatusCompleted {
		err := config.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&payout).Updates(updates).Error; err != nil {
				return err
			}
			return tx.Model(&models.ReferralCommission{}).
				Where("referrer_id = ? AND status = ?", payout.UserID, models.CommissionStatusConfirmed).
				Updates(map[string]interface{}{
					"status":    models.CommissionStatusPaid,
					"paid_at":   &now,
					"payout_id": payout.ID,
				}).Error
		})
		if err != nil {
			return nil, utils.WrapError(err, "failed to complete payout")
		}
	} else {
		if err := config.DB.Model(&payout).Updates(updates).Error; err != nil {
			return nil, utils.WrapError(err, "failed to update payout")
		}
	}

	if err := config.DB.First(&payout, payoutID).Error; err != nil {
		return nil, utils.WrapError(err, "failed to reload payout")
	}

	if newStatus == models.PayoutStatusCompleted {
		notification, err := models.NewPayoutProcessedNotification(payout.UserID,
			"Payout completed",
			fmt.Sprintf("Your payout of %.2f via %s has been completed", float64(payout.AmountCents)/100, payout.Method),
			models.PayoutProcessedData{
				PayoutID:    payout.ID,
				AmountCents: payout.AmountCents,
				Method:      payout.Method,
				Status:      models.PayoutStatusCompleted,
			})
		if err == nil {
			err = config.DB.Create(notification).Error
		}
		if err != nil {
			utils.LogError("Failed to create payout-completed notification for user %d: %v", payout.UserID, err)
		}

		var user models.User
		if err := config.DB.First(&user, payout.UserID).Error; err == nil {
			if err := utils.SendPayoutCompletedEmail(user.Email, payout.AmountCents, payout.Method); err != nil {
				utils.LogWarn("Failed to send payout email to user %d: %v", payout.UserID, err)
			}
		}
	}

	utils.LogInfo("Admin %d moved payout %d to %s", adminID, payout.ID, newStatus)
	return &payout, nil
}

var validPayoutMethods = map[string]bool{
	models.PayoutMethodStripe:       true,
	models.PayoutMethodPaypal:       true,
	models.PayoutMethodBankTransfer: true,
	models.PayoutMethodManual:       true,
}

// RequestPayoutHandler lets a referrer request a payout of their balance
func RequestPayoutHandler(c *gin.Context) {
	utils.LogInfo("RequestPayoutHandler called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req struct {
		AmountCents int64  `json:"amount_cents" binding:"required"`
		Method      string `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "amount_cents and method are required", err.Error())
		return
	}

	if !validPayoutMethods[req.Method] {
		utils.BadRequest(c, "Unsupported payout method", req.Method)
		return
	}

	payout, err := RequestPayout(user.ID, req.AmountCents, req.Method)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrBelowMinimumPayout):
			utils.BadRequest(c, fmt.Sprintf("Minimum payout is %.2f", float64(config.MinPayoutCents())/100), nil)
		case errors.Is(err, utils.ErrInsufficientBalance):
			utils.BadRequest(c, "Requested amount exceeds your available balance", nil)
		default:
			utils.LogError("Payout request failed for user %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to create payout request", nil)
		}
		return
	}

	utils.Created(c, "Payout requested successfully", gin.H{"payout": payout})
}

// ListMyPayoutsHandler returns the user's payout history
func ListMyPayoutsHandler(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)
	var payouts []models.ReferralPayout
	var total int64

	if err := config.DB.Model(&models.ReferralPayout{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count payouts", nil)
		return
	}
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("requested_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&payouts).Error; err != nil {
		utils.InternalServerError(c, "Failed to load payouts", nil)
		return
	}

	utils.SuccessWithPagination(c, "Payouts retrieved successfully", gin.H{"payouts": payouts}, total, pagination.Page, pagination.Limit)
}

// AdminListPayoutsHandler returns the payout queue, optionally filtered by status
func AdminListPayoutsHandler(c *gin.Context) {
	pagination := utils.NewPagination(c)
	status := c.Query("status")

	query := config.DB.Model(&models.ReferralPayout{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count payouts", nil)
		return
	}

	var payouts []models.ReferralPayout
	if err := query.Order("requested_at ASC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&payouts).Error; err != nil {
		utils.InternalServerError(c, "Failed to load payouts", nil)
		return
	}

	utils.SuccessWithPagination(c, "Payouts retrieved successfully", gin.H{"payouts": payouts}, total, pagination.Page, pagination.Limit)
}

// AdminProcessPayoutHandler transitions a payout through its lifecycle
func AdminProcessPayoutHandler(c *gin.Context) {
	utils.LogInfo("AdminProcessPayoutHandler called")
	adminVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	admin := adminVal.(models.User)

	var req struct {
		PayoutID uint   `json:"payout_id" binding:"required"`
		Status   string `json:"status" binding:"required"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "payout_id and status are required", err.Error())
		return
	}

	payout, err := ProcessPayout(req.PayoutID, req.Status, admin.ID, req.Notes)
	if err != nil {
		if appErr := utils.GetAppError(err); appErr != nil {
			utils.Error(c, appErr.Code, appErr.Message, nil)
			return
		}
		if errors.Is(err, utils.ErrInvalidPayoutStatus) {
			utils.BadRequest(c, "Invalid payout status transition", nil)
			return
		}
		utils.LogError("Payout processing failed for payout %d: %v", req.PayoutID, err)
		utils.InternalServerError(c, "Failed to process payout", nil)
		return
	}

	utils.Success(c, "Payout updated successfully", gin.H{"payout": payout})
}
