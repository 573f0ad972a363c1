package controllers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommissionProcessResult reports the outcome of processing one purchase.
// NoReferral and AlreadyProcessed are successes, not errors.
type CommissionProcessResult struct {
	Created          bool                       `json:"created"`
	AlreadyProcessed bool                       `json:"already_processed"`
	NoReferral       bool                       `json:"no_referral"`
	Commission       *models.ReferralCommission `json:"commission,omitempty"`
	Message          string                     `json:"message"`
}

// ProcessPurchaseCommission turns a completed purchase by a referred buyer
// into a pending commission. Calling it twice for the same purchase is safe:
// the second call is a no-op backed by the unique index on
// (purchase_id, referrer_id).
func ProcessPurchaseCommission(purchaseID uint) (*CommissionProcessResult, error) {
	var purchase models.Purchase
	if err := config.DB.First(&purchase, purchaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrPurchaseNotFound
		}
		return nil, utils.WrapError(err, "failed to load purchase")
	}

	if purchase.Status != models.PurchaseStatusCompleted {
		return nil, utils.ErrPurchaseNotCompleted
	}

	var referral models.Referral
	err := config.DB.
		Where("referred_id = ? AND status = ?", purchase.BuyerID, models.ReferralStatusCompleted).
		First(&referral).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Buyer was not referred. Normal case, nothing to do.
			return &CommissionProcessResult{NoReferral: true, Message: "buyer was not referred"}, nil
		}
		return nil, utils.WrapError(err, "failed to look up referral")
	}

	var existing models.ReferralCommission
	err = config.DB.
		Where("purchase_id = ? AND referrer_id = ?", purchase.ID, referral.ReferrerID).
		First(&existing).Error
	if err == nil {
		return &CommissionProcessResult{
			AlreadyProcessed: true,
			Commission:       &existing,
			Message:          "commission already processed for this purchase",
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.WrapError(err, "failed to check existing commission")
	}

	platformFee, commissionAmount, err := utils.ComputeCommission(
		purchase.AmountCents, config.PlatformFeePercent(), config.ReferrerSharePercent())
	if err != nil {
		return nil, err
	}

	commission := models.ReferralCommission{
		ReferrerID:       referral.ReferrerID,
		ReferredUserID:   purchase.BuyerID,
		PurchaseID:       purchase.ID,
		SaleAmountCents:  purchase.AmountCents,
		PlatformFeeCents: platformFee,
		CommissionCents:  commissionAmount,
		Status:           models.CommissionStatusPending,
	}

	// The existence check above is only a fast path; the unique index plus
	// on-conflict-do-nothing is what actually prevents a duplicate under
	// concurrent invocation.
	res := config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "purchase_id"}, {Name: "referrer_id"}},
		DoNothing: true,
	}).Create(&commission)
	if res.Error != nil {
		return nil, utils.WrapError(res.Error, "failed to create commission")
	}
	if res.RowsAffected == 0 {
		return &CommissionProcessResult{
			AlreadyProcessed: true,
			Message:          "commission already processed for this purchase",
		}, nil
	}

	notification, err := models.NewCommissionEarnedNotification(referral.ReferrerID, models.CommissionEarnedData{
		CommissionID:     commission.ID,
		PurchaseID:       purchase.ID,
		SaleAmountCents:  purchase.AmountCents,
		PlatformFeeCents: platformFee,
		CommissionCents:  commissionAmount,
	})
	if err == nil {
		err = config.DB.Create(notification).Error
	}
	if err != nil {
		// The commission row is the source of truth; a lost notification is
		// logged, not surfaced.
		utils.LogError("Failed to create commission notification for referrer %d: %v", referral.ReferrerID, err)
	}

	utils.LogInfo("Created commission %d for referrer %d on purchase %d (%d cents)",
		commission.ID, referral.ReferrerID, purchase.ID, commissionAmount)

	return &CommissionProcessResult{
		Created:    true,
		Commission: &commission,
		Message:    "commission created",
	}, nil
}

// BatchItemResult is the per-purchase outcome of a reprocessing run
type BatchItemResult struct {
	PurchaseID uint   `json:"purchase_id"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
}

// ReprocessReferrerCommissions re-runs the per-purchase processing for every
// pending commission of a referrer. Used for manual reconciliation; each
// item succeeds or fails on its own.
func ReprocessReferrerCommissions(referrerID uint) []BatchItemResult {
	var pending []models.ReferralCommission
	if err := config.DB.
		Where("referrer_id = ? AND status = ?", referrerID, models.CommissionStatusPending).
		Find(&pending).Error; err != nil {
		utils.LogError("Failed to load pending commissions for referrer %d: %v", referrerID, err)
		return nil
	}

	results := make([]BatchItemResult, 0, len(pending))
	for _, commission := range pending {
		item := BatchItemResult{PurchaseID: commission.PurchaseID}
		res, err := ProcessPurchaseCommission(commission.PurchaseID)
		if err != nil {
			item.Message = err.Error()
		} else {
			item.Success = true
			item.Message = res.Message
		}
		results = append(results, item)
	}
	return results
}

// ProcessCommissionRequest is the admin commission trigger payload
type ProcessCommissionRequest struct {
	PurchaseID            uint   `json:"purchase_id" binding:"required"`
	StripePaymentIntentID string `json:"stripe_payment_intent_id"`
}

// ProcessCommissionHandler is the administrative trigger behind purchase
// completion. Response shape is {success, message, commission?} with
// 200/400/404/500; external callers depend on it.
func ProcessCommissionHandler(c *gin.Context) {
	utils.LogInfo("ProcessCommissionHandler called")

	var req ProcessCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid commission trigger payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "purchase_id is required"})
		return
	}

	if req.StripePaymentIntentID != "" {
		if err := verifyPaymentIntent(req.PurchaseID, req.StripePaymentIntentID); err != nil {
			utils.LogError("Payment intent verification failed for purchase %d: %v", req.PurchaseID, err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
	}

	result, err := ProcessPurchaseCommission(req.PurchaseID)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrPurchaseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "purchase not found"})
		case errors.Is(err, utils.ErrPurchaseNotCompleted):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "purchase is not completed"})
		default:
			utils.LogError("Commission processing failed for purchase %d: %v", req.PurchaseID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to process commission"})
		}
		return
	}

	response := gin.H{"success": true, "message": result.Message}
	if result.Commission != nil {
		response["commission"] = result.Commission
	}
	c.JSON(http.StatusOK, response)
}

// ReprocessCommissionsHandler runs the batch reconciliation for one referrer
func ReprocessCommissionsHandler(c *gin.Context) {
	utils.LogInfo("ReprocessCommissionsHandler called")

	var req struct {
		ReferrerID uint `json:"referrer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "referrer_id is required", err.Error())
		return
	}

	results := ReprocessReferrerCommissions(req.ReferrerID)
	utils.Success(c, "Reprocessing finished", gin.H{"results": results})
}

// verifyPaymentIntent cross-checks a Stripe payment intent against the
// purchase before commissions are triggered. Skipped when no Stripe key is
// configured (local and test environments).
func verifyPaymentIntent(purchaseID uint, intentID string) error {
	secretKey := os.Getenv("STRIPE_SECRET_KEY")
	if secretKey == "" {
		utils.LogWarn("STRIPE_SECRET_KEY not set, skipping payment intent verification")
		return nil
	}
	stripe.Key = secretKey

	intent, err := paymentintent.Get(intentID, nil)
	if err != nil {
		return utils.WrapError(err, "failed to fetch payment intent")
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return utils.ErrPurchaseNotCompleted
	}

	var purchase models.Purchase
	if err := config.DB.First(&purchase, purchaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrPurchaseNotFound
		}
		return utils.WrapError(err, "failed to load purchase")
	}

	if purchase.StripePaymentIntentID != "" && purchase.StripePaymentIntentID != intentID {
		return errors.New("payment intent does not belong to this purchase")
	}

	// A pending purchase with a succeeded intent is marked completed here so
	// the processor can pick it up.
	if purchase.Status == models.PurchaseStatusPending {
		now := time.Now()
		updates := map[string]interface{}{
			"status":                   models.PurchaseStatusCompleted,
			"stripe_payment_intent_id": intentID,
			"completed_at":             &now,
		}
		if err := config.DB.Model(&purchase).Updates(updates).Error; err != nil {
			return utils.WrapError(err, "failed to mark purchase completed")
		}
	}
	return nil
}
