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

// CreatePurchaseHandler starts a purchase of a digital product
func CreatePurchaseHandler(c *gin.Context) {
	utils.LogInfo("CreatePurchaseHandler called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "product_id is required", err.Error())
		return
	}

	var product models.Product
	if err := config.DB.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Product not found")
			return
		}
		utils.InternalServerError(c, "Failed to load product", nil)
		return
	}

	if product.SellerID == user.ID {
		utils.BadRequest(c, "You cannot purchase your own product", nil)
		return
	}

	purchase := models.Purchase{
		BuyerID:     user.ID,
		ProductID:   product.ID,
		AmountCents: product.PriceCents,
		Status:      models.PurchaseStatusPending,
	}
	if err := config.DB.Create(&purchase).Error; err != nil {
		utils.LogError("Failed to create purchase for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create purchase", nil)
		return
	}

	utils.LogInfo("User %d started purchase %d for product %d", user.ID, purchase.ID, product.ID)
	utils.Created(c, "Purchase created. Complete the payment to get your download.", gin.H{
		"purchase": purchase,
	})
}

// ConfirmPurchaseHandler completes a purchase after payment and triggers
// commission processing for referred buyers
func ConfirmPurchaseHandler(c *gin.Context) {
	utils.LogInfo("ConfirmPurchaseHandler called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req struct {
		PurchaseID            uint   `json:"purchase_id" binding:"required"`
		StripePaymentIntentID string `json:"stripe_payment_intent_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "purchase_id and stripe_payment_intent_id are required", err.Error())
		return
	}

	var purchase models.Purchase
	if err := config.DB.Where("id = ? AND buyer_id = ?", req.PurchaseID, user.ID).First(&purchase).Error; err != nil {
		utils.NotFound(c, "Purchase not found")
		return
	}

	if purchase.Status == models.PurchaseStatusCompleted {
		utils.Success(c, "Purchase already completed", gin.H{"purchase": purchase})
		return
	}
	if purchase.Status != models.PurchaseStatusPending {
		utils.BadRequest(c, "Purchase cannot be completed", purchase.Status)
		return
	}

	if err := verifyPaymentIntent(purchase.ID, req.StripePaymentIntentID); err != nil {
		utils.LogError("Payment verification failed for purchase %d: %v", purchase.ID, err)
		utils.BadRequest(c, "Payment verification failed", err.Error())
		return
	}

	// verifyPaymentIntent marks the purchase completed; without a Stripe key
	// the row is still pending, so finish it here.
	if err := config.DB.First(&purchase, purchase.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to reload purchase", nil)
		return
	}
	if purchase.Status == models.PurchaseStatusPending {
		now := time.Now()
		if err := config.DB.Model(&purchase).Updates(map[string]interface{}{
			"status":                   models.PurchaseStatusCompleted,
			"stripe_payment_intent_id": req.StripePaymentIntentID,
			"completed_at":             &now,
		}).Error; err != nil {
			utils.LogError("Failed to complete purchase %d: %v", purchase.ID, err)
			utils.InternalServerError(c, "Failed to complete purchase", nil)
			return
		}
	}

	config.DB.Model(&models.Product{}).Where("id = ?", purchase.ProductID).
		Update("downloads", gorm.Expr("downloads + 1"))

	if _, err := ProcessPurchaseCommission(purchase.ID); err != nil {
		// Commission failures must not block the buyer's download.
		utils.LogError("Commission processing failed for purchase %d: %v", purchase.ID, err)
	}

	var product models.Product
	if err := config.DB.First(&product, purchase.ProductID).Error; err != nil {
		utils.InternalServerError(c, "Failed to load product", nil)
		return
	}

	utils.LogInfo("Purchase %d completed by user %d", purchase.ID, user.ID)
	utils.Success(c, "Purchase completed successfully", gin.H{
		"purchase":     purchase,
		"download_url": product.FileURL,
	})
}

// ListMyPurchasesHandler returns the buyer's purchase history
func ListMyPurchasesHandler(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)
	var purchases []models.Purchase
	var total int64

	if err := config.DB.Model(&models.Purchase{}).Where("buyer_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count purchases", nil)
		return
	}
	if err := config.DB.Preload("Product").
		Where("buyer_id = ?", user.ID).
		Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&purchases).Error; err != nil {
		utils.InternalServerError(c, "Failed to load purchases", nil)
		return
	}

	utils.SuccessWithPagination(c, "Purchases retrieved successfully", gin.H{"purchases": purchases}, total, pagination.Page, pagination.Limit)
}
