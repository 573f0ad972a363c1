package controllers

import (
	"fmt"
	"testing"
	"time"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB wires an in-memory database into config.DB so the handlers
// and processors run against it unchanged.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A second pooled connection would see a different empty memory DB.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	config.DB = db

	t.Cleanup(func() {
		config.DB = nil
		sqlDB.Close()
	})
}

func createTestUser(t *testing.T, email string) models.User {
	t.Helper()
	user := models.User{
		Username:   fmt.Sprintf("user_%d_%s", time.Now().UnixNano(), email[:1]),
		Email:      email,
		Password:   "not-a-real-hash",
		IsVerified: true,
	}
	require.NoError(t, config.DB.Create(&user).Error)
	return user
}

func createTestReferral(t *testing.T, referrerID uint, referredID *uint, code, status string, createdAt time.Time) models.Referral {
	t.Helper()
	referral := models.Referral{
		ReferrerID:   referrerID,
		ReferredID:   referredID,
		ReferralCode: code,
		Status:       status,
		CreatedAt:    createdAt,
	}
	if status == models.ReferralStatusCompleted {
		completed := createdAt
		referral.CompletedAt = &completed
	}
	require.NoError(t, config.DB.Create(&referral).Error)
	return referral
}

func createTestPurchase(t *testing.T, buyerID uint, amountCents int64, status string) models.Purchase {
	t.Helper()
	seller := createTestUser(t, fmt.Sprintf("seller_%d@digikart.test", time.Now().UnixNano()))
	product := models.Product{
		SellerID:   seller.ID,
		Name:       "Test Asset",
		Slug:       fmt.Sprintf("test-asset-%d", time.Now().UnixNano()),
		Category:   "templates",
		PriceCents: amountCents,
		FileURL:    "https://files.digikart.test/asset.zip",
		IsActive:   true,
	}
	require.NoError(t, config.DB.Create(&product).Error)

	purchase := models.Purchase{
		BuyerID:     buyerID,
		ProductID:   product.ID,
		AmountCents: amountCents,
		Status:      status,
	}
	if status == models.PurchaseStatusCompleted {
		now := time.Now()
		purchase.CompletedAt = &now
	}
	require.NoError(t, config.DB.Create(&purchase).Error)
	return purchase
}

func createTestCommission(t *testing.T, referrerID, referredID, purchaseID uint, commissionCents int64, status string) models.ReferralCommission {
	t.Helper()
	commission := models.ReferralCommission{
		ReferrerID:       referrerID,
		ReferredUserID:   referredID,
		PurchaseID:       purchaseID,
		SaleAmountCents:  commissionCents * 10,
		PlatformFeeCents: commissionCents * 10 / 3,
		CommissionCents:  commissionCents,
		Status:           status,
	}
	if status == models.CommissionStatusConfirmed {
		now := time.Now()
		commission.ConfirmedAt = &now
	}
	require.NoError(t, config.DB.Create(&commission).Error)
	return commission
}
