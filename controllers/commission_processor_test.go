package controllers

import (
	"testing"
	"time"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessPurchaseCommissionCreates(t *testing.T) {
	setupTestDB(t)

	referrer := createTestUser(t, "referrer@digikart.test")
	buyer := createTestUser(t, "buyer@digikart.test")
	createTestReferral(t, referrer.ID, &buyer.ID, "REFCODE1", models.ReferralStatusCompleted, time.Now().Add(-48*time.Hour))
	purchase := createTestPurchase(t, buyer.ID, 10000, models.PurchaseStatusCompleted)

	result, err := ProcessPurchaseCommission(purchase.ID)
	require.NoError(t, err)
	assert.True(t, result.Created)
	require.NotNil(t, result.Commission)

	assert.Equal(t, int64(10000), result.Commission.SaleAmountCents)
	assert.Equal(t, int64(1000), result.Commission.PlatformFeeCents)
	assert.Equal(t, int64(300), result.Commission.CommissionCents)
	assert.Equal(t, models.CommissionStatusPending, result.Commission.Status)
	assert.Equal(t, referrer.ID, result.Commission.ReferrerID)

	var notifications []models.ReferralNotification
	require.NoError(t, config.DB.Where("user_id = ?", referrer.ID).Find(&notifications).Error)
	assert.Len(t, notifications, 1)
}

func TestProcessPurchaseCommissionIdempotent(t *testing.T) {
	setupTestDB(t)

	referrer := createTestUser(t, "referrer@digikart.test")
	buyer := createTestUser(t, "buyer@digikart.test")
	createTestReferral(t, referrer.ID, &buyer.ID, "REFCODE2", models.ReferralStatusCompleted, time.Now().Add(-48*time.Hour))
	purchase := createTestPurchase(t, buyer.ID, 10000, models.PurchaseStatusCompleted)

	first, err := ProcessPurchaseCommission(purchase.ID)
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := ProcessPurchaseCommission(purchase.ID)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.True(t, second.AlreadyProcessed)

	var count int64
	require.NoError(t, config.DB.Model(&models.ReferralCommission{}).
		Where("purchase_id = ?", purchase.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProcessPurchaseCommissionNoReferral(t *testing.T) {
	setupTestDB(t)

	buyer := createTestUser(t, "organic@digikart.test")
	purchase := createTestPurchase(t, buyer.ID, 5000, models.PurchaseStatusCompleted)

	result, err := ProcessPurchaseCommission(purchase.ID)
	require.NoError(t, err)
	assert.True(t, result.NoReferral)
	assert.False(t, result.Created)

	var count int64
	require.NoError(t, config.DB.Model(&models.ReferralCommission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProcessPurchaseCommissionPurchaseNotFound(t *testing.T) {
	setupTestDB(t)

	_, err := ProcessPurchaseCommission(9999)
	assert.ErrorIs(t, err, utils.ErrPurchaseNotFound)
}

func TestProcessPurchaseCommissionPurchaseNotCompleted(t *testing.T) {
	setupTestDB(t)

	referrer := createTestUser(t, "referrer@digikart.test")
	buyer := createTestUser(t, "buyer@digikart.test")
	createTestReferral(t, referrer.ID, &buyer.ID, "REFCODE3", models.ReferralStatusCompleted, time.Now().Add(-48*time.Hour))
	purchase := createTestPurchase(t, buyer.ID, 10000, models.PurchaseStatusPending)

	_, err := ProcessPurchaseCommission(purchase.ID)
	assert.ErrorIs(t, err, utils.ErrPurchaseNotCompleted)
}

func TestProcessPurchaseCommissionZeroAmount(t *testing.T) {
	setupTestDB(t)

	referrer := createTestUser(t, "referrer@digikart.test")
	buyer := createTestUser(t, "buyer@digikart.test")
	createTestReferral(t, referrer.ID, &buyer.ID, "REFCODE4", models.ReferralStatusCompleted, time.Now().Add(-48*time.Hour))
	purchase := createTestPurchase(t, buyer.ID, 0, models.PurchaseStatusCompleted)

	result, err := ProcessPurchaseCommission(purchase.ID)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Zero(t, result.Commission.PlatformFeeCents)
	assert.Zero(t, result.Commission.CommissionCents)
}

func TestReprocessReferrerCommissions(t *testing.T) {
	setupTestDB(t)

	referrer := createTestUser(t, "referrer@digikart.test")
	buyer := createTestUser(t, "buyer@digikart.test")
	createTestReferral(t, referrer.ID, &buyer.ID, "REFCODE5", models.ReferralStatusCompleted, time.Now().Add(-48*time.Hour))
	purchase := createTestPurchase(t, buyer.ID, 10000, models.PurchaseStatusCompleted)

	first, err := ProcessPurchaseCommission(purchase.ID)
	require.NoError(t, err)
	require.True(t, first.Created)

	results := ReprocessReferrerCommissions(referrer.ID)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, purchase.ID, results[0].PurchaseID)

	// Reprocessing must not duplicate the ledger.
	var count int64
	require.NoError(t, config.DB.Model(&models.ReferralCommission{}).
		Where("referrer_id = ?", referrer.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
