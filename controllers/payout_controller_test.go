package controllers

import (
	"testing"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestPayoutBelowMinimum(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "referrer@digikart.test")

	_, err := RequestPayout(user.ID, 2000, models.PayoutMethodPaypal)
	assert.ErrorIs(t, err, utils.ErrBelowMinimumPayout)
}

func TestRequestPayoutInsufficientBalance(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "referrer@digikart.test")
	buyer := createTestUser(t, "buyer@digikart.test")
	createTestCommission(t, user.ID, buyer.ID, 1, 3000, models.CommissionStatusConfirmed)

	_, err := RequestPayout(user.ID, 5000, models.PayoutMethodPaypal)
	assert.ErrorIs(t, err, utils.ErrInsufficientBalance)
}

func TestRequestPayoutSucceeds(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "referrer@digikart.test")
	buyer := createTestUser(t, "buyer@digikart.test")
	createTestCommission(t, user.ID, buyer.ID, 1, 2000, models.CommissionStatusPending)
	createTestCommission(t, user.ID, buyer.ID, 2, 3000, models.CommissionStatusConfirmed)

	payout, err := RequestPayout(user.ID, 4000, models.PayoutMethodStripe)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPending, payout.Status)
	assert.Equal(t, int64(4000), payout.AmountCents)
	assert.False(t, payout.RequestedAt.IsZero())

	var notifications []models.ReferralNotification
	require.NoError(t, config.DB.Where("user_id = ?", user.ID).Find(&notifications).Error)
	assert.Len(t, notifications, 1)
}

func TestPendingBalanceExcludesPaidAndCancelled(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "referrer@digikart.test")
	buyer := createTestUser(t, "buyer@digikart.test")
	createTestCommission(t, user.ID, buyer.ID, 1, 1000, models.CommissionStatusPending)
	createTestCommission(t, user.ID, buyer.ID, 2, 2000, models.CommissionStatusConfirmed)
	createTestCommission(t, user.ID, buyer.ID, 3, 4000, models.CommissionStatusPaid)
	createTestCommission(t, user.ID, buyer.ID, 4, 8000, models.CommissionStatusCancelled)

	balance, err := PendingBalanceCents(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), balance)
}

func TestProcessPayoutInvalidTransition(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "referrer@digikart.test")
	buyer := createTestUser(t, "buyer@digikart.test")
	createTestCommission(t, user.ID, buyer.ID, 1, 5000, models.CommissionStatusConfirmed)

	payout, err := RequestPayout(user.ID, 5000, models.PayoutMethodPaypal)
	require.NoError(t, err)

	_, err = ProcessPayout(payout.ID, models.PayoutStatusCompleted, 1, "")
	require.NoError(t, err)

	// Completed is terminal.
	_, err = ProcessPayout(payout.ID, models.PayoutStatusProcessing, 1, "")
	assert.ErrorIs(t, err, utils.ErrInvalidPayoutStatus)
}

func TestProcessPayoutCompletionReconcilesLedger(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "referrer@digikart.test")
	buyer := createTestUser(t, "buyer@digikart.test")
	confirmed1 := createTestCommission(t, user.ID, buyer.ID, 1, 3000, models.CommissionStatusConfirmed)
	confirmed2 := createTestCommission(t, user.ID, buyer.ID, 2, 2500, models.CommissionStatusConfirmed)
	pending := createTestCommission(t, user.ID, buyer.ID, 3, 1000, models.CommissionStatusPending)

	payout, err := RequestPayout(user.ID, 5500, models.PayoutMethodBankTransfer)
	require.NoError(t, err)

	updated, err := ProcessPayout(payout.ID, models.PayoutStatusProcessing, 1, "batch 42")
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusProcessing, updated.Status)
	assert.NotNil(t, updated.ProcessedAt)

	updated, err = ProcessPayout(payout.ID, models.PayoutStatusCompleted, 1, "")
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)

	// Every confirmed commission is now paid and linked to the payout.
	for _, id := range []uint{confirmed1.ID, confirmed2.ID} {
		var commission models.ReferralCommission
		require.NoError(t, config.DB.First(&commission, id).Error)
		assert.Equal(t, models.CommissionStatusPaid, commission.Status)
		require.NotNil(t, commission.PayoutID)
		assert.Equal(t, payout.ID, *commission.PayoutID)
		assert.NotNil(t, commission.PaidAt)
	}

	// Pending commissions are untouched.
	var stillPending models.ReferralCommission
	require.NoError(t, config.DB.First(&stillPending, pending.ID).Error)
	assert.Equal(t, models.CommissionStatusPending, stillPending.Status)
	assert.Nil(t, stillPending.PayoutID)

	var paidSum int64
	require.NoError(t, config.DB.Model(&models.ReferralCommission{}).
		Where("referrer_id = ? AND status = ?", user.ID, models.CommissionStatusPaid).
		Select("COALESCE(SUM(commission_cents), 0)").
		Scan(&paidSum).Error)
	assert.Equal(t, int64(5500), paidSum)
}

func TestProcessPayoutFailedLeavesCommissions(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "referrer@digikart.test")
	buyer := createTestUser(t, "buyer@digikart.test")
	confirmed := createTestCommission(t, user.ID, buyer.ID, 1, 5000, models.CommissionStatusConfirmed)

	payout, err := RequestPayout(user.ID, 5000, models.PayoutMethodManual)
	require.NoError(t, err)

	_, err = ProcessPayout(payout.ID, models.PayoutStatusFailed, 1, "bank rejected")
	require.NoError(t, err)

	var commission models.ReferralCommission
	require.NoError(t, config.DB.First(&commission, confirmed.ID).Error)
	assert.Equal(t, models.CommissionStatusConfirmed, commission.Status)
	assert.Nil(t, commission.PayoutID)
}

func TestValidPayoutTransitionTable(t *testing.T) {
	assert.True(t, models.ValidPayoutTransition(models.PayoutStatusPending, models.PayoutStatusProcessing))
	assert.True(t, models.ValidPayoutTransition(models.PayoutStatusPending, models.PayoutStatusCancelled))
	assert.True(t, models.ValidPayoutTransition(models.PayoutStatusProcessing, models.PayoutStatusCompleted))
	assert.False(t, models.ValidPayoutTransition(models.PayoutStatusCompleted, models.PayoutStatusProcessing))
	assert.False(t, models.ValidPayoutTransition(models.PayoutStatusFailed, models.PayoutStatusCompleted))
	assert.False(t, models.ValidPayoutTransition(models.PayoutStatusCancelled, models.PayoutStatusPending))
	assert.False(t, models.ValidPayoutTransition(models.PayoutStatusProcessing, models.PayoutStatusPending))
}
