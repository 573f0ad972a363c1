package controllers

import (
	"time"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/gin-gonic/gin"
)

// ReferralStats is the read-side rollup for one referrer. Everything is
// recomputed on demand; read volumes do not justify a cache.
type ReferralStats struct {
	TotalReferrals        int64 `json:"total_referrals"`
	ActiveReferrals       int64 `json:"active_referrals"`
	TotalSalesVolume      int64 `json:"total_sales_volume_cents"`
	TotalPlatformEarnings int64 `json:"total_platform_earnings_cents"`
	TotalReferralEarnings int64 `json:"total_referral_earnings_cents"`
	PendingBalance        int64 `json:"pending_balance_cents"`
	PaidBalance           int64 `json:"paid_balance_cents"`
}

// ComputeReferralStats aggregates a referrer's ledger
func ComputeReferralStats(userID uint) (*ReferralStats, error) {
	stats := &ReferralStats{}

	if err := config.DB.Model(&models.Referral{}).
		Where("referrer_id = ?", userID).
		Count(&stats.TotalReferrals).Error; err != nil {
		return nil, utils.WrapError(err, "failed to count referrals")
	}

	if err := config.DB.Model(&models.Referral{}).
		Where("referrer_id = ? AND status = ?", userID, models.ReferralStatusCompleted).
		Count(&stats.ActiveReferrals).Error; err != nil {
		return nil, utils.WrapError(err, "failed to count active referrals")
	}

	type commissionSums struct {
		Sales       int64
		PlatformFee int64
		Commission  int64
	}
	var sums commissionSums
	if err := config.DB.Model(&models.ReferralCommission{}).
		Where("referrer_id = ?", userID).
		Select("COALESCE(SUM(sale_amount_cents), 0) AS sales, COALESCE(SUM(platform_fee_cents), 0) AS platform_fee, COALESCE(SUM(commission_cents), 0) AS commission").
		Scan(&sums).Error; err != nil {
		return nil, utils.WrapError(err, "failed to sum commissions")
	}
	stats.TotalSalesVolume = sums.Sales
	stats.TotalPlatformEarnings = sums.PlatformFee
	stats.TotalReferralEarnings = sums.Commission

	pending, err := PendingBalanceCents(userID)
	if err != nil {
		return nil, err
	}
	stats.PendingBalance = pending

	if err := config.DB.Model(&models.ReferralPayout{}).
		Where("user_id = ? AND status = ?", userID, models.PayoutStatusCompleted).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&stats.PaidBalance).Error; err != nil {
		return nil, utils.WrapError(err, "failed to sum completed payouts")
	}

	return stats, nil
}

// MonthlyBucket sums commission activity inside one calendar month
type MonthlyBucket struct {
	SalesVolume      int64 `json:"sales_volume_cents"`
	ReferralEarnings int64 `json:"referral_earnings_cents"`
	CommissionCount  int64 `json:"commission_count"`
}

// monthBounds returns the [start, end) boundaries of the calendar month
// containing t, in t's location.
func monthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

func commissionBucket(start, end time.Time) (MonthlyBucket, error) {
	var bucket MonthlyBucket
	err := config.DB.Model(&models.ReferralCommission{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Select("COALESCE(SUM(sale_amount_cents), 0) AS sales_volume, COALESCE(SUM(commission_cents), 0) AS referral_earnings, COUNT(*) AS commission_count").
		Scan(&bucket).Error
	if err != nil {
		return bucket, utils.WrapError(err, "failed to bucket commissions")
	}
	return bucket, nil
}

// GetMyReferralStatsHandler returns the authenticated user's rollups
func GetMyReferralStatsHandler(c *gin.Context) {
	utils.LogInfo("GetMyReferralStatsHandler called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	stats, err := ComputeReferralStats(user.ID)
	if err != nil {
		utils.LogError("Failed to compute referral stats for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to compute referral stats", nil)
		return
	}

	utils.Success(c, "Referral stats retrieved successfully", gin.H{"stats": stats})
}

// AdminReferralOverviewHandler returns program-wide rollups with calendar
// month buckets based on the server's current wall clock.
func AdminReferralOverviewHandler(c *gin.Context) {
	utils.LogInfo("AdminReferralOverviewHandler called")

	now := time.Now()
	thisStart, thisEnd := monthBounds(now)
	lastStart, lastEnd := monthBounds(thisStart.AddDate(0, 0, -1))

	thisMonth, err := commissionBucket(thisStart, thisEnd)
	if err != nil {
		utils.LogError("Failed to bucket current month: %v", err)
		utils.InternalServerError(c, "Failed to compute overview", nil)
		return
	}
	lastMonth, err := commissionBucket(lastStart, lastEnd)
	if err != nil {
		utils.LogError("Failed to bucket previous month: %v", err)
		utils.InternalServerError(c, "Failed to compute overview", nil)
		return
	}

	var totals struct {
		Referrals   int64
		Commissions int64
		PaidOut     int64
	}
	if err := config.DB.Model(&models.Referral{}).Count(&totals.Referrals).Error; err != nil {
		utils.InternalServerError(c, "Failed to compute overview", nil)
		return
	}
	if err := config.DB.Model(&models.ReferralCommission{}).Count(&totals.Commissions).Error; err != nil {
		utils.InternalServerError(c, "Failed to compute overview", nil)
		return
	}
	if err := config.DB.Model(&models.ReferralPayout{}).
		Where("status = ?", models.PayoutStatusCompleted).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&totals.PaidOut).Error; err != nil {
		utils.InternalServerError(c, "Failed to compute overview", nil)
		return
	}

	utils.Success(c, "Referral overview retrieved successfully", gin.H{
		"totals": gin.H{
			"referrals":      totals.Referrals,
			"commissions":    totals.Commissions,
			"paid_out_cents": totals.PaidOut,
		},
		"this_month": thisMonth,
		"last_month": lastMonth,
	})
}
