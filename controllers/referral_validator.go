package controllers

import (
	"strings"
	"time"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
)

// Referral program limits
const (
	maxReferralsPerHour     = 5
	maxReferralsPerDay      = 10
	maxVisitsPerIPPerDay    = 5
	maxBurstReferralsPerDay = 3
	burstGap                = 60 * time.Second
)

// RateLimitResult reports whether a referrer may create another referral
type RateLimitResult struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// SuspicionResult flags anomalous referral behaviour
type SuspicionResult struct {
	IsSuspicious bool     `json:"is_suspicious"`
	Reasons      []string `json:"reasons"`
}

// CodeValidationResult is the outcome of checking a referral code
type CodeValidationResult struct {
	IsValid    bool   `json:"is_valid"`
	ReferrerID uint   `json:"referrer_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ReferralValidationResult is the combined outcome of all referral checks.
// Errors block the action; warnings are informational only.
type ReferralValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// CheckSelfReferral reports whether the referred email belongs to the
// referrer's own account (case-insensitive). A lookup failure blocks the
// referral rather than letting it through.
func CheckSelfReferral(referrerID uint, referredEmail string) (bool, error) {
	var referrer models.User
	if err := config.DB.First(&referrer, referrerID).Error; err != nil {
		utils.LogWarn("Self-referral check failed to load referrer %d: %v", referrerID, err)
		return false, utils.WrapError(err, "failed to look up referrer")
	}
	return strings.EqualFold(referrer.Email, strings.TrimSpace(referredEmail)), nil
}

// CheckRateLimit counts referrals created by the referrer in the trailing
// 60 minutes. The window is rolling, not a calendar hour.
func CheckRateLimit(referrerID uint) (RateLimitResult, error) {
	windowStart := time.Now().Add(-time.Hour)

	var inWindow []models.Referral
	if err := config.DB.
		Where("referrer_id = ? AND created_at >= ?", referrerID, windowStart).
		Order("created_at ASC").
		Find(&inWindow).Error; err != nil {
		return RateLimitResult{}, utils.WrapError(err, "failed to count recent referrals")
	}

	remaining := maxReferralsPerHour - len(inWindow)
	if remaining < 0 {
		remaining = 0
	}

	resetAt := time.Now()
	if len(inWindow) > 0 {
		// The slot frees up when the oldest referral leaves the window.
		resetAt = inWindow[0].CreatedAt.Add(time.Hour)
	}

	return RateLimitResult{
		Allowed:   len(inWindow) < maxReferralsPerHour,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// CheckSuspiciousActivity flags referrers whose trailing 24 hours look
// automated: too many referrals, too many visits from one IP, or bursts of
// near-simultaneous referrals. A referral belongs to a burst when it is
// within 60 seconds of its neighbour in creation order, so clusters with
// slower referrals in between still count.
func CheckSuspiciousActivity(referrerID uint) (SuspicionResult, error) {
	dayStart := time.Now().Add(-24 * time.Hour)
	result := SuspicionResult{Reasons: []string{}}

	var referrals []models.Referral
	if err := config.DB.
		Where("referrer_id = ? AND created_at >= ?", referrerID, dayStart).
		Order("created_at ASC").
		Find(&referrals).Error; err != nil {
		return result, utils.WrapError(err, "failed to load recent referrals")
	}

	if len(referrals) > maxReferralsPerDay {
		result.Reasons = append(result.Reasons, "too many referrals in the last 24 hours")
	}

	type ipCount struct {
		IPAddress string
		Count     int
	}
	var ips []ipCount
	if err := config.DB.Model(&models.ReferralTracking{}).
		Select("ip_address, COUNT(*) AS count").
		Where("referrer_id = ? AND event = ? AND created_at >= ?", referrerID, models.TrackingEventClick, dayStart).
		Group("ip_address").
		Having("COUNT(*) > ?", maxVisitsPerIPPerDay).
		Scan(&ips).Error; err != nil {
		return result, utils.WrapError(err, "failed to aggregate visit IPs")
	}
	if len(ips) > 0 {
		result.Reasons = append(result.Reasons, "multiple visits from the same IP address")
	}

	burstMembers := 0
	inBurst := make([]bool, len(referrals))
	for i := 1; i < len(referrals); i++ {
		if referrals[i].CreatedAt.Sub(referrals[i-1].CreatedAt) < burstGap {
			inBurst[i-1] = true
			inBurst[i] = true
		}
	}
	for _, b := range inBurst {
		if b {
			burstMembers++
		}
	}
	if burstMembers > maxBurstReferralsPerDay {
		result.Reasons = append(result.Reasons, "rapid-fire referral creation")
	}

	result.IsSuspicious = len(result.Reasons) > 0
	return result, nil
}

// ValidateReferralCode checks a code's shape and that it belongs to a live
// referral (pending or completed).
func ValidateReferralCode(code string) CodeValidationResult {
	if !utils.IsWellFormedReferralCode(code) {
		return CodeValidationResult{Error: "referral code is malformed"}
	}

	var referral models.Referral
	if err := config.DB.Where("referral_code = ?", code).First(&referral).Error; err != nil {
		return CodeValidationResult{Error: "referral code not found"}
	}

	if referral.Status != models.ReferralStatusPending && referral.Status != models.ReferralStatusCompleted {
		return CodeValidationResult{Error: "referral code is no longer active"}
	}

	return CodeValidationResult{IsValid: true, ReferrerID: referral.ReferrerID}
}

// ValidateReferral composes every referral check. Self-referral, rate limit
// and an invalid code block the conversion; suspicious activity only logs a
// warning. Every failure is also appended to the tracking audit log.
func ValidateReferral(referrerID uint, referredEmail, referralCode string) ReferralValidationResult {
	result := ReferralValidationResult{Errors: []string{}, Warnings: []string{}}

	codeCheck := ValidateReferralCode(referralCode)
	if !codeCheck.IsValid {
		result.Errors = append(result.Errors, codeCheck.Error)
	}

	selfReferral, err := CheckSelfReferral(referrerID, referredEmail)
	if err != nil {
		result.Errors = append(result.Errors, "could not verify referrer identity")
	} else if selfReferral {
		result.Errors = append(result.Errors, "self-referral is not allowed")
	}

	rateLimit, err := CheckRateLimit(referrerID)
	if err != nil {
		result.Errors = append(result.Errors, "could not verify referral rate limit")
	} else if !rateLimit.Allowed {
		result.Errors = append(result.Errors, "referral rate limit exceeded")
	}

	suspicion, err := CheckSuspiciousActivity(referrerID)
	if err != nil {
		utils.LogWarn("Suspicious-activity check failed for referrer %d: %v", referrerID, err)
	} else if suspicion.IsSuspicious {
		for _, reason := range suspicion.Reasons {
			utils.LogWarn("Suspicious referral activity for referrer %d: %s", referrerID, reason)
		}
		result.Warnings = append(result.Warnings, suspicion.Reasons...)
	}

	result.Valid = len(result.Errors) == 0

	if !result.Valid {
		tracking := models.ReferralTracking{
			ReferrerID:   referrerID,
			ReferralCode: referralCode,
			Event:        models.TrackingEventValidationFailure,
			LandingPage:  strings.Join(result.Errors, "; "),
		}
		if err := config.DB.Create(&tracking).Error; err != nil {
			utils.LogError("Failed to record referral validation failure for referrer %d: %v", referrerID, err)
		}
	}

	return result
}
