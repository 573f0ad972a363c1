package models

import (
	"time"

	"gorm.io/gorm"
)

// Referral status constants
const (
	ReferralStatusPending   = "pending"
	ReferralStatusCompleted = "completed"
)

// Referral links a referrer to the user who signed up with their code.
// The first row for a code is created when the referrer requests it, with
// ReferredID nil and status pending; every later conversion of the same
// code adds a completed row. A code always belongs to exactly one referrer.
// Rows are never deleted; the audit trail depends on them.
type Referral struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ReferrerID   uint           `gorm:"index;not null;index:idx_referral_referrer_code" json:"referrer_id"`
	Referrer     User           `gorm:"foreignKey:ReferrerID" json:"-"`
	ReferredID   *uint          `gorm:"index" json:"referred_id"`
	ReferralCode string         `gorm:"index;not null;index:idx_referral_referrer_code" json:"referral_code"`
	Status       string         `gorm:"index;default:'pending'" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	CompletedAt  *time.Time     `json:"completed_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// ReferralTracking is the click/visit audit trail behind the anti-fraud
// checks. Validation failures are appended here as synthetic events too.
type ReferralTracking struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ReferrerID     uint       `gorm:"index" json:"referrer_id"`
	ReferralCode   string     `gorm:"index" json:"referral_code"`
	IPAddress      string     `json:"ip_address"`
	UserAgent      string     `json:"user_agent"`
	ReferrerURL    string     `json:"referrer_url"`
	LandingPage    string     `json:"landing_page"`
	Event          string     `gorm:"index;default:'click'" json:"event"`
	Converted      bool       `gorm:"default:false" json:"converted"`
	ConversionDate *time.Time `json:"conversion_date"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Tracking event constants
const (
	TrackingEventClick             = "click"
	TrackingEventValidationFailure = "validation_failure"
)
