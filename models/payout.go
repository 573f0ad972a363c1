package models

import (
	"time"

	"gorm.io/gorm"
)

// Payout status constants
const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"
	PayoutStatusCancelled  = "cancelled"
)

// Payout method constants
const (
	PayoutMethodStripe       = "stripe"
	PayoutMethodPaypal       = "paypal"
	PayoutMethodBankTransfer = "bank_transfer"
	PayoutMethodManual       = "manual"
)

// ReferralPayout is a batched transfer of accumulated commissions to a
// referrer. On completion every confirmed commission of the user is
// relabelled paid and linked back via PayoutID.
type ReferralPayout struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"-"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	Method      string         `gorm:"not null" json:"method"`
	Status      string         `gorm:"index;default:'pending'" json:"status"`
	AdminNotes  string         `json:"admin_notes,omitempty"`
	RequestedAt time.Time      `json:"requested_at"`
	ProcessedAt *time.Time     `json:"processed_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidPayoutTransition reports whether a payout may move from one status
// to another. Completed, failed and cancelled are terminal.
func ValidPayoutTransition(from, to string) bool {
	switch from {
	case PayoutStatusPending:
		return to == PayoutStatusProcessing || to == PayoutStatusCompleted ||
			to == PayoutStatusFailed || to == PayoutStatusCancelled
	case PayoutStatusProcessing:
		return to == PayoutStatusCompleted || to == PayoutStatusFailed || to == PayoutStatusCancelled
	default:
		return false
	}
}
