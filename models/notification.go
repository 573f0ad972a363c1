package models

import (
	"encoding/json"
	"time"
)

// Notification type constants
const (
	NotificationTypeCommissionEarned = "commission_earned"
	NotificationTypePayoutProcessed  = "payout_processed"
)

// ReferralNotification is an append-only record of a user-visible ledger
// event. Data holds one typed payload per notification type.
type ReferralNotification struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index;not null" json:"user_id"`
	Type      string          `gorm:"index;not null" json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `gorm:"type:jsonb" json:"data"`
	Read      bool            `gorm:"default:false" json:"read"`
	CreatedAt time.Time       `json:"created_at"`
}

// CommissionEarnedData is the payload for commission_earned notifications.
type CommissionEarnedData struct {
	CommissionID     uint  `json:"commission_id"`
	PurchaseID       uint  `json:"purchase_id"`
	SaleAmountCents  int64 `json:"sale_amount_cents"`
	PlatformFeeCents int64 `json:"platform_fee_cents"`
	CommissionCents  int64 `json:"commission_cents"`
}

// PayoutProcessedData is the payload for payout_processed notifications.
type PayoutProcessedData struct {
	PayoutID    uint   `json:"payout_id"`
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
	Status      string `json:"status"`
}

// NewCommissionEarnedNotification builds the notification row for a freshly
// created commission.
func NewCommissionEarnedNotification(userID uint, data CommissionEarnedData) (*ReferralNotification, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &ReferralNotification{
		UserID:  userID,
		Type:    NotificationTypeCommissionEarned,
		Title:   "Commission earned",
		Message: "You earned a commission on a referred purchase",
		Data:    raw,
	}, nil
}

// NewPayoutProcessedNotification builds the notification row for a payout
// lifecycle event (requested or completed).
func NewPayoutProcessedNotification(userID uint, title, message string, data PayoutProcessedData) (*ReferralNotification, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &ReferralNotification{
		UserID:  userID,
		Type:    NotificationTypePayoutProcessed,
		Title:   title,
		Message: message,
		Data:    raw,
	}, nil
}
