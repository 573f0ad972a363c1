package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a regular user in the system
type User struct {
	gorm.Model
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Password     string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	ProfileImage string    `json:"profile_image"`
	IsBlocked    bool      `json:"is_blocked"`
	IsVerified   bool      `json:"is_verified" gorm:"default:false"`
	IsAdmin      bool      `json:"is_admin" gorm:"default:false"`
	LastLoginAt  time.Time `json:"last_login_at"`
	GoogleID     string    `gorm:"unique;default:null" json:"google_id"`

	SellerProfile *SellerProfile `json:"seller_profile,omitempty" gorm:"foreignKey:UserID"`
}

// SellerProfile status constants
const (
	SellerStatusPending  = "pending"
	SellerStatusApproved = "approved"
	SellerStatusRejected = "rejected"
)

// SellerProfile represents a user's seller onboarding record
type SellerProfile struct {
	gorm.Model
	UserID     uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	StoreName  string     `gorm:"not null" json:"store_name"`
	Bio        string     `json:"bio"`
	Website    string     `json:"website"`
	Status     string     `gorm:"default:'pending'" json:"status"`
	ApprovedAt *time.Time `json:"approved_at"`
	AdminNotes string     `json:"-"`
}

// UserOTP represents a one-time password for user verification. Rows are
// hard-deleted once the account verifies.
type UserOTP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null"`
	Code      string    `json:"code" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
