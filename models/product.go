package models

import (
	"gorm.io/gorm"
)

// Product represents a digital good listed on the marketplace
type Product struct {
	gorm.Model
	SellerID    uint   `json:"seller_id" gorm:"index;not null"`
	Seller      User   `json:"-" gorm:"foreignKey:SellerID"`
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`
	Category    string `json:"category" gorm:"index"`
	PriceCents  int64  `json:"price_cents" gorm:"not null;default:0"`
	FileURL     string `json:"-"`
	PreviewURL  string `json:"preview_url"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	Downloads   int    `json:"downloads" gorm:"default:0"`
}

// Tool represents an entry in the community tools directory
type Tool struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category" gorm:"index"`
	Tags        string `json:"tags"` // comma separated
	Pricing     string `json:"pricing"` // free, freemium, paid
	Upvotes     int    `json:"upvotes" gorm:"default:0"`
	SubmittedBy uint   `json:"submitted_by"`
	Approved    bool   `json:"approved" gorm:"default:false"`
}
