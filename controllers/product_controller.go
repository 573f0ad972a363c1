package controllers

import (
	"errors"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListProductsHandler returns active products, optionally filtered by category
func ListProductsHandler(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Product{}).Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count products", nil)
		return
	}

	var products []models.Product
	if err := query.Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&products).Error; err != nil {
		utils.LogError("Failed to load products: %v", err)
		utils.InternalServerError(c, "Failed to load products", nil)
		return
	}

	utils.SuccessWithPagination(c, "Products retrieved successfully", gin.H{"products": products}, total, pagination.Page, pagination.Limit)
}

// GetProductHandler returns one product by slug
func GetProductHandler(c *gin.Context) {
	slug := c.Param("slug")

	var product models.Product
	if err := config.DB.Where("slug = ? AND is_active = ?", slug, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Product not found")
			return
		}
		utils.InternalServerError(c, "Failed to load product", nil)
		return
	}

	utils.Success(c, "Product retrieved successfully", gin.H{"product": product})
}

// CreateProductRequest is the seller product creation payload
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	PriceCents  int64  `json:"price_cents" binding:"required"`
	FileURL     string `json:"file_url" binding:"required"`
	PreviewURL  string `json:"preview_url"`
}

// CreateProductHandler lets an approved seller list a digital product
func CreateProductHandler(c *gin.Context) {
	utils.LogInfo("CreateProductHandler called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid product data", err.Error())
		return
	}

	if req.PriceCents < 0 {
		utils.BadRequest(c, "Price must not be negative", nil)
		return
	}

	product := models.Product{
		SellerID:    user.ID,
		Name:        req.Name,
		Slug:        utils.Slugify(req.Name),
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		FileURL:     req.FileURL,
		PreviewURL:  req.PreviewURL,
		IsActive:    true,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		utils.LogError("Failed to create product for seller %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create product", nil)
		return
	}

	utils.LogInfo("Seller %d created product %d (%s)", user.ID, product.ID, product.Slug)
	utils.Created(c, "Product created successfully", gin.H{"product": product})
}

// UpdateProductHandler lets a seller update their own product
func UpdateProductHandler(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var product models.Product
	if err := config.DB.Where("id = ? AND seller_id = ?", c.Param("id"), user.ID).First(&product).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		PriceCents  *int64  `json:"price_cents"`
		PreviewURL  *string `json:"preview_url"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid product data", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			utils.BadRequest(c, "Price must not be negative", nil)
			return
		}
		updates["price_cents"] = *req.PriceCents
	}
	if req.PreviewURL != nil {
		updates["preview_url"] = *req.PreviewURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&product).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update product %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to update product", nil)
		return
	}

	utils.Success(c, "Product updated successfully", gin.H{"product": product})
}

// ListMyProductsHandler returns the seller's own products
func ListMyProductsHandler(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var products []models.Product
	if err := config.DB.Where("seller_id = ?", user.ID).Order("created_at DESC").Find(&products).Error; err != nil {
		utils.InternalServerError(c, "Failed to load products", nil)
		return
	}

	utils.Success(c, "Products retrieved successfully", gin.H{"products": products})
}
