package controllers

import (
	"errors"
	"fmt"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Matches below this score are noise for short directory names.
const toolSearchMinScore = 0.25

// ListToolsHandler returns approved directory entries
func ListToolsHandler(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Tool{}).Where("approved = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count tools", nil)
		return
	}

	var tools []models.Tool
	if err := query.Order("upvotes DESC, created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&tools).Error; err != nil {
		utils.InternalServerError(c, "Failed to load tools", nil)
		return
	}

	utils.SuccessWithPagination(c, "Tools retrieved successfully", gin.H{"tools": tools}, total, pagination.Page, pagination.Limit)
}

// GetToolHandler returns one directory entry by slug
func GetToolHandler(c *gin.Context) {
	var tool models.Tool
	if err := config.DB.Where("slug = ? AND approved = ?", c.Param("slug"), true).First(&tool).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Tool not found")
			return
		}
		utils.InternalServerError(c, "Failed to load tool", nil)
		return
	}

	utils.Success(c, "Tool retrieved successfully", gin.H{"tool": tool})
}

// SearchToolsHandler fuzzy-searches the directory by name, tagline and tags
func SearchToolsHandler(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.BadRequest(c, "Search query is required", nil)
		return
	}

	var tools []models.Tool
	if err := config.DB.Where("approved = ?", true).Find(&tools).Error; err != nil {
		utils.LogError("Failed to load tools for search: %v", err)
		utils.InternalServerError(c, "Failed to search tools", nil)
		return
	}

	haystack := make([]string, len(tools))
	for i, tool := range tools {
		haystack[i] = fmt.Sprintf("%s %s %s", tool.Name, tool.Tagline, tool.Tags)
	}

	ranked := utils.RankBySimilarity(query, haystack, toolSearchMinScore)
	matches := make([]gin.H, 0, len(ranked))
	for _, r := range ranked {
		matches = append(matches, gin.H{
			"tool":  tools[r.Index],
			"score": r.Score,
		})
	}

	utils.Success(c, "Search finished", gin.H{
		"query":   query,
		"matches": matches,
	})
}

// SubmitToolRequest is the directory submission payload
type SubmitToolRequest struct {
	Name        string `json:"name" binding:"required"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	URL         string `json:"url" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Tags        string `json:"tags"`
	Pricing     string `json:"pricing"`
}

// SubmitToolHandler lets an authenticated user propose a directory entry.
// Entries stay hidden until an admin approves them.
func SubmitToolHandler(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req SubmitToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid tool data", err.Error())
		return
	}

	tool := models.Tool{
		Name:        req.Name,
		Slug:        utils.Slugify(req.Name),
		Tagline:     req.Tagline,
		Description: req.Description,
		URL:         req.URL,
		Category:    req.Category,
		Tags:        req.Tags,
		Pricing:     req.Pricing,
		SubmittedBy: user.ID,
	}
	if err := config.DB.Create(&tool).Error; err != nil {
		utils.LogError("Failed to create tool submission from user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to submit tool", nil)
		return
	}

	utils.LogInfo("User %d submitted tool %s", user.ID, tool.Slug)
	utils.Created(c, "Tool submitted for review", gin.H{"tool": tool})
}

// AdminApproveToolHandler publishes a submitted directory entry
func AdminApproveToolHandler(c *gin.Context) {
	var tool models.Tool
	if err := config.DB.First(&tool, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Tool not found")
		return
	}

	if err := config.DB.Model(&tool).Update("approved", true).Error; err != nil {
		utils.InternalServerError(c, "Failed to approve tool", nil)
		return
	}

	utils.Success(c, "Tool approved successfully", gin.H{"tool": tool})
}

// UpvoteToolHandler bumps a tool's upvote count
func UpvoteToolHandler(c *gin.Context) {
	res := config.DB.Model(&models.Tool{}).
		Where("slug = ? AND approved = ?", c.Param("slug"), true).
		Update("upvotes", gorm.Expr("upvotes + 1"))
	if res.Error != nil {
		utils.InternalServerError(c, "Failed to upvote tool", nil)
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Tool not found")
		return
	}

	utils.Success(c, "Upvote recorded", nil)
}
