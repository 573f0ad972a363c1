package controllers

import (
	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/gin-gonic/gin"
)

// AdminListUsersHandler returns users with optional search by email/username
func AdminListUsersHandler(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR username LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count users", nil)
		return
	}

	var users []models.User
	if err := query.Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Failed to load users", nil)
		return
	}

	utils.SuccessWithPagination(c, "Users retrieved successfully", gin.H{"users": users}, total, pagination.Page, pagination.Limit)
}

// AdminBlockUserHandler toggles a user's blocked state
func AdminBlockUserHandler(c *gin.Context) {
	utils.LogInfo("AdminBlockUserHandler called")

	var req struct {
		UserID  uint  `json:"user_id" binding:"required"`
		Blocked *bool `json:"blocked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "user_id and blocked are required", err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, req.UserID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if err := config.DB.Model(&user).Update("is_blocked", *req.Blocked).Error; err != nil {
		utils.LogError("Failed to update block state for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update user", nil)
		return
	}

	action := "unblocked"
	if *req.Blocked {
		action = "blocked"
	}
	utils.LogInfo("Admin %s user %d", action, user.ID)
	utils.Success(c, "User "+action+" successfully", gin.H{"user": gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"is_blocked": *req.Blocked,
	}})
}
