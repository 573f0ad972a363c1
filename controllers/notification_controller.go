package controllers

import (
	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/gin-gonic/gin"
)

// ListNotificationsHandler returns the user's notifications, newest first
func ListNotificationsHandler(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.ReferralNotification{}).Where("user_id = ?", user.ID)
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count notifications", nil)
		return
	}

	var notifications []models.ReferralNotification
	if err := query.Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&notifications).Error; err != nil {
		utils.InternalServerError(c, "Failed to load notifications", nil)
		return
	}

	utils.SuccessWithPagination(c, "Notifications retrieved successfully", gin.H{"notifications": notifications}, total, pagination.Page, pagination.Limit)
}

// MarkNotificationReadHandler marks one of the user's notifications as read
func MarkNotificationReadHandler(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	id := c.Param("id")
	res := config.DB.Model(&models.ReferralNotification{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Update("read", true)
	if res.Error != nil {
		utils.InternalServerError(c, "Failed to update notification", nil)
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Notification not found")
		return
	}

	utils.Success(c, "Notification marked as read", nil)
}

// MarkAllNotificationsReadHandler marks every unread notification as read
func MarkAllNotificationsReadHandler(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	if err := config.DB.Model(&models.ReferralNotification{}).
		Where("user_id = ? AND read = ?", user.ID, false).
		Update("read", true).Error; err != nil {
		utils.InternalServerError(c, "Failed to update notifications", nil)
		return
	}

	utils.Success(c, "All notifications marked as read", nil)
}
