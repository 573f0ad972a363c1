package routes

import (
	"github.com/Nikhil-737/DigiKart/controllers"
	"github.com/Nikhil-737/DigiKart/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		// User management
		admin.GET("/users", controllers.AdminListUsersHandler)
		admin.PUT("/users/block", controllers.AdminBlockUserHandler)

		// Seller onboarding review
		admin.GET("/sellers", controllers.AdminListSellersHandler)
		admin.POST("/sellers/review", controllers.AdminReviewSellerHandler)

		// Tools directory moderation
		admin.PUT("/tools/:id/approve", controllers.AdminApproveToolHandler)

		// Referral ledger
		admin.GET("/referrals/overview", controllers.AdminReferralOverviewHandler)
		admin.GET("/referrals/commissions", controllers.AdminListCommissionsHandler)
		admin.POST("/referrals/commissions/process", controllers.ProcessCommissionHandler)
		admin.POST("/referrals/commissions/reprocess", controllers.ReprocessCommissionsHandler)
		admin.POST("/referrals/commissions/confirm", controllers.AdminConfirmCommissionHandler)
		admin.POST("/referrals/commissions/cancel", controllers.AdminCancelCommissionHandler)
		admin.GET("/referrals/payouts", controllers.AdminListPayoutsHandler)
		admin.POST("/referrals/payouts/process", controllers.AdminProcessPayoutHandler)
		admin.GET("/referrals/report", controllers.AdminExportReferralReportHandler)
	}
}
