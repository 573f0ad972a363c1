package routes

import (
	"github.com/Nikhil-737/DigiKart/controllers"
	"github.com/Nikhil-737/DigiKart/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all user-related routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public API routes
	router.POST("/register", controllers.RegisterUser)
	router.POST("/login", controllers.LoginUser)
	router.POST("/verify-otp", controllers.VerifyOTP)

	// Marketplace browsing
	router.GET("/products", controllers.ListProductsHandler)
	router.GET("/products/:slug", controllers.GetProductHandler)

	// Tools directory
	router.GET("/tools", controllers.ListToolsHandler)
	router.GET("/tools/search", controllers.SearchToolsHandler)
	router.GET("/tools/:slug", controllers.GetToolHandler)

	// Protected routes (require authentication)
	protected := router.Group("/user")
	protected.Use(middleware.AuthMiddleware())
	{
		// Purchases
		protected.POST("/purchases", controllers.CreatePurchaseHandler)
		protected.POST("/purchases/confirm", controllers.ConfirmPurchaseHandler)
		protected.GET("/purchases", controllers.ListMyPurchasesHandler)
		protected.GET("/purchases/:id/invoice", controllers.DownloadInvoiceHandler)

		// Tools directory
		protected.POST("/tools", controllers.SubmitToolHandler)
		protected.POST("/tools/:slug/upvote", controllers.UpvoteToolHandler)

		// Seller onboarding
		protected.POST("/seller/apply", controllers.ApplySellerHandler)
		protected.GET("/seller/profile", controllers.GetMySellerProfileHandler)

		// Referral program
		protected.GET("/referrals/code", controllers.GetMyReferralCodeHandler)
		protected.GET("/referrals", controllers.ListMyReferralsHandler)
		protected.GET("/referrals/commissions", controllers.ListMyCommissionsHandler)
		protected.GET("/referrals/stats", controllers.GetMyReferralStatsHandler)
		protected.POST("/referrals/payouts", controllers.RequestPayoutHandler)
		protected.GET("/referrals/payouts", controllers.ListMyPayoutsHandler)

		// Notifications
		protected.GET("/notifications", controllers.ListNotificationsHandler)
		protected.PUT("/notifications/:id/read", controllers.MarkNotificationReadHandler)
		protected.PUT("/notifications/read-all", controllers.MarkAllNotificationsReadHandler)

		// Seller routes (require approved seller profile)
		seller := protected.Group("/seller")
		seller.Use(middleware.SellerMiddleware())
		{
			seller.POST("/products", controllers.CreateProductHandler)
			seller.GET("/products", controllers.ListMyProductsHandler)
			seller.PUT("/products/:id", controllers.UpdateProductHandler)
		}
	}
}
