// SPDX-License-Identifier: GPL-3.0-only

package routes

import (
	"adflow-server/commons"
	"adflow-server/handlers"
	"adflow-server/middlewares"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	commons.Logger.Debug("Registering v1 routes")
	api_v1 := e.Group("/v1")
	api_v1.POST("/auth/signup", handlers.SignupHandler)
	api_v1.POST("/auth/login", handlers.LoginHandler)
	api_v1.POST("/auth/logout", handlers.LogoutHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession))
	api_v1.POST("/auth/api-keys", handlers.CreateAPIKeyHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession))
	api_v1.GET("/auth/api-keys", handlers.GetAllAPIKeyHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession))
	api_v1.DELETE("/auth/api-keys/:key_id", handlers.DeleteAPIKeyHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession))
	api_v1.GET("/campaigns/", handlers.GetAllCampaignsHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.POST("/campaigns/", handlers.CreateCampaignHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.GET("/campaigns/:campaign_id", handlers.GetCampaignHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.PUT("/campaigns/:campaign_id", handlers.UpdateCampaignHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.DELETE("/campaigns/:campaign_id", handlers.DeleteCampaignHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.POST("/campaigns/:campaign_id/emails", handlers.SendCampaignEmailsHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.POST("/campaigns/:campaign_id/optimize", handlers.OptimizeCampaignHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.GET("/team/members", handlers.GetTeamMembersHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.POST("/team/members", handlers.AddTeamMemberHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.DELETE("/team/members/:email", handlers.RemoveTeamMemberHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.GET("/plans", handlers.GetPlansHandler)
	api_v1.GET("/usage", handlers.GetUsageHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.GET("/billing/subscription", handlers.GetSubscriptionHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.POST("/billing/create-checkout-session", handlers.CreateCheckoutSessionHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession))
	// Webhook authenticity comes from the signature over the raw body,
	// not from a session or API key.
	api_v1.POST("/billing/webhook", handlers.BillingWebhookHandler)
	api_v1.GET("/notifications", handlers.GetNotificationsHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.POST("/notifications/:id/read", handlers.MarkNotificationReadHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession, middlewares.AuthMethodAPIKey))
	api_v1.GET("/users/", handlers.GetUserHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession))
	api_v1.DELETE("/users/", handlers.DeleteAccountHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession))
	api_v1.PUT("/users/password", handlers.ChangePasswordHandler, middlewares.VerifyAuthMiddleware(middlewares.AuthMethodSession))
	commons.Logger.Info("v1 routes registered successfully")
}
