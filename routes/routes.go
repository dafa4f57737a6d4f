package routes

import (
	"limelight/governance"
	"limelight/lifecycle"
	"limelight/middleware"
	"limelight/quote"
	"limelight/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddQuoteRoutes(router *httprouter.Router, engine *quote.Engine, rl *ratelim.RateLimiter) {
	router.POST("/api/quotes", rl.Limit(engine.HandleCalculateQuote))
	router.POST("/api/admin/quotes/preview", middleware.Authenticate(engine.HandlePreviewQuote))
}

func AddBookingRoutes(router *httprouter.Router, svc *lifecycle.Service, rl *ratelim.RateLimiter) {
	router.POST("/api/bookings", rl.Limit(middleware.Authenticate(svc.HandleCreateBooking)))
	router.GET("/api/bookings", middleware.Authenticate(svc.HandleListBookings))
	router.GET("/api/bookings/:id", middleware.Authenticate(svc.HandleGetBooking))
	router.GET("/api/bookings/:id/summary.pdf", svc.HandlePrintSummary)
	router.POST("/api/payments/webhook", svc.HandlePaymentWebhook)
	router.GET("/ws/bookings/:date", lifecycle.HandleWS)
}

func AddGovernanceRoutes(router *httprouter.Router, svc *governance.Service) {
	router.POST("/api/admin/killswitch", middleware.Authenticate(svc.HandleToggleKillSwitch))
	router.GET("/api/admin/revenue/status", svc.HandleRevenueStatus)
	router.POST("/api/admin/hygiene", middleware.Authenticate(svc.HandleRunHygiene))
	router.POST("/api/admin/anomalies", middleware.Authenticate(svc.HandleLogAnomaly))
}
