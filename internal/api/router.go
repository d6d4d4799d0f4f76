package api

import (
	"github.com/gin-gonic/gin"
	"github.com/tdtai09423/moe-ui-sub001/internal/api/cron"
	v1 "github.com/tdtai09423/moe-ui-sub001/internal/api/v1"
	"github.com/tdtai09423/moe-ui-sub001/internal/config"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/rest/middleware"
)

type Handlers struct {
	Health     *v1.HealthHandler
	Billing    *v1.BillingHandler
	Enrollment *v1.EnrollmentHandler
	Charge     *v1.ChargeHandler
	PageState  *v1.PageStateHandler
	BillingRun *cron.BillingRunHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.LoggingMiddleware(logger),
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	router.GET("/health", handlers.Health.Health)

	// Stateless billing engine
	billing := router.Group("/billing")
	{
		billing.POST("/period", handlers.Billing.GetBillingPeriod)
		billing.POST("/proration", handlers.Billing.PreviewProration)
		billing.POST("/payment-status", handlers.Billing.ClassifyCharges)
		billing.POST("/upcoming-cycles", handlers.Billing.EnumerateCycles)
	}

	enrollments := router.Group("/enrollments")
	{
		enrollments.POST("", handlers.Enrollment.CreateEnrollment)
		enrollments.GET("", handlers.Enrollment.ListEnrollments)
		enrollments.GET("/:id", handlers.Enrollment.GetEnrollment)
		enrollments.GET("/:id/status", handlers.Enrollment.GetPaymentStatus)
		enrollments.GET("/:id/upcoming-cycles", handlers.Enrollment.GetUpcomingCycles)
		enrollments.GET("/:id/summary", handlers.Enrollment.GetSummary)
		enrollments.GET("/:id/charges", handlers.Enrollment.ListCharges)
	}

	charges := router.Group("/charges")
	{
		charges.GET("/:id", handlers.Charge.GetCharge)
		charges.POST("/:id/payments", handlers.Charge.RecordPayment)
	}

	pages := router.Group("/pages")
	{
		pages.GET("/:page/state/:session", handlers.PageState.GetPageState)
		pages.PUT("/:page/state/:session", handlers.PageState.PutPageState)
	}

	cronGroup := router.Group("/cron")
	{
		cronGroup.POST("/billing-run", handlers.BillingRun.RunBilling)
	}
}
