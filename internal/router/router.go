package router

import (
	"github.com/gin-gonic/gin"

	"remitra/internal/domain"
	"remitra/internal/handler"
	"remitra/internal/middleware"
	"remitra/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	authH *handler.AuthHandler,
	waybillH *handler.WaybillHandler,
	tariffH *handler.TariffHandler,
	vehicleH *handler.VehicleHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)
	auth.POST("/forgot-password", authH.ForgotPassword)
	auth.POST("/reset-password", authH.ResetPassword)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// User registration is admin only
	protected.POST("/auth/register", middleware.RequireRole(domain.RoleAdmin), authH.Register)

	canWrite := middleware.RequireRole(domain.RoleAdmin, domain.RoleOperator)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// Waybill routes
	waybills := protected.Group("/waybills")
	waybills.POST("", canWrite, waybillH.Upload)
	waybills.GET("", waybillH.List)
	waybills.GET("/export", waybillH.Export)
	waybills.GET("/:id", waybillH.GetByID)
	waybills.GET("/:id/file-url", waybillH.FileURL)
	waybills.PATCH("/:id", canWrite, waybillH.Update)
	waybills.POST("/:id/reprocess", canWrite, waybillH.Reprocess)
	waybills.PATCH("/:id/voided", canWrite, waybillH.SetVoided)
	waybills.DELETE("/:id", adminOnly, waybillH.Delete)

	// Tariff catalog
	tariffs := protected.Group("/tariffs")
	tariffs.POST("", canWrite, tariffH.Create)
	tariffs.GET("", tariffH.List)
	tariffs.GET("/dimensions/:field", tariffH.DimensionValues)
	tariffs.GET("/:id", tariffH.GetByID)
	tariffs.PUT("/:id", canWrite, tariffH.Update)
	tariffs.DELETE("/:id", adminOnly, tariffH.Delete)

	// Fleet registry
	vehicles := protected.Group("/vehicles")
	vehicles.POST("", canWrite, vehicleH.Create)
	vehicles.GET("", vehicleH.List)
	vehicles.GET("/:id", vehicleH.GetByID)
	vehicles.PUT("/:id", canWrite, vehicleH.Update)
	vehicles.DELETE("/:id", adminOnly, vehicleH.Delete)

	return r
}
