package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/arasfeld/rent-app/docs"
	"github.com/arasfeld/rent-app/internal/app/controllers"
	"github.com/arasfeld/rent-app/internal/app/middleware"
	"github.com/arasfeld/rent-app/internal/app/validation"
	"github.com/arasfeld/rent-app/internal/domain/services"
	"github.com/arasfeld/rent-app/internal/domain/services/container"
	"github.com/arasfeld/rent-app/internal/infrastructure/config"
)

// SetupRouter builds the gin engine with every route registered
func SetupRouter(serviceContainer *container.ServiceContainer, cfg *config.Config) *gin.Engine {
	validation.Register()

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.MaxMultipartMemory = 8 << 20

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer, cfg)
	return r
}

// corsConfig allows the configured origins; an empty list or "*" allows any origin
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}

// registerRoutes mounts every API route under /api
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
	cfg *config.Config,
) {
	api := r.Group("/api")
	registerPublicRoutes(api, container, cfg)
	registerAuthenticatedRoutes(api, container, cfg)
}

// registerPublicRoutes mounts the routes that need no token
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
	cfg *config.Config,
) {
	public := api.Group("")
	public.Use(middleware.IPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	public.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	public.GET("/health", controllers.HandleHealthFunc(container, "health"))

	// credential endpoints get a tighter bucket
	authGroup := public.Group("/auth")
	authGroup.Use(middleware.IPRateLimiter(5, 10))
	authGroup.POST("/register", controllers.HandleAuthFunc(container, "register"))
	authGroup.POST("/login", controllers.HandleAuthFunc(container, "login"))
}

// registerAuthenticatedRoutes mounts the routes behind the bearer JWT
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
	cfg *config.Config,
) {
	jwtService := container.GetService("jwt").(services.InterfaceJWTService)

	auth := api.Group("")
	auth.Use(middleware.Authentication(jwtService))
	auth.Use(middleware.UserRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	authGroup := auth.Group("/auth")
	authGroup.POST("/refresh", controllers.HandleAuthFunc(container, "refresh"))
	authGroup.GET("/me", controllers.HandleAuthFunc(container, "getProfile"))
	authGroup.PATCH("/profile", controllers.HandleAuthFunc(container, "updateProfile"))

	propertyGroup := auth.Group("/properties")
	propertyGroup.POST("", controllers.HandlePropertyFunc(container, "createProperty"))
	propertyGroup.GET("", controllers.HandlePropertyFunc(container, "getProperties"))
	propertyGroup.GET("/:id", controllers.HandlePropertyFunc(container, "getProperty"))
	propertyGroup.PATCH("/:id", controllers.HandlePropertyFunc(container, "updateProperty"))
	propertyGroup.DELETE("/:id", controllers.HandlePropertyFunc(container, "deleteProperty"))

	tenantGroup := auth.Group("/tenants")
	tenantGroup.POST("", controllers.HandleTenantFunc(container, "createTenant"))
	tenantGroup.GET("", controllers.HandleTenantFunc(container, "getTenants"))
	tenantGroup.GET("/:id", controllers.HandleTenantFunc(container, "getTenant"))
	tenantGroup.PATCH("/:id", controllers.HandleTenantFunc(container, "updateTenant"))
	tenantGroup.DELETE("/:id", controllers.HandleTenantFunc(container, "deleteTenant"))

	leaseGroup := auth.Group("/leases")
	leaseGroup.POST("", controllers.HandleLeaseFunc(container, "createLease"))
	leaseGroup.GET("", controllers.HandleLeaseFunc(container, "getLeases"))
	leaseGroup.GET("/:id", controllers.HandleLeaseFunc(container, "getLease"))
	leaseGroup.PATCH("/:id", controllers.HandleLeaseFunc(container, "updateLease"))
	leaseGroup.DELETE("/:id", controllers.HandleLeaseFunc(container, "deleteLease"))
	leaseGroup.POST("/:id/documents", controllers.HandleLeaseFunc(container, "uploadDocument"))
	leaseGroup.GET("/:id/documents", controllers.HandleLeaseFunc(container, "getDocuments"))
	leaseGroup.DELETE("/:id/documents/:documentId", controllers.HandleLeaseFunc(container, "deleteDocument"))

	paymentGroup := auth.Group("/payments")
	paymentGroup.POST("", controllers.HandlePaymentFunc(container, "createPayment"))
	paymentGroup.POST("/record", controllers.HandlePaymentFunc(container, "recordPayment"))
	paymentGroup.GET("", controllers.HandlePaymentFunc(container, "getPayments"))
	paymentGroup.GET("/summary", controllers.HandlePaymentFunc(container, "getSummary"))
	paymentGroup.GET("/:id", controllers.HandlePaymentFunc(container, "getPayment"))
	paymentGroup.PATCH("/:id", controllers.HandlePaymentFunc(container, "updatePayment"))
	paymentGroup.DELETE("/:id", controllers.HandlePaymentFunc(container, "deletePayment"))

	dashboardGroup := auth.Group("/dashboard")
	dashboardGroup.GET("/stats", controllers.HandleDashboardFunc(container, "getStats"))
	dashboardGroup.GET("/recent-activity", controllers.HandleDashboardFunc(container, "getRecentActivity"))
	dashboardGroup.GET("/financial-summary", controllers.HandleDashboardFunc(container, "getFinancialSummary"))
}
