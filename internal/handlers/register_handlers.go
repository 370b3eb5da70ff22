package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_conversion_app/cmd/docs"
	portssvc "github.com/SscSPs/currency_conversion_app/internal/core/ports/services"
	"github.com/SscSPs/currency_conversion_app/internal/middleware"
	"github.com/SscSPs/currency_conversion_app/internal/platform/config"
	"github.com/SscSPs/currency_conversion_app/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	analytics *utils.PosthogClientWrapper,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services, analytics)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and its middleware chain.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	analytics *utils.PosthogClientWrapper,
) {
	v1 := r.Group("/api/v1")

	if cfg.RateLimit != "" {
		limiterInstance, err := middleware.NewRateLimiter(cfg.RateLimit)
		if err != nil {
			slog.Warn("Rate limiting disabled", slog.String("error", err.Error()))
		} else {
			v1.Use(middleware.RateLimit(limiterInstance))
		}
	}
	if cfg.AuthEnabled() {
		v1.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	}
	v1.Use(middleware.PosthogMiddleware(analytics))

	RegisterConversionRoutes(v1, services.Conversion)
	RegisterExchangeRateRoutes(v1, services.Conversion)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
