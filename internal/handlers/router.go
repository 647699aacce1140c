package handlers

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/stwalsh4118/immowert/api/internal/errors"
	"github.com/stwalsh4118/immowert/api/internal/logger"
	"github.com/stwalsh4118/immowert/api/internal/middleware"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Log         *logger.Logger
	CORSOrigins []string
	Health      *HealthHandler
	Valuation   *ValuationHandler
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	UseJSONFieldNames()

	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Log))
	router.Use(middleware.Recovery(cfg.Log))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.GET("/health", cfg.Health.Health)
	router.GET("/health/ready", cfg.Health.Ready)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", cfg.Health.Info)
		v1.GET("/cities", cfg.Valuation.Cities)

		valuations := v1.Group("/valuations")
		{
			valuations.POST("/rental", cfg.Valuation.Rental)
			valuations.POST("/sale", cfg.Valuation.Sale)
			valuations.POST("/comparison", cfg.Valuation.Comparison)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	return router
}

// UseJSONFieldNames makes validation errors report JSON field names
// ("city_id") instead of Go field names ("CityID").
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}
