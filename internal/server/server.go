package server

import (
	"context"
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"productcatalog/internal/config"
	"productcatalog/internal/domain/product"
	"productcatalog/internal/domain/upload"
	"productcatalog/internal/middleware"
)

const (
	healthTimeout = 2 * time.Second
	// room for the text fields and multipart framing around the image
	formOverhead = 1 << 20
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Config   *config.Config
	Logger   *gecho.Logger
	DB       *gorm.DB
	Products *product.Service
	Storage  *upload.Storage
}

// NewRouter wires middleware, the product resource, static uploads,
// health and metrics into one engine.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	if d.Config.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		r.Use(middleware.NewMetrics(reg).Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.CORS(d.Config.AllowedOrigins(), d.Logger))

	r.Use(middleware.BodyLimit(d.Config.UploadMaxBytes + formOverhead))

	r.GET("/health", healthHandler(d.DB, d.Logger))

	product.NewHandler(d.Products, d.Config.BaseURL).RegisterRoutes(r)
	upload.RegisterRoutes(r, d.Storage)

	return r
}

func healthHandler(db *gorm.DB, logger *gecho.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			logger.Error("Database health check failed", gecho.Field("error", err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
