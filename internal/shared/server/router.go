package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-parser/internal/httpapi"
	"resume-parser/internal/services/health"
	"resume-parser/internal/shared/config"
	"resume-parser/internal/shared/metrics"
	"resume-parser/internal/shared/server/middleware"
	"resume-parser/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config  config.Config
	Handler *httpapi.Handler
	Health  *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimitConfig()),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(false, false)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	r.GET("/metrics", metrics.Handler())
	deps.Handler.RegisterRoutes(api)

	return r
}

// rateLimitConfig guards the HTTP surface per client IP. Extraction routes
// carry a tighter rule; every request there can reach the model.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost {
				switch c.FullPath() {
				case "/api/v1/parse", "/api/v1/parse/file", "/api/v1/batch":
					return "PARSE"
				}
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 10, Burst: 20},
			"PARSE":   {Rate: 1, Burst: 5},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
