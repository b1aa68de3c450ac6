package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-parser/internal/batch"
	"resume-parser/internal/cache"
	"resume-parser/internal/httpapi"
	"resume-parser/internal/llm"
	"resume-parser/internal/llm/gemini"
	"resume-parser/internal/parser"
	"resume-parser/internal/ratelimit"
	"resume-parser/internal/services/health"
	"resume-parser/internal/shared/config"
	"resume-parser/internal/shared/server"
	"resume-parser/internal/shared/telemetry"
)

// App holds shared dependencies for both the API server and the CLI.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	Cache       *cache.Store
	Limiter     *ratelimit.Limiter
	LLM         llm.Client
	Parser      *parser.Service
	Coordinator *batch.Coordinator
	Handler     *httpapi.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var store *cache.Store
	if cfg.UseCache {
		store = cache.New(cfg.CacheDir)
	}

	limiter := ratelimit.New(cfg.RequestsPerMinute, time.Minute)
	svc := parser.NewService(llmClient, store, limiter, cfg.MaxRetries, cfg.RetryDelay)
	svc.Timeout = cfg.RequestTimeout
	coordinator := &batch.Coordinator{Parser: svc}
	handler := httpapi.NewHandler(svc, coordinator, cfg.MaxFileSizeBytes)

	app := &App{
		Config:      cfg,
		Cache:       store,
		Limiter:     limiter,
		LLM:         llmClient,
		Parser:      svc,
		Coordinator: coordinator,
		Handler:     handler,
	}
	_, llmConfigured := llmClient.(*gemini.Client)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:  cfg,
		Handler: handler,
		Health:  health.NewService(llmConfigured, store != nil),
	})

	return app, nil
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{
			"hint": "set GEMINI_API_KEY to enable extraction",
		})
		return llm.PlaceholderClient{}, nil
	}
	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Temperature, cfg.MaxOutputTokens)
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return client, nil
}
