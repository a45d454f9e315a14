package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/newsagent/config"
	"github.com/mohammad-safakhou/newsagent/internal/agent/core"
	"github.com/mohammad-safakhou/newsagent/internal/agent/telemetry"
	"github.com/mohammad-safakhou/newsagent/news"
	"github.com/mohammad-safakhou/newsagent/news/cache"
	"github.com/mohammad-safakhou/newsagent/prefs"
	"github.com/mohammad-safakhou/newsagent/provider"
	"github.com/mohammad-safakhou/newsagent/tools/web_fetch"
	"github.com/mohammad-safakhou/newsagent/tools/web_search"
)

// Run wires the full agent from configuration and serves HTTP until the
// listener stops.
func Run(cfg *config.Config, addr string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Shared dependencies (top-level DI)
	llm, err := provider.NewProvider(provider.Client(cfg.LLM.Provider), cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.Timeout)
	if err != nil {
		return err
	}
	searcher, err := web_search.NewWebSearcher(web_search.Provider(cfg.Search.Provider), cfg.Search.APIKey, cfg.Search.Timeout)
	if err != nil {
		return err
	}
	fetcher, err := web_fetch.NewWebFetcher(web_fetch.FetcherType(cfg.Extract.Fetcher), cfg.Extract.APIKey, cfg.Extract.Timeout, cfg.Extract.MaxChars)
	if err != nil {
		return err
	}

	var store cache.Store
	switch cfg.Cache.Type {
	case "", "none":
		// Caching disabled.
	default:
		store, err = cache.NewStore(cache.StoreType(cfg.Cache.Type), cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, cfg.Cache.TTL)
		if err != nil {
			return err
		}
	}

	retriever := news.NewRetriever(searcher, fetcher, store, cfg.Search.Sites, cfg.Extract.Timeout, nil)
	toolset := core.NewToolset(retriever, llm, nil)
	tele := telemetry.NewTelemetry(cfg.Telemetry.Enabled, cfg.Telemetry.PeriodicLogs)
	tracker := prefs.NewTracker(nil)
	orch := core.NewOrchestrator(llm, toolset, tracker, tele, nil)

	api := e.Group("/api")
	ch := &ChatHandler{Runner: orch}
	ch.Register(api)

	if addr == "" {
		addr = cfg.Server.Address
		if addr == "" {
			addr = ":8000"
		}
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
