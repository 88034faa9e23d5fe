// Package http assembles the echo API server for the budgeting backend.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"kakeibo/internal/config"
	"kakeibo/internal/log"
)

// Store is everything the API needs from the repository.
type Store interface {
	LedgerStore
	SettingsStore
}

// New assembles the echo server with routes and middleware. publisher may be
// nil when the export pipeline is disabled.
func New(cfg *config.Config, logger *slog.Logger, store Store, summaries Summarizer, publisher Publisher) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(log.RequestLogger(logger))
	e.Use(rateLimiter(cfg))

	ledger := NewLedgerHandler(store, publisher)
	settings := NewSettingsHandler(store)
	summary := NewSummaryHandler(summaries)

	registerRoutes(e, ledger, settings, summary)
	return e
}

// NewHTTPServer wraps the handler in a net/http server with sane timeouts.
func NewHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(e *echo.Echo, ledger *LedgerHandler, settings *SettingsHandler, summary *SummaryHandler) {
	e.GET("/health", Health)

	api := e.Group("/api/v1", RequireUserID)

	incomes := api.Group("/incomes")
	incomes.GET("", ledger.ListIncomes)
	incomes.POST("", ledger.CreateIncome)
	incomes.PUT("/:id", ledger.UpdateIncome)
	incomes.DELETE("/:id", ledger.DeleteIncome)

	expenses := api.Group("/expenses")
	expenses.GET("", ledger.ListExpenses)
	expenses.POST("", ledger.CreateExpense)
	expenses.PUT("/:id", ledger.UpdateExpense)
	expenses.DELETE("/:id", ledger.DeleteExpense)

	api.GET("/categories", settings.ListCategories)
	api.PUT("/categories", settings.ReplaceCategories)

	st := api.Group("/settings")
	st.GET("/income-templates", settings.ListIncomeTemplates)
	st.PUT("/income-templates", settings.ReplaceIncomeTemplates)
	st.GET("/fixed-cost-templates", settings.ListFixedCostTemplates)
	st.PUT("/fixed-cost-templates", settings.ReplaceFixedCostTemplates)

	api.GET("/summary/month", summary.Month)
	api.GET("/summary/year", summary.Year)
}

type HealthResponse struct {
	Status string `json:"status"`
}

// Health reports liveness.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func rateLimiter(cfg *config.Config) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.RateLimitPerSecond),
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})
	return middleware.RateLimiter(store)
}
