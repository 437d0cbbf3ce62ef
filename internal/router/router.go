package router

import (
	"time"

	"github.com/offset122/PubInventoryTracker/internal/config"
	"github.com/offset122/PubInventoryTracker/internal/handler"
	"github.com/offset122/PubInventoryTracker/internal/infra"
	"github.com/offset122/PubInventoryTracker/internal/middleware"
	"github.com/offset122/PubInventoryTracker/internal/repository"
	"github.com/offset122/PubInventoryTracker/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the process-wide collaborators built in main.
type Deps struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Generator infra.TextGenerator
	AIBreaker *infra.CircuitBreaker
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	var sessions infra.SessionStore
	if deps.Redis != nil {
		sessions = infra.NewRedisSessionStore(deps.Redis)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(deps.DB)
	productRepo := repository.NewProductRepository(deps.DB)
	purchaseRepo := repository.NewPurchaseRepository(deps.DB)
	saleRepo := repository.NewSaleRepository(deps.DB)
	analyticsRepo := repository.NewAnalyticsRepository(deps.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, sessions, cfg)
	productSvc := service.NewProductService(productRepo)
	ledgerSvc := service.NewLedgerService(productRepo, purchaseRepo, saleRepo)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, productRepo, ledgerSvc)
	insightSvc := service.NewInsightService(productRepo, ledgerSvc, analyticsSvc, deps.Generator, deps.AIBreaker, service.InsightOptions{
		Timeout:      cfg.AITimeout(),
		Currency:     cfg.Currency,
		BusinessName: cfg.BusinessName,
	})

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	ledgerH := handler.NewLedgerHandler(ledgerSvc)
	dashboardH := handler.NewDashboardHandler(analyticsSvc)
	insightsH := handler.NewInsightsHandler(insightSvc)
	reportsH := handler.NewReportsHandler(productSvc, cfg.BusinessName, cfg.Currency)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(deps.DB, deps.Redis, deps.AIBreaker))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/api/auth/login", middleware.LoginRateLimiter(), authH.Login)

	// Protected routes
	api := r.Group("/api", middleware.JWTAuth(cfg.JWTSecret, sessions))
	{
		api.POST("/auth/logout", authH.Logout)
		api.GET("/auth/user", authH.CurrentUser)

		products := api.Group("/products")
		{
			products.GET("", productsH.List)
			products.POST("", productsH.Create)
			products.GET("/profitability", productsH.Profitability)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		api.GET("/purchases", ledgerH.ListPurchases)
		api.POST("/purchases", ledgerH.RecordPurchase)
		api.GET("/sales", ledgerH.ListSales)
		api.POST("/sales", ledgerH.RecordSale)

		dash := api.Group("/dashboard")
		{
			dash.GET("/stats", dashboardH.Stats)
			dash.GET("/top-products", dashboardH.TopProducts)
			dash.GET("/recent-transactions", dashboardH.RecentTransactions)
			dash.GET("/revenue-chart", dashboardH.RevenueChart)
		}
		api.GET("/inventory/low-stock", dashboardH.LowStock)

		api.GET("/ai/insights", insightsH.Insights)
		api.POST("/ai/insights/detailed", insightsH.Detailed)

		api.GET("/reports/profitability.pdf", reportsH.ProfitabilityPDF)
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
