package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/client"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain/alerts"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain/auth"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain/dashboard"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain/home"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain/settings"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain/simulator"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain/transactions"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain/user"
	"github.com/FACorreiaa/fraudguard-console/internal/app/middleware"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
	"github.com/FACorreiaa/fraudguard-console/internal/app/renderer"
	"github.com/FACorreiaa/fraudguard-console/internal/pkg/config"
)

// Clients are the resource clients shared by every handler.
type Clients struct {
	Auth         *client.AuthClient
	Transactions *client.TransactionsClient
	Users        *client.UsersClient
	Analyzer     *client.AnalyzerClient
	Geocoder     *client.Geocoder
}

func NewClients(cfg *config.Config, log *zap.Logger) (*Clients, error) {
	backend, err := client.New("backend", cfg.Backend.BaseURL, client.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}
	analyzer, err := client.New("analyzer", cfg.Backend.AnalyzerURL, client.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("analyzer client: %w", err)
	}
	geocoder, err := client.New("geocoder", cfg.Geocoder.BaseURL, client.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("geocoder client: %w", err)
	}

	return &Clients{
		Auth:         client.NewAuthClient(backend),
		Transactions: client.NewTransactionsClient(backend),
		Users:        client.NewUsersClient(backend),
		Analyzer:     client.NewAnalyzerClient(analyzer),
		Geocoder:     client.NewGeocoder(geocoder, cfg.Geocoder.UserAgent, cfg.Geocoder.CacheTTL),
	}, nil
}

type AppHandlers struct {
	Home         *home.HomeHandlers
	Auth         *auth.AuthHandlers
	Dashboard    *dashboard.DashboardHandlers
	Alerts       *alerts.AlertsHandlers
	Transactions *transactions.TransactionHandlers
	Simulator    *simulator.SimulatorHandlers
	User         *user.Handler
	Settings     *settings.SettingsHandlers
	StaticPages  *domain.BaseHandler
}

// Setup installs the templ renderer and every console route. The session
// middleware must already be on r.
func Setup(r *gin.Engine, cfg *config.Config, clients *Clients, version string, log *zap.Logger) {
	ginHTMLRenderer := r.HTMLRender
	r.HTMLRender = &renderer.HTMLTemplRenderer{FallbackHTMLRenderer: ginHTMLRenderer}

	setupRouter(r, setupDependencies(cfg, clients, version, log))
}

func setupDependencies(cfg *config.Config, clients *Clients, version string, log *zap.Logger) *AppHandlers {
	baseHandler := domain.NewBaseHandler(log)

	userService := user.NewUserService(clients.Users, log)
	runner := simulator.NewRunner(clients.Transactions, cfg.Simulator.BurstSpacing, cfg.Simulator.VelocitySpacing)
	history := simulator.NewHistory(cfg.Simulator.HistoryTTL, cfg.Simulator.HistoryLimit)

	return &AppHandlers{
		Home: home.NewHomeHandlers(baseHandler, version),
		Auth: auth.NewAuthHandlers(baseHandler, log),
		Dashboard: dashboard.NewDashboardHandlers(baseHandler, clients.Transactions, dashboard.Options{
			Period: cfg.Poll.DashboardPeriod,
			Limit:  cfg.Poll.DashboardLimit,
		}, log),
		Alerts:       alerts.NewAlertsHandlers(baseHandler, clients.Transactions, cfg.Poll.AlertsPeriod, log),
		Transactions: transactions.NewTransactionHandlers(baseHandler, clients.Transactions, clients.Analyzer, clients.Geocoder, log),
		Simulator:    simulator.NewSimulatorHandlers(baseHandler, runner, history, log),
		User:         user.NewHandler(baseHandler, userService),
		Settings:     settings.NewSettingsHandlers(baseHandler, cfg.MFAEnabled, log),
		StaticPages:  baseHandler,
	}
}

func setupRouter(r *gin.Engine, h *AppHandlers) {
	r.GET("/healthz", h.Home.Health)

	public := r.Group("/")
	{
		public.GET("/", h.Home.ShowHomePage)
		public.GET("/login", middleware.RedirectIfAuthenticated("/dashboard"), h.Auth.ShowLogin)
		public.POST("/login", h.Auth.Login)
		public.POST("/logout", h.Auth.Logout)
	}

	protected := r.Group("/")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/dashboard", h.Dashboard.Dashboard)
		protected.GET("/dashboard/stream", h.Dashboard.Stream)
		protected.GET("/ws/transactions", h.Dashboard.Feed)

		protected.GET("/alerts", h.Alerts.Alerts)
		protected.GET("/alerts/stream", h.Alerts.Stream)
		protected.GET("/high-risk-alerts", alerts.Legacy)

		txns := protected.Group("/transactions/:id")
		{
			txns.GET("", h.Transactions.Detail)
			txns.POST("/status", h.Transactions.UpdateStatus)
			txns.POST("/analyze", h.Transactions.Analyze)
			txns.DELETE("", middleware.RequireRole(models.RoleAdmin), h.Transactions.Delete)
		}

		sim := protected.Group("/simulator")
		{
			sim.GET("", h.Simulator.Simulator)
			sim.POST("/check", h.Simulator.Check)
			sim.POST("/burst", h.Simulator.Burst)
			sim.POST("/velocity", h.Simulator.Velocity)
			sim.POST("/clear", h.Simulator.Clear)
		}

		protected.GET("/settings", h.Settings.Settings)
	}

	admin := r.Group("/admin/users")
	admin.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("", h.User.List)
		admin.GET("/new", h.User.New)
		admin.GET("/check-username", h.User.CheckUsername)
		admin.POST("", h.User.Create)
		admin.GET("/:id/edit", h.User.Edit)
		admin.POST("/:id", h.User.Update)
		admin.DELETE("/:id", h.User.Delete)
		admin.POST("/:id/toggle", h.User.Toggle)
	}

	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Status(http.StatusNotFound)
			return
		}
		h.StaticPages.NotFound(c)
	})
}
