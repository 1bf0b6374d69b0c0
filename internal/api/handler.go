package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"campus-market/config"
	"campus-market/internal/service"
	"campus-market/internal/session"
	"campus-market/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger is a dependency checked by the readiness probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the business services the handlers call
type Services struct {
	Users         *service.UserService
	Catalog       *service.CatalogService
	Cart          *service.CartService
	Orders        *service.OrderService
	Notifications *service.NotificationService
	Stats         *service.StatsService
}

// Handler contains HTTP handlers
type Handler struct {
	svc       Services
	sessions  *session.Manager
	cookie    config.SessionConfig
	readiness map[string]Pinger
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler. readiness maps a dependency name to
// its health check.
func NewHandler(svc Services, sessions *session.Manager, cookie config.SessionConfig, readiness map[string]Pinger) *Handler {
	return &Handler{
		svc:       svc,
		sessions:  sessions,
		cookie:    cookie,
		readiness: readiness,
		logger:    util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.POST("/logout", h.logout)

		api.GET("/items", h.listItems)
		api.GET("/items/:id", h.getItem)
		api.GET("/items/category/:category", h.listItemsByCategory)
		api.GET("/items/search/:query", h.searchItems)
		api.GET("/users/:id/items", h.listSellerItems)
	}

	authed := api.Group("", h.requireSession())
	{
		authed.GET("/user", h.getUser)
		authed.PUT("/user/role", h.updateRole)
		authed.PUT("/user/profile", h.updateProfile)
		authed.PUT("/user/password", h.changePassword)

		authed.POST("/items", h.createItem)
		authed.PUT("/items/:id", h.updateItem)
		authed.DELETE("/items/:id", h.deleteItem)

		authed.GET("/cart", h.getCart)
		authed.POST("/cart", h.addToCart)
		authed.PUT("/cart/:itemId", h.updateCartItem)
		authed.DELETE("/cart/:itemId", h.removeCartItem)
		authed.DELETE("/cart", h.clearCart)

		authed.POST("/orders", h.createOrder)
		authed.GET("/orders", h.listOrders)
		authed.GET("/orders/:id", h.getOrder)
		authed.PUT("/orders/:id/status", h.updateOrderStatus)
		authed.GET("/seller/orders", h.listSellerOrders)
		authed.GET("/seller/stats", h.sellerStats)

		authed.GET("/notifications", h.listNotifications)
		authed.GET("/notifications/unread", h.listUnreadNotifications)
		authed.PUT("/notifications/read-all", h.markAllNotificationsRead)
		authed.PUT("/notifications/:id/read", h.markNotificationRead)
		authed.DELETE("/notifications/:id", h.deleteNotification)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings every registered dependency
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(gin.H, len(h.readiness))
	ready := true
	for name, dep := range h.readiness {
		if err := dep.Ping(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = "down"
			ready = false
			continue
		}
		checks[name] = "up"
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not ready", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status": status,
		"checks": checks,
		"time":   time.Now().Unix(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Inc()
	}
}
