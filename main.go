package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aimodels/inventory-api/handlers"
	"github.com/aimodels/inventory-api/internal/catalog"
	"github.com/aimodels/inventory-api/internal/config"
	"github.com/aimodels/inventory-api/internal/database"
	"github.com/aimodels/inventory-api/internal/oidc"
	"github.com/aimodels/inventory-api/internal/purchases"
	"github.com/aimodels/inventory-api/pkg/logger"
	"github.com/aimodels/inventory-api/pkg/metrics"
	"github.com/aimodels/inventory-api/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v oidc=%v auth_disabled=%v", cfg.MongoDB.URI != "", cfg.OIDC.Issuer != "", cfg.Auth.Disabled)

	// single shared store handle, connected lazily on first use
	gw := database.NewGateway(cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.Timeout)

	modelsRepo := catalog.NewMongoRepo(gw)
	ledgerRepo := purchases.NewMongoRepo(gw)
	catalogSvc := catalog.NewService(modelsRepo)
	purchaseSvc := purchases.NewService(ledgerRepo, modelsRepo)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(middleware.Metrics())

	auth := buildAuth(context.Background(), cfg)

	handlers.NewModelHandler(catalogSvc, purchaseSvc).Register(r, auth)
	handlers.NewPurchaseHandler(purchaseSvc).Register(r, auth)
	handlers.RegisterSwagger(r)
	handlers.RegisterNotFound(r)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "AI Model Inventory API")
	})

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the store answers a ping
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.MongoDB.Timeout)
		defer cancel()
		deps := map[string]bool{"storage": true}
		if err := gw.Ping(ctx); err != nil {
			logger.Warnf("readiness: mongo ping failed: %v", err)
			deps["storage"] = false
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(startTime).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting inventory API on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Infof("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if err := gw.Close(ctx); err != nil {
		logger.Errorf("mongo disconnect: %v", err)
	}
}

// buildAuth selects the verifier for protected routes. Enforcing is the
// default; a configured-but-unreachable provider fails closed rather than
// falling back to bypass.
func buildAuth(ctx context.Context, cfg *config.Config) gin.HandlerFunc {
	if cfg.Auth.Disabled {
		logger.Warn("auth bypass enabled; requests are admitted without credentials")
		return middleware.Bypass()
	}

	if cfg.OIDC.Issuer != "" && cfg.OIDC.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			return middleware.Auth(ver)
		}
	}

	if cfg.Auth.AllowInsecureToken {
		logger.Warn("enabling insecure token verifier (integration mode)")
		return middleware.Auth(oidc.NewInsecureVerifier())
	}

	logger.Warnf("identity provider not configured; protected routes will reject requests")
	return middleware.RejectAll()
}

// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
// Production deployments should sit behind a stricter policy.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
