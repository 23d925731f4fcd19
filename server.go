package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/granjadata/avicola_backend/actions"
	"github.com/granjadata/avicola_backend/assistant"
	"github.com/granjadata/avicola_backend/config"
	"github.com/granjadata/avicola_backend/models"
	"github.com/granjadata/avicola_backend/models/reports"
	"github.com/granjadata/avicola_backend/utils"
)

const defaultPort = "8080"

var tracer = otel.Tracer("avicola-backend")

// Define a struct to represent the rate limiter.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// Set after dependencies come up; the readiness gate returns 503 until then.
var (
	apiRegistry *actions.Registry
	llmClient   *assistant.Client
)

func describeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Action actions.Action `json:"action"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Action.Kind == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "provide an action with a kind"})
			return
		}
		summary := actions.Describe(c.Request.Context(), body.Action)
		c.JSON(http.StatusOK, gin.H{"ok": true, "summary": summary})
	}
}

func executeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Action   *actions.Action `json:"action"`
			ActionID string          `json:"actionId"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
			return
		}
		ctx, span := tracer.Start(c.Request.Context(), "actions.execute")
		defer span.End()

		if body.ActionID != "" {
			span.SetAttributes(attribute.String("action.token", body.ActionID))
			result, err := apiRegistry.ExecuteToken(ctx, body.ActionID)
			if errors.Is(err, actions.ErrActionNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
				return
			}
			if err != nil {
				config.LogError(config.GetLogger(), "server", "executeHandler", body.ActionID, nil, err)
				c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "pending action lookup failed"})
				return
			}
			c.JSON(result.Status, result)
			return
		}

		if body.Action != nil && body.Action.Kind != "" {
			span.SetAttributes(attribute.String("action.kind", body.Action.Kind))
			result := apiRegistry.Execute(ctx, *body.Action)
			c.JSON(result.Status, result)
			return
		}

		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "provide action or actionId"})
	}
}

func farmOptionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		farms, err := models.ListFarms(c.Request.Context(), c.Query("q"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "farm lookup failed"})
			return
		}
		if len(farms) > config.SearchLimit {
			farms = farms[:config.SearchLimit]
		}
		items := make([]gin.H, 0, len(farms))
		for _, farm := range farms {
			item := gin.H{"id": farm.ID, "title": farm.Name}
			if farm.Location != nil {
				item["subtitle"] = *farm.Location
			}
			items = append(items, item)
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
	}
}

func geneticLineOptionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		lines, err := models.ListGeneticLines(c.Request.Context(), c.Query("q"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "genetic line lookup failed"})
			return
		}
		if len(lines) > config.SearchLimit {
			lines = lines[:config.SearchLimit]
		}
		items := make([]gin.H, 0, len(lines))
		for _, line := range lines {
			items = append(items, gin.H{"id": line.ID, "title": line.Name})
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
	}
}

func shedStateOptionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		states := models.ShedStates()
		items := make([]gin.H, 0, len(states))
		for _, state := range states {
			items = append(items, gin.H{"id": string(state), "title": string(state)})
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
	}
}

func followUpExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		batchId := c.Param("batchId")
		f, err := reports.FollowUpWorkbook(c.Request.Context(), batchId)
		if errors.Is(err, utils.ErrorRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "broiler batch not found"})
			return
		}
		if err != nil {
			config.LogError(config.GetLogger(), "server", "followUpExportHandler", batchId, nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=follow-ups-%s.xlsx", batchId))
		if err := f.Write(c.Writer); err != nil {
			config.LogError(config.GetLogger(), "server", "followUpExportHandler", batchId, nil, err)
		}
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func requestTimeoutMiddleware() gin.HandlerFunc {
	timeout := 30 * time.Second
	if v := strings.TrimSpace(os.Getenv("REQUEST_TIMEOUT_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Middleware function to check rate limits.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	key := c.ClientIP()

	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Shutdown coordination.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so the platform considers the revision
	// healthy. Until the DB is ready, app endpoints return 503.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow the startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate app endpoints on dependency readiness.
		if config.GetDB() == nil || apiRegistry == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS: explicit allowlist in production, open otherwise.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_ADDRESS")})
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(requestTimeoutMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/chat", chatHandler())
	api.POST("/describe", describeHandler())
	api.POST("/execute", executeHandler())
	api.GET("/options/farms", farmOptionsHandler())
	api.GET("/options/genetic-lines", geneticLineOptionsHandler())
	api.GET("/options/shed-states", shedStateOptionsHandler())
	api.GET("/export/follow-ups/:batchId", followUpExportHandler())
	r.NoRoute(customNotFoundHandler)

	// Start listening immediately (startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisBestEffort()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running migrations
	// as a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	if client, err := assistant.NewClientFromEnv(); err != nil {
		logger.WithFields(logrus.Fields{"field": "assistant"}).Warn("assistant disabled: " + err.Error())
	} else {
		llmClient = client
	}

	// Opening the registry flips the readiness gate.
	apiRegistry = actions.DefaultRegistry(actions.NewPendingStore(actions.PendingTTLFromEnv()))

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}
