package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/avops/roomops-api-go/pkg/auth"
	"github.com/avops/roomops-api-go/pkg/cache"
	"github.com/avops/roomops-api-go/pkg/database"
	"github.com/avops/roomops-api-go/pkg/handlers"
	"github.com/avops/roomops-api-go/pkg/notify"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	store := database.NewStore(db)

	rdb := cache.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, ownership cache disabled")
	}
	ownershipCache := cache.New(rdb, parseTTL(os.Getenv("OWNERSHIP_CACHE_TTL")))

	h := &handlers.Handler{DB: db, Store: store, Cache: ownershipCache}

	reminder := notify.NewReminder(store, parseTTL(os.Getenv("REMINDER_LEAD")))
	if err := reminder.Start(); err != nil {
		log.Fatalf("could not start reminder scheduler: %v", err)
	}
	defer reminder.Stop()

	r := gin.Default()

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Room Operations API",
			"version": "1.4.0",
		})
	})

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
		admin.POST("/rooms", h.SeedRooms)
	}

	// Operator Endpoints (dashboard)
	api := r.Group("/api")
	api.Use(h.AuthMiddleware())
	{
		api.GET("/rooms", h.ListRooms)
		api.GET("/rooms/split", h.SplitRoom)

		api.PUT("/shifts", h.UpsertShift)
		api.GET("/shifts", h.ListShifts)
		api.DELETE("/shifts/:staffId", h.DeleteShift)

		api.GET("/blocks", h.ListBlocks)
		api.POST("/blocks/commit", h.CommitBlocks)
		api.POST("/blocks/move", h.MoveRooms)

		api.POST("/events", h.CreateEvent)
		api.GET("/events", h.ListEvents)
		api.PUT("/events/:id/owner", h.SetEventOwner)
		api.GET("/events/:id/ownership", h.GetOwnership)
		api.GET("/handoffs", h.ListHandoffs)

		api.POST("/copyforward", h.CopyForward)
		api.POST("/copyforward/week", h.CopyForwardWeek)
	}

	// Machine-client Endpoints (push gateway, signage poller)
	machine := r.Group("/machine")
	machine.Use(h.APIKeyMiddleware())
	{
		machine.GET("/blocks", h.ListBlocks)
		machine.GET("/events", h.ListEvents)
		machine.GET("/events/:id/ownership", h.GetOwnership)
		machine.GET("/handoffs", h.ListHandoffs)
		machine.POST("/blocks/validate", h.ValidateBlocks)
		machine.GET("/usage", h.GetMyUsage)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}

func parseTTL(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
