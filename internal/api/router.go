package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wafam/salesbot/internal/api/middleware"
	"github.com/wafam/salesbot/internal/repository"
	"github.com/wafam/salesbot/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(chat *service.ChatService, leads *repository.LeadRepository, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler := NewHandler(chat, leads)
	handler.RegisterRoutes(r)

	return r
}
