package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wafam/salesbot/internal/domain"
	"github.com/wafam/salesbot/internal/repository"
	"github.com/wafam/salesbot/internal/service"
)

// Project metadata exposed on the info endpoints.
const (
	ProjectName = "WAFAM Sales Chatbot"
	Version     = "2.7"
)

// Handler handles the public chatbot API.
type Handler struct {
	chat  *service.ChatService
	leads *repository.LeadRepository
}

// NewHandler creates a new API handler
func NewHandler(chat *service.ChatService, leads *repository.LeadRepository) *Handler {
	return &Handler{chat: chat, leads: leads}
}

// RegisterRoutes registers the chatbot routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Home)
	r.POST("/chat", h.Chat)
	r.POST("/clear", h.Clear)
	r.GET("/leads", h.Leads)
	r.GET("/search", h.Search)
	r.GET("/info", h.Info)
}

// Home returns a liveness summary.
func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"message": "WAFAM Chatbot API",
		"version": Version,
	})
}

// Chat handles one conversation turn.
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chat.Chat(c.Request.Context(), req.Text, req.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Clear wipes a session's conversation state.
func (h *Handler) Clear(c *gin.Context) {
	sessionID := c.DefaultQuery("session_id", service.DefaultSessionID)
	h.chat.Clear(sessionID)
	c.JSON(http.StatusOK, gin.H{
		"status":     "Rozmowa wyczyszczona",
		"session_id": sessionID,
	})
}

// Leads lists stored leads, optionally filtered by status.
func (h *Handler) Leads(c *gin.Context) {
	leads, err := h.leads.List(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if leads == nil {
		leads = []*domain.Lead{}
	}
	c.JSON(http.StatusOK, gin.H{
		"total": len(leads),
		"leads": leads,
	})
}

// Search returns raw retrieval hits for a query.
func (h *Handler) Search(c *gin.Context) {
	q := c.Query("query")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "2"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	results, err := h.chat.Search(c.Request.Context(), q, limit)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if results == nil {
		results = []domain.SearchResult{}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   q,
		"results": results,
	})
}

// Info returns project metadata plus a live lead count.
func (h *Handler) Info(c *gin.Context) {
	total, err := h.leads.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"project":     ProjectName,
		"version":     Version,
		"features":    []string{"RAG", "Intent Detection", "Context Memory", "Lead Collection"},
		"total_leads": total,
	})
}
