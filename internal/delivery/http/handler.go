package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/simbatda/backend/internal/domain"
)

// SearchUsecase is the slice of the aggregation engine the handlers need.
type SearchUsecase interface {
	GetAutocomplete(ctx context.Context, query string, limit int) (*domain.AutocompleteResponse, error)
	SearchItems(ctx context.Context, query domain.SearchQuery) (*domain.SearchResponse, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search SearchUsecase
}

// NewHandler creates a new HTTP handler
func NewHandler(search SearchUsecase) *Handler {
	return &Handler{search: search}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "simbatda-backend",
		"version": "1.0.0",
	})
}

// autocompleteQuery binds /items/autocomplete query parameters.
type autocompleteQuery struct {
	Query string `form:"query" binding:"required,min=1,max=100"`
	Limit int    `form:"limit,default=10" binding:"min=1,max=100"`
}

// GetAutocomplete handles keyword suggestion requests
func (h *Handler) GetAutocomplete(c *gin.Context) {
	var query autocompleteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.search.GetAutocomplete(c.Request.Context(), query.Query, query.Limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// searchQuery binds /items/search query parameters.
type searchQuery struct {
	Query    string `form:"query" binding:"required,min=1,max=100"`
	Platform string `form:"platform,default=all" binding:"oneof=bunjang joongna all"`
	MinPrice *int   `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice *int   `form:"max_price" binding:"omitempty,min=0"`
}

// SearchItems handles unified search requests
func (h *Handler) SearchItems(c *gin.Context) {
	var query searchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.search.SearchItems(c.Request.Context(), domain.SearchQuery{
		Query:    query.Query,
		Filter:   query.Platform,
		MinPrice: query.MinPrice,
		MaxPrice: query.MaxPrice,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// writeError maps domain errors to HTTP statuses. Integration failures are
// reported with platform and operation only; upstream internals stay out of
// the response body.
func (h *Handler) writeError(c *gin.Context, err error) {
	var connErr *domain.ConnectorError
	var normErr *domain.NormalizationError
	var condErr *domain.UnknownConditionError

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &connErr):
		log.Printf("[HTTP] connector failure: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": fmt.Sprintf("upstream %s %s failed", connErr.Platform, connErr.Operation),
		})
	case errors.As(err, &normErr):
		log.Printf("[HTTP] normalization failure: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": fmt.Sprintf("upstream %s response could not be interpreted", normErr.Platform),
		})
	case errors.As(err, &condErr), errors.Is(err, domain.ErrAllPlatformsFailed):
		log.Printf("[HTTP] integration failure: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream data could not be processed"})
	default:
		log.Printf("[HTTP] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
