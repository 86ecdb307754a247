package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortly/internal/cache"
	"shortly/internal/meta"
	"shortly/internal/registry"
	"shortly/models"
)

// Handler translates HTTP requests into registry calls. The resolver is
// either the registry itself or the redirect cache wrapped around it.
type Handler struct {
	registry *registry.Registry
	resolver cache.Resolver
	cache    *cache.RedirectCache
	meta     *meta.Fetcher
	log      *zap.Logger
}

type shortenRequest struct {
	LongURL string `json:"long_url"`
}

// Shorten handles POST /api/shorten.
func (h *Handler) Shorten(c *gin.Context) {
	var req shortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.LongURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "long_url is required"})
		return
	}
	if _, err := url.ParseRequestURI(req.LongURL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid URL"})
		return
	}

	link, err := h.registry.Create(c.Request.Context(), req.LongURL)
	if err != nil {
		h.log.Error("shorten failed", zap.String("long_url", req.LongURL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to shorten URL"})
		return
	}

	h.log.Info("link created",
		zap.Uint64("id", link.ID), zap.String("short_code", link.ShortCode))
	c.JSON(http.StatusOK, gin.H{"short_code": link.ShortCode})
}

// Redirect handles GET /:code.
func (h *Handler) Redirect(c *gin.Context) {
	code := c.Param("code")

	longURL, err := h.resolver.Resolve(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			// An unknown code is an expected outcome, not a server fault.
			c.JSON(http.StatusNotFound, gin.H{"error": "short URL not found"})
			return
		}
		h.log.Error("resolve failed", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Redirect(http.StatusFound, longURL)
}

// Recent handles GET /recent.
func (h *Handler) Recent(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	rows, total, err := h.registry.ListRecent(c.Request.Context(), page, limit)
	if err != nil {
		h.log.Error("list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list URLs"})
		return
	}
	if rows == nil {
		rows = []models.Link{}
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":  rows,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Update handles PUT /urls/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req shortenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.LongURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "long_url is required"})
		return
	}

	link, err := h.registry.Update(c.Request.Context(), id, req.LongURL)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "short URL not found"})
			return
		}
		h.log.Error("update failed", zap.Uint64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update URL"})
		return
	}

	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), link.ShortCode)
	}
	c.JSON(http.StatusOK, link)
}

// Delete handles DELETE /urls/:id. Deleting an id that never existed is
// still a 204; the two cases are indistinguishable by design.
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var code string
	if h.cache != nil {
		if link, err := h.registry.Get(c.Request.Context(), id); err == nil {
			code = link.ShortCode
		}
	}

	if err := h.registry.Delete(c.Request.Context(), id); err != nil {
		h.log.Error("delete failed", zap.Uint64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete URL"})
		return
	}

	if h.cache != nil && code != "" {
		h.cache.Invalidate(c.Request.Context(), code)
	}
	c.Status(http.StatusNoContent)
}

// SiteInfo handles GET /site-info. Always best-effort: the fetcher
// degrades to a hostname fallback instead of returning errors.
func (h *Handler) SiteInfo(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}
	c.JSON(http.StatusOK, h.meta.Fetch(c.Request.Context(), raw))
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
