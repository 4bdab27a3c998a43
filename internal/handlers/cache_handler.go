package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"kvcache/internal/cache"
)

// PutEntryRequest represents the request payload for storing a value
type PutEntryRequest struct {
	Value any `json:"value"`
	// TTL in seconds; the configured default applies when omitted
	TTL *int64 `json:"ttl"`
}

// EntryResponse represents a cached value returned to the client
type EntryResponse struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type CacheHandler struct {
	cache  cache.Cache
	logger zerolog.Logger
}

func NewCacheHandler(c cache.Cache, logger zerolog.Logger) *CacheHandler {
	return &CacheHandler{cache: c, logger: logger}
}

// GetEntry handles GET /api/cache/:key
func (h *CacheHandler) GetEntry(c *gin.Context) {
	key := c.Param("key")

	value, found, err := h.cache.Get(c.Request.Context(), key)
	if err != nil {
		h.storeFailure(c, err)
		return
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	c.JSON(http.StatusOK, EntryResponse{Key: key, Value: value})
}

// PutEntry handles PUT /api/cache/:key
func (h *CacheHandler) PutEntry(c *gin.Context) {
	key := c.Param("key")

	var req PutEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var err error
	if req.TTL == nil {
		err = h.cache.Put(c.Request.Context(), key, req.Value)
	} else {
		ttl, convErr := cache.TTLFromSeconds(*req.TTL)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": convErr.Error()})
			return
		}

		err = h.cache.PutWithTTL(c.Request.Context(), key, req.Value, ttl)
	}

	if err != nil {
		if errors.Is(err, &cache.SerializationError{}) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		h.storeFailure(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteEntry handles DELETE /api/cache/:key
func (h *CacheHandler) DeleteEntry(c *gin.Context) {
	if err := h.cache.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.storeFailure(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Sweep handles POST /api/sweep
func (h *CacheHandler) Sweep(c *gin.Context) {
	count, err := h.cache.Sweep(c.Request.Context())
	if err != nil {
		h.storeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reclaimed": count})
}

func (h *CacheHandler) storeFailure(c *gin.Context, err error) {
	h.logger.Error().Err(err).Str("key", c.Param("key")).Msg("Cache operation failed")

	status := http.StatusInternalServerError
	if errors.Is(err, cache.ErrClosed) {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{"error": "Cache operation failed"})
}
