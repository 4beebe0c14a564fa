package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/albapepper/courtside-data/internal/api/respond"
	"github.com/albapepper/courtside-data/internal/cache"
	"github.com/albapepper/courtside-data/internal/external"
)

// GetNews returns the latest league headlines from NewsAPI.
// @Summary Latest news
// @Tags news
// @Produce json
// @Param q query string false "Search term (default NBA)"
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/news [get]
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	cacheKey := "news:" + strings.ToLower(q)
	ttl := cache.TTLNews

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	data, err := h.news.Latest(r.Context(), q)
	if errors.Is(err, external.ErrNewsNotConfigured) {
		respond.WriteError(w, http.StatusServiceUnavailable, "NEWS_NOT_CONFIGURED", "News is not configured")
		return
	}
	if err != nil {
		h.logger.Warn("News fetch failed", "error", err)
		respond.WriteError(w, http.StatusBadGateway, "NEWS_FETCH_FAILED", "Failed to fetch news")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}
