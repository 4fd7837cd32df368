package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/asset-dashboard/internal/storage"
	"github.com/asset-dashboard/internal/types"
)

// NewsListResponse is the paged article listing.
type NewsListResponse struct {
	Success  bool                 `json:"success"`
	Articles []*types.NewsArticle `json:"articles"`
	Total    int64                `json:"total"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
}

// handleNewsList handles GET /api/news - stored articles, newest first, with
// optional limit/offset/sentiment/category/analyzed/ticker filters.
func (s *Server) handleNewsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := storage.NewsFilter{
		Limit:     parseIntParam(q.Get("limit"), 50),
		Offset:    parseIntParam(q.Get("offset"), 0),
		Category:  q.Get("category"),
		Sentiment: q.Get("sentiment"),
		Ticker:    q.Get("ticker"),
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if analyzed := q.Get("analyzed"); analyzed != "" {
		value := analyzed == "true"
		filter.Analyzed = &value
	}

	articles, total, err := s.newsLister.List(r.Context(), filter)
	if err != nil {
		statusCode, code, message := mapServiceError(err)
		respondError(w, statusCode, code, message, nil)
		return
	}
	if articles == nil {
		articles = []*types.NewsArticle{}
	}

	respondJSON(w, http.StatusOK, NewsListResponse{
		Success:  true,
		Articles: articles,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

// handleNewsFetch handles POST /api/news/fetch - trigger a fetch run.
func (s *Server) handleNewsFetch(w http.ResponseWriter, r *http.Request) {
	if s.config.NewsFetchAPIKey != "" && r.Header.Get("X-API-Key") != s.config.NewsFetchAPIKey {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing API key", nil)
		return
	}

	start := time.Now()
	stats, err := s.newsService.FetchAll(r.Context())
	if err != nil {
		statusCode, code, message := mapServiceError(err)
		respondError(w, statusCode, code, message, nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"duration": time.Since(start).Milliseconds(),
		"stats":    stats,
	})
}

// handleNewsCleanup handles POST /api/news/cleanup - retention sweep.
func (s *Server) handleNewsCleanup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result, err := s.newsService.Cleanup(r.Context())
	if err != nil {
		statusCode, code, message := mapServiceError(err)
		respondError(w, statusCode, code, message, nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"duration":          time.Since(start).Milliseconds(),
		"deleted":           result.Deleted,
		"remainingArticles": result.Remaining,
	})
}

// parseIntParam parses a query parameter as a non-negative integer.
func parseIntParam(raw string, defaultValue int) int {
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
