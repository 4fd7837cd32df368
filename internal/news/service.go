package news

import (
	"context"
	"net/http"
	"time"

	"github.com/asset-dashboard/internal/config"
	"github.com/asset-dashboard/internal/logging"
	"github.com/asset-dashboard/internal/provider"
	"github.com/asset-dashboard/internal/storage"
	"github.com/asset-dashboard/internal/types"
)

// Feed is the upstream news source.
type Feed interface {
	GetGeneralNews(ctx context.Context) ([]provider.NewsItem, error)
	GetCompanyNews(ctx context.Context, symbol string, daysBack int) ([]provider.NewsItem, error)
}

// Repository is the persistence layer for articles and fetch logs.
type Repository interface {
	InsertArticles(ctx context.Context, articles []*types.NewsArticle) (storage.InsertStats, error)
	Cleanup(ctx context.Context, retentionRegular, retentionHighImpact int) (storage.CleanupStats, int64, error)
	LogFetchRun(ctx context.Context, source string, fetched, inserted, duplicates, errorCount int, duration time.Duration) error
}

// FetchStats summarizes one fetch run across all sources.
type FetchStats struct {
	Fetched    int `json:"fetched"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

// CleanupResult is the outcome of a retention sweep.
type CleanupResult struct {
	Deleted   storage.CleanupStats `json:"deleted"`
	Remaining int64                `json:"remainingArticles"`
}

const companyNewsDaysBack = 3

// Service runs the news pipeline.
type Service struct {
	feed   Feed
	repo   Repository
	cfg    *config.NewsConfig
	client *http.Client
}

// NewService creates a news service.
func NewService(feed Feed, repo Repository, cfg *config.NewsConfig) *Service {
	return &Service{
		feed:   feed,
		repo:   repo,
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchAll pulls general market news plus company news for the configured
// tickers, normalizes and stores everything, and logs the run. A single
// source failing does not abort the run; it is counted in Errors.
func (s *Service) FetchAll(ctx context.Context) (FetchStats, error) {
	log := logging.FromContext(ctx)
	start := time.Now()
	var stats FetchStats

	items, err := s.feed.GetGeneralNews(ctx)
	if err != nil {
		stats.Errors++
	} else {
		s.ingest(ctx, items, "general", &stats)
	}

	for _, ticker := range s.cfg.CompanyTickers {
		items, err := s.feed.GetCompanyNews(ctx, ticker, companyNewsDaysBack)
		if err != nil {
			stats.Errors++
			continue
		}
		s.ingest(ctx, items, "company", &stats)
	}

	duration := time.Since(start)
	if err := s.repo.LogFetchRun(ctx, "finnhub", stats.Fetched, stats.Inserted, stats.Duplicates, stats.Errors, duration); err != nil {
		log.WithError(err).Warn("failed to log news fetch run")
	}

	log.WithFields(map[string]interface{}{
		"fetched":    stats.Fetched,
		"inserted":   stats.Inserted,
		"duplicates": stats.Duplicates,
		"errors":     stats.Errors,
		"duration":   duration.String(),
	}).Info("news fetch run complete")

	return stats, nil
}

// ingest normalizes a batch of feed items and stores them, scraping an
// og:image for articles that arrived without one.
func (s *Service) ingest(ctx context.Context, items []provider.NewsItem, category string, stats *FetchStats) {
	var articles []*types.NewsArticle
	for _, item := range items {
		article := normalizeItem(item, category)
		if article == nil {
			continue
		}
		if article.ImageURL == nil {
			if img := ScrapeOGImage(ctx, s.client, article.URL, s.cfg.ImageScrapeTimeout); img != "" {
				article.ImageURL = &img
			}
		}
		articles = append(articles, article)
	}
	stats.Fetched += len(articles)

	if len(articles) == 0 {
		return
	}

	inserted, err := s.repo.InsertArticles(ctx, articles)
	if err != nil {
		logging.FromContext(ctx).WithError(err).WithField("category", category).Error("failed to store articles")
		stats.Errors++
		return
	}
	stats.Inserted += inserted.Inserted
	stats.Duplicates += inserted.Duplicates
}

// Cleanup deletes articles past their retention windows.
func (s *Service) Cleanup(ctx context.Context) (CleanupResult, error) {
	deleted, remaining, err := s.repo.Cleanup(ctx, s.cfg.RetentionRegular, s.cfg.RetentionHighImpact)
	if err != nil {
		return CleanupResult{}, err
	}

	logging.FromContext(ctx).WithFields(map[string]interface{}{
		"regular":     deleted.Regular,
		"high_impact": deleted.HighImpact,
		"remaining":   remaining,
	}).Info("news cleanup complete")

	return CleanupResult{Deleted: deleted, Remaining: remaining}, nil
}
