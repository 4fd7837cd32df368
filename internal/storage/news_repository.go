package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/asset-dashboard/internal/types"
	"github.com/google/uuid"
)

// NewsRepository handles news article persistence
type NewsRepository struct {
	db *PostgresDB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *PostgresDB) *NewsRepository {
	return &NewsRepository{db: db}
}

// InsertStats summarizes the outcome of a batch insert.
type InsertStats struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
}

// NewsFilter holds the optional filters for listing articles.
type NewsFilter struct {
	Limit     int
	Offset    int
	Category  string
	Sentiment string
	Ticker    string
	Analyzed  *bool
}

// InsertArticles inserts a batch of articles, skipping any whose headline hash
// already exists. Returns per-batch insert/duplicate counts.
func (r *NewsRepository) InsertArticles(ctx context.Context, articles []*types.NewsArticle) (InsertStats, error) {
	var stats InsertStats

	query := `
		INSERT INTO news_articles (
			id, headline, summary, url, source, source_id, image_url, category,
			related_tickers, published_at, headline_hash, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (headline_hash) DO NOTHING
	`

	for _, article := range articles {
		if article.ID == "" {
			article.ID = uuid.New().String()
		}
		if article.CreatedAt.IsZero() {
			article.CreatedAt = time.Now()
		}

		tickersJSON, err := json.Marshal(article.RelatedTickers)
		if err != nil {
			return stats, fmt.Errorf("failed to marshal related tickers: %w", err)
		}

		result, err := r.db.Pool().Exec(ctx, query,
			article.ID,
			article.Headline,
			article.Summary,
			article.URL,
			article.Source,
			article.SourceID,
			article.ImageURL,
			article.Category,
			tickersJSON,
			article.PublishedAt,
			article.HeadlineHash,
			article.CreatedAt,
		)
		if err != nil {
			return stats, fmt.Errorf("failed to insert article: %w", err)
		}

		if result.RowsAffected() == 0 {
			stats.Duplicates++
		} else {
			stats.Inserted++
		}
	}

	return stats, nil
}

// List retrieves articles matching the filter, newest first, along with the
// total count of matching rows.
func (r *NewsRepository) List(ctx context.Context, filter NewsFilter) ([]*types.NewsArticle, int64, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var conditions []string
	var args []interface{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Category != "" {
		addCondition("category = $%d", filter.Category)
	}
	if filter.Sentiment != "" {
		addCondition("ai_sentiment = $%d", filter.Sentiment)
	}
	if filter.Ticker != "" {
		tickerJSON, err := json.Marshal([]string{strings.ToUpper(filter.Ticker)})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal ticker filter: %w", err)
		}
		addCondition("related_tickers @> $%d", tickerJSON)
	}
	if filter.Analyzed != nil {
		if *filter.Analyzed {
			conditions = append(conditions, "ai_analyzed_at IS NOT NULL")
		} else {
			conditions = append(conditions, "ai_analyzed_at IS NULL")
		}
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM news_articles %s", where)
	if err := r.db.Pool().QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT id, headline, summary, url, source, source_id, image_url, category,
		       related_tickers, published_at, headline_hash,
		       ai_sentiment, ai_impact, ai_analyzed_at, created_at
		FROM news_articles
		%s
		ORDER BY published_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []*types.NewsArticle
	for rows.Next() {
		var article types.NewsArticle
		var tickersJSON []byte

		err := rows.Scan(
			&article.ID,
			&article.Headline,
			&article.Summary,
			&article.URL,
			&article.Source,
			&article.SourceID,
			&article.ImageURL,
			&article.Category,
			&tickersJSON,
			&article.PublishedAt,
			&article.HeadlineHash,
			&article.AISentiment,
			&article.AIImpact,
			&article.AIAnalyzedAt,
			&article.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}

		if len(tickersJSON) > 0 {
			if err := json.Unmarshal(tickersJSON, &article.RelatedTickers); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal related tickers: %w", err)
			}
		}

		articles = append(articles, &article)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating articles: %w", err)
	}

	return articles, total, nil
}

// CleanupStats summarizes a retention sweep.
type CleanupStats struct {
	Regular    int64 `json:"regular"`
	HighImpact int64 `json:"highImpact"`
	Total      int64 `json:"total"`
}

// Cleanup deletes articles past their retention window. High-impact articles
// get the longer window; everything else gets the regular one. Returns the
// deletion breakdown and the number of articles remaining.
func (r *NewsRepository) Cleanup(ctx context.Context, retentionRegular, retentionHighImpact int) (CleanupStats, int64, error) {
	var stats CleanupStats

	regularQuery := `
		DELETE FROM news_articles
		WHERE ai_impact IS DISTINCT FROM 'high'
		  AND published_at < NOW() - $1 * INTERVAL '1 day'
	`
	result, err := r.db.Pool().Exec(ctx, regularQuery, retentionRegular)
	if err != nil {
		return stats, 0, fmt.Errorf("failed to delete expired articles: %w", err)
	}
	stats.Regular = result.RowsAffected()

	highImpactQuery := `
		DELETE FROM news_articles
		WHERE ai_impact = 'high'
		  AND published_at < NOW() - $1 * INTERVAL '1 day'
	`
	result, err = r.db.Pool().Exec(ctx, highImpactQuery, retentionHighImpact)
	if err != nil {
		return stats, 0, fmt.Errorf("failed to delete expired high-impact articles: %w", err)
	}
	stats.HighImpact = result.RowsAffected()
	stats.Total = stats.Regular + stats.HighImpact

	var remaining int64
	if err := r.db.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM news_articles`).Scan(&remaining); err != nil {
		return stats, 0, fmt.Errorf("failed to count remaining articles: %w", err)
	}

	return stats, remaining, nil
}

// UpdateAnalysis records the AI sentiment/impact judgement for an article.
func (r *NewsRepository) UpdateAnalysis(ctx context.Context, id, sentiment, impact string) error {
	query := `
		UPDATE news_articles
		SET ai_sentiment = $2, ai_impact = $3, ai_analyzed_at = $4
		WHERE id = $1
	`

	result, err := r.db.Pool().Exec(ctx, query, id, sentiment, impact, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update article analysis: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("article not found: %s", id)
	}

	return nil
}

// LogFetchRun records the outcome of a news fetch run.
func (r *NewsRepository) LogFetchRun(ctx context.Context, source string, fetched, inserted, duplicates, errorCount int, duration time.Duration) error {
	query := `
		INSERT INTO news_fetch_logs (id, source, fetched, inserted, duplicates, errors, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		uuid.New().String(),
		source,
		fetched,
		inserted,
		duplicates,
		errorCount,
		duration.Milliseconds(),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to log fetch run: %w", err)
	}

	return nil
}
