// Package news implements the news ingestion pipeline: fetching articles from
// upstream feeds, normalizing and deduplicating them, and enforcing retention.
package news

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/asset-dashboard/internal/provider"
	"github.com/asset-dashboard/internal/types"
)

// HeadlineHash returns the deduplication key for a headline: the SHA-256 of
// the headline lower-cased with everything outside [a-z0-9] removed. Two
// headlines that differ only in punctuation, spacing, or case collide.
func HeadlineHash(headline string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(headline) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// normalizeItem converts one upstream feed item into a NewsArticle. Returns
// nil for items missing a headline or URL.
func normalizeItem(item provider.NewsItem, category string) *types.NewsArticle {
	headline := strings.TrimSpace(item.Headline)
	if headline == "" || item.URL == "" {
		return nil
	}

	article := &types.NewsArticle{
		Headline:     headline,
		URL:          item.URL,
		Source:       item.Source,
		Category:     category,
		PublishedAt:  time.Unix(item.Datetime, 0).UTC(),
		HeadlineHash: HeadlineHash(headline),
	}

	if summary := strings.TrimSpace(item.Summary); summary != "" {
		article.Summary = &summary
	}
	if item.Image != "" {
		article.ImageURL = &item.Image
	}
	if item.ID != 0 {
		sourceID := strconv.FormatInt(item.ID, 10)
		article.SourceID = &sourceID
	}
	article.RelatedTickers = parseRelatedTickers(item.Related)

	return article
}

// parseRelatedTickers splits the comma-separated related field into a set of
// upper-cased ticker strings.
func parseRelatedTickers(related string) []string {
	if related == "" {
		return nil
	}

	seen := make(map[string]bool)
	var tickers []string
	for _, part := range strings.Split(related, ",") {
		ticker := strings.ToUpper(strings.TrimSpace(part))
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		tickers = append(tickers, ticker)
	}
	return tickers
}
