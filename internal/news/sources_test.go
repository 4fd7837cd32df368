package news

import (
	"testing"
	"time"

	"github.com/asset-dashboard/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlineHashNormalization(t *testing.T) {
	// punctuation, case, and spacing do not affect the hash
	a := HeadlineHash("Apple Announces Record Q4 Earnings!")
	b := HeadlineHash("apple announces record q4 earnings")
	c := HeadlineHash("  APPLE: Announces, Record Q4 — Earnings  ")
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)

	other := HeadlineHash("Apple announces record Q3 earnings")
	assert.NotEqual(t, a, other)

	// hex-encoded SHA-256
	assert.Len(t, a, 64)
}

func TestParseRelatedTickers(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "MSFT"}, parseRelatedTickers("aapl, MSFT"))
	assert.Equal(t, []string{"AAPL"}, parseRelatedTickers("AAPL,aapl,,AAPL"))
	assert.Nil(t, parseRelatedTickers(""))
}

func TestNormalizeItem(t *testing.T) {
	published := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	item := provider.NewsItem{
		ID:       7212345,
		Category: "technology",
		Datetime: published.Unix(),
		Headline: "  Fed Holds Rates Steady  ",
		Image:    "https://img.example.com/fed.jpg",
		Related:  "SPY,QQQ",
		Source:   "MarketWatch",
		Summary:  "The central bank left its benchmark rate unchanged.",
		URL:      "https://example.com/fed-holds",
	}

	article := normalizeItem(item, "general")
	require.NotNil(t, article)

	assert.Equal(t, "Fed Holds Rates Steady", article.Headline)
	assert.Equal(t, "https://example.com/fed-holds", article.URL)
	assert.Equal(t, "MarketWatch", article.Source)
	assert.Equal(t, "general", article.Category)
	assert.Equal(t, published, article.PublishedAt)
	assert.Equal(t, HeadlineHash("Fed Holds Rates Steady"), article.HeadlineHash)
	assert.Equal(t, []string{"SPY", "QQQ"}, article.RelatedTickers)

	require.NotNil(t, article.Summary)
	assert.Equal(t, "The central bank left its benchmark rate unchanged.", *article.Summary)
	require.NotNil(t, article.ImageURL)
	assert.Equal(t, "https://img.example.com/fed.jpg", *article.ImageURL)
	require.NotNil(t, article.SourceID)
	assert.Equal(t, "7212345", *article.SourceID)
}

func TestNormalizeItemSkipsUnusable(t *testing.T) {
	assert.Nil(t, normalizeItem(provider.NewsItem{URL: "https://example.com/x"}, "general"))
	assert.Nil(t, normalizeItem(provider.NewsItem{Headline: "No link here"}, "general"))
	assert.Nil(t, normalizeItem(provider.NewsItem{Headline: "   ", URL: "https://example.com/x"}, "general"))
}
