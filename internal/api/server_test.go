package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asset-dashboard/internal/news"
	"github.com/asset-dashboard/internal/service"
	"github.com/asset-dashboard/internal/storage"
	"github.com/asset-dashboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAssetService struct {
	details    *service.DetailsResponse
	detailsErr error
	price      *service.PriceResponse
	priceErr   error
	results    []types.SearchResult
	searchErr  error
	lastType   string
}

func (m *mockAssetService) GetDetails(ctx context.Context, ticker string) (*service.DetailsResponse, error) {
	return m.details, m.detailsErr
}

func (m *mockAssetService) GetPrice(ctx context.Context, ticker string) (*service.PriceResponse, error) {
	return m.price, m.priceErr
}

func (m *mockAssetService) Search(ctx context.Context, query, assetType string) ([]types.SearchResult, error) {
	m.lastType = assetType
	return m.results, m.searchErr
}

type mockNewsService struct {
	stats      news.FetchStats
	fetchErr   error
	cleanup    news.CleanupResult
	cleanupErr error
}

func (m *mockNewsService) FetchAll(ctx context.Context) (news.FetchStats, error) {
	return m.stats, m.fetchErr
}

func (m *mockNewsService) Cleanup(ctx context.Context) (news.CleanupResult, error) {
	return m.cleanup, m.cleanupErr
}

type mockNewsLister struct {
	articles   []*types.NewsArticle
	total      int64
	err        error
	lastFilter storage.NewsFilter
}

func (m *mockNewsLister) List(ctx context.Context, filter storage.NewsFilter) ([]*types.NewsArticle, int64, error) {
	m.lastFilter = filter
	return m.articles, m.total, m.err
}

type apiFixture struct {
	server *Server
	assets *mockAssetService
	news   *mockNewsService
	lister *mockNewsLister
}

func newAPIFixture(t *testing.T, apiKey string) *apiFixture {
	t.Helper()

	f := &apiFixture{
		assets: &mockAssetService{},
		news:   &mockNewsService{},
		lister: &mockNewsLister{},
	}
	f.server = NewServer(&ServerConfig{
		Host:            "127.0.0.1",
		Port:            "0",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     30 * time.Second,
		NewsFetchAPIKey: apiKey,
	}, f.assets, f.news, f.lister)
	return f
}

func (f *apiFixture) do(method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t, "")
	rec := f.do(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestAssetDetailsMissingTicker(t *testing.T) {
	f := newAPIFixture(t, "")
	rec := f.do(http.MethodGet, "/api/asset-details", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, types.ErrCodeMissingParameter, decodeError(t, rec).Error.Code)
}

func TestAssetDetailsSuccess(t *testing.T) {
	f := newAPIFixture(t, "")
	f.assets.details = &service.DetailsResponse{
		AssetSnapshot: &types.AssetSnapshot{
			Symbol:       "AAPL",
			AssetType:    types.AssetTypeStock,
			LastPrice:    types.Float64Ptr(150),
			MarketStatus: types.MarketOpen,
		},
		Source: types.SourceAPI,
	}

	rec := f.do(http.MethodGet, "/api/asset-details?ticker=AAPL", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AAPL", body["symbol"])
	assert.Equal(t, "api", body["source"])
	assert.Equal(t, 150.0, body["lastPrice"])
}

func TestAssetDetailsNoData(t *testing.T) {
	f := newAPIFixture(t, "")
	f.assets.detailsErr = &types.ServiceError{Code: types.ErrCodeNoData, Message: "no data available for ZZZZ"}

	rec := f.do(http.MethodGet, "/api/asset-details?ticker=ZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, types.ErrCodeNoData, decodeError(t, rec).Error.Code)
}

func TestSearchMissingQuery(t *testing.T) {
	f := newAPIFixture(t, "")

	for _, target := range []string{"/api/search-assets", "/api/search-assets?type=crypto"} {
		rec := f.do(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestSearchTypeDefaultsToStock(t *testing.T) {
	f := newAPIFixture(t, "")

	rec := f.do(http.MethodGet, "/api/search-assets?query=apple", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stock", f.assets.lastType)

	f.do(http.MethodGet, "/api/search-assets?query=apple&type=bogus", nil)
	assert.Equal(t, "stock", f.assets.lastType)

	f.do(http.MethodGet, "/api/search-assets?query=btc&type=crypto", nil)
	assert.Equal(t, "crypto", f.assets.lastType)
}

func TestSearchEmptyResultIsArray(t *testing.T) {
	f := newAPIFixture(t, "")

	rec := f.do(http.MethodGet, "/api/search-assets?query=nomatches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestSearchRateLimited(t *testing.T) {
	f := newAPIFixture(t, "")
	f.assets.searchErr = &types.ServiceError{Code: types.ErrCodeRateLimited, Message: "slow down"}

	rec := f.do(http.MethodGet, "/api/search-assets?query=apple", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestPriceEndpoint(t *testing.T) {
	f := newAPIFixture(t, "")
	f.assets.price = &service.PriceResponse{Price: 60000, Source: types.SourceCache}

	rec := f.do(http.MethodGet, "/api/price?ticker=BTC", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 60000.0, body["price"])
	assert.Equal(t, "cache", body["source"])
}

func TestOptionsPreflightAnswers200(t *testing.T) {
	f := newAPIFixture(t, "")

	for _, target := range []string{"/api/asset-details", "/api/news/fetch", "/api/news"} {
		rec := f.do(http.MethodOptions, target, nil)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestWrongMethodAnswers405(t *testing.T) {
	f := newAPIFixture(t, "")

	rec := f.do(http.MethodGet, "/api/news/fetch", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = f.do(http.MethodPost, "/api/asset-details", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNewsListFilters(t *testing.T) {
	f := newAPIFixture(t, "")
	f.lister.total = 7

	rec := f.do(http.MethodGet, "/api/news?limit=500&offset=10&category=general&sentiment=positive&analyzed=true&ticker=AAPL", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// limit is clamped to 100
	assert.Equal(t, 100, f.lister.lastFilter.Limit)
	assert.Equal(t, 10, f.lister.lastFilter.Offset)
	assert.Equal(t, "general", f.lister.lastFilter.Category)
	assert.Equal(t, "positive", f.lister.lastFilter.Sentiment)
	assert.Equal(t, "AAPL", f.lister.lastFilter.Ticker)
	require.NotNil(t, f.lister.lastFilter.Analyzed)
	assert.True(t, *f.lister.lastFilter.Analyzed)

	var body NewsListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(7), body.Total)
	assert.NotNil(t, body.Articles)
}

func TestNewsFetchTrigger(t *testing.T) {
	f := newAPIFixture(t, "")
	f.news.stats = news.FetchStats{Fetched: 12, Inserted: 9, Duplicates: 3}

	rec := f.do(http.MethodPost, "/api/news/fetch", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, 9.0, stats["inserted"])
}

func TestNewsFetchAPIKey(t *testing.T) {
	f := newAPIFixture(t, "secret")

	rec := f.do(http.MethodPost, "/api/news/fetch", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/api/news/fetch", map[string]string{"X-API-Key": "secret"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewsCleanup(t *testing.T) {
	f := newAPIFixture(t, "")
	f.news.cleanup = news.CleanupResult{
		Deleted:   storage.CleanupStats{Regular: 12, HighImpact: 3, Total: 15},
		Remaining: 40,
	}

	rec := f.do(http.MethodPost, "/api/news/cleanup", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	deleted := body["deleted"].(map[string]interface{})
	assert.Equal(t, 15.0, deleted["total"])
	assert.Equal(t, 40.0, body["remainingArticles"])
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	f := newAPIFixture(t, "")
	f.news.cleanupErr = assert.AnError

	rec := f.do(http.MethodPost, "/api/news/cleanup", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, types.ErrCodeInternal, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "assert.AnError")
}
