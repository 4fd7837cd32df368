package api

import (
	"net/http"

	"github.com/asset-dashboard/internal/types"
)

// handleAssetDetails handles GET /api/asset-details?ticker= - full snapshot
// for one ticker, with a source tag marking cache/live/stale provenance.
func (s *Server) handleAssetDetails(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		respondError(w, http.StatusBadRequest, types.ErrCodeMissingParameter, "ticker parameter is required", nil)
		return
	}

	details, err := s.assetService.GetDetails(r.Context(), ticker)
	if err != nil {
		statusCode, code, message := mapServiceError(err)
		respondError(w, statusCode, code, message, nil)
		return
	}

	respondJSON(w, http.StatusOK, details)
}

// handleSearchAssets handles GET /api/search-assets?query=&type= - free-text
// asset search. Type defaults to stock; unknown values fall back to stock.
func (s *Server) handleSearchAssets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		respondError(w, http.StatusBadRequest, types.ErrCodeMissingParameter, "query parameter is required", nil)
		return
	}

	assetType := r.URL.Query().Get("type")
	switch assetType {
	case string(types.AssetTypeStock), string(types.AssetTypeETF), string(types.AssetTypeCrypto):
	default:
		assetType = string(types.AssetTypeStock)
	}

	results, err := s.assetService.Search(r.Context(), query, assetType)
	if err != nil {
		statusCode, code, message := mapServiceError(err)
		respondError(w, statusCode, code, message, nil)
		return
	}
	if results == nil {
		results = []types.SearchResult{}
	}

	respondJSON(w, http.StatusOK, results)
}

// handlePrice handles GET /api/price?ticker= - just the current price.
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		respondError(w, http.StatusBadRequest, types.ErrCodeMissingParameter, "ticker parameter is required", nil)
		return
	}

	price, err := s.assetService.GetPrice(r.Context(), ticker)
	if err != nil {
		statusCode, code, message := mapServiceError(err)
		respondError(w, statusCode, code, message, nil)
		return
	}

	respondJSON(w, http.StatusOK, price)
}
