package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightfield-labs/vectordb/internal/apierr"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	libID, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}
	name := chi.URLParam(r, "indexName")

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierr.Validation("malformed request body"))
		return
	}
	if req.K == 0 {
		req.K = 10
	}

	var queryText string
	if req.QueryText != nil {
		queryText = *req.QueryText
	}

	results, err := s.search.Search(r.Context(), libID, name, req.QueryEmbedding, queryText, req.K)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResultsToResponse(results))
}
