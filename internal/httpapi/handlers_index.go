package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightfield-labs/vectordb/internal/apierr"
	"github.com/brightfield-labs/vectordb/internal/model"
)

func (s *Server) handleCreateIndex(w http.ResponseWriter, r *http.Request) {
	libID, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}
	name := chi.URLParam(r, "indexName")
	if name == "" {
		writeError(w, apierr.Validation("index name must not be empty"))
		return
	}

	var req indexCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierr.Validation("malformed request body"))
		return
	}
	if req.Kind == "" {
		writeError(w, apierr.Validation("kind must be set"))
		return
	}
	if req.Metric == "" {
		writeError(w, apierr.Validation("metric must be set"))
		return
	}

	cfg := model.IndexConfig{
		Kind:      model.IndexKind(req.Kind),
		Metric:    model.Metric(req.Metric),
		NumBits:   req.NumBits,
		NumTables: req.NumTables,
		Seed:      req.Seed,
	}
	if cfg.NumBits == 0 {
		cfg.NumBits = s.cfg.DefaultIndex.NumBits
	}
	if cfg.NumTables == 0 {
		cfg.NumTables = s.cfg.DefaultIndex.NumTables
	}

	meta, err := s.index.CreateIndex(libID, name, cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, indexMetaToResponse(meta))
}

func (s *Server) handleGetIndex(w http.ResponseWriter, r *http.Request) {
	libID, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}
	name := chi.URLParam(r, "indexName")

	meta, err := s.index.GetIndexMetadata(libID, name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, indexMetaToResponse(meta))
}

func (s *Server) handleListIndexes(w http.ResponseWriter, r *http.Request) {
	libID, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}

	metas, err := s.index.ListIndexMetadata(libID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]indexStatusResponse, len(metas))
	for i, m := range metas {
		out[i] = indexMetaToResponse(m)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteIndex(w http.ResponseWriter, r *http.Request) {
	libID, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}
	name := chi.URLParam(r, "indexName")

	if err := s.index.DeleteIndex(libID, name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
