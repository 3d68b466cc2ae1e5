package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightfield-labs/vectordb/internal/apierr"
	"github.com/brightfield-labs/vectordb/internal/model"
)

func (s *Server) handleCreateLibrary(w http.ResponseWriter, r *http.Request) {
	var req libraryCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierr.Validation("malformed request body"))
		return
	}

	lib := s.library.CreateLibrary(req.Metadata)
	writeJSON(w, http.StatusCreated, libraryToResponse(lib))
}

func (s *Server) handleListLibraries(w http.ResponseWriter, r *http.Request) {
	libs := s.library.ListLibraries()
	out := make([]libraryResponse, len(libs))
	for i, lib := range libs {
		out[i] = libraryToResponse(lib)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetLibrary(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}

	lib, err := s.library.GetLibrary(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, libraryToResponse(lib))
}

func (s *Server) handleUpdateLibrary(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req libraryUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierr.Validation("malformed request body"))
		return
	}

	lib, err := s.library.UpdateLibrary(id, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, libraryToResponse(lib))
}

func (s *Server) handleDeleteLibrary(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.library.DeleteLibrary(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(r *http.Request, param string) (model.ID, error) {
	raw := chi.URLParam(r, param)
	id, err := model.ParseID(raw)
	if err != nil {
		return model.ID{}, apierr.Validation("invalid id: " + raw)
	}
	return id, nil
}
