package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/brightfield-labs/vectordb/internal/apierr"
	"github.com/brightfield-labs/vectordb/internal/service"
)

func (s *Server) handleCreateChunk(w http.ResponseWriter, r *http.Request) {
	libID, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}
	docID, err := parseID(r, "documentID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req chunkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierr.Validation("malformed request body"))
		return
	}

	chunk, err := s.chunk.CreateChunk(r.Context(), libID, docID, req.Text, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chunkToResponse(chunk))
}

func (s *Server) handleListChunks(w http.ResponseWriter, r *http.Request) {
	libID, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}
	docID, err := parseID(r, "documentID")
	if err != nil {
		writeError(w, err)
		return
	}

	chunks, err := s.chunk.ListChunks(libID, docID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]chunkResponse, len(chunks))
	for i, c := range chunks {
		out[i] = chunkToResponse(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetChunk(w http.ResponseWriter, r *http.Request) {
	libID, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}
	docID, err := parseID(r, "documentID")
	if err != nil {
		writeError(w, err)
		return
	}
	chunkID, err := parseID(r, "chunkID")
	if err != nil {
		writeError(w, err)
		return
	}

	chunk, err := s.chunk.GetChunk(libID, docID, chunkID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chunkToResponse(chunk))
}

func (s *Server) handleUpdateChunk(w http.ResponseWriter, r *http.Request) {
	libID, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}
	docID, err := parseID(r, "documentID")
	if err != nil {
		writeError(w, err)
		return
	}
	chunkID, err := parseID(r, "chunkID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req chunkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierr.Validation("malformed request body"))
		return
	}

	patch := service.ChunkPatch{Text: req.Text, Metadata: req.Metadata}
	chunk, err := s.chunk.UpdateChunk(r.Context(), libID, docID, chunkID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chunkToResponse(chunk))
}

func (s *Server) handleDeleteChunk(w http.ResponseWriter, r *http.Request) {
	libID, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}
	docID, err := parseID(r, "documentID")
	if err != nil {
		writeError(w, err)
		return
	}
	chunkID, err := parseID(r, "chunkID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.chunk.DeleteChunk(libID, docID, chunkID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
