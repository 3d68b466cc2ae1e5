package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/brightfield-labs/vectordb/internal/apierr"
)

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	libID, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req documentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierr.Validation("malformed request body"))
		return
	}

	doc, err := s.document.CreateDocument(libID, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, documentToResponse(doc))
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	libID, err := parseID(r, "libraryID")
	if err != nil {
		writeError(w, err)
		return
	}

	docs, err := s.document.ListDocuments(libID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]documentResponse, len(docs))
	for i, d := range docs {
		out[i] = documentToResponse(d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
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

	doc, err := s.document.GetDocument(libID, docID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
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

	var req documentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierr.Validation("malformed request body"))
		return
	}

	doc, err := s.document.UpdateDocument(libID, docID, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
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

	if err := s.document.DeleteDocument(libID, docID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
