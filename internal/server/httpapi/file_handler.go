package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

type fileResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerID     string    `json:"owner_id"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	IsEncrypted bool      `json:"is_encrypted"`
}

type fileListResponse struct {
	Owned  []fileResponse `json:"owned"`
	Shared []fileResponse `json:"shared"`
}

type shareRequest struct {
	Username string `json:"username"`
}

type shareResponse struct {
	FileID    string    `json:"file_id"`
	GranteeID string    `json:"grantee_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toFileResponse(r *models.FileRecord) fileResponse {
	return fileResponse{
		ID:          r.ID,
		Name:        r.DisplayName,
		OwnerID:     r.OwnerID,
		Size:        r.Size,
		CreatedAt:   r.CreatedAt,
		IsEncrypted: r.IsEncrypted,
	}
}

func (s *Server) requester(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "requester not known")
	}
	return userID, ok
}

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requester(w, r)
	if !ok {
		return
	}

	// multipart framing adds some overhead beyond the payload itself
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteJSONError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		WriteJSONError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "form field 'file' is missing")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	record, err := s.vault.Store(r.Context(), userID, header.Filename, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toFileResponse(record))
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requester(w, r)
	if !ok {
		return
	}

	owned, shared, err := s.vault.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := fileListResponse{Owned: []fileResponse{}, Shared: []fileResponse{}}
	for _, rec := range owned {
		resp.Owned = append(resp.Owned, toFileResponse(rec))
	}
	for _, rec := range shared {
		resp.Shared = append(resp.Shared, toFileResponse(rec))
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requester(w, r)
	if !ok {
		return
	}

	payload, record, err := s.vault.Retrieve(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": record.DisplayName})
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(payload)))
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requester(w, r)
	if !ok {
		return
	}

	if err := s.vault.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleShareFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requester(w, r)
	if !ok {
		return
	}

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		WriteJSONError(w, http.StatusBadRequest, "username is required")
		return
	}

	grant, err := s.vault.ShareWithUsername(r.Context(), userID, r.PathValue("id"), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, shareResponse{
		FileID:    grant.FileID,
		GranteeID: grant.GranteeID,
		CreatedAt: grant.CreatedAt,
	})
}

func (s *Server) handleUnshareFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requester(w, r)
	if !ok {
		return
	}

	err := s.vault.UnshareWithUsername(r.Context(), userID, r.PathValue("id"), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
