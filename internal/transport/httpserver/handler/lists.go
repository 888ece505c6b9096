package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	listdomain "list-app-go/internal/domain/list"
)

type createListRequest struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Type    string `json:"list_type"`
	GuestID string `json:"guest_id"`
}

type renameListRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type shareListRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type duplicateListRequest struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

type archiveListRequest struct {
	UserID   string `json:"user_id"`
	Archived bool   `json:"archived"`
}

type listResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"list_type"`
	CleanName  string    `json:"clean_name"`
	Total      float64   `json:"total"`
	ItemNumber int       `json:"item_number"`
	UserID     string    `json:"user_id"`
	Archived   bool      `json:"archived"`
	SharedWith []string  `json:"shared_with"`
	CreatedAt  time.Time `json:"created_at"`
}

type listListResponse struct {
	Items []listResponse `json:"items"`
	Total int            `json:"total"`
}

func (h *Handlers) ListLists(w http.ResponseWriter, r *http.Request) {
	lists := h.Engine.State().Lists()

	response := make([]listResponse, 0, len(lists))
	for _, l := range lists {
		response = append(response, toListResponse(l))
	}

	writeJSON(w, http.StatusOK, listListResponse{
		Items: response,
		Total: len(response),
	})
}

func (h *Handlers) CreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	err := h.Engine.AddList(r.Context(), req.UserID, req.Name, listdomain.Type(req.Type), req.GuestID)
	if err != nil {
		if errors.Is(err, listdomain.ErrInvalidType) {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid list_type")
			return
		}
		h.log.Error("lists.create: add list failed", "user_id", req.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) DeleteList(w http.ResponseWriter, r *http.Request) {
	listID := strings.TrimSpace(chi.URLParam(r, "list_id"))
	if listID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "list_id is required")
		return
	}

	query := r.URL.Query()
	userID := strings.TrimSpace(query.Get("user_id"))
	email := strings.TrimSpace(query.Get("email"))

	if err := h.Engine.DeleteList(r.Context(), userID, listID, email); err != nil {
		if errors.Is(err, listdomain.ErrListNotFound) {
			writeError(w, http.StatusNotFound, "list_not_found", "list not found")
			return
		}
		h.log.Error("lists.delete: delete list failed", "user_id", userID, "list_id", listID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RenameList(w http.ResponseWriter, r *http.Request) {
	var req renameListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	listID := strings.TrimSpace(chi.URLParam(r, "list_id"))
	if listID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "list_id is required")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	if err := h.Engine.RenameList(r.Context(), req.UserID, listID, req.Name); err != nil {
		if errors.Is(err, listdomain.ErrListNotFound) {
			writeError(w, http.StatusNotFound, "list_not_found", "list not found")
			return
		}
		h.log.Error("lists.rename: rename list failed", "user_id", req.UserID, "list_id", listID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) ShareList(w http.ResponseWriter, r *http.Request) {
	var req shareListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	listID := strings.TrimSpace(chi.URLParam(r, "list_id"))
	if listID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "list_id is required")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	if err := h.Engine.ShareList(r.Context(), req.UserID, listID, req.Email); err != nil {
		if errors.Is(err, listdomain.ErrListNotFound) {
			writeError(w, http.StatusNotFound, "list_not_found", "list not found")
			return
		}
		h.log.Error("lists.share: share list failed", "user_id", req.UserID, "list_id", listID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) DuplicateList(w http.ResponseWriter, r *http.Request) {
	var req duplicateListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	listID := strings.TrimSpace(chi.URLParam(r, "list_id"))
	if listID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "list_id is required")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	if err := h.Engine.DuplicateList(r.Context(), req.UserID, listID, req.Name, req.Archived); err != nil {
		if errors.Is(err, listdomain.ErrListNotFound) {
			writeError(w, http.StatusNotFound, "list_not_found", "list not found")
			return
		}
		h.log.Error("lists.duplicate: duplicate list failed", "user_id", req.UserID, "list_id", listID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) ArchiveList(w http.ResponseWriter, r *http.Request) {
	var req archiveListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	listID := strings.TrimSpace(chi.URLParam(r, "list_id"))
	if listID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "list_id is required")
		return
	}

	if err := h.Engine.SetListArchived(r.Context(), req.UserID, listID, req.Archived); err != nil {
		if errors.Is(err, listdomain.ErrListNotFound) {
			writeError(w, http.StatusNotFound, "list_not_found", "list not found")
			return
		}
		h.log.Error("lists.archive: archive update failed", "user_id", req.UserID, "list_id", listID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func toListResponse(l listdomain.List) listResponse {
	shared := make([]string, 0, len(l.SharedWith))
	shared = append(shared, l.SharedWith...)

	return listResponse{
		ID:         l.ID,
		Name:       l.Name,
		Type:       string(l.Type),
		CleanName:  l.CleanName,
		Total:      l.Total,
		ItemNumber: l.ItemNumber,
		UserID:     l.UserID,
		Archived:   l.Archived,
		SharedWith: shared,
		CreatedAt:  l.CreatedAt,
	}
}
