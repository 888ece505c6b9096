package handler

import (
	"net/http"
	"strings"
	"time"

	itemdomain "list-app-go/internal/domain/item"
)

type loadRequest struct {
	UserID string `json:"user_id"`
}

type stateResponse struct {
	Lists    []listResponse                   `json:"lists"`
	Grocery  map[string][]itemdomain.Grocery  `json:"grocery"`
	Todo     map[string][]itemdomain.Todo     `json:"todo"`
	Bookmark map[string][]itemdomain.Bookmark `json:"bookmark"`
	Note     map[string][]itemdomain.Note     `json:"note"`
	Dirty    map[string]time.Time             `json:"dirty"`
}

// Load pulls the full remote snapshot into local state and subscribes to
// realtime changes.
func (h *Handlers) Load(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	if err := h.Engine.Load(r.Context(), req.UserID); err != nil {
		h.log.Error("session.load: load failed", "user_id", req.UserID, "err", err)
		writeError(w, http.StatusBadGateway, "load_failed", "could not load remote state")
		return
	}

	if err := h.Engine.Subscribe(); err != nil {
		h.log.Error("session.load: subscribe failed", "user_id", req.UserID, "err", err)
		writeError(w, http.StatusBadGateway, "subscribe_failed", "could not subscribe to changes")
		return
	}

	h.State(w, r)
}

func (h *Handlers) SignOut(w http.ResponseWriter, _ *http.Request) {
	if err := h.Engine.SignOut(); err != nil {
		h.log.Error("session.signout: sign out failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// State returns the current in-memory snapshot: lists, all four item
// containers, and the set of lists with unconfirmed local changes.
func (h *Handlers) State(w http.ResponseWriter, _ *http.Request) {
	st := h.Engine.State()

	lists := st.Lists()
	response := stateResponse{
		Lists:    make([]listResponse, 0, len(lists)),
		Grocery:  st.Grocery.All(),
		Todo:     st.Todo.All(),
		Bookmark: st.Bookmark.All(),
		Note:     st.Note.All(),
		Dirty:    h.Engine.Dirty(),
	}
	for _, l := range lists {
		response.Lists = append(response.Lists, toListResponse(l))
	}

	writeJSON(w, http.StatusOK, response)
}
