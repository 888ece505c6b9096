package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	itemdomain "list-app-go/internal/domain/item"
	listdomain "list-app-go/internal/domain/list"
	syncengine "list-app-go/internal/sync"
)

var errInvalidItemJSON = errors.New("invalid item json")

type itemMutationRequest struct {
	UserID string          `json:"user_id"`
	Type   string          `json:"list_type"`
	Toggle bool            `json:"toggle"`
	Item   json.RawMessage `json:"item"`
}

type bulkCheckRequest struct {
	UserID  string `json:"user_id"`
	Type    string `json:"list_type"`
	Checked bool   `json:"checked"`
}

func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	listID := strings.TrimSpace(chi.URLParam(r, "list_id"))
	if listID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "list_id is required")
		return
	}

	t := listdomain.Type(strings.TrimSpace(r.URL.Query().Get("list_type")))
	if !t.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid list_type")
		return
	}

	var payload interface{}
	switch t {
	case listdomain.TypeGrocery:
		payload = h.Engine.Grocery().Items(listID)
	case listdomain.TypeTodo:
		payload = h.Engine.Todo().Items(listID)
	case listdomain.TypeBookmark:
		payload = h.Engine.Bookmark().Items(listID)
	case listdomain.TypeNote:
		payload = h.Engine.Note().Items(listID)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": payload})
}

func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request) {
	h.mutateItem(w, r, addItem[itemdomain.Grocery], addItem[itemdomain.Todo], addItem[itemdomain.Bookmark], addItem[itemdomain.Note])
}

func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	h.mutateItem(w, r, updateItem[itemdomain.Grocery], updateItem[itemdomain.Todo], updateItem[itemdomain.Bookmark], updateItem[itemdomain.Note])
}

// mutateItem decodes the shared mutation envelope and dispatches the typed
// payload to the pipeline matching list_type.
func (h *Handlers) mutateItem(
	w http.ResponseWriter,
	r *http.Request,
	grocery func(context.Context, *syncengine.Pipeline[itemdomain.Grocery], itemMutationRequest, string) error,
	todo func(context.Context, *syncengine.Pipeline[itemdomain.Todo], itemMutationRequest, string) error,
	bookmark func(context.Context, *syncengine.Pipeline[itemdomain.Bookmark], itemMutationRequest, string) error,
	note func(context.Context, *syncengine.Pipeline[itemdomain.Note], itemMutationRequest, string) error,
) {
	var req itemMutationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	listID := strings.TrimSpace(chi.URLParam(r, "list_id"))
	if listID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "list_id is required")
		return
	}
	if len(req.Item) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "item is required")
		return
	}

	var err error
	switch listdomain.Type(req.Type) {
	case listdomain.TypeGrocery:
		err = grocery(r.Context(), h.Engine.Grocery(), req, listID)
	case listdomain.TypeTodo:
		err = todo(r.Context(), h.Engine.Todo(), req, listID)
	case listdomain.TypeBookmark:
		err = bookmark(r.Context(), h.Engine.Bookmark(), req, listID)
	case listdomain.TypeNote:
		err = note(r.Context(), h.Engine.Note(), req, listID)
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid list_type")
		return
	}
	if err != nil {
		if errors.Is(err, errInvalidItemJSON) {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid item payload")
			return
		}
		h.log.Error("items.mutate: pipeline call failed", "user_id", req.UserID, "list_id", listID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	listID := strings.TrimSpace(chi.URLParam(r, "list_id"))
	itemID := strings.TrimSpace(chi.URLParam(r, "item_id"))
	if listID == "" || itemID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "list_id and item_id are required")
		return
	}

	query := r.URL.Query()
	userID := strings.TrimSpace(query.Get("user_id"))

	var err error
	switch listdomain.Type(strings.TrimSpace(query.Get("list_type"))) {
	case listdomain.TypeGrocery:
		err = h.Engine.Grocery().RemoveItem(r.Context(), userID, listID, itemID)
	case listdomain.TypeTodo:
		err = h.Engine.Todo().RemoveItem(r.Context(), userID, listID, itemID)
	case listdomain.TypeBookmark:
		err = h.Engine.Bookmark().RemoveItem(r.Context(), userID, listID, itemID)
	case listdomain.TypeNote:
		err = h.Engine.Note().RemoveItem(r.Context(), userID, listID, itemID)
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid list_type")
		return
	}
	if err != nil {
		h.log.Error("items.remove: pipeline call failed", "user_id", userID, "list_id", listID, "item_id", itemID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CheckAllItems(w http.ResponseWriter, r *http.Request) {
	req, listID, ok := h.decodeBulk(w, r)
	if !ok {
		return
	}

	var err error
	switch listdomain.Type(req.Type) {
	case listdomain.TypeGrocery:
		err = h.Engine.Grocery().SetAllChecked(r.Context(), req.UserID, listID, req.Checked)
	case listdomain.TypeTodo:
		err = h.Engine.Todo().SetAllChecked(r.Context(), req.UserID, listID, req.Checked)
	case listdomain.TypeBookmark:
		err = h.Engine.Bookmark().SetAllChecked(r.Context(), req.UserID, listID, req.Checked)
	case listdomain.TypeNote:
		err = h.Engine.Note().SetAllChecked(r.Context(), req.UserID, listID, req.Checked)
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid list_type")
		return
	}
	if err != nil {
		h.log.Error("items.check_all: pipeline call failed", "user_id", req.UserID, "list_id", listID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) ClearItems(w http.ResponseWriter, r *http.Request) {
	req, listID, ok := h.decodeBulk(w, r)
	if !ok {
		return
	}

	var err error
	switch listdomain.Type(req.Type) {
	case listdomain.TypeGrocery:
		err = h.Engine.Grocery().RemoveByChecked(r.Context(), req.UserID, listID, req.Checked)
	case listdomain.TypeTodo:
		err = h.Engine.Todo().RemoveByChecked(r.Context(), req.UserID, listID, req.Checked)
	case listdomain.TypeBookmark:
		err = h.Engine.Bookmark().RemoveByChecked(r.Context(), req.UserID, listID, req.Checked)
	case listdomain.TypeNote:
		err = h.Engine.Note().RemoveByChecked(r.Context(), req.UserID, listID, req.Checked)
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid list_type")
		return
	}
	if err != nil {
		h.log.Error("items.clear: pipeline call failed", "user_id", req.UserID, "list_id", listID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) decodeBulk(w http.ResponseWriter, r *http.Request) (bulkCheckRequest, string, bool) {
	var req bulkCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return req, "", false
	}

	listID := strings.TrimSpace(chi.URLParam(r, "list_id"))
	if listID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "list_id is required")
		return req, "", false
	}

	return req, listID, true
}

func addItem[T itemdomain.Item[T]](ctx context.Context, p *syncengine.Pipeline[T], req itemMutationRequest, listID string) error {
	it, err := decodeItem[T](req.Item)
	if err != nil {
		return err
	}
	return p.AddItem(ctx, req.UserID, listID, it)
}

func updateItem[T itemdomain.Item[T]](ctx context.Context, p *syncengine.Pipeline[T], req itemMutationRequest, listID string) error {
	it, err := decodeItem[T](req.Item)
	if err != nil {
		return err
	}
	return p.UpdateItem(ctx, req.UserID, listID, it, req.Toggle)
}

func decodeItem[T itemdomain.Item[T]](raw json.RawMessage) (T, error) {
	var it T
	if err := json.Unmarshal(raw, &it); err != nil {
		var zero T
		return zero, errInvalidItemJSON
	}
	return it, nil
}
