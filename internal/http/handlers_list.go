package http

import (
	"errors"
	"log/slog"
	"net/http"

	"pantrypal/internal/core"
)

// handleAddToList adds an ingredient to the shared shopping list. Works for
// anonymous callers too; only logged-in adds produce an activity row.
func (s *Server) handleAddToList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := s.shopping.AddItem(r.Context(), p.Get("ingredient"), s.sessionUserID(r))
	switch {
	case errors.Is(err, core.ErrDuplicateItem):
		respondError(w, http.StatusBadRequest, "Ingredient already in list")
	case errors.Is(err, core.ErrEmptyIngredient):
		respondError(w, http.StatusBadRequest, "Ingredient name is required")
	case err != nil:
		slog.ErrorContext(r.Context(), "Add to list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not add ingredient")
	default:
		respondMessage(w, "Ingredient added successfully")
	}
}

// handleGetShoppingList returns the unpurchased items, newest first.
func (s *Server) handleGetShoppingList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	items, err := s.shopping.ListUnpurchased(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List shopping items failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not load shopping list")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// handleMarkPurchased flips the purchased flag; a missing id is a no-op.
func (s *Server) handleMarkPurchased(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id, ok := p.GetInt64("id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Item id is required")
		return
	}

	if err := s.shopping.MarkPurchased(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Mark purchased failed", "error", err, "item_id", id)
		respondError(w, http.StatusInternalServerError, "Could not update item")
		return
	}
	respondMessage(w, "Item marked as purchased")
}
