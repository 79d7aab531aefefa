package http

import (
	"log/slog"
	"net/http"
	"strings"

	"pantrypal/internal/core"
	"pantrypal/internal/recipes"
)

// handleSearchRecipes proxies an ingredient search to the recipe API and
// records the search for logged-in users.
func (s *Server) handleSearchRecipes(w http.ResponseWriter, r *http.Request) {
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

	var ingredients []string
	for _, raw := range p.GetStringSlice("ingredients") {
		name, err := core.NormalizeIngredient(raw)
		if err != nil {
			continue
		}
		ingredients = append(ingredients, name)
	}
	if len(ingredients) == 0 {
		respondError(w, http.StatusBadRequest, "At least one ingredient is required")
		return
	}

	found, err := s.recipes.SearchByIngredients(r.Context(), ingredients)
	if err != nil {
		if recipes.IsUpstreamError(err) {
			slog.WarnContext(r.Context(), "Recipe API unavailable", "error", err)
			respondError(w, http.StatusBadGateway, "Recipe service unavailable")
			return
		}
		slog.ErrorContext(r.Context(), "Recipe search failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Recipe search failed")
		return
	}

	if userID := s.sessionUserID(r); userID != 0 {
		details := "With: " + strings.Join(firstN(ingredients, 3), ", ")
		if err := s.activity.Record(r.Context(), userID, core.ActivitySearch, details); err != nil {
			slog.WarnContext(r.Context(), "Failed to record search activity", "error", err, "user_id", userID)
		}
	}

	respondJSON(w, http.StatusOK, found)
}

func firstN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
