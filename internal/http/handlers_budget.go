package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pantrypal/internal/core"
)

// handleUpdateBudget sets the caller's budget for the current month.
func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, ok := s.currentSession(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(p.Get("budget"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid budget amount")
		return
	}

	month := core.CurrentMonthKey(time.Now())
	if err := s.budget.Update(r.Context(), sess.UserID, month, core.Money{Cents: cents}); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			respondError(w, http.StatusBadRequest, "Invalid budget amount")
			return
		}
		slog.ErrorContext(r.Context(), "Budget update failed", "error", err, "user_id", sess.UserID)
		respondError(w, http.StatusInternalServerError, "Could not update budget")
		return
	}
	respondMessage(w, "Budget updated successfully")
}
