package http

import (
	"log/slog"
	"net/http"
	"time"

	applog "pantrypal/internal/log"
)

// handleHome serves the recipe search page. It owns "/", so anything else
// that falls through the mux is a 404.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sess, ok := s.currentSession(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "path", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Username string
	}{Username: sess.Username}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

// handleDashboard renders the per-user statistics page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "path", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	stats, err := s.dashboard.Stats(r.Context(), sess, time.Now())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Dashboard aggregation failed",
			"error", err, "user_id", sess.UserID)
		http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
		return
	}

	type activityRow struct {
		Type    string
		Details string
		Date    string
	}
	data := struct {
		Username      string
		Email         string
		TotalSearches int64
		RecipesFound  int64
		ShoppingItems int64
		Recent        []activityRow
		MonthlyBudget string
		BudgetSpent   string
		Remaining     string
		PercentSpent  int
		CurrentMonth  string
	}{
		Username:      stats.Username,
		Email:         stats.Email,
		TotalSearches: stats.TotalSearches,
		RecipesFound:  stats.RecipesFound,
		ShoppingItems: stats.ShoppingItems,
		MonthlyBudget: stats.Budget.String(),
		BudgetSpent:   stats.Spent.String(),
		Remaining:     stats.Remaining.String(),
		PercentSpent:  stats.PercentSpent,
		CurrentMonth:  stats.CurrentMonth.String(),
	}
	for _, a := range stats.Recent {
		data.Recent = append(data.Recent, activityRow{
			Type:    string(a.Type),
			Details: a.Details,
			Date:    a.Date.Format("2006-01-02 15:04"),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

// sessionUserID returns the logged-in user id or zero for anonymous
// requests; endpoints that allow both use it for the activity side effect.
func (s *Server) sessionUserID(r *http.Request) int64 {
	if sess, ok := s.currentSession(r); ok {
		return sess.UserID
	}
	return 0
}
