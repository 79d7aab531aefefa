package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"pantrypal/internal/auth"
	"pantrypal/internal/core"
	"pantrypal/internal/recipes"
	"pantrypal/internal/services"
	"pantrypal/internal/session"
	appweb "pantrypal/web"
)

// Ports for the two collaborators handlers only touch through an interface;
// tests substitute fakes for both.
type (
	// RecipeSearcher is the outbound recipe API.
	RecipeSearcher interface {
		SearchByIngredients(ctx context.Context, ingredients []string) ([]recipes.Recipe, error)
	}

	// GoogleExchanger is the identity-provider side of the Google flow.
	GoogleExchanger interface {
		AuthCodeURL(state string) string
		Exchange(ctx context.Context, code string) (auth.Identity, error)
	}
)

// Deps carries everything the server needs; all of it is constructor
// injected, nothing is process-global.
type Deps struct {
	Sessions  *session.Store
	Auth      *services.AuthService
	Shopping  *services.ShoppingService
	Budget    *services.BudgetService
	Activity  *services.ActivityService
	Dashboard *services.DashboardService
	Recipes   RecipeSearcher
	Google    GoogleExchanger // nil disables the /auth/google routes
}

type Server struct {
	http.Server
	templates *template.Template

	sessions  *session.Store
	auth      *services.AuthService
	shopping  *services.ShoppingService
	budget    *services.BudgetService
	activity  *services.ActivityService
	dashboard *services.DashboardService
	recipes   RecipeSearcher
	google    GoogleExchanger

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		sessions:  deps.Sessions,
		auth:      deps.Auth,
		shopping:  deps.Shopping,
		budget:    deps.Budget,
		activity:  deps.Activity,
		dashboard: deps.Dashboard,
		recipes:   deps.Recipes,
		google:    deps.Google,
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withRequestLog(s.handleHome))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/dashboard", s.withRequestLog(s.handleDashboard))
	mux.HandleFunc("/update-budget", s.withRequestLog(s.handleUpdateBudget))
	mux.HandleFunc("/search-recipes", s.withRequestLog(s.handleSearchRecipes))
	mux.HandleFunc("/add-to-list", s.withRequestLog(s.handleAddToList))
	mux.HandleFunc("/get-shopping-list", s.withRequestLog(s.handleGetShoppingList))
	mux.HandleFunc("/mark-purchased", s.withRequestLog(s.handleMarkPurchased))

	mux.HandleFunc("/login", s.withRequestLog(s.handleLogin))
	mux.HandleFunc("/signup", s.withRequestLog(s.handleSignup))
	mux.HandleFunc("/logout", s.withRequestLog(s.handleLogout))
	mux.HandleFunc("/auth/google", s.withRequestLog(s.handleGoogleLogin))
	mux.HandleFunc("/auth/google/callback", s.withRequestLog(s.handleGoogleCallback))

	return s
}

// Shutdown gracefully shuts down the server and the session store.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.sessions != nil {
			s.sessions.Close()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withRequestLog adds security headers and request logging to responses.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", ip,
			"user_agent", r.Header.Get("User-Agent"))

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", ip)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("templates not loaded"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// currentSession resolves the session cookie, if any.
func (s *Server) currentSession(r *http.Request) (core.Session, bool) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return core.Session{}, false
	}
	return s.sessions.Get(cookie.Value)
}

// startSession creates a session for the user and sets the cookie.
func (s *Server) startSession(w http.ResponseWriter, user core.User) {
	id := s.sessions.Create(core.Session{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
