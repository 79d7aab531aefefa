package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pantrypal/internal/auth"
	"pantrypal/internal/core"
)

const oauthStateCookie = "oauth_state"

type authPageData struct {
	Error string
}

func (s *Server) renderAuthPage(w http.ResponseWriter, r *http.Request, status int, data authPageData) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "auth.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Auth template execution failed", "error", err)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderAuthPage(w, r, http.StatusOK, authPageData{})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			s.renderAuthPage(w, r, http.StatusBadRequest, authPageData{Error: "Invalid request"})
			return
		}
		email := sanitizeInput(r.Form.Get("email"))
		password := r.Form.Get("password")

		user, err := s.auth.Login(r.Context(), email, password)
		if errors.Is(err, core.ErrInvalidCredentials) {
			// Deliberately generic: never say which field was wrong.
			s.renderAuthPage(w, r, http.StatusUnauthorized, authPageData{Error: "Invalid credentials"})
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "Login failed", "error", err)
			s.renderAuthPage(w, r, http.StatusInternalServerError, authPageData{Error: "Something went wrong, try again"})
			return
		}

		s.startSession(w, user)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderAuthPage(w, r, http.StatusOK, authPageData{})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			s.renderAuthPage(w, r, http.StatusBadRequest, authPageData{Error: "Invalid request"})
			return
		}
		username := sanitizeInput(r.Form.Get("username"))
		email := sanitizeInput(r.Form.Get("email"))
		password := r.Form.Get("password")

		_, err := s.auth.Signup(r.Context(), username, email, password)
		if errors.Is(err, core.ErrUserExists) {
			s.renderAuthPage(w, r, http.StatusConflict, authPageData{Error: "Username or email already exists"})
			return
		}
		if err != nil {
			slog.WarnContext(r.Context(), "Signup rejected", "error", err)
			s.renderAuthPage(w, r, http.StatusBadRequest, authPageData{Error: "Username, email and password are required"})
			return
		}

		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.endSession(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.google == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	state := auth.NewState()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(5 * time.Minute),
	})
	http.Redirect(w, r, s.google.AuthCodeURL(state), http.StatusFound)
}

// handleGoogleCallback finishes the provider flow. Every failure redirects
// back to login; an error page would strand the browser mid-flow.
func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.google == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	back := func(reason string, err error) {
		slog.WarnContext(r.Context(), "Google callback failed", "reason", reason, "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}

	if errStr := r.URL.Query().Get("error"); errStr != "" {
		back("provider error: "+errStr, nil)
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		back("state mismatch", err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/auth/google", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		back("missing code", nil)
		return
	}

	identity, err := s.google.Exchange(r.Context(), code)
	if err != nil {
		back("exchange", err)
		return
	}

	user, err := s.auth.LoginWithGoogle(r.Context(), identity)
	if err != nil {
		back("user mapping", err)
		return
	}

	s.startSession(w, user)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
