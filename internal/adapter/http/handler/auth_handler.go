package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session"

// UserService defines the behavior needed by AuthHandler.
type UserService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input usecase.LoginInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Generate(user *domain.User) (string, error)
	TokenDuration() time.Duration
}

// AuthRecorder counts authentication attempts.
type AuthRecorder interface {
	ObserveAuthAttempt(action, status string)
}

// Sessions issues and clears the session cookie.
type Sessions struct {
	issuer       TokenIssuer
	secureCookie bool
	now          func() time.Time
}

// NewSessions creates a new Sessions. secureCookie sets the cookie's Secure flag.
func NewSessions(issuer TokenIssuer, secureCookie bool) *Sessions {
	return &Sessions{issuer: issuer, secureCookie: secureCookie, now: time.Now}
}

// Start signs a token for user, sets the cookie and returns the response body.
func (s *Sessions) Start(w http.ResponseWriter, user *domain.User) (*dto.SessionResponse, error) {
	token, err := s.issuer.Generate(user)
	if err != nil {
		return nil, err
	}

	ttl := s.issuer.TokenDuration()
	expiresAt := s.now().Add(ttl).UTC()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	return &dto.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.UserFromDomain(user),
	}, nil
}

// End expires the session cookie.
func (s *Sessions) End(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	users    UserService
	sessions *Sessions
	recorder AuthRecorder
}

// NewAuthHandler creates a new auth handler. recorder may be nil.
func NewAuthHandler(users UserService, sessions *Sessions, recorder AuthRecorder) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, recorder: recorder}
}

func (h *AuthHandler) observe(action string, err error) {
	if h.recorder == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	h.recorder.ObserveAuthAttempt(action, status)
}

// Register creates a user and starts a session.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.ToUseCaseInput())
	h.observe("register", err)
	if err != nil {
		writeDomainError(w, err, "failed to register")
		return
	}

	resp, err := h.sessions.Start(w, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start session", "")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login verifies credentials and starts a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Login(r.Context(), req.ToUseCaseInput())
	h.observe("login", err)
	if err != nil {
		writeDomainError(w, err, "failed to log in")
		return
	}

	resp, err := h.sessions.Start(w, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start session", "")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}
