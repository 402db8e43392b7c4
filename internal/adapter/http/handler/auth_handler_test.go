package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

type userServiceStub struct {
	registerFn func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, input usecase.LoginInput) (*domain.User, error)
	getFn      func(ctx context.Context, id string) (*domain.User, error)
}

func (s *userServiceStub) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *userServiceStub) Login(ctx context.Context, input usecase.LoginInput) (*domain.User, error) {
	return s.loginFn(ctx, input)
}

func (s *userServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

type tokenIssuerStub struct {
	err error
}

func (s tokenIssuerStub) Generate(user *domain.User) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + user.ID, nil
}

func (tokenIssuerStub) TokenDuration() time.Duration { return 168 * time.Hour }

type authRecorderStub struct {
	attempts map[string]int
}

func (r *authRecorderStub) ObserveAuthAttempt(action, status string) {
	if r.attempts == nil {
		r.attempts = make(map[string]int)
	}
	r.attempts[action+"/"+status]++
}

func newTestSessions(secure bool) *Sessions {
	s := NewSessions(tokenIssuerStub{}, secure)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookieName)
	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	recorder := &authRecorderStub{}
	handler := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			return &domain.User{ID: "u1", Name: input.Name, Email: input.Email, PasswordHash: "hash"}, nil
		},
	}, newTestSessions(true), recorder)

	body, _ := json.Marshal(dto.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	rec := httptest.NewRecorder()
	handler.Register(rec, httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	cookie := sessionCookie(t, rec)
	assert.Equal(t, "token-u1", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int((168 * time.Hour).Seconds()), cookie.MaxAge)

	var resp dto.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "token-u1", resp.Token)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.NotContains(t, rec.Body.String(), "hash")
	assert.Equal(t, 1, recorder.attempts["register/success"])
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	recorder := &authRecorderStub{}
	handler := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}, newTestSessions(false), recorder)

	body, _ := json.Marshal(dto.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	rec := httptest.NewRecorder()
	handler.Register(rec, httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, 1, recorder.attempts["register/failure"])
}

func TestAuthHandler_Login(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		loginFn: func(ctx context.Context, input usecase.LoginInput) (*domain.User, error) {
			if input.Password != "secret123" {
				return nil, domain.ErrInvalidCredentials
			}
			return &domain.User{ID: "u1", Email: input.Email}, nil
		},
	}, newTestSessions(false), nil)

	body, _ := json.Marshal(dto.LoginRequest{Email: "ana@example.com", Password: "secret123"})
	rec := httptest.NewRecorder()
	handler.Login(rec, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sessionCookie(t, rec).Secure)

	body, _ = json.Marshal(dto.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	rec = httptest.NewRecorder()
	handler.Login(rec, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Login_TokenFailure(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		loginFn: func(ctx context.Context, input usecase.LoginInput) (*domain.User, error) {
			return &domain.User{ID: "u1"}, nil
		},
	}, NewSessions(tokenIssuerStub{err: errors.New("sign failed")}, false), nil)

	body, _ := json.Marshal(dto.LoginRequest{Email: "ana@example.com", Password: "secret123"})
	rec := httptest.NewRecorder()
	handler.Login(rec, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{}, newTestSessions(false), nil)

	rec := httptest.NewRecorder()
	handler.Logout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookie := sessionCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Name: "Ana"}, nil
		},
	}, newTestSessions(false), nil)

	rec := httptest.NewRecorder()
	handler.Me(rec, withUser(httptest.NewRequest(http.MethodGet, "/me", nil), "u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.ID)
}
