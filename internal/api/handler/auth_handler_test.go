package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/swasthya/child-health-system/internal/api/middleware"
	"github.com/swasthya/child-health-system/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password, role string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password, claimedRole string) (string, *domain.User, error)
	verifyFn   func(ctx context.Context, token string) (*domain.Identity, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	return s.registerFn(ctx, username, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, username, password, claimedRole string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password, claimedRole)
}

func (s *stubAuthService) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	return s.verifyFn(ctx, token)
}

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(_ context.Context, username, password, role string) (*domain.User, error) {
			if username != "alice" || password != "secret1" || role != domain.RoleWorker {
				t.Fatalf("unexpected register args: %s %s %s", username, password, role)
			}
			return &domain.User{ID: "u1", Username: username, Role: role}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","password":"secret1","role":"worker"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "" {
		t.Fatalf("register must not issue a token")
	}
	if resp.User == nil || resp.User.ID != "u1" {
		t.Fatalf("unexpected user in response: %+v", resp.User)
	}
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			t.Fatal("service must not be reached on validation failure")
			return nil, nil
		},
	})

	cases := []struct {
		name string
		body string
	}{
		{"missing username", `{"password":"secret1","role":"worker"}`},
		{"short password", `{"username":"alice","password":"12345","role":"worker"}`},
		{"bad role", `{"username":"alice","password":"secret1","role":"superuser"}`},
	}
	for _, tc := range cases {
		c, _ := newJSONContext(t, http.MethodPost, "/auth/register", tc.body)
		err := h.Register(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400 HTTPError, got %v", tc.name, err)
		}
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	})

	c, _ := newJSONContext(t, http.MethodPost, "/auth/register",
		`{"username":"bob","password":"secret1","role":"worker"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists to propagate to the error handler, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleWorker}
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(_ context.Context, username, password, claimedRole string) (string, *domain.User, error) {
			if claimedRole != domain.RoleWorker {
				t.Fatalf("unexpected claimed role: %s", claimedRole)
			}
			return "signed.jwt.token", user, nil
		},
	})

	c, rec := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"secret1","role":"worker"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "signed.jwt.token" {
		t.Fatalf("unexpected token: %q", resp.Token)
	}
	if resp.User == nil || resp.User.Username != "alice" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
}

func TestAuthHandler_Login_PasswordNotSerialized(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice", PasswordHash: "$2a$10$hash", Role: domain.RoleWorker}
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string, string) (string, *domain.User, error) {
			return "tok", user, nil
		},
	})

	c, rec := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"secret1","role":"worker"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked into response: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	})

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"wrong1","role":"worker"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_MalformedBody(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login", `{"username":`)
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newJSONContext(t, http.MethodGet, "/auth/profile", "")
	c.Set(middleware.IdentityKey, &domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleWorker})

	if err := h.Profile(c); err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	var identity domain.Identity
	if err := json.Unmarshal(rec.Body.Bytes(), &identity); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if identity.ID != "u1" || identity.Role != domain.RoleWorker {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestAuthHandler_Profile_MissingIdentity(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(t, http.MethodGet, "/auth/profile", "")
	err := h.Profile(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
