package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/swasthya/child-health-system/internal/core/domain"
)

type stubVerifier struct {
	identity *domain.Identity
	err      error

	gotToken string
}

func (s *stubVerifier) Register(_ context.Context, _, _, _ string) (*domain.User, error) {
	panic("not used")
}

func (s *stubVerifier) Login(_ context.Context, _, _, _ string) (string, *domain.User, error) {
	panic("not used")
}

func (s *stubVerifier) Verify(_ context.Context, token string) (*domain.Identity, error) {
	s.gotToken = token
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func runAuth(t *testing.T, verifier *stubVerifier, header string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/records", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := Auth(verifier)(next)(c)
	return rec, c, err
}

func TestAuth_ValidToken(t *testing.T) {
	identity := &domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleWorker}
	verifier := &stubVerifier{identity: identity}

	rec, c, err := runAuth(t, verifier, "Bearer good-token")
	if err != nil {
		t.Fatalf("expected next handler to run, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if verifier.gotToken != "good-token" {
		t.Fatalf("expected raw token forwarded, got %q", verifier.gotToken)
	}
	if got, _ := c.Get(IdentityKey).(*domain.Identity); got != identity {
		t.Fatalf("identity not stored in context")
	}
	if role, _ := c.Get("role").(string); role != domain.RoleWorker {
		t.Fatalf("expected role in context, got %q", role)
	}
}

func TestAuth_LowercaseBearer(t *testing.T) {
	verifier := &stubVerifier{identity: &domain.Identity{ID: "u1", Role: domain.RoleWorker}}

	_, _, err := runAuth(t, verifier, "bearer good-token")
	if err != nil {
		t.Fatalf("scheme match must be case-insensitive: %v", err)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, _, err := runAuth(t, &stubVerifier{}, "")

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	for _, header := range []string{"good-token", "Basic abc123", "Bearer"} {
		_, _, err := runAuth(t, &stubVerifier{}, header)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401 HTTPError, got %v", header, err)
		}
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: domain.ErrInvalidToken}

	_, _, err := runAuth(t, verifier, "Bearer tampered")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
	if he.Message != "invalid token" {
		t.Fatalf("expected invalid token message, got %v", he.Message)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	verifier := &stubVerifier{err: domain.ErrTokenExpired}

	_, _, err := runAuth(t, verifier, "Bearer stale")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
	if he.Message != "token expired" {
		t.Fatalf("expired tokens must get their own message, got %v", he.Message)
	}
}
