package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"taskboard-api/domain"
)

func TestHMACCodecRoundTrip(t *testing.T) {
	codec := NewHMACCodec([]byte("test-secret"))

	token, err := codec.Issue("user-123", domain.AccessAuth)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Access != domain.AccessAuth {
		t.Fatalf("unexpected access class: %s", claims.Access)
	}
}

func TestHMACCodecRejectsTamperedToken(t *testing.T) {
	codec := NewHMACCodec([]byte("test-secret"))

	token, err := codec.Issue("user-123", domain.AccessAuth)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := codec.Verify(tampered); err == nil {
		t.Fatal("expected tampered token to fail verification")
	}
}

func TestHMACCodecRejectsForeignSecret(t *testing.T) {
	foreign := NewHMACCodec([]byte("other-secret"))
	token, err := foreign.Issue("user-123", domain.AccessAuth)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	codec := NewHMACCodec([]byte("test-secret"))
	if _, err := codec.Verify(token); err == nil {
		t.Fatal("expected token signed with a different secret to fail")
	}
}

func TestAuthTokenFromHeader(t *testing.T) {
	header := make(http.Header)
	header.Set(HeaderAuth, " aaa.bbb.ccc ")

	token, err := authTokenFromHeader(header)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "aaa.bbb.ccc" {
		t.Fatalf("unexpected token: %q", token)
	}
}

func TestAuthTokenFromHeaderMissing(t *testing.T) {
	if _, err := authTokenFromHeader(make(http.Header)); err != errMissingAuthHeader {
		t.Fatalf("expected missing header error, got %v", err)
	}
}

func TestAuthTokenFromHeaderBadStructure(t *testing.T) {
	header := make(http.Header)
	header.Set(HeaderAuth, "not-a-jwt")
	if _, err := authTokenFromHeader(header); err != errBadAuthHeader {
		t.Fatalf("expected bad header error, got %v", err)
	}
}

func runGuard(t *testing.T, store Storage, codec TokenCodec, token string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if token != "" {
		req.Header.Set(HeaderAuth, token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := authenticate(store, codec)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("guard returned error: %v", err)
	}
	return rec, reached
}

func TestAuthenticateMissingHeader(t *testing.T) {
	codec := NewHMACCodec([]byte("test-secret"))
	rec, reached := runGuard(t, &mockStore{}, codec, "")

	if reached {
		t.Fatal("expected next handler to be skipped")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestAuthenticateTamperedToken(t *testing.T) {
	codec := NewHMACCodec([]byte("test-secret"))
	token, err := codec.Issue("user-1", domain.AccessAuth)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	store := &mockStore{user: &domain.User{ID: "user-1"}}
	rec, reached := runGuard(t, store, codec, token[:len(token)-2]+"xx")

	if reached {
		t.Fatal("expected next handler to be skipped")
	}
	if rec.Code != http.StatusUnauthorized || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 401, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestAuthenticateStaleToken(t *testing.T) {
	codec := NewHMACCodec([]byte("test-secret"))
	token, err := codec.Issue("user-1", domain.AccessAuth)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Signature checks out but the store no longer tracks the token.
	rec, reached := runGuard(t, &mockStore{user: nil}, codec, token)

	if reached {
		t.Fatal("expected next handler to be skipped")
	}
	if rec.Code != http.StatusUnauthorized || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 401, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestAuthenticateWrongAccessClass(t *testing.T) {
	codec := NewHMACCodec([]byte("test-secret"))
	token, err := codec.Issue("user-1", "reset")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	store := &mockStore{user: &domain.User{ID: "user-1"}}
	rec, reached := runGuard(t, store, codec, token)

	if reached {
		t.Fatal("expected next handler to be skipped")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	codec := NewHMACCodec([]byte("test-secret"))
	token, err := codec.Issue("user-1", domain.AccessAuth)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	user := &domain.User{ID: "user-1", Email: "a@example.com"}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set(HeaderAuth, token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := authenticate(&mockStore{user: user}, codec)(func(c echo.Context) error {
		if got := currentUser(c); got == nil || got.ID != "user-1" {
			t.Fatalf("unexpected user in context: %#v", got)
		}
		if got := currentToken(c); got != token {
			t.Fatalf("unexpected token in context: %q", got)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("guard returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
}
