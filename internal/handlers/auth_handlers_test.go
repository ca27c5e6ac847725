package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"client_directory_backend/internal/handlers"
	"client_directory_backend/internal/middleware"
	"client_directory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

// stubAuthenticator fakes the identity provider side of the flow.
type stubAuthenticator struct {
	exchangeErr error
	claims      map[string]interface{}
}

func (s *stubAuthenticator) AuthCodeURL(state, nonce string) string {
	return "https://idp.example.com/authorize?state=" + state + "&nonce=" + nonce
}

func (s *stubAuthenticator) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if s.exchangeErr != nil {
		return nil, s.exchangeErr
	}
	return &oauth2.Token{AccessToken: "stub-access-token"}, nil
}

func (s *stubAuthenticator) VerifyIDToken(_ context.Context, _ *oauth2.Token, _ string) (map[string]interface{}, error) {
	return s.claims, nil
}

func newAuthRouter(stub *stubAuthenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewAuthHandler(stub, 0)
	authGroup := r.Group("/api/auth")
	authGroup.GET("/login", h.Login)
	authGroup.GET("/callback", h.Callback)
	authGroup.POST("/logout", middleware.AuthMiddleware(), h.Logout)
	authGroup.GET("/user", middleware.AuthMiddleware(), h.GetCurrentUser)
	return r
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginRedirectsToProvider(t *testing.T) {
	r := newAuthRouter(&stubAuthenticator{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/login?returnUrl=/app", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	location := w.Header().Get("Location")
	if !strings.HasPrefix(location, "https://idp.example.com/authorize?state=") {
		t.Errorf("expected redirect to provider, got %q", location)
	}

	resp := w.Result()
	state := cookieByName(resp, "auth_state")
	if state == nil || state.Value == "" {
		t.Error("expected auth_state cookie to be set")
	} else if !strings.Contains(location, "state="+state.Value) {
		t.Error("expected redirect state to match the state cookie")
	}
	if ret := cookieByName(resp, "auth_return_url"); ret == nil || ret.Value != "/app" {
		t.Errorf("expected returnUrl parked in cookie, got %+v", ret)
	}
}

func TestCallbackRejectsStateMismatch(t *testing.T) {
	r := newAuthRouter(&stubAuthenticator{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?state=evil&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "auth_state", Value: "expected"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on state mismatch, got %d", w.Code)
	}
}

func TestCallbackEstablishesSession(t *testing.T) {
	stub := &stubAuthenticator{claims: map[string]interface{}{
		"name":  "Jo Example",
		"email": "jo@x.com",
		"oid":   "1234",
	}}
	r := newAuthRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?state=st&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "auth_state", Value: "st"})
	req.AddCookie(&http.Cookie{Name: "auth_nonce", Value: "nc"})
	req.AddCookie(&http.Cookie{Name: "auth_return_url", Value: "/app"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	if location := w.Header().Get("Location"); location != "/app" {
		t.Errorf("expected redirect back to /app, got %q", location)
	}

	session := cookieByName(w.Result(), handlers.SessionCookie)
	if session == nil || session.Value == "" {
		t.Fatal("expected session cookie to be set")
	}
	claims, err := utils.ValidateSessionToken(session.Value)
	if err != nil {
		t.Fatalf("session token does not validate: %v", err)
	}
	if claims.Name != "Jo Example" || claims.Email != "jo@x.com" {
		t.Errorf("unexpected session identity: %+v", claims)
	}
	if claims.IdentityClaims["oid"] != "1234" {
		t.Errorf("expected provider claims carried into the session, got %v", claims.IdentityClaims)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	r := newAuthRouter(&stubAuthenticator{})

	token, err := utils.GenerateSessionToken("Jo", "jo@x.com", nil, 0)
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Logged out successfully") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	session := cookieByName(w.Result(), handlers.SessionCookie)
	if session == nil || session.MaxAge >= 0 && session.Value != "" {
		t.Errorf("expected session cookie cleared, got %+v", session)
	}
}

func TestGetCurrentUserReturnsClaims(t *testing.T) {
	r := newAuthRouter(&stubAuthenticator{})

	token, err := utils.GenerateSessionToken("Jo", "jo@x.com", map[string]string{
		"name":  "Jo",
		"email": "jo@x.com",
		"oid":   "1234",
	}, 0)
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["isAuthenticated"] != true {
		t.Errorf("expected isAuthenticated true, got %v", body["isAuthenticated"])
	}
	if body["name"] != "Jo" || body["email"] != "jo@x.com" {
		t.Errorf("unexpected identity: %v", body)
	}
	claims := body["claims"].([]interface{})
	if len(claims) != 3 {
		t.Errorf("expected 3 claims, got %v", claims)
	}
	first := claims[0].(map[string]interface{})
	if first["type"] == nil || first["value"] == nil {
		t.Errorf("expected {type, value} claim entries, got %v", first)
	}
}

func TestGetCurrentUserUnauthenticated(t *testing.T) {
	r := newAuthRouter(&stubAuthenticator{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", w.Code)
	}
}
