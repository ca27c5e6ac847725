package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"client_directory_backend/internal/middleware"
	"client_directory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Cookie names used across the sign-in flow.
const (
	SessionCookie   = "session_token"
	stateCookie     = "auth_state"
	nonceCookie     = "auth_nonce"
	returnURLCookie = "auth_return_url"
)

// loginFlowTTL bounds how long a login redirect may take before the state
// cookie expires.
const loginFlowTTL = 5 * time.Minute

// OIDCAuthenticator is the slice of the OIDC flow the handler needs.
// Satisfied by *auth.Authenticator.
type OIDCAuthenticator interface {
	AuthCodeURL(state, nonce string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	VerifyIDToken(ctx context.Context, token *oauth2.Token, nonce string) (map[string]interface{}, error)
}

// AuthHandler drives login, logout and the current-user endpoint.
type AuthHandler struct {
	authenticator OIDCAuthenticator
	sessionTTL    time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(a OIDCAuthenticator, sessionTTL time.Duration) *AuthHandler {
	if sessionTTL <= 0 {
		sessionTTL = utils.DefaultSessionTTL
	}
	return &AuthHandler{authenticator: a, sessionTTL: sessionTTL}
}

// Login starts the authorization-code flow: it parks state, nonce and the
// caller's returnUrl in short-lived cookies and redirects to the provider.
func (h *AuthHandler) Login(c *gin.Context) {
	returnURL := c.DefaultQuery("returnUrl", "/")
	state := uuid.NewString()
	nonce := uuid.NewString()

	maxAge := int(loginFlowTTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, maxAge, "/", "", false, true)
	c.SetCookie(nonceCookie, nonce, maxAge, "/", "", false, true)
	c.SetCookie(returnURLCookie, returnURL, maxAge, "/", "", false, true)

	c.Redirect(http.StatusFound, h.authenticator.AuthCodeURL(state, nonce))
}

// Callback completes the flow: checks state, exchanges the code, verifies the
// ID token, mints a session token with the identity claims, and sends the
// caller back to their returnUrl.
func (h *AuthHandler) Callback(c *gin.Context) {
	expectedState, err := c.Cookie(stateCookie)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Login state mismatch, please sign in again.", "state cookie missing or mismatched"))
		return
	}

	code := c.Query("code")
	if code == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Identity provider did not return an authorization code.", c.Query("error_description")))
		return
	}

	token, err := h.authenticator.Exchange(c.Request.Context(), code)
	if err != nil {
		utils.LogError(err, "Callback: code exchange failed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Failed to complete sign-in.", err.Error()))
		return
	}

	nonce, _ := c.Cookie(nonceCookie)
	rawClaims, err := h.authenticator.VerifyIDToken(c.Request.Context(), token, nonce)
	if err != nil {
		utils.LogError(err, "Callback: ID token verification failed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Failed to verify identity token.", err.Error()))
		return
	}

	identityClaims := flattenClaims(rawClaims)
	name := identityClaims["name"]
	email := identityClaims["email"]
	if email == "" {
		email = identityClaims["preferred_username"]
	}

	sessionToken, err := utils.GenerateSessionToken(name, email, identityClaims, h.sessionTTL)
	if err != nil {
		utils.LogError(err, "Callback: failed to generate session token")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to establish session.", "Internal error"))
		return
	}

	returnURL, _ := c.Cookie(returnURLCookie)
	if returnURL == "" {
		returnURL = "/"
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sessionToken, int(h.sessionTTL.Seconds()), "/", "", false, true)
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)
	c.SetCookie(nonceCookie, "", -1, "/", "", false, true)
	c.SetCookie(returnURLCookie, "", -1, "/", "", false, true)

	utils.LogInfo("User signed in", map[string]interface{}{"email": email})
	c.Redirect(http.StatusFound, returnURL)
}

// Logout clears the session cookie. The session token itself simply expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetCurrentUser exposes the authenticated caller's identity claims.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	claims, ok := middleware.SessionClaimsFromContext(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing session claims in context"))
		return
	}

	claimList := make([]gin.H, 0, len(claims.IdentityClaims))
	types := make([]string, 0, len(claims.IdentityClaims))
	for claimType := range claims.IdentityClaims {
		types = append(types, claimType)
	}
	sort.Strings(types)
	for _, claimType := range types {
		claimList = append(claimList, gin.H{"type": claimType, "value": claims.IdentityClaims[claimType]})
	}

	c.JSON(http.StatusOK, gin.H{
		"isAuthenticated": true,
		"name":            claims.Name,
		"email":           claims.Email,
		"claims":          claimList,
	})
}

// flattenClaims renders every ID-token claim as a string so the full claim
// set can travel inside the session token.
func flattenClaims(raw map[string]interface{}) map[string]string {
	flat := make(map[string]string, len(raw))
	for k, v := range raw {
		flat[k] = fmt.Sprint(v)
	}
	return flat
}
