package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func googleAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	config.InitGoogleOAuth()

	router := gin.New()
	router.Use(sessions.Sessions("digikart", cookie.NewStore([]byte("test-secret"))))
	router.GET("/auth/google", GoogleLogin)
	router.GET("/auth/google/callback", GoogleCallback)
	return router
}

// startLogin performs the redirect and returns the state nonce Google would
// echo back, plus the session cookies.
func startLogin(t *testing.T, router *gin.Engine) (string, []*http.Cookie) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	return state, w.Result().Cookies()
}

func TestGoogleLoginIssuesRandomState(t *testing.T) {
	router := googleAuthRouter()

	first, cookies := startLogin(t, router)
	require.NotEmpty(t, cookies)

	second, _ := startLogin(t, router)
	assert.NotEqual(t, first, second)
}

func TestGoogleCallbackRejectsForgedState(t *testing.T) {
	router := googleAuthRouter()

	_, cookies := startLogin(t, router)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=x", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoogleCallbackRejectsMissingSession(t *testing.T) {
	router := googleAuthRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=whatever&code=x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoogleCallbackStateIsSingleUse(t *testing.T) {
	router := googleAuthRouter()

	state, cookies := startLogin(t, router)

	// The first callback consumes the state before failing on the missing
	// code, so replaying it must be rejected.
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No code provided")

	// Replay with the refreshed session cookie from the first callback.
	updated := w.Result().Cookies()
	if len(updated) == 0 {
		updated = cookies
	}
	replay := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state, nil)
	for _, c := range updated {
		replay.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, replay)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid OAuth state")
}
