package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/collection"
	"task-tracker-api/internal/session"
	"task-tracker-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*gin.Engine, *auth.TokenIssuer, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testutil.TestConfig("list")
	factory, err := collection.NewFactory(cfg.Session.Backend, nil)
	require.NoError(t, err)
	issuer := auth.NewTokenIssuer(cfg.Token)
	sessions := session.NewManager(factory, time.Hour, nil)

	r := gin.New()
	r.Use(SessionMiddleware(issuer, sessions))
	r.GET("/protected", func(c *gin.Context) {
		s, ok := CurrentSession(c)
		require.True(t, ok)
		c.String(http.StatusOK, s.ID)
	})
	return r, issuer, sessions
}

func TestSessionMiddleware_Success(t *testing.T) {
	r, issuer, sessions := setup(t)
	s, err := sessions.Create()
	require.NoError(t, err)
	token, _, err := issuer.GenerateToken(s.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, s.ID, w.Body.String())
}

func TestSessionMiddleware_QueryToken(t *testing.T) {
	r, issuer, sessions := setup(t)
	s, err := sessions.Create()
	require.NoError(t, err)
	token, _, err := issuer.GenerateToken(s.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSessionMiddleware_MissingHeader(t *testing.T) {
	r, _, _ := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddleware_EndedSession(t *testing.T) {
	r, issuer, sessions := setup(t)
	s, err := sessions.Create()
	require.NoError(t, err)
	token, _, err := issuer.GenerateToken(s.ID)
	require.NoError(t, err)
	require.True(t, sessions.End(s.ID))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Session has ended")
}
