package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"snapnet/config"
	"snapnet/middleware"
	"snapnet/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret-key")
	os.Setenv("REDIS_PORT", "1")
	config.Load()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newGateRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", middleware.AuthRequired(), func(ctx *gin.Context) {
		id, _ := middleware.UserID(ctx)
		utils.Success(ctx, gin.H{"user_id": id})
	})
	return r
}

func doRequest(r *gin.Engine, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredMissingCookie(t *testing.T) {
	w := doRequest(newGateRouter(), "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	w := doRequest(newGateRouter(), "garbage")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredExpiredToken(t *testing.T) {
	token, err := utils.GenerateToken(3, -time.Minute)
	require.NoError(t, err)

	w := doRequest(newGateRouter(), token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRevokedToken(t *testing.T) {
	token, err := utils.GenerateToken(3, time.Hour)
	require.NoError(t, err)
	utils.BlacklistToken(token, time.Now().Add(time.Hour))

	w := doRequest(newGateRouter(), token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredAttachesIdentity(t *testing.T) {
	token, err := utils.GenerateToken(41, time.Hour)
	require.NoError(t, err)

	w := doRequest(newGateRouter(), token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"user_id":41`)
}
