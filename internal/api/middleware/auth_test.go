package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/campsite-api/internal/pkg/jwthelper"
)

const signingKey = "middleware-test-key"

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"user_id": ctx.GetUint(UserIDKey),
			"role":    ctx.GetString(RoleKey),
		})
	})
	r.GET("/", handlers...)

	return r
}

func token(t *testing.T, userID uint, role string) string {
	t.Helper()
	raw, err := jwthelper.GenerateToken([]byte(signingKey), userID, role, "test")
	require.NoError(t, err)

	return "Bearer " + raw
}

func serve(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestVerifyJWT(t *testing.T) {
	r := newRouter(NewAuthenticator(signingKey).VerifyJWT())

	rec := serve(r, token(t, 7, "client"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":7,"role":"client"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer nope").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Basic dXNlcjpwYXNz").Code)
}

func TestOptionalJWT(t *testing.T) {
	r := newRouter(NewAuthenticator(signingKey).OptionalJWT())

	rec := serve(r, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":0,"role":""}`, rec.Body.String())

	rec = serve(r, token(t, 9, "client"))
	assert.JSONEq(t, `{"user_id":9,"role":"client"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer broken").Code)
}

func TestRequireRole(t *testing.T) {
	r := newRouter(NewAuthenticator(signingKey).VerifyJWT(), RequireRole("admin"))

	assert.Equal(t, http.StatusOK, serve(r, token(t, 1, "admin")).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, token(t, 2, "client")).Code)
}
