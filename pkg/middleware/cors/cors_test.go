package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func preflight(t *testing.T, origins []string, method string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(New(origins))
	r.PATCH("/teachers/:id/free-periods", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/teachers/t1/free-periods", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", method)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPreflightAllowsPatch(t *testing.T) {
	w := preflight(t, nil, http.MethodPatch)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflightEchoesAllowedOrigin(t *testing.T) {
	w := preflight(t, []string{"http://localhost:5173"}, http.MethodPost)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflightSkipsUnknownOrigin(t *testing.T) {
	w := preflight(t, []string{"https://app.example.com"}, http.MethodPost)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
