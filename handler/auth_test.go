package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler(nil)
	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterMissingFields(t *testing.T) {
	r := authTestRouter()

	cases := []string{
		`{}`,
		`{"username":"bob"}`,
		`{"username":"bob","email":"bob@x.com"}`,
		`{"email":"bob@x.com","password":"secret1"}`,
		`{"username":"  ","email":"bob@x.com","password":"secret1"}`,
	}
	for _, body := range cases {
		w := postJSON(r, "/api/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s must be rejected", body)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	r := authTestRouter()

	w := postJSON(r, "/api/auth/register",
		`{"username":"bob","email":"bob@x.com","password":"abc"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least 6 characters")
}

func TestLoginMissingFields(t *testing.T) {
	r := authTestRouter()

	for _, body := range []string{`{}`, `{"username":"bob"}`, `{"password":"secret1"}`} {
		w := postJSON(r, "/api/auth/login", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s must be rejected", body)
	}
}
