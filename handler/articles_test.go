package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func articleTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewArticleHandler(nil)
	r := gin.New()
	auth := fakeAuth(primitive.NewObjectID())
	r.GET("/api/news/:id", h.Get)
	r.POST("/api/news", auth, h.Create)
	r.POST("/api/news/:id/like", auth, h.Like)
	r.DELETE("/api/news/:id/like", auth, h.Unlike)
	return r
}

func TestGetArticleInvalidID(t *testing.T) {
	r := articleTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/news/not-hex", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid article id")
}

func TestCreateArticleMissingFields(t *testing.T) {
	r := articleTestRouter()

	cases := []string{
		`{}`,
		`{"title":"T"}`,
		`{"content":"C"}`,
		`{"title":"  ","content":"C"}`,
		`{"title":"T","content":"   "}`,
	}
	for _, body := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/news", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s must be rejected", body)
	}
}

func TestLikeInvalidArticleID(t *testing.T) {
	r := articleTestRouter()

	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/api/news/bad-id/like", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}
