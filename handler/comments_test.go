package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"algocom-api/middleware"
)

// fakeAuth stands in for RequireAuth so validation paths can be exercised
// without issuing tokens.
func fakeAuth(userID primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxUsername, "bob")
		c.Set(middleware.CtxRole, "reader")
		c.Next()
	}
}

func commentTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewCommentHandler(nil)
	r := gin.New()
	r.POST("/api/news/:id/comments", fakeAuth(primitive.NewObjectID()), h.Create)
	r.GET("/api/news/:id/comments", h.List)
	return r
}

func TestCreateCommentInvalidArticleID(t *testing.T) {
	r := commentTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/news/not-hex/comments",
		strings.NewReader(`{"text":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid article id")
}

func TestCreateCommentEmptyText(t *testing.T) {
	r := commentTestRouter()
	id := primitive.NewObjectID().Hex()

	for _, body := range []string{`{"text":""}`, `{"text":"   "}`, `{"text":"\n\t"}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/news/"+id+"/comments",
			strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q must be rejected", body)
		assert.Contains(t, w.Body.String(), "comment text is required")
	}
}

func TestCreateCommentMalformedBody(t *testing.T) {
	r := commentTestRouter()
	id := primitive.NewObjectID().Hex()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/news/"+id+"/comments",
		strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCommentsInvalidArticleID(t *testing.T) {
	r := commentTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/news/zzz/comments", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
