package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"algocom-api/middleware"
	"algocom-api/model"
	"algocom-api/service"
)

type ArticleHandler struct {
	articles *service.ArticleService
}

func NewArticleHandler(articles *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

// ListFeed serves the merged feed: local articles first, external headlines
// after, both newest-first. External source failures never fail the request.
func (h *ArticleHandler) ListFeed(c *gin.Context) {
	category := c.Query("category")
	q := c.Query("q")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	items, err := h.articles.ListFeed(c.Request.Context(), category, q, page)
	if err != nil {
		log.Printf("[ERROR] Feed query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"news": items})
}

func (h *ArticleHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	item, err := h.articles.GetArticle(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		log.Printf("[ERROR] Article lookup failed for %s: %v", id.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load article"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var req model.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
		return
	}

	authorID := c.MustGet(middleware.CtxUserID).(primitive.ObjectID)

	article, err := h.articles.CreateArticle(c.Request.Context(), authorID, req)
	if err != nil {
		log.Printf("[ERROR] Article create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create article"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": article})
}

// Hide soft-deletes an article; it disappears from listings and its detail
// read starts returning not-found.
func (h *ArticleHandler) Hide(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	callerID := c.MustGet(middleware.CtxUserID).(primitive.ObjectID)
	role := c.GetString(middleware.CtxRole)

	err = h.articles.HideArticle(c.Request.Context(), id, callerID, role)
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to hide this article"})
	case err != nil:
		log.Printf("[ERROR] Article hide failed for %s: %v", id.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hide article"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "article hidden"})
	}
}

// Like adds the caller's like (POST); Unlike removes it (DELETE). Both are
// idempotent and return the updated counter and membership status.
func (h *ArticleHandler) Like(c *gin.Context) {
	h.applyLike(c, h.articles.Like, "like registered")
}

func (h *ArticleHandler) Unlike(c *gin.Context) {
	h.applyLike(c, h.articles.Unlike, "like removed")
}

func (h *ArticleHandler) applyLike(
	c *gin.Context,
	apply func(ctx context.Context, articleID, userID primitive.ObjectID) (model.LikeStatus, error),
	message string,
) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	userID := c.MustGet(middleware.CtxUserID).(primitive.ObjectID)

	status, err := apply(c.Request.Context(), id, userID)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		log.Printf("[ERROR] Like update failed for %s: %v", id.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message, "likes": status.Likes, "liked": status.Liked})
}
