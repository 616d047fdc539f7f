package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"algocom-api/middleware"
	"algocom-api/model"
	"algocom-api/service"
)

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Create appends a comment to an article. Comments always require a
// verified credential; empty or whitespace-only text is rejected before the
// store is touched.
func (h *CommentHandler) Create(c *gin.Context) {
	articleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment text is required"})
		return
	}

	userID := c.MustGet(middleware.CtxUserID).(primitive.ObjectID)

	comment, err := h.comments.AddComment(c.Request.Context(), articleID, userID, text)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		log.Printf("[ERROR] Comment create failed on article %s: %v", articleID.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *CommentHandler) List(c *gin.Context) {
	articleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	comments, err := h.comments.ListComments(c.Request.Context(), articleID)
	if err != nil {
		log.Printf("[ERROR] Comment list failed for article %s: %v", articleID.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *CommentHandler) Count(c *gin.Context) {
	articleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	count, err := h.comments.CountComments(c.Request.Context(), articleID)
	if err != nil {
		log.Printf("[ERROR] Comment count failed for article %s: %v", articleID.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
