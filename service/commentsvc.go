package service

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"algocom-api/metrics"
	"algocom-api/model"
)

type CommentService struct {
	comments *mongo.Collection
	articles *mongo.Collection
	users    *mongo.Collection
}

func NewCommentService(db *mongo.Database) *CommentService {
	svc := &CommentService{
		comments: db.Collection("comments"),
		articles: db.Collection("articles"),
		users:    db.Collection("users"),
	}
	svc.ensureIndexes()
	return svc
}

func (s *CommentService) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "articleId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	})
	if err != nil {
		log.Printf("Warning: Failed to create comment index: %v", err)
	}
}

// AddComment appends a comment to an existing, non-hidden article. The text
// must be non-empty after trimming; the handler enforces that before calling.
func (s *CommentService) AddComment(ctx context.Context, articleID, userID primitive.ObjectID, text string) (model.CommentView, error) {
	err := s.articles.FindOne(ctx, bson.M{"_id": articleID, "hidden": false}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.CommentView{}, ErrNotFound
	}
	if err != nil {
		return model.CommentView{}, err
	}

	comment := model.Comment{
		ArticleID: articleID,
		User:      userID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	result, err := s.comments.InsertOne(ctx, comment)
	if err != nil {
		return model.CommentView{}, err
	}
	comment.ID = result.InsertedID.(primitive.ObjectID)

	view := model.CommentView{Comment: comment}

	var author model.Profile
	if err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&author); err == nil {
		view.AuthorName = author.Username
		view.AuthorAvatar = author.Avatar
	}

	metrics.CommentsCreated.Inc()
	log.Printf("[INFO] Comment %s created on article %s", comment.ID.Hex(), articleID.Hex())
	return view, nil
}

// ListComments returns an article's comments newest-first with author
// display data resolved.
func (s *CommentService) ListComments(ctx context.Context, articleID primitive.ObjectID) ([]model.CommentView, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"articleId": articleID}},
		{"$sort": bson.M{"createdAt": -1}},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "authorDoc",
		}},
		{"$addFields": bson.M{
			"authorName":   bson.M{"$arrayElemAt": bson.A{"$authorDoc.username", 0}},
			"authorAvatar": bson.M{"$arrayElemAt": bson.A{"$authorDoc.avatar", 0}},
		}},
		{"$project": bson.M{"authorDoc": 0}},
	}

	cursor, err := s.comments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := make([]model.CommentView, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CountComments derives the comment count; it is never cached on the article.
func (s *CommentService) CountComments(ctx context.Context, articleID primitive.ObjectID) (int64, error) {
	return s.comments.CountDocuments(ctx, bson.M{"articleId": articleID})
}
