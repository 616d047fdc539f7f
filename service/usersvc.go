package service

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"algocom-api/auth"
	"algocom-api/model"
)

type UserService struct {
	users    *mongo.Collection
	comments *mongo.Collection
	articles *mongo.Collection

	jwtSecret string
	tokenTTL  time.Duration
}

func NewUserService(db *mongo.Database, jwtSecret string, tokenTTL time.Duration) *UserService {
	svc := &UserService{
		users:     db.Collection("users"),
		comments:  db.Collection("comments"),
		articles:  db.Collection("articles"),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
	svc.ensureIndexes()
	return svc
}

func (s *UserService) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := s.users.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("Warning: Failed to create user indexes: %v", err)
	}
}

// Register creates a user with a hashed password and the default reader
// role. Duplicate username or email reports a conflict.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	err := s.users.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": req.Username},
		bson.M{"email": req.Email},
	}}).Err()
	if err == nil {
		return model.User{}, ErrConflict
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hash,
		Role:      model.RoleReader,
		CreatedAt: time.Now(),
	}

	result, err := s.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		// unique index caught a concurrent registration
		return model.User{}, ErrConflict
	}
	if err != nil {
		return model.User{}, err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	log.Printf("[INFO] User registered: %s", user.Username)
	return user, nil
}

// Login verifies the password and issues a signed token.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	var user model.User
	err := s.users.FindOne(ctx, bson.M{"username": req.Username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return "", ErrInvalidCredentials
	}

	return auth.GenerateToken(s.jwtSecret, s.tokenTTL, user)
}

// GetProfile resolves a verified credential back to the user's profile.
func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (model.Profile, error) {
	var profile model.Profile
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Profile{}, ErrNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

// UpdateProfile changes username and/or avatar. Empty fields are left as-is.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, req model.UpdateProfileRequest) (model.Profile, error) {
	updates := bson.M{}
	if req.Username != "" {
		updates["username"] = req.Username
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile model.Profile
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
		opts,
	).Decode(&profile)
	if mongo.IsDuplicateKeyError(err) {
		return model.Profile{}, ErrConflict
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Profile{}, ErrNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}

	return profile, nil
}

// Activity lists the caller's comments (with article titles) and the
// articles they have liked.
func (s *UserService) Activity(ctx context.Context, userID primitive.ObjectID) (model.Activity, error) {
	activity := model.Activity{
		Comments: []model.ActivityComment{},
		Likes:    []model.ActivityArticle{},
	}

	pipeline := []bson.M{
		{"$match": bson.M{"user": userID}},
		{"$sort": bson.M{"createdAt": -1}},
		{"$lookup": bson.M{
			"from":         "articles",
			"localField":   "articleId",
			"foreignField": "_id",
			"as":           "articleDoc",
		}},
		{"$addFields": bson.M{
			"articleTitle": bson.M{"$arrayElemAt": bson.A{"$articleDoc.title", 0}},
		}},
		{"$project": bson.M{"articleDoc": 0}},
	}

	cursor, err := s.comments.Aggregate(ctx, pipeline)
	if err != nil {
		return activity, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &activity.Comments); err != nil {
		return activity, err
	}

	opts := options.Find().SetProjection(bson.M{"title": 1})
	likesCursor, err := s.articles.Find(ctx, bson.M{"likedBy": userID}, opts)
	if err != nil {
		return activity, err
	}
	defer likesCursor.Close(ctx)

	if err := likesCursor.All(ctx, &activity.Likes); err != nil {
		return activity, err
	}

	return activity, nil
}
