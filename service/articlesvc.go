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

	"algocom-api/fetcher"
	"algocom-api/metrics"
	"algocom-api/model"
)

// ArticleService composes the feed from local articles and freshly fetched
// headlines, and owns the engagement (like) state on articles.
type ArticleService struct {
	articles *mongo.Collection
	comments *mongo.Collection
	fetcher  *fetcher.Fetcher
	pageSize int

	// enqueue hands freshly fetched articles to the background worker for
	// best-effort upsert, so a slow write never delays a feed response.
	enqueue func([]model.Article)
}

func NewArticleService(db *mongo.Database, f *fetcher.Fetcher, pageSize int, enqueue func([]model.Article)) *ArticleService {
	return &ArticleService{
		articles: db.Collection("articles"),
		comments: db.Collection("comments"),
		fetcher:  f,
		pageSize: pageSize,
		enqueue:  enqueue,
	}
}

// feedMatch builds the filter for the local part of the feed. Hidden
// articles never appear in listings.
func feedMatch(category, q string) bson.M {
	match := bson.M{"hidden": false}
	if category != "" {
		match["category"] = category
	}
	if q != "" {
		match["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": q, "$options": "i"}},
			bson.M{"content": bson.M{"$regex": q, "$options": "i"}},
		}
	}
	return match
}

// ListFeed returns one page of local articles matching the filter, newest
// first, followed by externally fetched headlines for the same query. When
// the external source is unavailable the feed degrades to local-only.
func (s *ArticleService) ListFeed(ctx context.Context, category, q string, page int) ([]model.FeedItem, error) {
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * s.pageSize

	pipeline := []bson.M{
		{"$match": feedMatch(category, q)},
		{"$sort": bson.M{"createdAt": -1}},
		{"$skip": skip},
		{"$limit": s.pageSize},
		{"$lookup": bson.M{
			"from":         "comments",
			"localField":   "_id",
			"foreignField": "articleId",
			"as":           "commentsArr",
		}},
		{"$addFields": bson.M{"commentsCount": bson.M{"$size": "$commentsArr"}}},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "author",
			"foreignField": "_id",
			"as":           "authorDoc",
		}},
		{"$addFields": bson.M{
			"authorName": bson.M{"$ifNull": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$authorDoc.username", 0}},
				"$sourceName",
			}},
			"authorAvatar": bson.M{"$arrayElemAt": bson.A{"$authorDoc.avatar", 0}},
		}},
		{"$project": bson.M{"commentsArr": 0, "authorDoc": 0}},
	}

	cursor, err := s.articles.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]model.FeedItem, 0, s.pageSize)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}

	external := s.externalItems(ctx, q)
	items = append(items, external...)

	return items, nil
}

// externalItems fetches headlines for the query and folds in any engagement
// state already stored for the same URLs. Articles not seen before are
// served as fetched and queued for asynchronous upsert.
func (s *ArticleService) externalItems(ctx context.Context, q string) []model.FeedItem {
	fetched := s.fetcher.Fetch(ctx, q)
	if len(fetched) == 0 {
		return nil
	}

	urls := make([]string, 0, len(fetched))
	for _, a := range fetched {
		urls = append(urls, a.URL)
	}

	stored := map[string]model.Article{}
	cursor, err := s.articles.Find(ctx, bson.M{"url": bson.M{"$in": urls}})
	if err != nil {
		log.Printf("[ERROR] Lookup of stored external articles failed: %v", err)
	} else {
		var docs []model.Article
		if err := cursor.All(ctx, &docs); err != nil {
			log.Printf("[ERROR] Decode of stored external articles failed: %v", err)
		}
		for _, doc := range docs {
			stored[doc.URL] = doc
		}
	}

	merged, fresh := mergeFetched(fetched, stored)

	items := make([]model.FeedItem, 0, len(merged))
	for _, a := range merged {
		item := model.FeedItem{Article: a, AuthorName: a.SourceName}
		if !a.ID.IsZero() {
			count, err := s.comments.CountDocuments(ctx, bson.M{"articleId": a.ID})
			if err != nil {
				log.Printf("[WARN] Comment count failed for article %s: %v", a.ID.Hex(), err)
			}
			item.CommentsCount = count
		}
		items = append(items, item)
	}

	if len(fresh) > 0 && s.enqueue != nil {
		s.enqueue(fresh)
	}

	return items
}

// mergeFetched walks the fetched headlines in source order (newest first),
// substituting the stored document in place where one exists so likes and ids
// survive a refetch. Stored-but-hidden articles are dropped from the feed
// entirely. fresh is the never-seen subset, destined for the upsert queue.
func mergeFetched(fetched []model.Article, stored map[string]model.Article) (merged, fresh []model.Article) {
	for _, a := range fetched {
		doc, ok := stored[a.URL]
		if !ok {
			merged = append(merged, a)
			fresh = append(fresh, a)
			continue
		}
		if doc.Hidden {
			continue
		}
		merged = append(merged, doc)
	}
	return merged, fresh
}

// GetArticle returns the full article and increments its view counter in the
// same document update. Hidden and unknown ids are both reported not found.
func (s *ArticleService) GetArticle(ctx context.Context, id primitive.ObjectID) (model.FeedItem, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var article model.Article
	err := s.articles.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "hidden": false},
		bson.M{"$inc": bson.M{"views": 1}},
		opts,
	).Decode(&article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.FeedItem{}, ErrNotFound
	}
	if err != nil {
		return model.FeedItem{}, err
	}

	item := model.FeedItem{Article: article, AuthorName: article.SourceName}

	if article.Author != nil {
		var author model.Profile
		err := s.articles.Database().Collection("users").
			FindOne(ctx, bson.M{"_id": *article.Author}).Decode(&author)
		if err == nil {
			item.AuthorName = author.Username
			item.AuthorAvatar = author.Avatar
		}
	}

	count, err := s.comments.CountDocuments(ctx, bson.M{"articleId": article.ID})
	if err != nil {
		log.Printf("[WARN] Comment count failed for article %s: %v", article.ID.Hex(), err)
	}
	item.CommentsCount = count

	return item, nil
}

// CreateArticle stores a locally authored article.
func (s *ArticleService) CreateArticle(ctx context.Context, authorID primitive.ObjectID, req model.CreateArticleRequest) (model.Article, error) {
	category := req.Category
	if category == "" {
		category = model.CategoryGeneral
	}

	article := model.Article{
		Title:     req.Title,
		Content:   req.Content,
		Category:  category,
		Author:    &authorID,
		Image:     req.Image,
		Likes:     0,
		LikedBy:   []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}

	result, err := s.articles.InsertOne(ctx, article)
	if err != nil {
		return model.Article{}, err
	}
	article.ID = result.InsertedID.(primitive.ObjectID)

	log.Printf("[INFO] Article created: %s by %s", article.ID.Hex(), authorID.Hex())
	return article, nil
}

// HideArticle soft-deletes an article. Only the author or an admin may hide.
func (s *ArticleService) HideArticle(ctx context.Context, id, callerID primitive.ObjectID, role string) error {
	var article model.Article
	err := s.articles.FindOne(ctx, bson.M{"_id": id, "hidden": false}).Decode(&article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if role != model.RoleAdmin && (article.Author == nil || *article.Author != callerID) {
		return ErrForbidden
	}

	_, err = s.articles.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"hidden": true}})
	return err
}

// Like adds the caller to the article's liked-by set. The membership test
// and the counter increment share one conditional update, so the counter
// always equals the set size and a repeated like is a no-op.
func (s *ArticleService) Like(ctx context.Context, articleID, userID primitive.ObjectID) (model.LikeStatus, error) {
	result, err := s.articles.UpdateOne(ctx, likeFilter(articleID, userID), likeUpdate(userID))
	if err != nil {
		return model.LikeStatus{}, err
	}
	if result.ModifiedCount > 0 {
		metrics.LikesApplied.WithLabelValues("like").Inc()
	}
	return s.likeStatus(ctx, articleID, userID)
}

// Unlike removes the caller from the liked-by set; the decrement only fires
// when the membership test matches, so the counter can never go negative.
func (s *ArticleService) Unlike(ctx context.Context, articleID, userID primitive.ObjectID) (model.LikeStatus, error) {
	result, err := s.articles.UpdateOne(ctx, unlikeFilter(articleID, userID), unlikeUpdate(userID))
	if err != nil {
		return model.LikeStatus{}, err
	}
	if result.ModifiedCount > 0 {
		metrics.LikesApplied.WithLabelValues("unlike").Inc()
	}
	return s.likeStatus(ctx, articleID, userID)
}

func (s *ArticleService) likeStatus(ctx context.Context, articleID, userID primitive.ObjectID) (model.LikeStatus, error) {
	var article model.Article
	err := s.articles.FindOne(ctx, bson.M{"_id": articleID, "hidden": false}).Decode(&article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.LikeStatus{}, ErrNotFound
	}
	if err != nil {
		return model.LikeStatus{}, err
	}

	liked := false
	for _, id := range article.LikedBy {
		if id == userID {
			liked = true
			break
		}
	}

	return model.LikeStatus{Likes: article.Likes, Liked: liked}, nil
}

func likeFilter(articleID, userID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":     articleID,
		"hidden":  false,
		"likedBy": bson.M{"$ne": userID},
	}
}

func likeUpdate(userID primitive.ObjectID) bson.M {
	return bson.M{
		"$addToSet": bson.M{"likedBy": userID},
		"$inc":      bson.M{"likes": 1},
	}
}

func unlikeFilter(articleID, userID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":     articleID,
		"hidden":  false,
		"likedBy": userID,
	}
}

func unlikeUpdate(userID primitive.ObjectID) bson.M {
	return bson.M{
		"$pull": bson.M{"likedBy": userID},
		"$inc":  bson.M{"likes": -1},
	}
}
