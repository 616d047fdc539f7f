package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"algocom-api/config"
	"algocom-api/metrics"
	"algocom-api/model"
)

// Fetcher pulls top headlines from the external news API and normalizes them
// into the local Article shape. Fetch failures always degrade to an empty
// result so the feed can still render from local data.
type Fetcher struct {
	cfg    *config.Config
	db     *mongo.Database
	client *http.Client
}

func NewFetcher(cfg *config.Config, db *mongo.Database) *Fetcher {
	return &Fetcher{
		cfg: cfg,
		db:  db,
		client: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
	}
}

// EnsureIndexes creates the indexes the upsert and feed queries rely on.
// The partial unique index on url is what makes upsert-by-URL idempotent.
func (f *Fetcher) EnsureIndexes(ctx context.Context) {
	collection := f.db.Collection("articles")

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "url", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"url": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("Warning: Failed to create article indexes: %v", err)
	} else {
		log.Println("Article indexes ensured")
	}
}

type apiArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// Fetch retrieves one page of headlines matching the optional query. Any
// upstream failure (unreachable, timeout, non-200, malformed payload) is
// logged and reported as an empty slice, never as an error.
func (f *Fetcher) Fetch(ctx context.Context, query string) []model.Article {
	if f.cfg.NewsAPIKey == "" {
		return nil
	}

	reqURL := f.buildURL(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Printf("[ERROR] Failed to build headlines request: %v", err)
		metrics.HeadlinesFetched.WithLabelValues("error").Inc()
		return nil
	}
	req.Header.Set("User-Agent", "algocom-api/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("[WARN] Headlines fetch failed, serving local only: %v", err)
		metrics.HeadlinesFetched.WithLabelValues("error").Inc()
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[WARN] News API returned %s, serving local only", resp.Status)
		metrics.HeadlinesFetched.WithLabelValues("error").Inc()
		return nil
	}

	var result struct {
		Status   string       `json:"status"`
		Articles []apiArticle `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("[WARN] Failed to decode news API payload: %v", err)
		metrics.HeadlinesFetched.WithLabelValues("error").Inc()
		return nil
	}

	now := time.Now()
	articles := make([]model.Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		if a.URL == "" || a.Title == "" {
			continue
		}
		articles = append(articles, normalize(a, now))
	}

	metrics.HeadlinesFetched.WithLabelValues("ok").Inc()
	log.Printf("[INFO] Fetched %d external headlines (query=%q)", len(articles), query)
	return articles
}

func (f *Fetcher) buildURL(query string) string {
	params := url.Values{}
	if f.cfg.NewsAPISources != "" {
		params.Set("sources", f.cfg.NewsAPISources)
	} else {
		params.Set("country", f.cfg.NewsAPICountry)
	}
	if query != "" {
		params.Set("q", query)
	}
	params.Set("pageSize", fmt.Sprintf("%d", f.cfg.PageSize))
	params.Set("apiKey", f.cfg.NewsAPIKey)

	return f.cfg.NewsAPIBaseURL + "?" + params.Encode()
}

// normalize maps an external headline onto the local Article shape: the
// article URL becomes the dedup key and the published time the creation time.
func normalize(a apiArticle, fetchedAt time.Time) model.Article {
	content := a.Content
	if content == "" {
		content = a.Description
	}

	createdAt := fetchedAt
	if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
		createdAt = t
	}

	return model.Article{
		Title:      a.Title,
		Content:    content,
		Category:   model.CategoryExternal,
		SourceName: a.Source.Name,
		Image:      a.URLToImage,
		URL:        a.URL,
		LikedBy:    []primitive.ObjectID{},
		CreatedAt:  createdAt,
	}
}

// UpsertByURL inserts articles that are not yet stored, keyed by source URL.
// Existing records keep their engagement state untouched ($setOnInsert only).
func (f *Fetcher) UpsertByURL(ctx context.Context, articles []model.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	collection := f.db.Collection("articles")

	var operations []mongo.WriteModel
	for _, article := range articles {
		operation := mongo.NewUpdateOneModel().
			SetFilter(bson.M{"url": article.URL}).
			SetUpdate(bson.M{"$setOnInsert": upsertDoc(article)}).
			SetUpsert(true)

		operations = append(operations, operation)
	}

	opts := options.BulkWrite().SetOrdered(false)

	result, err := collection.BulkWrite(ctx, operations, opts)
	if err != nil {
		log.Printf("[ERROR] Bulk upsert failed: %v", err)
		return 0, err
	}

	inserted := int(result.UpsertedCount)
	if inserted > 0 {
		metrics.ArticlesUpserted.Add(float64(inserted))
	}
	log.Printf("[INFO] Upsert completed: %d inserted, %d already stored",
		inserted, len(articles)-inserted)

	return inserted, nil
}

func upsertDoc(article model.Article) bson.M {
	return bson.M{
		"title":      article.Title,
		"content":    article.Content,
		"category":   article.Category,
		"sourceName": article.SourceName,
		"image":      article.Image,
		"url":        article.URL,
		"likes":      0,
		"likedBy":    bson.A{},
		"views":      0,
		"hidden":     false,
		"createdAt":  article.CreatedAt,
	}
}
