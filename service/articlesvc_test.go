package service

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"algocom-api/model"
)

func TestFeedMatchDefaults(t *testing.T) {
	match := feedMatch("", "")

	if hidden, ok := match["hidden"].(bool); !ok || hidden {
		t.Fatal("feed must always exclude hidden articles")
	}
	if _, ok := match["category"]; ok {
		t.Fatal("empty category must not filter")
	}
	if _, ok := match["$or"]; ok {
		t.Fatal("empty query must not add a text filter")
	}
}

func TestFeedMatchWithFilters(t *testing.T) {
	match := feedMatch("tech", "golang")

	if match["category"] != "tech" {
		t.Fatalf("expected category filter, got %v", match["category"])
	}

	or, ok := match["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("expected title/content $or filter, got %v", match["$or"])
	}
	title := or[0].(bson.M)["title"].(bson.M)
	if title["$regex"] != "golang" || title["$options"] != "i" {
		t.Fatalf("expected case-insensitive title regex, got %v", title)
	}
}

func TestMergeFetchedPreservesStored(t *testing.T) {
	storedID := primitive.NewObjectID()
	liker := primitive.NewObjectID()

	fetched := []model.Article{
		{Title: "known", URL: "http://x/1"},
		{Title: "fresh", URL: "http://x/2"},
	}
	stored := map[string]model.Article{
		"http://x/1": {
			ID:      storedID,
			Title:   "known",
			URL:     "http://x/1",
			Likes:   1,
			LikedBy: []primitive.ObjectID{liker},
		},
	}

	merged, fresh := mergeFetched(fetched, stored)

	if len(merged) != 2 || len(fresh) != 1 {
		t.Fatalf("expected 2 merged and 1 fresh, got %d/%d", len(merged), len(fresh))
	}
	if merged[0].ID != storedID {
		t.Fatal("stored document must win over the fetched copy")
	}
	if merged[0].Likes != 1 || len(merged[0].LikedBy) != 1 {
		t.Fatal("engagement state of stored article must be preserved")
	}
	if fresh[0].URL != "http://x/2" {
		t.Fatalf("unexpected fresh article: %s", fresh[0].URL)
	}
}

// The source returns headlines newest first; substituting a stored document
// must keep its position instead of regrouping stored before fresh.
func TestMergeFetchedKeepsSourceOrder(t *testing.T) {
	fetched := []model.Article{
		{Title: "fresh newer", URL: "http://x/2", CreatedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		{Title: "known older", URL: "http://x/1", CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	stored := map[string]model.Article{
		"http://x/1": {
			ID:        primitive.NewObjectID(),
			Title:     "known older",
			URL:       "http://x/1",
			CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	merged, _ := mergeFetched(fetched, stored)

	if len(merged) != 2 {
		t.Fatalf("expected 2 merged articles, got %d", len(merged))
	}
	if merged[0].URL != "http://x/2" || merged[1].URL != "http://x/1" {
		t.Fatalf("merged order must follow the source: got %s, %s", merged[0].URL, merged[1].URL)
	}
	if merged[0].CreatedAt.Before(merged[1].CreatedAt) {
		t.Fatal("merged headlines must stay newest first")
	}
}

func TestMergeFetchedDropsHidden(t *testing.T) {
	fetched := []model.Article{{Title: "hidden one", URL: "http://x/1"}}
	stored := map[string]model.Article{
		"http://x/1": {URL: "http://x/1", Hidden: true},
	}

	merged, fresh := mergeFetched(fetched, stored)
	if len(merged) != 0 || len(fresh) != 0 {
		t.Fatal("hidden stored articles must be dropped from the feed")
	}
}

// The like filters pair the membership test with the counter change in a
// single conditional update; these assertions pin that shape down.
func TestLikeUpdateIsConditional(t *testing.T) {
	articleID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	filter := likeFilter(articleID, userID)
	if filter["hidden"] != false {
		t.Fatal("likes must not apply to hidden articles")
	}
	notIn, ok := filter["likedBy"].(bson.M)
	if !ok || notIn["$ne"] != userID {
		t.Fatal("like filter must exclude users already in the set")
	}

	update := likeUpdate(userID)
	if update["$addToSet"].(bson.M)["likedBy"] != userID {
		t.Fatal("like update must add the user to the set")
	}
	if update["$inc"].(bson.M)["likes"] != 1 {
		t.Fatal("like update must increment by exactly 1")
	}
}

func TestUnlikeUpdateIsConditional(t *testing.T) {
	articleID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	filter := unlikeFilter(articleID, userID)
	if filter["likedBy"] != userID {
		t.Fatal("unlike filter must require set membership")
	}

	update := unlikeUpdate(userID)
	if update["$pull"].(bson.M)["likedBy"] != userID {
		t.Fatal("unlike update must remove the user from the set")
	}
	if update["$inc"].(bson.M)["likes"] != -1 {
		t.Fatal("unlike update must decrement by exactly 1")
	}
}
