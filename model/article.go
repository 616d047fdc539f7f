// model/article.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryGeneral  = "general"
	CategoryExternal = "external"
)

type Article struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title     string               `json:"title" bson:"title"`
	Content   string               `json:"content" bson:"content"`
	Category  string               `json:"category" bson:"category"`
	Author    *primitive.ObjectID  `json:"author,omitempty" bson:"author,omitempty"`
	// SourceName is the external publisher's name, shown as the author for
	// articles that have no local author account.
	SourceName string `json:"sourceName,omitempty" bson:"sourceName,omitempty"`
	Image     string               `json:"image,omitempty" bson:"image,omitempty"`
	URL       string               `json:"url,omitempty" bson:"url,omitempty"`
	Likes     int                  `json:"likes" bson:"likes"`
	LikedBy   []primitive.ObjectID `json:"likedBy" bson:"likedBy"`
	Views     int                  `json:"views" bson:"views"`
	Hidden    bool                 `json:"-" bson:"hidden"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
}

// FeedItem is an article as served by the feed endpoints: author resolved to
// display fields and the comment count derived at read time, never stored.
type FeedItem struct {
	Article       `bson:",inline"`
	AuthorName    string `json:"authorName,omitempty" bson:"authorName,omitempty"`
	AuthorAvatar  string `json:"authorAvatar,omitempty" bson:"authorAvatar,omitempty"`
	CommentsCount int64  `json:"commentsCount" bson:"commentsCount"`
}

type CreateArticleRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

type LikeStatus struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}
