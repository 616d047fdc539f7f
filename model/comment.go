// model/comment.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is append-only: created once, never updated. Per-article counts are
// always derived with a count query against this collection.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ArticleID primitive.ObjectID `json:"articleId" bson:"articleId"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type CommentView struct {
	Comment      `bson:",inline"`
	AuthorName   string `json:"authorName,omitempty" bson:"authorName,omitempty"`
	AuthorAvatar string `json:"authorAvatar,omitempty" bson:"authorAvatar,omitempty"`
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}
