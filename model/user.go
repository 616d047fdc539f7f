// model/user.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleReader = "reader"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username  string             `json:"username" bson:"username"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Role      string             `json:"role" bson:"role"`
	Avatar    string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Profile is the subset of User safe to return to callers.
type Profile struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
	Role     string             `json:"role" bson:"role"`
	Avatar   string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Activity lists a user's own comments and the articles they have liked.
type Activity struct {
	Comments []ActivityComment `json:"comments"`
	Likes    []ActivityArticle `json:"likes"`
}

type ActivityComment struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	Text         string             `json:"text" bson:"text"`
	ArticleID    primitive.ObjectID `json:"articleId" bson:"articleId"`
	ArticleTitle string             `json:"articleTitle,omitempty" bson:"articleTitle,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

type ActivityArticle struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Title string             `json:"title" bson:"title"`
}
