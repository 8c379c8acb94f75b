package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a short tweet-like entry. It has no bearing on authentication;
// it exists so the timeline endpoints have something to serve.
type Post struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         primitive.ObjectID `bson:"user_id"`
	Content        string             `bson:"content"`
	InReplyToPost  primitive.ObjectID `bson:"in_reply_to_post,omitempty"`
	InReplyToUser  primitive.ObjectID `bson:"in_reply_to_user,omitempty"`
	RepostCount    int                `bson:"repost_count"`
	FavoriteCount  int                `bson:"favorite_count"`
	Language       string             `bson:"language"`
	Country        string             `bson:"country"`
	CreatedAt      time.Time          `bson:"created_at"`
}
