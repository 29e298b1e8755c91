package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles stored in the "role" field.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a document in the "users" collection. The email carries a
// unique index and anchors ownership of events (created_by) and
// bookings (user_email). Users are never hard-deleted.
type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email              string             `bson:"email" json:"email"`
	Password           string             `bson:"password" json:"-"`
	FullName           string             `bson:"full_name" json:"full_name"`
	Phone              string             `bson:"phone,omitempty" json:"phone"`
	City               string             `bson:"city,omitempty" json:"city"`
	AvatarURL          string             `bson:"avatar_url,omitempty" json:"avatar_url"`
	Role               string             `bson:"role" json:"role"`
	FavoriteCategories []string           `bson:"favorite_categories" json:"favorite_categories"`
	FavoriteEvents     []string           `bson:"favorite_events" json:"favorite_events"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}
