package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in PasswordHash, never as plaintext.
// Username and Email carry unique indexes in MongoDB; the storage layer,
// not the application, is the authority on those invariants.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Username         string             `bson:"username"`
	Email            string             `bson:"email"`
	FullName         string             `bson:"full_name"`
	PasswordHash     string             `bson:"password_hash"`
	ProfilePicture   string             `bson:"profile_picture"`
	Bio              string             `bson:"bio,omitempty"`
	Banner           string             `bson:"banner,omitempty"`
	DateOfBirth      time.Time          `bson:"date_of_birth"`
	VerifyCode       string             `bson:"verify_code"`
	VerifyCodeExpiry time.Time          `bson:"verify_code_expiry"`
	IsVerified       bool               `bson:"is_verified"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

// DefaultProfilePicture is assigned to accounts created without an avatar.
const DefaultProfilePicture = "default-profile.jpg"
