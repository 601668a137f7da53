// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
// It contains authentication credentials and metadata for user management.
type User struct {
	// ID is the unique identifier for the user (UUID string).
	ID string `gorm:"primaryKey;size:36" bson:"_id"`

	// Name is the display name given at registration.
	Name string `gorm:"size:255;not null" bson:"name"`

	// Email is the user's email address used for authentication.
	// It is stored trimmed and lowercased and must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null" bson:"email"`

	// Password is the bcrypt hash of the user's password.
	// This should never store plaintext passwords.
	Password string `gorm:"size:255;not null" bson:"password"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `bson:"createdAt"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `bson:"updatedAt"`
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}
