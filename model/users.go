package model

import "time"

type User struct {
	UserID      string    `bson:"user_id" json:"user_id"`
	Email       string    `bson:"email" json:"email" validate:"required,email"`
	DisplayName string    `bson:"display_name" json:"display_name" validate:"required,min=2,max=40"`
	Password    string    `bson:"password" json:"password" validate:"required,password"` // argon2id hash at rest
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// Profile is the public projection of a user shown in the admin panel.
type Profile struct {
	UserID      string    `bson:"user_id" json:"user_id"`
	Email       string    `bson:"email" json:"email"`
	DisplayName string    `bson:"display_name" json:"display_name"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
