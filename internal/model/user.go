package model

import "time"

// User represents an account record as stored in the `users` table.
// Each field corresponds to a column. The structs in this package are
// plain data carriers used by the repository layer; handlers define
// separate response types with JSON tags.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – display name chosen at signup.
//	Email        – unique email address, the JWT subject.
//	PasswordHash – bcrypt hashed password.
//	Confirmed    – whether the email address has been confirmed.
//	Avatar       – avatar URL (gravatar by default, nullable).
//	RefreshToken – currently valid refresh token (null after logout).
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Confirmed    bool      // users.confirmed
	Avatar       *string   // users.avatar (nullable)
	RefreshToken *string   // users.refresh_token (nullable)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
