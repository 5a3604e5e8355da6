// Package queue defines message payloads exchanged over the message broker.
package queue

// UserRegisteredEvent is published after a successful signup. It
// carries everything the mail worker needs to render the confirmation
// message without querying the primary database.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	ConfirmToken string `json:"confirm_token"`
	RegisteredAt string `json:"registered_at"`
}
