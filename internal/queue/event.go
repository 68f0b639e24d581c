// Package queue defines message payloads exchanged over the message broker.
package queue

// UserRegisteredEvent is published after a successful registration.  It
// carries enough information for downstream consumers to send a welcome
// message or feed analytics without querying the primary database.
type UserRegisteredEvent struct {
    UserID       uint64 `json:"user_id"`
    Email        string `json:"email"`
    FullName     string `json:"full_name"`
    Role         string `json:"role"`
    RegisteredAt string `json:"registered_at"`
}

// PasswordResetEvent is published when a password reset is requested.
// The raw reset token rides in the event so the notification consumer
// can deliver it to the user; it never appears in an HTTP response.
type PasswordResetEvent struct {
    UserID      uint64 `json:"user_id"`
    Email       string `json:"email"`
    ResetToken  string `json:"reset_token"`
    RequestedAt string `json:"requested_at"`
}
