package domain

import "time"

// Command is a stored assistant command.
type Command struct {
	ID        string
	Text      string
	CreatedAt time.Time
}

// Pairing links a device to the backend via an opaque token. Device-control
// commands require a valid pairing token.
type Pairing struct {
	Token      string
	DeviceName string
	CreatedAt  time.Time
}
