package domain

import "github.com/google/uuid"

// NewID returns a fresh random identifier for tasks and daily states.
func NewID() string {
	return uuid.NewString()
}
