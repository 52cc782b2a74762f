package core

import "github.com/google/uuid"

// NewID returns a random identifier used for messages and agent runs.
func NewID() string { return uuid.NewString() }
