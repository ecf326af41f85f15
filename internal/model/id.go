package model

import "github.com/google/uuid"

// newID returns a fresh identifier unless one is already set.
func newID(current string) string {
	if current != "" {
		return current
	}
	return uuid.NewString()
}
