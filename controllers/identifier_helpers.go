package controllers

import "github.com/google/uuid"

// isUUIDLike reports whether value has the canonical 36-character UUID
// shape. Lookups use it to decide between public-ID and username paths.
func isUUIDLike(value string) bool {
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}
