// Package uuid generates and validates record identifiers.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a new time-ordered UUIDv7 string. UUIDv7 keys sort by creation
// time, which keeps "newest first" listings stable for equal dates.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fall back to a random UUIDv4 if the clock or entropy source fails
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates s and returns its canonical lower-case form.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
