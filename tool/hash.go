package tool

import (
	"github.com/google/uuid"
)

func GenerateRandomUUID() string {
	return uuid.New().String()
}

// GenerateShortID returns the first 8 hex chars of a fresh UUID, used to tag
// log lines of a session or request.
func GenerateShortID() string {
	return GenerateRandomUUID()[:8]
}
