package formaterror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatErrorUniqueUsername(t *testing.T) {
	result := FormatError(`UNIQUE constraint failed: users.username`)
	assert.Equal(t, "Username Already Taken", result["Taken_username"])
	assert.Equal(t, "Already exists", result["Duplicate"])
}

func TestFormatErrorUnknown(t *testing.T) {
	result := FormatError("something else entirely")
	assert.Equal(t, map[string]string{"Incorrect_details": "Incorrect Details"}, result)
}

func TestFormatErrorDoesNotCarryPreviousResults(t *testing.T) {
	first := FormatError(`UNIQUE constraint failed: users.username`)
	assert.Contains(t, first, "Taken_username")

	second := FormatError(`UNIQUE constraint failed: users.email`)
	assert.Contains(t, second, "Taken_email")
	// Each call starts from a clean slate; earlier requests must not
	// leak their field errors into unrelated responses.
	assert.NotContains(t, second, "Taken_username")
}
