package utils

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenUuidFromStrings(t *testing.T) {
	a := GenUuidFromStrings("owner", "0")
	b := GenUuidFromStrings("0", "owner")

	// Deterministic and order independent.
	assert.Equal(t, a, b)
	assert.Equal(t, a, GenUuidFromStrings("owner", "0"))
	assert.NotEqual(t, a, GenUuidFromStrings("owner", "1"))

	parsed, err := uuid.FromString(a)
	assert.NoError(t, err)
	assert.Equal(t, byte(3), parsed.Version())
}

func TestGenUuidFromStringsEmpty(t *testing.T) {
	a := GenUuidFromStrings()
	assert.Equal(t, a, GenUuidFromStrings())
	assert.NotEqual(t, uuid.Nil.String(), a)
}
