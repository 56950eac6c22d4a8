package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUID(t *testing.T) {
	a, b := GenerateUUID(), GenerateUUID()
	assert.NotEqual(t, a, b)
	assert.True(t, IsValidUUID(a))
	assert.Len(t, a, 36)
}

func TestGenerateShortID(t *testing.T) {
	assert.Len(t, GenerateShortID(), 8)
}

func TestIsValidUUID(t *testing.T) {
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
	assert.True(t, IsValidUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
}
