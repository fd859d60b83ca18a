package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_IsSortableAndUnique(t *testing.T) {
	seen := make(map[string]struct{})
	prev := ""
	for i := 0; i < 1000; i++ {
		s := New()
		assert.True(t, Valid(s))
		assert.Greater(t, s, prev)
		_, dup := seen[s]
		assert.False(t, dup)
		seen[s] = struct{}{}
		prev = s
	}
}

func TestValid(t *testing.T) {
	assert.False(t, Valid(""))
	assert.False(t, Valid("not-a-ulid"))
}
