package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLimiter_BurstThenDeny(t *testing.T) {
	l := New(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4"), "request %d within burst should pass", i)
	}

	assert.False(t, l.Allow("1.2.3.4"))
}

func TestKeyedLimiter_KeysAreIndependent(t *testing.T) {
	l := New(1, 1)

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
}
