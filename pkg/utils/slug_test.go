package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"punctuation collapses", "Go, Redis & Postgres!", "go-redis-postgres"},
		{"leading and trailing junk", "  --Weird Title--  ", "weird-title"},
		{"consecutive separators", "a___b   c", "a-b-c"},
		{"already a slug", "already-a-slug", "already-a-slug"},
		{"unicode stripped", "🔥 hot take", "hot-take"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestTagDisplayName(t *testing.T) {
	assert.Equal(t, "Slow Burn", TagDisplayName("slow-burn"))
	assert.Equal(t, "Golang", TagDisplayName("  golang "))
	assert.Equal(t, "Multi Word Tag", TagDisplayName("multi word tag"))
}
