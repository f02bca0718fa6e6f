package typewriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimLastRune(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a", ""},
		{"ab", "a"},
		{"héé", "hé"},
		{"日本語", "日本"},
		{"a日", "a"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, trimLastRune(tt.in), "trimLastRune(%q)", tt.in)
	}
}
