package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPlayerID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"alice", true},
		{"player_42", true},
		{"user@example.com", true},
		{"team:blue-1", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
		{"ünïcode", false},
		{string(make([]byte, 65)), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPlayerID(tt.id), tt.id)
	}
}
