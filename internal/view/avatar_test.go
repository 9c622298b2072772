package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAvatarURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Legacy prefix stripped", "/public/default.jpg", "/default.jpg"},
		{"Legacy upload stripped", "/public/uploads/avatars/a.png", "/uploads/avatars/a.png"},
		{"Already normalized", "/default.jpg", "/default.jpg"},
		{"Empty gets default", "", DefaultAvatarURL},
		{"External URL untouched", "https://cdn.example.com/avatars/a.png", "https://cdn.example.com/avatars/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAvatarURL(tt.in))
		})
	}
}

func TestNormalizeAvatarURL_Idempotent(t *testing.T) {
	inputs := []string{"/public/default.jpg", "/default.jpg", "", "/uploads/avatars/x.webp"}
	for _, in := range inputs {
		once := NormalizeAvatarURL(in)
		twice := NormalizeAvatarURL(once)
		assert.Equal(t, once, twice, "normalizing twice must equal normalizing once for %q", in)
	}
}
