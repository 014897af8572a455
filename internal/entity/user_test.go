package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserProfile_ResolvedName(t *testing.T) {
	display := "Ana S."
	blank := "  "

	tests := []struct {
		name string
		user *UserProfile
		want string
	}{
		{"nil profile", nil, UnassignedName},
		{"display name wins", &UserProfile{FirstName: "Ana", LastName: "Souza", DisplayName: &display}, "Ana S."},
		{"blank display name", &UserProfile{FirstName: "Ana", LastName: "Souza", DisplayName: &blank}, "Ana Souza"},
		{"first only", &UserProfile{FirstName: "Ana"}, "Ana"},
		{"empty", &UserProfile{}, UnassignedName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.ResolvedName())
		})
	}
}
