package utils

import (
	"regexp"
	"testing"
	"time"

	"summit-scheduler/core/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 5, 14, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		want         bool
	}{
		{"partial overlap", at(14, 0), at(15, 30), at(15, 0), at(16, 0), true},
		{"touching endpoints", at(9, 0), at(10, 30), at(10, 30), at(12, 0), false},
		{"contained", at(9, 0), at(13, 0), at(10, 0), at(11, 0), true},
		{"disjoint", at(9, 0), at(10, 0), at(11, 0), at(12, 0), false},
		{"identical", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd), "overlap must be symmetric")
		})
	}
}

func TestGenerateSlug(t *testing.T) {
	s := GenerateSlug("Go Summit 2026")
	assert.Regexp(t, regexp.MustCompile(`^go-summit-2026-[0-9a-z]{7}$`), s)
	assert.Len(t, GenerateSlug("   "), 7)
	assert.NotEqual(t, GenerateSlug("Go Summit"), GenerateSlug("Go Summit"))
}

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateToken("secret", userID, entity.RoleModerator, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, entity.RoleModerator, claims.Role)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), entity.RoleOrganizer, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseTokenRejectsUnknownRole(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), entity.Role("admin"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
