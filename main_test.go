package main

import (
	"bytes"
	"strings"
	"testing"

	"summit-scheduler/core/entity"
	"summit-scheduler/core/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotsCommandPrintsFreeSlots(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"slots",
		"--start", "2026-05-14T09:00:00Z",
		"--end", "2026-05-14T13:00:00Z",
		"--activity", "2026-05-14T10:00:00Z/2026-05-14T11:00:00Z",
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "2026-05-14T11:15:00Z  2026-05-14T12:45:00Z\n", out.String())
}

func TestParseActivitiesRejectsMissingSeparator(t *testing.T) {
	_, err := parseActivities([]string{"2026-05-14T10:00:00Z"})

	assert.Error(t, err)
}

func TestTokenCommandSignsParsableToken(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "--user", "7d3c0a4e-2f7b-4c53-9a61-0c8f1f6d2b11", "--role", "Organizer"})

	require.NoError(t, rootCmd.Execute())

	claims, err := utils.ParseToken(cfg.JWT.Secret, strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "7d3c0a4e-2f7b-4c53-9a61-0c8f1f6d2b11", claims.UserID.String())
	assert.Equal(t, entity.RoleOrganizer, claims.Role)
}

func TestTokenCommandRejectsUnknownRole(t *testing.T) {
	rootCmd.SetArgs([]string{"token", "--role", "admin"})

	assert.ErrorContains(t, rootCmd.Execute(), "unknown role")
}
