package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalStatusesAllowNoTransition(t *testing.T) {
	all := []RequestStatus{StatusPending, StatusApproved, StatusDeclined, StatusCancelled}
	for _, from := range []RequestStatus{StatusDeclined, StatusCancelled} {
		assert.True(t, from.IsTerminal())
		assert.False(t, from.IsActive())
		for _, to := range all {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestActiveStatusTransitions(t *testing.T) {
	tests := []struct {
		from RequestStatus
		to   RequestStatus
		want bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusDeclined, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusDeclined, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusPending, false},
		{StatusApproved, StatusApproved, false},
	}
	for _, tt := range tests {
		assert.True(t, tt.from.IsActive())
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, RequestStatus("PENDING").Valid())
	assert.False(t, RequestStatus("").Valid())
}
