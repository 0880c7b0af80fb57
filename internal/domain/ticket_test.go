package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    TicketStatus
		to      TicketStatus
		allowed bool
	}{
		{"open to in progress", TicketStatusOpen, TicketStatusInProgress, true},
		{"in progress to resolved", TicketStatusInProgress, TicketStatusResolved, true},
		{"resolved to closed", TicketStatusResolved, TicketStatusClosed, true},
		{"open skips to resolved", TicketStatusOpen, TicketStatusResolved, false},
		{"open skips to closed", TicketStatusOpen, TicketStatusClosed, false},
		{"in progress skips to closed", TicketStatusInProgress, TicketStatusClosed, false},
		{"resolved back to in progress", TicketStatusResolved, TicketStatusInProgress, false},
		{"closed is terminal", TicketStatusClosed, TicketStatusOpen, false},
		{"no self loop open", TicketStatusOpen, TicketStatusOpen, false},
		{"no self loop closed", TicketStatusClosed, TicketStatusClosed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestClosedHasNoSuccessors(t *testing.T) {
	assert.Empty(t, TicketStatusClosed.Successors())
}

func TestEveryStatusHasAtMostOneSuccessor(t *testing.T) {
	for _, status := range []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed} {
		assert.LessOrEqual(t, len(status.Successors()), 1, "lifecycle is linear")
	}
}

func TestParseTicketStatus(t *testing.T) {
	status, ok := ParseTicketStatus("IN_PROGRESS")
	assert.True(t, ok)
	assert.Equal(t, TicketStatusInProgress, status)

	_, ok = ParseTicketStatus("PENDING")
	assert.False(t, ok)
}

func TestParseTicketPriority(t *testing.T) {
	priority, ok := ParseTicketPriority("HIGH")
	assert.True(t, ok)
	assert.Equal(t, TicketPriorityHigh, priority)

	_, ok = ParseTicketPriority("URGENT")
	assert.False(t, ok)
}

func TestIsAssignedTo(t *testing.T) {
	assignee := "user-1"
	ticket := &Ticket{AssignedTo: &assignee}
	assert.True(t, ticket.IsAssignedTo("user-1"))
	assert.False(t, ticket.IsAssignedTo("user-2"))

	unassigned := &Ticket{}
	assert.False(t, unassigned.IsAssignedTo("user-1"))
}
