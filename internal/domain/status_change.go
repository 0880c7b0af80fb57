package domain

import "time"

// StatusChangeRecord is an append-only audit entry written once per
// accepted transition. OldStatus equals the ticket status immediately
// before the change.
type StatusChangeRecord struct {
	ID        string
	TicketID  string
	OldStatus TicketStatus
	NewStatus TicketStatus
	ChangedBy string
	CreatedAt time.Time
}
