package domain

import "time"

// Comment captures one message in a ticket thread. AuthorID never
// changes after creation.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
