package domain

import "time"

type Ticket struct {
	ID            uint              `json:"id"`
	RaffleID      uint              `json:"raffle_id"`
	UserID        string            `json:"user_id"`
	UserName      string            `json:"user_name"`
	TicketNumbers []int             `json:"ticket_numbers"`
	IsPaid        bool              `json:"is_paid"`
	CustomData    map[string]string `json:"custom_data,omitempty"`
	AdminNotes    *string           `json:"admin_notes,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// TicketChange is one write to a ticket. Before is nil on creation and
// After is nil on deletion.
type TicketChange struct {
	RaffleID uint    `json:"raffle_id"`
	Before   *Ticket `json:"before"`
	After    *Ticket `json:"after"`
}
