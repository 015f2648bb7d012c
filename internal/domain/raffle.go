package domain

import "time"

type RaffleStatus string

const (
	RaffleActive       RaffleStatus = "active"
	RaffleProcessing   RaffleStatus = "processing"
	RaffleFinished     RaffleStatus = "finished"
	RaffleErrorDrawing RaffleStatus = "error_drawing"
)

// IsTerminal reports whether the draw engine will never move the raffle again.
func (s RaffleStatus) IsTerminal() bool {
	return s == RaffleFinished || s == RaffleErrorDrawing
}

type Prize struct {
	Position    int    `json:"position"`
	Description string `json:"description"`
}

type Raffle struct {
	ID               uint           `json:"id"`
	Title            string         `json:"title"`
	Status           RaffleStatus   `json:"status"`
	DrawDate         time.Time      `json:"draw_date"`
	TicketPrice      int64          `json:"ticket_price"`
	Prizes           []Prize        `json:"prizes"`
	SoldTicketsCount int            `json:"sold_tickets_count"`
	Winners          []WinnerRecord `json:"winners,omitempty"`
	DrawnAt          *time.Time     `json:"drawn_at,omitempty"`
	LastError        string         `json:"last_error,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// IsDue reports whether the raffle can be claimed for a draw at now.
func (r Raffle) IsDue(now time.Time) bool {
	return r.Status == RaffleActive && !r.DrawDate.After(now)
}

// WinnerRecord is the snapshot written once a prize has been drawn.
type WinnerRecord struct {
	PrizePosition     int               `json:"prize_position"`
	PrizeDescription  string            `json:"prize_description"`
	WinningNumber     int               `json:"winning_number"`
	WinnerUserID      string            `json:"winner_user_id"`
	WinnerName        string            `json:"winner_name"`
	WinnerEmail       string            `json:"winner_email"`
	WinnerPhoneNumber string            `json:"winner_phone_number"`
	AdminNotes        *string           `json:"admin_notes,omitempty"`
	CustomData        map[string]string `json:"custom_data,omitempty"`
}

// DrawOutcome is published every time a raffle reaches a terminal status.
type DrawOutcome struct {
	RaffleID uint           `json:"raffle_id"`
	Status   RaffleStatus   `json:"status"`
	Winners  []WinnerRecord `json:"winners"`
	Error    string         `json:"error,omitempty"`
}
