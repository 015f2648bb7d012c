package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRaffleNotFound       = errors.New("raffle not found")
	ErrRaffleAlreadyClaimed = errors.New("raffle already claimed for drawing")
	ErrRaffleNotProcessing  = errors.New("raffle is not being processed")
	ErrTicketNotFound       = errors.New("ticket not found")
)

const (
	StatusActive       = "active"
	StatusProcessing   = "processing"
	StatusFinished     = "finished"
	StatusErrorDrawing = "error_drawing"
)

type Prize struct {
	Position    int    `json:"position"`
	Description string `json:"description"`
}

type Winner struct {
	PrizePosition     int               `json:"prizePosition"`
	PrizeDescription  string            `json:"prizeDescription"`
	WinningNumber     int               `json:"winningNumber"`
	WinnerUserID      string            `json:"winnerUserId"`
	WinnerName        string            `json:"winnerName"`
	WinnerEmail       string            `json:"winnerEmail"`
	WinnerPhoneNumber string            `json:"winnerPhoneNumber"`
	AdminNotes        *string           `json:"adminNotes"`
	CustomData        map[string]string `json:"customData"`
}

type Raffle struct {
	ID               uint      `gorm:"primaryKey"`
	Title            string    `gorm:"not null"`
	Status           string    `gorm:"not null;default:active;index:idx_raffles_due,priority:1"`
	DrawDate         time.Time `gorm:"not null;index:idx_raffles_due,priority:2"`
	TicketPrice      int64     `gorm:"not null;default:0"`
	Prizes           []Prize   `gorm:"serializer:json;type:jsonb;not null"`
	SoldTicketsCount int       `gorm:"not null;default:0"`
	Winners          []Winner  `gorm:"serializer:json;type:jsonb"`
	DrawnAt          *time.Time
	LastError        string
	Tickets          []Ticket `gorm:"foreignKey:RaffleID"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Ticket json tags follow the column names, the change trigger sends rows as
// row_to_json.
type Ticket struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	RaffleID      uint              `gorm:"not null;index:idx_tickets_raffle_paid,priority:1" json:"raffle_id"`
	UserID        string            `gorm:"not null" json:"user_id"`
	UserName      string            `gorm:"not null;default:''" json:"user_name"`
	TicketNumbers []int             `gorm:"serializer:json;type:jsonb;not null" json:"ticket_numbers"`
	IsPaid        bool              `gorm:"not null;default:false;index:idx_tickets_raffle_paid,priority:2" json:"is_paid"`
	CustomData    map[string]string `gorm:"serializer:json;type:jsonb" json:"custom_data"`
	AdminNotes    *string           `json:"admin_notes"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type RaffleDAO struct {
	db *gorm.DB
}

func NewRaffleDAO(db *gorm.DB) *RaffleDAO {
	return &RaffleDAO{
		db: db,
	}
}

func (d *RaffleDAO) GetByID(ctx context.Context, id uint) (Raffle, error) {
	var raffle Raffle

	result := d.db.WithContext(ctx).First(&raffle, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Raffle{}, ErrRaffleNotFound
		}

		return Raffle{}, result.Error
	}

	return raffle, nil
}

// FindDue returns active raffles whose draw date is not after now.
func (d *RaffleDAO) FindDue(ctx context.Context, now time.Time) ([]Raffle, error) {
	var raffles []Raffle

	result := d.db.WithContext(ctx).
		Where("draw_date <= ? AND status = ?", now, StatusActive).
		Order("draw_date, id").
		Find(&raffles)
	if result.Error != nil {
		return nil, result.Error
	}

	return raffles, nil
}

// Claim moves a raffle from active to processing. Losing claimants, whether
// they find the row locked or already moved, get ErrRaffleAlreadyClaimed.
func (d *RaffleDAO) Claim(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var raffle Raffle
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"}).
			Select("id", "status").
			First(&raffle, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRaffleNotFound
			}
			if hasPgCode(err, pgerrcode.LockNotAvailable) {
				return ErrRaffleAlreadyClaimed
			}

			return err
		}

		if raffle.Status != StatusActive {
			return ErrRaffleAlreadyClaimed
		}

		return tx.Model(&Raffle{}).Where("id = ?", id).Update("status", StatusProcessing).Error
	})
}

func (d *RaffleDAO) Finish(ctx context.Context, id uint, winners []Winner, drawnAt time.Time) error {
	if winners == nil {
		winners = []Winner{}
	}

	return d.leaveProcessing(ctx, id, Raffle{
		Status:  StatusFinished,
		Winners: winners,
		DrawnAt: &drawnAt,
	}, "status", "winners", "drawn_at")
}

func (d *RaffleDAO) MarkError(ctx context.Context, id uint, cause string) error {
	// winners stays SQL NULL on failed draws.
	return d.leaveProcessing(ctx, id, Raffle{
		Status:    StatusErrorDrawing,
		LastError: cause,
	}, "status", "last_error")
}

func (d *RaffleDAO) leaveProcessing(ctx context.Context, id uint, values Raffle, columns ...string) error {
	result := d.db.WithContext(ctx).
		Model(&Raffle{ID: id}).
		Where("status = ?", StatusProcessing).
		Select(columns).
		Updates(&values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRaffleNotProcessing
	}

	return nil
}

// IncrementSoldTickets adds delta to the counter in a single statement so
// concurrent callers never lose updates.
func (d *RaffleDAO) IncrementSoldTickets(ctx context.Context, id uint, delta int) error {
	result := d.db.WithContext(ctx).
		Model(&Raffle{}).
		Where("id = ?", id).
		UpdateColumn("sold_tickets_count", gorm.Expr("sold_tickets_count + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRaffleNotFound
	}

	return nil
}

func (d *RaffleDAO) FindPaidTickets(ctx context.Context, raffleID uint) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("raffle_id = ? AND is_paid = ?", raffleID, true).
		Order("id").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *RaffleDAO) SetTicketPaid(ctx context.Context, raffleID, ticketID uint, paid bool) (Ticket, error) {
	var ticket Ticket

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Ticket{}).
			Where("id = ? AND raffle_id = ?", ticketID, raffleID).
			Update("is_paid", paid)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTicketNotFound
		}

		return tx.First(&ticket, ticketID).Error
	})
	if err != nil {
		return Ticket{}, err
	}

	return ticket, nil
}
