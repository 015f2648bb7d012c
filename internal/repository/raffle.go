package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/repository/dao"
)

var (
	ErrRaffleNotFound       = dao.ErrRaffleNotFound
	ErrRaffleAlreadyClaimed = dao.ErrRaffleAlreadyClaimed
	ErrRaffleNotProcessing  = dao.ErrRaffleNotProcessing
	ErrTicketNotFound       = dao.ErrTicketNotFound
)

type RaffleDAO interface {
	GetByID(ctx context.Context, id uint) (dao.Raffle, error)
	FindDue(ctx context.Context, now time.Time) ([]dao.Raffle, error)
	Claim(ctx context.Context, id uint) error
	Finish(ctx context.Context, id uint, winners []dao.Winner, drawnAt time.Time) error
	MarkError(ctx context.Context, id uint, cause string) error
	IncrementSoldTickets(ctx context.Context, id uint, delta int) error
	FindPaidTickets(ctx context.Context, raffleID uint) ([]dao.Ticket, error)
	SetTicketPaid(ctx context.Context, raffleID, ticketID uint, paid bool) (dao.Ticket, error)
}

type RaffleRepository struct {
	dao RaffleDAO
}

func NewRaffleRepository(dao RaffleDAO) *RaffleRepository {
	return &RaffleRepository{
		dao: dao,
	}
}

func (r *RaffleRepository) GetByID(ctx context.Context, id uint) (domain.Raffle, error) {
	raffle, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.GetByID -> %w", err)
	}

	return r.daoToDomain(raffle), nil
}

func (r *RaffleRepository) FindDue(ctx context.Context, now time.Time) ([]domain.Raffle, error) {
	raffles, err := r.dao.FindDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindDue -> %w", err)
	}

	due := make([]domain.Raffle, len(raffles))
	for i, raffle := range raffles {
		due[i] = r.daoToDomain(raffle)
	}

	return due, nil
}

func (r *RaffleRepository) Claim(ctx context.Context, id uint) error {
	if err := r.dao.Claim(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Claim -> %w", err)
	}

	return nil
}

func (r *RaffleRepository) Finish(ctx context.Context, id uint, winners []domain.WinnerRecord, drawnAt time.Time) error {
	if err := r.dao.Finish(ctx, id, r.winnersDomainToDao(winners), drawnAt); err != nil {
		return fmt.Errorf("r.dao.Finish -> %w", err)
	}

	return nil
}

func (r *RaffleRepository) MarkError(ctx context.Context, id uint, cause string) error {
	if err := r.dao.MarkError(ctx, id, cause); err != nil {
		return fmt.Errorf("r.dao.MarkError -> %w", err)
	}

	return nil
}

func (r *RaffleRepository) IncrementSoldTickets(ctx context.Context, id uint, delta int) error {
	if err := r.dao.IncrementSoldTickets(ctx, id, delta); err != nil {
		return fmt.Errorf("r.dao.IncrementSoldTickets -> %w", err)
	}

	return nil
}

func (r *RaffleRepository) FindPaidTickets(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
	tickets, err := r.dao.FindPaidTickets(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPaidTickets -> %w", err)
	}

	paid := make([]domain.Ticket, len(tickets))
	for i, ticket := range tickets {
		paid[i] = TicketDaoToDomain(ticket)
	}

	return paid, nil
}

func (r *RaffleRepository) SetTicketPaid(ctx context.Context, raffleID, ticketID uint, paid bool) (domain.Ticket, error) {
	ticket, err := r.dao.SetTicketPaid(ctx, raffleID, ticketID, paid)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.SetTicketPaid -> %w", err)
	}

	return TicketDaoToDomain(ticket), nil
}

func (r *RaffleRepository) daoToDomain(raffle dao.Raffle) domain.Raffle {
	prizes := make([]domain.Prize, len(raffle.Prizes))
	for i, p := range raffle.Prizes {
		prizes[i] = domain.Prize{
			Position:    p.Position,
			Description: p.Description,
		}
	}

	var winners []domain.WinnerRecord
	if raffle.Winners != nil {
		winners = make([]domain.WinnerRecord, len(raffle.Winners))
		for i, w := range raffle.Winners {
			winners[i] = domain.WinnerRecord{
				PrizePosition:     w.PrizePosition,
				PrizeDescription:  w.PrizeDescription,
				WinningNumber:     w.WinningNumber,
				WinnerUserID:      w.WinnerUserID,
				WinnerName:        w.WinnerName,
				WinnerEmail:       w.WinnerEmail,
				WinnerPhoneNumber: w.WinnerPhoneNumber,
				AdminNotes:        w.AdminNotes,
				CustomData:        w.CustomData,
			}
		}
	}

	return domain.Raffle{
		ID:               raffle.ID,
		Title:            raffle.Title,
		Status:           domain.RaffleStatus(raffle.Status),
		DrawDate:         raffle.DrawDate,
		TicketPrice:      raffle.TicketPrice,
		Prizes:           prizes,
		SoldTicketsCount: raffle.SoldTicketsCount,
		Winners:          winners,
		DrawnAt:          raffle.DrawnAt,
		LastError:        raffle.LastError,
		CreatedAt:        raffle.CreatedAt,
		UpdatedAt:        raffle.UpdatedAt,
	}
}

func (r *RaffleRepository) winnersDomainToDao(winners []domain.WinnerRecord) []dao.Winner {
	daoWinners := make([]dao.Winner, len(winners))
	for i, w := range winners {
		daoWinners[i] = dao.Winner{
			PrizePosition:     w.PrizePosition,
			PrizeDescription:  w.PrizeDescription,
			WinningNumber:     w.WinningNumber,
			WinnerUserID:      w.WinnerUserID,
			WinnerName:        w.WinnerName,
			WinnerEmail:       w.WinnerEmail,
			WinnerPhoneNumber: w.WinnerPhoneNumber,
			AdminNotes:        w.AdminNotes,
			CustomData:        w.CustomData,
		}
	}

	return daoWinners
}

// TicketDaoToDomain is shared with the change feed, which decodes rows in
// their stored shape.
func TicketDaoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:            t.ID,
		RaffleID:      t.RaffleID,
		UserID:        t.UserID,
		UserName:      t.UserName,
		TicketNumbers: t.TicketNumbers,
		IsPaid:        t.IsPaid,
		CustomData:    t.CustomData,
		AdminNotes:    t.AdminNotes,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
