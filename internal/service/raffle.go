package service

import (
	"context"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/repository"
)

var (
	ErrTicketNotFound = repository.ErrTicketNotFound
)

type RaffleRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Raffle, error)
	SetTicketPaid(ctx context.Context, raffleID, ticketID uint, paid bool) (domain.Ticket, error)
}

type RaffleService struct {
	repo RaffleRepository
}

func NewRaffleService(repo RaffleRepository) *RaffleService {
	return &RaffleService{
		repo: repo,
	}
}

func (s *RaffleService) GetRaffle(ctx context.Context, id uint) (domain.Raffle, error) {
	raffle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return raffle, nil
}

// GetWinners returns an empty list until the raffle is finished.
func (s *RaffleService) GetWinners(ctx context.Context, id uint) ([]domain.WinnerRecord, error) {
	raffle, err := s.GetRaffle(ctx, id)
	if err != nil {
		return nil, err
	}
	if raffle.Status != domain.RaffleFinished || raffle.Winners == nil {
		return []domain.WinnerRecord{}, nil
	}

	return raffle.Winners, nil
}

// ConfirmPayment records a payment state change. The sold tickets counter
// follows through the ticket change feed, not from here.
func (s *RaffleService) ConfirmPayment(ctx context.Context, raffleID, ticketID uint, paid bool) (domain.Ticket, error) {
	ticket, err := s.repo.SetTicketPaid(ctx, raffleID, ticketID, paid)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.SetTicketPaid -> %w", err)
	}

	return ticket, nil
}
