package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"
)

type CounterRepository interface {
	IncrementSoldTickets(ctx context.Context, id uint, delta int) error
}

// TicketCountDelta is the change a ticket write causes to its raffle's sold
// tickets counter. A nil snapshot stands for a ticket that does not exist
// on that side of the write.
func TicketCountDelta(before, after *domain.Ticket) int {
	wasPaid := before != nil && before.IsPaid
	isPaid := after != nil && after.IsPaid

	switch {
	case !wasPaid && isPaid:
		return len(after.TicketNumbers)
	case wasPaid && !isPaid:
		return -len(before.TicketNumbers)
	default:
		return 0
	}
}

// TicketCounterService keeps Raffle.SoldTicketsCount in step with ticket
// payment changes.
type TicketCounterService struct {
	repo CounterRepository
}

func NewTicketCounterService(repo CounterRepository) *TicketCounterService {
	return &TicketCounterService{
		repo: repo,
	}
}

// Apply never fails the caller. A lost increment is logged and dropped.
func (s *TicketCounterService) Apply(ctx context.Context, change domain.TicketChange) {
	log := zap.L().With(zap.Uint("raffle_id", change.RaffleID))

	delta := TicketCountDelta(change.Before, change.After)
	if delta == 0 {
		log.Debug("no relevant change in ticket payment status")
		return
	}

	if err := s.repo.IncrementSoldTickets(ctx, change.RaffleID, delta); err != nil {
		log.Error("failed to update sold tickets count", zap.Int("delta", delta), zap.Error(err))
		return
	}

	log.Info("sold tickets count updated", zap.Int("delta", delta))
}
