package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/draw"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/repository"
)

var (
	ErrRaffleNotFound       = repository.ErrRaffleNotFound
	ErrRaffleAlreadyClaimed = repository.ErrRaffleAlreadyClaimed
	ErrRaffleNotDue         = errors.New("raffle is not due for drawing yet")
	ErrDrawFailed           = errors.New("raffle draw failed")
)

// markErrorTimeout bounds the error_drawing write, which still runs when the
// invocation context is already cancelled.
const markErrorTimeout = 10 * time.Second

type DrawRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Raffle, error)
	FindDue(ctx context.Context, now time.Time) ([]domain.Raffle, error)
	Claim(ctx context.Context, id uint) error
	FindPaidTickets(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
	Finish(ctx context.Context, id uint, winners []domain.WinnerRecord, drawnAt time.Time) error
	MarkError(ctx context.Context, id uint, cause string) error
}

type OutcomePublisher interface {
	Publish(outcome domain.DrawOutcome)
}

// DrawSummary reports what one invocation did with the raffles it found due.
type DrawSummary struct {
	Due      int `json:"due"`
	Finished int `json:"finished"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

type drawResult int

const (
	drawFinished drawResult = iota
	drawFailed
	drawSkipped
)

type DrawOption func(*DrawService)

func WithClock(now func() time.Time) DrawOption {
	return func(s *DrawService) {
		s.now = now
	}
}

func WithPublisher(p OutcomePublisher) DrawOption {
	return func(s *DrawService) {
		s.publisher = p
	}
}

func WithMaxConcurrentRaffles(n int) DrawOption {
	return func(s *DrawService) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// DrawService claims due raffles and takes each of them to finished or
// error_drawing.
type DrawService struct {
	repo          DrawRepository
	enricher      *Enricher
	rng           draw.Rand
	now           func() time.Time
	publisher     OutcomePublisher
	maxConcurrent int
}

// NewDrawService expects rng to be safe for concurrent use, raffles are
// drawn in parallel.
func NewDrawService(repo DrawRepository, enricher *Enricher, rng draw.Rand, opts ...DrawOption) *DrawService {
	s := &DrawService{
		repo:          repo,
		enricher:      enricher,
		rng:           rng,
		now:           time.Now,
		maxConcurrent: 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RunDue is one scheduled invocation. It only returns an error when the due
// raffles could not be listed; per raffle failures end up in the summary.
func (s *DrawService) RunDue(ctx context.Context) (DrawSummary, error) {
	due, err := s.repo.FindDue(ctx, s.now())
	if err != nil {
		return DrawSummary{}, fmt.Errorf("s.repo.FindDue -> %w", err)
	}

	summary := DrawSummary{Due: len(due)}
	if len(due) == 0 {
		return summary, nil
	}

	p := pool.NewWithResults[drawResult]().WithMaxGoroutines(s.maxConcurrent)
	for _, raffle := range due {
		raffle := raffle
		p.Go(func() drawResult {
			result, _, _ := s.processIsolated(ctx, raffle)
			return result
		})
	}

	for _, result := range p.Wait() {
		switch result {
		case drawFinished:
			summary.Finished++
		case drawFailed:
			summary.Failed++
		case drawSkipped:
			summary.Skipped++
		}
	}

	return summary, nil
}

// DrawRaffle runs the draw for a single raffle outside the schedule.
func (s *DrawService) DrawRaffle(ctx context.Context, id uint) (domain.DrawOutcome, error) {
	raffle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.DrawOutcome{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	if raffle.Status != domain.RaffleActive {
		return domain.DrawOutcome{}, ErrRaffleAlreadyClaimed
	}
	if !raffle.IsDue(s.now()) {
		return domain.DrawOutcome{}, ErrRaffleNotDue
	}

	result, outcome, err := s.processIsolated(ctx, raffle)
	switch result {
	case drawSkipped:
		return domain.DrawOutcome{}, ErrRaffleAlreadyClaimed
	case drawFailed:
		return outcome, fmt.Errorf("%w: %w", ErrDrawFailed, err)
	}

	return outcome, nil
}

// processIsolated keeps a panic anywhere in one raffle's draw, claim and
// publishing included, from reaching sibling raffles or the caller.
func (s *DrawService) processIsolated(ctx context.Context, raffle domain.Raffle) (result drawResult, outcome domain.DrawOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing raffle: %v", r)
			zap.L().Error("raffle processing panicked", zap.Uint("raffle_id", raffle.ID), zap.Error(err))
			result = drawFailed
			if outcome.Status == "" {
				outcome = domain.DrawOutcome{RaffleID: raffle.ID, Status: domain.RaffleErrorDrawing, Error: err.Error()}
			}
		}
	}()

	return s.process(ctx, raffle)
}

func (s *DrawService) process(ctx context.Context, raffle domain.Raffle) (drawResult, domain.DrawOutcome, error) {
	log := zap.L().With(zap.Uint("raffle_id", raffle.ID))

	if err := s.repo.Claim(ctx, raffle.ID); err != nil {
		if errors.Is(err, ErrRaffleAlreadyClaimed) {
			log.Info("raffle already claimed by another run, skipping")
			return drawSkipped, domain.DrawOutcome{}, err
		}

		// Never left active, the next run picks it up again.
		log.Error("failed to claim raffle", zap.Error(err))
		return drawFailed, domain.DrawOutcome{}, fmt.Errorf("s.repo.Claim -> %w", err)
	}
	log.Info("raffle claimed for drawing")

	winners, err := s.drawClaimed(ctx, raffle)
	if err != nil {
		log.Error("raffle draw failed", zap.Error(err))

		markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markErrorTimeout)
		defer cancel()
		if markErr := s.repo.MarkError(markCtx, raffle.ID, err.Error()); markErr != nil {
			log.Error("failed to mark raffle as error_drawing", zap.Error(markErr))
		}

		outcome := domain.DrawOutcome{RaffleID: raffle.ID, Status: domain.RaffleErrorDrawing, Error: err.Error()}
		s.publish(outcome)

		return drawFailed, outcome, err
	}

	log.Info("raffle finished", zap.Int("winners", len(winners)), zap.Int("prizes", len(raffle.Prizes)))
	outcome := domain.DrawOutcome{RaffleID: raffle.ID, Status: domain.RaffleFinished, Winners: winners}
	s.publish(outcome)

	return drawFinished, outcome, nil
}

func (s *DrawService) drawClaimed(ctx context.Context, raffle domain.Raffle) (winners []domain.WinnerRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while drawing: %v", r)
		}
	}()

	tickets, err := s.repo.FindPaidTickets(ctx, raffle.ID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindPaidTickets -> %w", err)
	}

	winners = []domain.WinnerRecord{}
	if len(tickets) > 0 {
		numbers := draw.BuildPool(tickets)
		assignments := draw.Allocate(raffle.Prizes, numbers, s.rng)
		winners = s.enricher.Enrich(ctx, raffle.ID, assignments)
	} else {
		zap.L().Info("raffle has no paid tickets", zap.Uint("raffle_id", raffle.ID))
	}

	if err = s.repo.Finish(ctx, raffle.ID, winners, s.now()); err != nil {
		return nil, fmt.Errorf("s.repo.Finish -> %w", err)
	}

	return winners, nil
}

// publish never fails the draw, the outcome is already stored.
func (s *DrawService) publish(outcome domain.DrawOutcome) {
	if s.publisher == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("outcome publisher panicked", zap.Uint("raffle_id", outcome.RaffleID), zap.Any("panic", r))
		}
	}()

	s.publisher.Publish(outcome)
}
