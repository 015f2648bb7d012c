package service

import (
	"context"
	"sync"
	"time"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"
)

type fakeDrawRepo struct {
	mu      sync.Mutex
	raffles map[uint]*domain.Raffle
	tickets map[uint][]domain.Ticket

	claimErr    map[uint]error
	ticketsErr  map[uint]error
	finishErr   map[uint]error
	panicOn     map[uint]bool
	panicClaim  map[uint]bool
	findDueErr  error
	markedCause map[uint]string
}

func newFakeDrawRepo(raffles ...domain.Raffle) *fakeDrawRepo {
	r := &fakeDrawRepo{
		raffles:     make(map[uint]*domain.Raffle),
		tickets:     make(map[uint][]domain.Ticket),
		claimErr:    make(map[uint]error),
		ticketsErr:  make(map[uint]error),
		finishErr:   make(map[uint]error),
		panicOn:     make(map[uint]bool),
		panicClaim:  make(map[uint]bool),
		markedCause: make(map[uint]string),
	}
	for i := range raffles {
		raffle := raffles[i]
		r.raffles[raffle.ID] = &raffle
	}

	return r
}

func (r *fakeDrawRepo) status(id uint) domain.RaffleStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.raffles[id].Status
}

func (r *fakeDrawRepo) raffle(id uint) domain.Raffle {
	r.mu.Lock()
	defer r.mu.Unlock()

	return *r.raffles[id]
}

func (r *fakeDrawRepo) GetByID(_ context.Context, id uint) (domain.Raffle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raffle, ok := r.raffles[id]
	if !ok {
		return domain.Raffle{}, ErrRaffleNotFound
	}

	return *raffle, nil
}

func (r *fakeDrawRepo) FindDue(_ context.Context, now time.Time) ([]domain.Raffle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findDueErr != nil {
		return nil, r.findDueErr
	}

	var due []domain.Raffle
	for _, raffle := range r.raffles {
		if raffle.IsDue(now) {
			due = append(due, *raffle)
		}
	}

	return due, nil
}

func (r *fakeDrawRepo) Claim(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.panicClaim[id] {
		panic("driver bug")
	}
	if err := r.claimErr[id]; err != nil {
		return err
	}
	raffle, ok := r.raffles[id]
	if !ok {
		return ErrRaffleNotFound
	}
	if raffle.Status != domain.RaffleActive {
		return ErrRaffleAlreadyClaimed
	}
	raffle.Status = domain.RaffleProcessing

	return nil
}

func (r *fakeDrawRepo) FindPaidTickets(_ context.Context, raffleID uint) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.panicOn[raffleID] {
		panic("corrupted ticket data")
	}
	if err := r.ticketsErr[raffleID]; err != nil {
		return nil, err
	}

	var paid []domain.Ticket
	for _, t := range r.tickets[raffleID] {
		if t.IsPaid {
			paid = append(paid, t)
		}
	}

	return paid, nil
}

func (r *fakeDrawRepo) Finish(_ context.Context, id uint, winners []domain.WinnerRecord, drawnAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.finishErr[id]; err != nil {
		return err
	}
	raffle := r.raffles[id]
	raffle.Status = domain.RaffleFinished
	raffle.Winners = winners
	raffle.DrawnAt = &drawnAt

	return nil
}

func (r *fakeDrawRepo) MarkError(_ context.Context, id uint, cause string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.raffles[id].Status = domain.RaffleErrorDrawing
	r.raffles[id].LastError = cause
	r.markedCause[id] = cause

	return nil
}

type fakeUsers struct {
	users map[string]domain.User
	err   map[string]error
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	if err := f.err[id]; err != nil {
		return domain.User{}, err
	}
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}

	return user, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	outcomes []domain.DrawOutcome
}

func (p *recordingPublisher) Publish(outcome domain.DrawOutcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.outcomes = append(p.outcomes, outcome)
}

type panickingPublisher struct{}

func (panickingPublisher) Publish(domain.DrawOutcome) {
	panic("subscriber gone")
}

type fakeCounterRepo struct {
	mu    sync.Mutex
	calls map[uint][]int
	err   error
}

func (f *fakeCounterRepo) IncrementSoldTickets(_ context.Context, id uint, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.calls == nil {
		f.calls = make(map[uint][]int)
	}
	f.calls[id] = append(f.calls[id], delta)

	return f.err
}

func strPtr(s string) *string { return &s }
