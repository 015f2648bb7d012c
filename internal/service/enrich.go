package service

import (
	"context"
	"strings"
	"time"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/draw"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/repository"
)

var (
	ErrUserNotFound = repository.ErrUserNotFound
)

const (
	PlaceholderName  = "anonymous user"
	PlaceholderEmail = "unavailable"
	PlaceholderPhone = "unavailable"
)

type UserDirectory interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// Enricher turns allocator output into winner records, filling contact
// details from the user directory. Failed lookups degrade to placeholders.
type Enricher struct {
	users       UserDirectory
	concurrency int
	timeout     time.Duration
}

func NewEnricher(users UserDirectory, concurrency int, timeout time.Duration) *Enricher {
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Enricher{
		users:       users,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// Enrich returns one record per assignment, in assignment order.
func (e *Enricher) Enrich(ctx context.Context, raffleID uint, assignments []draw.Assignment) []domain.WinnerRecord {
	mapper := iter.Mapper[draw.Assignment, domain.WinnerRecord]{MaxGoroutines: e.concurrency}

	return mapper.Map(assignments, func(a *draw.Assignment) domain.WinnerRecord {
		return e.enrichOne(ctx, raffleID, *a)
	})
}

func (e *Enricher) enrichOne(ctx context.Context, raffleID uint, a draw.Assignment) domain.WinnerRecord {
	record := domain.WinnerRecord{
		PrizePosition:     a.Prize.Position,
		PrizeDescription:  a.Prize.Description,
		WinningNumber:     a.WinningNumber,
		WinnerUserID:      a.Owner.UserID,
		WinnerName:        PlaceholderName,
		WinnerEmail:       PlaceholderEmail,
		WinnerPhoneNumber: PlaceholderPhone,
		AdminNotes:        a.Owner.AdminNotes,
		CustomData:        a.Owner.CustomData,
	}

	log := zap.L().With(
		zap.Uint("raffle_id", raffleID),
		zap.Int("winning_number", a.WinningNumber),
		zap.String("user_id", a.Owner.UserID),
	)
	if a.Owner.UserID == "" {
		log.Warn("winning number has no owner, using placeholders")
		return record
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	user, err := e.users.FindByID(ctx, a.Owner.UserID)
	if err != nil {
		log.Warn("winner lookup failed, using placeholders", zap.Error(err))
		return record
	}

	email := firstPresent(user.Email, user.AccountEmail)
	if email != "" {
		record.WinnerEmail = email
	}
	if name := firstPresent(user.Name, &email); name != "" {
		record.WinnerName = name
	}
	if phone := firstPresent(user.PhoneNumber); phone != "" {
		record.WinnerPhoneNumber = phone
	}

	return record
}

// firstPresent returns the first non-blank value, or "".
func firstPresent(values ...*string) string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(*v) != "" {
			return strings.TrimSpace(*v)
		}
	}

	return ""
}
