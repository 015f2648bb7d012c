package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/repository"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/repository/dao"
)

var ErrEmptyChange = errors.New("ticket change carries neither before nor after")

type ChangeHandler interface {
	Apply(ctx context.Context, change domain.TicketChange)
}

// Conn is the part of *pgx.Conn the listener needs.
type Conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

type DialFunc func(ctx context.Context) (Conn, error)

// PgxDialer connects with a dedicated pgx connection, LISTEN does not work
// through a pooled gorm handle.
func PgxDialer(dsn string) DialFunc {
	return func(ctx context.Context) (Conn, error) {
		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("pgx.Connect -> %w", err)
		}

		return conn, nil
	}
}

type payload struct {
	RaffleID uint        `json:"raffle_id"`
	Before   *dao.Ticket `json:"before"`
	After    *dao.Ticket `json:"after"`
}

// DecodeTicketChange parses a notification sent by the tickets trigger.
func DecodeTicketChange(raw string) (domain.TicketChange, error) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return domain.TicketChange{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}
	if p.Before == nil && p.After == nil {
		return domain.TicketChange{}, ErrEmptyChange
	}

	change := domain.TicketChange{RaffleID: p.RaffleID}
	if p.Before != nil {
		before := repository.TicketDaoToDomain(*p.Before)
		change.Before = &before
	}
	if p.After != nil {
		after := repository.TicketDaoToDomain(*p.After)
		change.After = &after
	}

	return change, nil
}

// Listener streams ticket changes from Postgres into a ChangeHandler.
type Listener struct {
	dial           DialFunc
	handler        ChangeHandler
	reconnectDelay time.Duration
}

func NewListener(dial DialFunc, handler ChangeHandler, reconnectDelay time.Duration) *Listener {
	if reconnectDelay <= 0 {
		reconnectDelay = time.Second
	}

	return &Listener{
		dial:           dial,
		handler:        handler,
		reconnectDelay: reconnectDelay,
	}
}

// Run blocks until ctx is done. A dropped connection is re-established
// after the reconnect delay; notifications sent in between are lost.
func (l *Listener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			zap.L().Info("ticket change feed stopped")
			return
		}
		zap.L().Error("ticket change feed interrupted", zap.Error(err), zap.Duration("retry_in", l.reconnectDelay))

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.reconnectDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.dial(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{dao.TicketChangeChannel}.Sanitize()); err != nil {
		return fmt.Errorf("conn.Exec LISTEN -> %w", err)
	}
	zap.L().Info("listening for ticket changes", zap.String("channel", dao.TicketChangeChannel))

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("conn.WaitForNotification -> %w", err)
		}
		l.dispatch(ctx, notification.Payload)
	}
}

func (l *Listener) dispatch(ctx context.Context, raw string) {
	change, err := DecodeTicketChange(raw)
	if err != nil {
		zap.L().Warn("ignoring ticket change without usable data", zap.Error(err))
		return
	}

	l.handler.Apply(ctx, change)
}
