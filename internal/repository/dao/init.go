package dao

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// TicketChangeChannel is the LISTEN/NOTIFY channel fed by the tickets trigger.
const TicketChangeChannel = "ticket_changes"

const ticketChangeFunction = `
CREATE OR REPLACE FUNCTION notify_ticket_change() RETURNS trigger AS $$
DECLARE
	payload json;
BEGIN
	IF TG_OP = 'INSERT' THEN
		payload := json_build_object('raffle_id', NEW.raffle_id, 'before', NULL, 'after', row_to_json(NEW));
	ELSIF TG_OP = 'UPDATE' THEN
		payload := json_build_object('raffle_id', NEW.raffle_id, 'before', row_to_json(OLD), 'after', row_to_json(NEW));
	ELSE
		payload := json_build_object('raffle_id', OLD.raffle_id, 'before', row_to_json(OLD), 'after', NULL);
	END IF;
	PERFORM pg_notify('` + TicketChangeChannel + `', payload::text);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`

const ticketChangeTrigger = `
CREATE TRIGGER tickets_notify_change
AFTER INSERT OR UPDATE OR DELETE ON tickets
FOR EACH ROW EXECUTE FUNCTION notify_ticket_change()`

func InitTables(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Raffle{},
		&Ticket{},
	); err != nil {
		return fmt.Errorf("db.AutoMigrate -> %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(ticketChangeFunction).Error; err != nil {
			return fmt.Errorf("create notify_ticket_change -> %w", err)
		}
		if err := tx.Exec("DROP TRIGGER IF EXISTS tickets_notify_change ON tickets").Error; err != nil {
			return fmt.Errorf("drop tickets_notify_change -> %w", err)
		}
		if err := tx.Exec(ticketChangeTrigger).Error; err != nil {
			return fmt.Errorf("create tickets_notify_change -> %w", err)
		}

		return nil
	})
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == code
}
