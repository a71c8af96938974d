package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the tables owned by this service.  Films, showtimes,
// bookings and users live in the REST store, not here.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id     VARCHAR(64)  NOT NULL,
		token_hash  CHAR(64)     NOT NULL,
		expires_at  DATETIME     NOT NULL,
		revoked_at  DATETIME     NULL,
		created_at  DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_token_hash (token_hash),
		KEY idx_refresh_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS booking_ledger (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		event_id     CHAR(36)     NOT NULL,
		event_type   VARCHAR(32)  NOT NULL,
		booking_id   VARCHAR(64)  NOT NULL,
		showtime_id  VARCHAR(64)  NOT NULL,
		user_id      VARCHAR(64)  NOT NULL DEFAULT '',
		seats        VARCHAR(255) NOT NULL DEFAULT '',
		total_amount BIGINT       NOT NULL DEFAULT 0,
		occurred_at  DATETIME     NOT NULL,
		created_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_ledger_event (event_id),
		KEY idx_ledger_showtime (showtime_id),
		KEY idx_ledger_booking (booking_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates missing tables.  It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
