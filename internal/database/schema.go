package database

import (
	"context"
	"database/sql"
)

// schema holds the DDL for every table the service owns. Statements
// are idempotent so EnsureSchema can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS affiliates (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		number      VARCHAR(32)  NOT NULL,
		document    VARCHAR(32)  NOT NULL,
		last_name   VARCHAR(120) NOT NULL,
		first_name  VARCHAR(120) NOT NULL,
		tier        VARCHAR(16)  NOT NULL DEFAULT 'BASE',
		is_active   TINYINT(1)   NOT NULL DEFAULT 1,
		PRIMARY KEY (id),
		UNIQUE KEY uq_affiliates_number (number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS appointments (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		affiliate_id  BIGINT UNSIGNED NOT NULL,
		sched_date    DATE         NOT NULL,
		control_date  DATE         DEFAULT NULL,
		time_of_day   VARCHAR(5)   NOT NULL,
		kind          VARCHAR(16)  NOT NULL,
		specialty     VARCHAR(120) DEFAULT NULL,
		laboratory    VARCHAR(120) DEFAULT NULL,
		tier          VARCHAR(16)  NOT NULL,
		provider      VARCHAR(120) NOT NULL DEFAULT '',
		professional  VARCHAR(120) NOT NULL DEFAULT '',
		amount        BIGINT       NOT NULL DEFAULT 0,
		card_paid     TINYINT(1)   NOT NULL DEFAULT 0,
		card_amount   BIGINT       NOT NULL DEFAULT 0,
		card_ref      VARCHAR(64)  NOT NULL DEFAULT '',
		note          VARCHAR(255) NOT NULL DEFAULT '',
		status        VARCHAR(16)  NOT NULL DEFAULT 'pending',
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_appointments_date (sched_date),
		KEY idx_appointments_status_date (status, sched_date),
		CONSTRAINT fk_appointments_affiliate FOREIGN KEY (affiliate_id) REFERENCES affiliates (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// Accent-insensitive collation on name so searches match regardless
	// of diacritics.
	`CREATE TABLE IF NOT EXISTS prices (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		scope      VARCHAR(16)  NOT NULL,
		name       VARCHAR(120) NOT NULL COLLATE utf8mb4_general_ci,
		tier       VARCHAR(16)  NOT NULL,
		amount     BIGINT       NOT NULL DEFAULT 0,
		is_active  TINYINT(1)   NOT NULL DEFAULT 1,
		updated_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_prices_scope_name_tier (scope, name, tier)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// close_date is unique: one closing per day, ever. Duplicate inserts
	// surface as error 1062 and map to ErrDuplicate upstream.
	`CREATE TABLE IF NOT EXISTS cash_closings (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		close_date DATE     NOT NULL,
		total      BIGINT   NOT NULL DEFAULT 0,
		closed_at  DATETIME NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_cash_closings_date (close_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS cash_closing_rows (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		closing_id       BIGINT UNSIGNED NOT NULL,
		row_date         DATE         NOT NULL,
		affiliate_number VARCHAR(32)  NOT NULL,
		document         VARCHAR(32)  NOT NULL,
		affiliate_name   VARCHAR(255) NOT NULL,
		provider         VARCHAR(120) NOT NULL,
		practice         VARCHAR(120) NOT NULL,
		amount           BIGINT       NOT NULL DEFAULT 0,
		PRIMARY KEY (id),
		KEY idx_cash_rows_closing (closing_id),
		CONSTRAINT fk_cash_rows_closing FOREIGN KEY (closing_id) REFERENCES cash_closings (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
