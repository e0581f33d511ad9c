package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		name TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS profiles (
		account_id TEXT PRIMARY KEY,
		club_name TEXT NOT NULL,
		district TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		logo_url TEXT NOT NULL DEFAULT '',
		slug TEXT UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		trial_ends_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (account_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		account_id TEXT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		office TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		joined_at TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS member_permissions (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		section TEXT NOT NULL,
		is_responsible INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		UNIQUE (owner_id, user_id, section),
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS section_requests (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		section TEXT NOT NULL,
		author_id TEXT NOT NULL,
		parent_id TEXT,
		content TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (owner_id) REFERENCES accounts(id),
		FOREIGN KEY (parent_id) REFERENCES section_requests(id)
	);

	CREATE TABLE IF NOT EXISTS prefecture_events (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'ceremony',
		ceremony_subtype TEXT NOT NULL DEFAULT '',
		starts_at TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		participants INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		public INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS district_events (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		starts_at TEXT NOT NULL,
		ends_at TEXT,
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS commissions (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		chair_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS presidency_projects (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		commission_id TEXT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		budget_cents INTEGER NOT NULL DEFAULT 0,
		starts_at TEXT,
		ends_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		amount_cents INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		occurred_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		target INTEGER NOT NULL DEFAULT 0,
		progress INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		due_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS presidency_notes (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		author_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		pinned INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS vip_guests (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		event_id TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS board_meetings (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		held_at TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		agenda TEXT NOT NULL DEFAULT '',
		minutes TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS club_invites (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		email TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		accepted_at TEXT,
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS waiting_list (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		title TEXT NOT NULL,
		prompt TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	);

	CREATE TABLE IF NOT EXISTS admin_activity_log (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		category TEXT NOT NULL,
		action TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		actor_email TEXT NOT NULL DEFAULT '',
		resource_id TEXT NOT NULL DEFAULT '',
		resource_type TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS data_snapshots (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		table_name TEXT NOT NULL,
		record_id TEXT NOT NULL,
		snapshot_data TEXT NOT NULL,
		taken_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS feature_flag (
		key TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		enabled_admin INTEGER NOT NULL DEFAULT 0,
		enabled_member INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS outbox_entry (
		id TEXT PRIMARY KEY,
		action_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 5,
		last_attempted_at TEXT,
		created_at TEXT NOT NULL,
		external_id TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_requests_board
		ON section_requests (owner_id, section, status, created_at);
	CREATE INDEX IF NOT EXISTS idx_permissions_user
		ON member_permissions (user_id);
	CREATE INDEX IF NOT EXISTS idx_snapshots_record
		ON data_snapshots (table_name, record_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_activity_owner
		ON admin_activity_log (owner_id, timestamp);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
