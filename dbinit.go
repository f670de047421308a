package main

import (
	"database/sql"
	"fmt"
)

const dbSchemaVersion = 2

func dbInit(db *sql.DB) error {
	var dbVersion int
	err := db.QueryRow("SELECT version FROM db_version WHERE name='gcalquick'").Scan(&dbVersion)
	if err != nil {
		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS db_version (
			name TEXT PRIMARY KEY,
			version INTEGER
		)`)
		if err != nil {
			return fmt.Errorf("error creating db_version table: %w", err)
		}
		_, err = db.Exec(`INSERT OR IGNORE INTO db_version (name, version) VALUES ('gcalquick', 0)`)
		if err != nil {
			return fmt.Errorf("error initializing db_version table: %w", err)
		}
		dbVersion = 0
	}

	if dbVersion == 0 {
		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS tokens (
		account_name TEXT PRIMARY KEY,
		token TEXT)`)
		if err != nil {
			return fmt.Errorf("error creating tokens table: %w", err)
		}

		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS calendars (
		account_name TEXT,
		calendar_id TEXT,
		provider_type TEXT DEFAULT 'google',
		provider_config TEXT DEFAULT '',
		PRIMARY KEY (account_name, calendar_id))`)
		if err != nil {
			return fmt.Errorf("error creating calendars table: %w", err)
		}

		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS created_items (
			item_id TEXT,
			calendar_id TEXT,
			account_name TEXT,
			kind TEXT,
			summary TEXT,
			start TEXT,
			finish TEXT,
			all_day INTEGER DEFAULT 0,
			created_at TEXT,
			PRIMARY KEY (calendar_id, item_id)
		)`)
		if err != nil {
			return fmt.Errorf("error creating created_items table: %w", err)
		}

		dbVersion = 1
		if err := setDBVersion(db, dbVersion); err != nil {
			return err
		}
	}

	if dbVersion == 1 {
		// calendars hold either events or to-dos
		_, err = db.Exec(`ALTER TABLE calendars ADD COLUMN item_kind TEXT DEFAULT 'event'`)
		if err != nil {
			return fmt.Errorf("error adding item_kind column: %w", err)
		}

		dbVersion = 2
		if err := setDBVersion(db, dbVersion); err != nil {
			return err
		}
	}

	return nil
}

func setDBVersion(db *sql.DB, version int) error {
	_, err := db.Exec(`UPDATE db_version SET version = ? WHERE name = 'gcalquick'`, version)
	if err != nil {
		return fmt.Errorf("error updating db_version table: %w", err)
	}
	return nil
}
