package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

type CalendarInfo struct {
	AccountName    string
	ID             string
	ProviderType   string
	ProviderConfig string // Stores server name for CalDAV
	Kind           ItemKind
	ProviderKey    string // Used to lookup the right provider
}

func getCalendarsFromDB(db *sql.DB) (map[string][]CalendarInfo, error) {
	calendars := make(map[string][]CalendarInfo)

	rows, err := db.Query(`SELECT account_name, calendar_id, provider_type, provider_config, item_kind
		FROM calendars ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("error querying calendars: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var info CalendarInfo
		var kind string
		if err := rows.Scan(&info.AccountName, &info.ID, &info.ProviderType, &info.ProviderConfig, &kind); err != nil {
			return nil, fmt.Errorf("error scanning calendar row: %w", err)
		}
		if info.ProviderType == "" {
			info.ProviderType = "google"
		}
		info.Kind = ItemKind(kind)
		if info.Kind == "" {
			info.Kind = KindEvent
		}
		calendars[info.AccountName] = append(calendars[info.AccountName], info)
	}
	return calendars, rows.Err()
}

func addCalendarToDB(db *sql.DB, info CalendarInfo) error {
	_, err := db.Exec(`INSERT INTO calendars (account_name, calendar_id, provider_type, provider_config, item_kind)
		VALUES (?, ?, ?, ?, ?)`,
		info.AccountName, info.ID, info.ProviderType, info.ProviderConfig, string(info.Kind))
	if err != nil {
		return fmt.Errorf("error saving calendar %s: %w", info.ID, err)
	}
	return nil
}

// findCalendar picks the first registered calendar holding items of the
// given kind. Empty account or calendarID match any.
func findCalendar(db *sql.DB, kind ItemKind, accountName, calendarID string) (*CalendarInfo, error) {
	var info CalendarInfo
	var itemKind string
	err := db.QueryRow(`SELECT account_name, calendar_id, provider_type, provider_config, item_kind
		FROM calendars
		WHERE item_kind = ? AND (? = '' OR account_name = ?) AND (? = '' OR calendar_id = ?)
		ORDER BY rowid LIMIT 1`,
		string(kind), accountName, accountName, calendarID, calendarID,
	).Scan(&info.AccountName, &info.ID, &info.ProviderType, &info.ProviderConfig, &itemKind)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no %s calendar registered, run 'gcalquick add' first", kind.label())
	}
	if err != nil {
		return nil, fmt.Errorf("error looking up calendar: %w", err)
	}
	info.Kind = ItemKind(itemKind)
	if info.ProviderType == "" {
		info.ProviderType = "google"
	}
	return &info, nil
}

func deleteCalendarFromDB(db *sql.DB, accountName, calendarID string) (int64, error) {
	res, err := db.Exec(`DELETE FROM calendars WHERE account_name = ? AND calendar_id = ?`, accountName, calendarID)
	if err != nil {
		return 0, fmt.Errorf("error deleting calendar %s: %w", calendarID, err)
	}
	return res.RowsAffected()
}

type CreatedItem struct {
	ID          string
	CalendarID  string
	AccountName string
	Kind        ItemKind
	Summary     string
	Start       time.Time
	Finish      time.Time
	AllDay      bool
	CreatedAt   time.Time
}

func saveCreatedItem(db *sql.DB, item CreatedItem) error {
	_, err := db.Exec(`INSERT OR REPLACE INTO created_items
		(item_id, calendar_id, account_name, kind, summary, start, finish, all_day, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.CalendarID, item.AccountName, string(item.Kind), item.Summary,
		formatStoredTime(item.Start), formatStoredTime(item.Finish), item.AllDay,
		formatStoredTime(item.CreatedAt))
	if err != nil {
		return fmt.Errorf("error saving created item %s: %w", item.ID, err)
	}
	return nil
}

const createdItemColumns = `item_id, calendar_id, account_name, kind, summary, start, finish, all_day, created_at`

func listCreatedItems(db *sql.DB) ([]CreatedItem, error) {
	rows, err := db.Query(`SELECT ` + createdItemColumns + ` FROM created_items ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("error querying created items: %w", err)
	}
	defer rows.Close()

	var items []CreatedItem
	for rows.Next() {
		item, err := scanCreatedItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// getCreatedItem returns an error wrapping sql.ErrNoRows for unknown IDs.
func getCreatedItem(db *sql.DB, itemID string) (*CreatedItem, error) {
	row := db.QueryRow(`SELECT `+createdItemColumns+` FROM created_items WHERE item_id = ?`, itemID)
	item, err := scanCreatedItem(row)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func deleteCreatedItem(db *sql.DB, calendarID, itemID string) error {
	_, err := db.Exec(`DELETE FROM created_items WHERE calendar_id = ? AND item_id = ?`, calendarID, itemID)
	if err != nil {
		return fmt.Errorf("error deleting created item %s: %w", itemID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCreatedItem(row rowScanner) (*CreatedItem, error) {
	var item CreatedItem
	var kind, start, finish, createdAt string
	err := row.Scan(&item.ID, &item.CalendarID, &item.AccountName, &kind, &item.Summary,
		&start, &finish, &item.AllDay, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("error scanning created item: %w", err)
	}
	item.Kind = ItemKind(kind)
	item.Start = parseStoredTime(start)
	item.Finish = parseStoredTime(finish)
	item.CreatedAt = parseStoredTime(createdAt)
	return &item, nil
}

func formatStoredTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseStoredTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func saveToken(db *sql.DB, accountName string, token *oauth2.Token) error {
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return err
	}

	_, err = db.Exec("INSERT OR REPLACE INTO tokens (account_name, token) VALUES (?, ?)", accountName, tokenJSON)
	return err
}

// loadToken returns an error wrapping sql.ErrNoRows when the account has
// never been authorised.
func loadToken(db *sql.DB, accountName string) (*oauth2.Token, error) {
	var tokenJSON []byte
	err := db.QueryRow("SELECT token FROM tokens WHERE account_name = ?", accountName).Scan(&tokenJSON)
	if err != nil {
		return nil, fmt.Errorf("error loading token for %s: %w", accountName, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("error unmarshaling token: %w", err)
	}
	return &token, nil
}
