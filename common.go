package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bobuk/gcalquick/datetime"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/tasks/v1"
)

const (
	configFileName = ".gcalquick.toml"
	dbFileName     = ".gcalquick.db"
)

type Config struct {
	ClientID     string                  `toml:"client_id"`
	ClientSecret string                  `toml:"client_secret"`
	General      GeneralConfig           `toml:"general"`
	Parser       ParserConfig            `toml:"parser"`
	CalDAVs      map[string]CalDAVConfig `toml:"caldavs"`
}

type GeneralConfig struct {
	DisableReminders bool   `toml:"disable_reminders"`
	VerbosityLevel   int    `toml:"verbosity_level"`
	Timezone         string `toml:"timezone"`
	DefaultDuration  string `toml:"default_duration"`
	EventKeyword     string `toml:"event_keyword"`
	TodoKeyword      string `toml:"todo_keyword"`
}

type ParserConfig struct {
	TimeFormats []string          `toml:"time_formats"`
	DateFormats []string          `toml:"date_formats"`
	Keywords    datetime.Keywords `toml:"keywords"`
}

type CalDAVConfig struct {
	Name      string `toml:"name"`
	ServerURL string `toml:"server_url"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

var oauthConfig *oauth2.Config
var configDir string
var verbosityLevel int

func initOAuthConfig(config *Config) {
	oauthConfig = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{calendar.CalendarScope, tasks.TasksScope},
	}
}

func readConfig(filename string) (*Config, error) {
	// Try first current dir, then `$HOME/.config/gcalquick/`
	data, err := os.ReadFile(filename)
	if err != nil {
		data, err = os.ReadFile(os.Getenv("HOME") + "/.config/gcalquick/" + filename)
		if err != nil {
			return nil, err
		}
		configDir = os.Getenv("HOME") + "/.config/gcalquick/"
	}

	config, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	verbosityLevel = config.General.VerbosityLevel

	return config, nil
}

func parseConfig(data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if config.General.EventKeyword == "" {
		config.General.EventKeyword = "event"
	}
	if config.General.TodoKeyword == "" {
		config.General.TodoKeyword = "todo"
	}
	if config.General.DefaultDuration == "" {
		config.General.DefaultDuration = "1h"
	}
	return &config, nil
}

func (c *Config) location() (*time.Location, error) {
	if c.General.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.General.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.General.Timezone, err)
	}
	return loc, nil
}

func (c *Config) defaultDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.General.DefaultDuration)
	if err != nil {
		return 0, fmt.Errorf("invalid default_duration %q: %w", c.General.DefaultDuration, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("default_duration must be positive, got %s", d)
	}
	return d, nil
}

// newParser builds the phrase parser from the [parser] section. The
// built-in formats always come first.
func (c *Config) newParser(opts ...datetime.Option) (*datetime.Parser, error) {
	loc, err := c.location()
	if err != nil {
		return nil, err
	}
	opts = append([]datetime.Option{
		datetime.WithLocation(loc),
		datetime.WithKeywords(c.Parser.Keywords),
		datetime.WithTimeFormats(c.Parser.TimeFormats...),
		datetime.WithDateFormats(c.Parser.DateFormats...),
	}, opts...)
	return datetime.NewParser(opts...), nil
}

func openDB(filename string) (*sql.DB, error) {
	// Try first the same dir, where the config file was found
	db, err := sql.Open("sqlite3", configDir+filename)
	if err != nil {
		// Try the current dir
		db, err = sql.Open("sqlite3", filename)
		if err != nil {
			return nil, err
		}
	}
	if err := dbInit(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func getTokenFromWeb(config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}

	tok, err := config.Exchange(context.TODO(), authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

func newTokenFromWeb(db *sql.DB, config *oauth2.Config, accountName string) (*oauth2.Token, error) {
	token, err := getTokenFromWeb(config)
	if err != nil {
		return nil, err
	}
	if err := saveToken(db, accountName, token); err != nil {
		log.Printf("Warning: failed to save token for account %s: %v", accountName, err)
	}
	return token, nil
}

func getClient(ctx context.Context, config *oauth2.Config, db *sql.DB, accountName string) (*http.Client, error) {
	token, err := loadToken(db, accountName)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("error retrieving token from database: %w", err)
		}
		fmt.Printf("  ❗️ No token found for account %s. Obtaining a new token.\n", accountName)
		token, err = newTokenFromWeb(db, config, accountName)
		if err != nil {
			return nil, err
		}
		return config.Client(ctx, token), nil
	}

	newToken, err := config.TokenSource(ctx, token).Token()
	if err != nil {
		if !strings.Contains(err.Error(), "Token has been expired or revoked") {
			return nil, fmt.Errorf("error retrieving token from token source: %w", err)
		}
		fmt.Printf("  ❗️ Token expired or revoked for account %s. Obtaining a new token.\n", accountName)
		newToken, err = newTokenFromWeb(db, config, accountName)
		if err != nil {
			return nil, err
		}
		return config.Client(ctx, newToken), nil
	}

	if newToken.AccessToken != token.AccessToken {
		printVerbosely(3, "Token refreshed for account %s.\n", accountName)
		if err := saveToken(db, accountName, newToken); err != nil {
			log.Printf("Warning: failed to save refreshed token for account %s: %v", accountName, err)
		}
	}

	return config.Client(ctx, newToken), nil
}

func printVerbosely(verbosity int, format string, a ...interface{}) {
	// Print only if verbosity is higher than verbosityLevel
	// verbosityLevel is set in the config file
	// 0 - no output, other than critical errors
	// 1 - only the created item
	// 2 - parsed ranges
	// 3 - token and provider setup
	// 4 - calendar lookups
	// 5 - report everything
	if verbosity <= verbosityLevel {
		fmt.Printf(format, a...)
	}
}
