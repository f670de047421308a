package main

import (
	"context"
	"database/sql"
	"fmt"
)

// CalendarFactory handles creation and caching of calendar providers
type CalendarFactory struct {
	config    *Config
	db        *sql.DB
	ctx       context.Context
	providers map[string]CalendarProvider
}

func NewCalendarFactory(ctx context.Context, config *Config, db *sql.DB) *CalendarFactory {
	return &CalendarFactory{
		config:    config,
		db:        db,
		ctx:       ctx,
		providers: make(map[string]CalendarProvider),
	}
}

// ProviderFor returns the provider serving a registered calendar. One
// provider is created per Google account and per CalDAV server.
func (cf *CalendarFactory) ProviderFor(calInfo *CalendarInfo) (CalendarProvider, error) {
	switch calInfo.ProviderType {
	case "google":
		calInfo.ProviderKey = "google-" + calInfo.AccountName
	case "caldav":
		serverName := calInfo.ProviderConfig
		if serverName == "" || serverName == "default" {
			return nil, fmt.Errorf("calendar %s has no CalDAV server; please remove and re-add this calendar", calInfo.ID)
		}
		calInfo.ProviderKey = "caldav-" + serverName
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", calInfo.ProviderType)
	}

	if provider, ok := cf.providers[calInfo.ProviderKey]; ok {
		return provider, nil
	}

	provider, err := cf.CreateCalendarProvider(calInfo.ProviderType, calInfo.AccountName, calInfo.ProviderConfig)
	if err != nil {
		return nil, err
	}
	printVerbosely(3, "  🔌 Connected %s provider for %s\n", calInfo.ProviderType, calInfo.AccountName)
	cf.providers[calInfo.ProviderKey] = provider
	return provider, nil
}

func (cf *CalendarFactory) CreateCalendarProvider(providerType string, accountName string, serverName string) (CalendarProvider, error) {
	switch providerType {
	case "google":
		client, err := getClient(cf.ctx, oauthConfig, cf.db, accountName)
		if err != nil {
			return nil, err
		}
		return NewGoogleCalendarProvider(cf.ctx, client, cf.config.General.DisableReminders)

	case "caldav":
		if serverName == "" || serverName == "default" {
			return nil, fmt.Errorf("no server name provided for CalDAV provider")
		}

		serverConfig, ok := cf.config.CalDAVs[serverName]
		if !ok {
			return nil, fmt.Errorf("CalDAV server '%s' not found in configuration", serverName)
		}

		provider, err := NewCalDAVProvider(cf.ctx, serverConfig.ServerURL, serverConfig.Username, serverConfig.Password)
		if err != nil {
			return nil, fmt.Errorf("error connecting to CalDAV server %s: %w", serverName, err)
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// ValidateCalendarAccess checks if the calendar is accessible and holds the
// given kind of items.
func (cf *CalendarFactory) ValidateCalendarAccess(provider CalendarProvider, calendarID string, kind ItemKind) error {
	return provider.GetCalendar(calendarID, kind)
}
