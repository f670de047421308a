package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
)

func addCalendar(config *Config) {
	db, err := openDB(dbFileName)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("🚀 Starting calendar addition...")
	fmt.Print("👤 Enter account name: ")
	accountName := readLine(reader)

	fmt.Print("🔄 Enter provider type (google or caldav): ")
	providerType := strings.ToLower(readLine(reader))

	fmt.Print("🗂  Enter item kind (event or todo): ")
	kind, err := parseItemKind(strings.ToLower(readLine(reader)))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if providerType == "google" && kind == KindTodo {
		fmt.Print("📅 Enter task list ID: ")
	} else {
		fmt.Print("📅 Enter calendar ID or URL: ")
	}
	calendarID := readLine(reader)

	calendarFactory := NewCalendarFactory(context.Background(), config, db)
	var providerConfig string

	switch providerType {
	case "google":
		provider, err := calendarFactory.CreateCalendarProvider(providerType, accountName, "")
		if err != nil {
			log.Fatalf("Error creating Google calendar provider: %v", err)
		}

		err = calendarFactory.ValidateCalendarAccess(provider, calendarID, kind)
		if err != nil {
			log.Fatalf("Error retrieving Google calendar: %v", err)
		}

	case "caldav":
		if len(config.CalDAVs) == 0 {
			log.Fatalf("Error: No CalDAV server configurations found in %s", configFileName)
		}

		servers := caldavServerNames(config)
		fmt.Println("Available CalDAV servers:")
		for i, name := range servers {
			server := config.CalDAVs[name]
			displayName := name
			if server.Name != "" {
				displayName = server.Name
			}
			fmt.Printf("  %d: %s (%s)\n", i, displayName, server.ServerURL)
		}

		fmt.Print("Enter server number: ")
		var serverIndex int
		if _, err := fmt.Sscan(readLine(reader), &serverIndex); err != nil || serverIndex < 0 || serverIndex >= len(servers) {
			log.Fatalf("Error: Invalid server selection")
		}

		serverName := servers[serverIndex]
		fmt.Printf("Using CalDAV server: %s\n", config.CalDAVs[serverName].ServerURL)

		provider, err := calendarFactory.CreateCalendarProvider(providerType, accountName, serverName)
		if err != nil {
			log.Fatalf("Error creating CalDAV provider: %v", err)
		}

		err = calendarFactory.ValidateCalendarAccess(provider, calendarID, kind)
		if err != nil {
			log.Fatalf("Error retrieving CalDAV calendar: %v", err)
		}

		providerConfig = serverName

	default:
		log.Fatalf("Error: Unsupported provider type: %s (must be 'google' or 'caldav')", providerType)
	}

	err = addCalendarToDB(db, CalendarInfo{
		AccountName:    accountName,
		ID:             calendarID,
		ProviderType:   providerType,
		ProviderConfig: providerConfig,
		Kind:           kind,
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("✅ %s calendar %s added for %ss of account %s\n",
		strings.ToUpper(providerType), calendarID, kind.label(), accountName)
}

// caldavServerNames returns the configured server keys in a stable order.
func caldavServerNames(config *Config) []string {
	servers := make([]string, 0, len(config.CalDAVs))
	for name := range config.CalDAVs {
		servers = append(servers, name)
	}
	sort.Strings(servers)
	return servers
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
