package main

import (
	"fmt"
	"log"
	"os"
)

const usage = "Usage: gcalquick (add|remove|event|todo|parse|list|delete|cleanup)"

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}
	command, args := os.Args[1], os.Args[2:]

	config, err := readConfig(configFileName)
	if err != nil {
		if command != "parse" {
			log.Fatalf("Error reading config file: %v", err)
		}
		// parsing phrases works without a config file
		if config, err = parseConfig(nil); err != nil {
			log.Fatalf("Error reading config file: %v", err)
		}
	}
	initOAuthConfig(config)

	switch command {
	case "add":
		addCalendar(config)
	case "remove":
		removeCalendar(config)
	case "event":
		createItem(config, KindEvent, args)
	case "todo":
		createItem(config, KindTodo, args)
	case "parse":
		parsePhrase(config, args)
	case "list":
		listItems()
	case "delete":
		itemID := ""
		if len(args) > 0 {
			itemID = args[0]
		}
		deleteItem(config, itemID)
	case "cleanup":
		cleanupItems(config)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}
}
