package main

import (
	"encoding/json"
	"flag"
)

// RecordCommands handles all record store related commands
type RecordCommands struct {
	cli *CLI
}

// NewRecordCommands creates a new record commands handler
func NewRecordCommands(cli *CLI) *RecordCommands {
	return &RecordCommands{cli: cli}
}

// Handle routes record subcommands
func (r *RecordCommands) Handle(args []string) {
	if len(args) == 0 {
		r.cli.Errorln("records subcommand required")
		r.cli.Errorln("Usage: taskvaultctl records <list|add|update|delete> [options]")
		r.cli.Exit(1)
		return
	}

	subcommand := args[0]
	subArgs := args[1:]

	switch subcommand {
	case "list":
		r.List(subArgs)
	case "add":
		r.Add(subArgs)
	case "update":
		r.Update(subArgs)
	case "delete":
		r.Delete(subArgs)
	default:
		r.cli.Errorf("Unknown records subcommand: %s\n", subcommand)
		r.cli.Errorln("Available: list, add, update, delete")
		r.cli.Exit(1)
	}
}

// List prints the full record collection
func (r *RecordCommands) List(args []string) {
	config, remaining, err := r.cli.ParseGlobalFlags(args, "list")
	if err == flag.ErrHelp {
		r.cli.Println("Usage: taskvaultctl records list [options]")
		return
	}
	r.cli.HandleError(err, "parsing flags")
	r.cli.ValidateExactArgs(remaining, 0, "Usage: taskvaultctl records list")

	client := r.cli.CreateClient(config)
	records, err := client.ListRecords()
	r.cli.HandleError(err, "listing records")

	out, err := json.MarshalIndent(records, "", "  ")
	r.cli.HandleError(err, "formatting records")
	r.cli.Println(string(out))
}

// Add appends a record given as a JSON object
func (r *RecordCommands) Add(args []string) {
	config, remaining, err := r.cli.ParseGlobalFlags(args, "add")
	if err == flag.ErrHelp {
		r.cli.Println("Usage: taskvaultctl records add '<json object>' [options]")
		return
	}
	r.cli.HandleError(err, "parsing flags")
	r.cli.ValidateExactArgs(remaining, 1, "Usage: taskvaultctl records add '<json object>'")

	client := r.cli.CreateClient(config)
	err = client.AddRecord(remaining[0])
	r.cli.HandleError(err, "adding record")
	r.cli.Println("Record added")
}

// Update merges fields into the record named by the payload's id
func (r *RecordCommands) Update(args []string) {
	config, remaining, err := r.cli.ParseGlobalFlags(args, "update")
	if err == flag.ErrHelp {
		r.cli.Println("Usage: taskvaultctl records update '<json object with id>' [options]")
		return
	}
	r.cli.HandleError(err, "parsing flags")
	r.cli.ValidateExactArgs(remaining, 1, "Usage: taskvaultctl records update '<json object with id>'")

	client := r.cli.CreateClient(config)
	err = client.UpdateRecord(remaining[0])
	r.cli.HandleError(err, "updating record")
	r.cli.Println("Record updated")
}

// Delete removes a record by id
func (r *RecordCommands) Delete(args []string) {
	config, remaining, err := r.cli.ParseGlobalFlags(args, "delete")
	if err == flag.ErrHelp {
		r.cli.Println("Usage: taskvaultctl records delete <id> [options]")
		return
	}
	r.cli.HandleError(err, "parsing flags")
	r.cli.ValidateExactArgs(remaining, 1, "Usage: taskvaultctl records delete <id>")

	client := r.cli.CreateClient(config)
	err = client.DeleteRecord(remaining[0])
	r.cli.HandleError(err, "deleting record")
	r.cli.Println("Record deleted")
}
