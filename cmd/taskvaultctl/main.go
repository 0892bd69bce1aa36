package main

import (
	"flag"
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cli := NewCLI()
	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "records":
		NewRecordCommands(cli).Handle(args)
	case "health":
		handleHealth(cli, args)
	case "version":
		fmt.Printf("taskvaultctl version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleHealth(cli *CLI, args []string) {
	config, remaining, err := cli.ParseGlobalFlags(args, "health")
	if err == flag.ErrHelp {
		cli.Println("Usage: taskvaultctl health [options]")
		return
	}
	cli.HandleError(err, "parsing flags")
	cli.ValidateExactArgs(remaining, 0, "Usage: taskvaultctl health")

	client := cli.CreateClient(config)
	status, err := client.Health()
	if err != nil {
		cli.ExitError("Server health: %s (%v)\n", status, err)
		return
	}
	cli.Printf("Server health: %s\n", status)
}

func printUsage() {
	fmt.Println("taskvaultctl - taskvault CLI Tool")
	fmt.Println()
	fmt.Println("Usage: taskvaultctl <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  records <subcommand>   Record operations")
	fmt.Println("    list                 List all records")
	fmt.Println("    add '<json>'         Append a record")
	fmt.Println("    update '<json>'      Merge fields into the record named by id")
	fmt.Println("    delete <id>          Delete a record by id")
	fmt.Println()
	fmt.Println("  health                 Check server health")
	fmt.Println("  version                Show version")
	fmt.Println("  help                   Show this help")
	fmt.Println()
	fmt.Println("Global Options:")
	fmt.Println("  --server <url>         taskvault server URL (default: http://localhost:8888)")
	fmt.Println("  --resource <name>      record collection name (default: tasks)")
}
