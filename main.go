package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/yiblet/clipd/internal/cli"
	"github.com/yiblet/clipd/internal/logging"
)

func main() {
	// Parse command-line arguments
	var args cli.Args
	parser := arg.MustParse(&args)

	logging.Setup(logging.ParseFormat(args.LogFormat), logging.ParseLevel(args.LogLevel))

	// If no subcommand provided, default to showing the history list
	if parser.Subcommand() == nil {
		args.List = &cli.ListCmd{}
	}

	// Create CLI instance with args for data directory support
	cliHandler, err := cli.NewWithArgs(&args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Execute the command
	if err := cliHandler.Execute(&args); err != nil {
		cliHandler.Close()
		fmt.Printf("Error: %v\n", err)

		// If it's an argument validation error, show usage
		if parser.Subcommand() != nil {
			fmt.Println()
			parser.WriteUsage(os.Stderr)
		}
		os.Exit(1)
	}

	// Flush pending writes before exit
	if err := cliHandler.Close(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
