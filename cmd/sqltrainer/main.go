package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A local .env is a convenience, not a requirement.
	_ = godotenv.Load()

	var err error
	switch os.Args[1] {
	case "industries":
		err = cmdIndustries()
	case "train":
		err = cmdTrain(os.Args[2:])
	case "mcp":
		err = cmdMCP()
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("sqltrainer %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`SQL Trainer - practice SQL against generated business questions

Usage:
  sqltrainer <command> [arguments]

Commands:
  industries        List available industry schemas
  train [industry]  Start an interactive practice session
  mcp               Serve the trainer over MCP on stdio
  version           Print version

Configuration (environment or .env):
  LLM_API_KEY        Generative service API key (required for train/mcp)
  LLM_PROVIDER       claude (default) or openai
  LLM_MODEL          Override the provider's default model
  SCHEMAS_PATH       Directory of industry schema YAML files
  PLAYGROUND_DRIVER  sqlite3 or pgx to enable :run against sample data
  PLAYGROUND_DSN     Connection string for the playground database`)
}
