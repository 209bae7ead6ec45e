// Command medctl is the maintenance CLI for the medview dashboard.
//
// Usage:
//
//	medctl                  Show help
//	medctl events           Event journal viewer
//	medctl stats            Acquisition and render statistics from the journal
//	medctl export           Fetch a payload and write the charts as PNG
//	medctl prefs            Show or change the stored theme preference
package main

import (
	"fmt"
	"os"
)

const usage = `medctl: medview maintenance CLI

Usage:
  medctl <command> [flags]

Commands:
  events      Event journal viewer
  stats       Acquisition and render statistics from the journal
  export      Fetch a payload (sample or ROA API) and write PNG charts
  prefs       Show or change the stored theme preference

Environment:
  MEDVIEW_BASE_URL    Analytics backend (default: http://localhost:5000)
  MEDVIEW_DATA_DIR    Data directory (default: ~/.medview)
  MEDVIEW_EXPORT_DIR  Chart export directory

Run 'medctl <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	args := os.Args[2:]

	var err error
	switch cmd {
	case "events":
		err = runEvents(args, os.Stdout)
	case "stats":
		err = runStats(args, os.Stdout)
	case "export":
		err = runExport(args, os.Stdout)
	case "prefs":
		err = runPrefs(args, os.Stdout)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
