package main

import (
	"claw-manager/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// claw-manager is a companion tool for the openclaw command-line program that:
//   - Locates the openclaw executable across npm prefixes, version managers and bundled runtimes
//   - Runs openclaw and parses its mixed human/JSON output into structured results
//   - Reconciles per-channel status (enabled, configured, linked) and sends test messages
//   - Runs diagnostics for the CLI, Node.js and the CLI configuration file
//   - Unpacks bundled offline runtimes (Node.js, Git, the CLI package) on demand
//
// Error handling strategy:
//   - Parsing never fails: an absent structure is reported as "not found"
//   - Process and filesystem failures are returned as wrapped errors and printed by the command layer
//   - Fatal command errors exit with a non-zero status
func main() {
	cmd.Execute()
}
