// Package main provides the entry point for the punchcard application.
//
// Starting the application invokes the native punch card routine once and
// displays the text it returns.
package main

import cmd "github.com/toozej/punchcard/cmd/punchcard"

// main is the entry point of the punchcard application.
// It delegates execution to the cmd package which handles all
// command-line interface functionality.
func main() {
	cmd.Execute()
}
