// Package cmd provides command-line interface functionality for the punchcard application.
//
// This package implements the root command and manages the command-line interface
// using the cobra library. It handles configuration, logging setup, and command
// execution for the punchcard application.
//
// Running the root command is the application startup: the native routine is
// invoked exactly once and its result is written verbatim to the display
// surface (stdout, or the file given by --output).
//
// The package integrates with several components:
//   - Configuration management through pkg/config
//   - The startup path through internal/shell and internal/native
//   - Manual pages through pkg/man
//   - Version information through pkg/version
//
// Example usage:
//
//	import "github.com/toozej/punchcard/cmd/punchcard"
//
//	func main() {
//		cmd.Execute()
//	}
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/toozej/punchcard/internal/greeting"
	"github.com/toozej/punchcard/internal/native"
	"github.com/toozej/punchcard/internal/shell"
	"github.com/toozej/punchcard/pkg/config"
	"github.com/toozej/punchcard/pkg/man"
	"github.com/toozej/punchcard/pkg/version"
)

// conf holds the application configuration loaded from environment variables.
// It is populated during package initialization and can be modified by command-line flags.
var (
	conf config.Config
	// debug controls the logging level for the application.
	// When true, debug-level logging is enabled through logrus.
	debug bool
)

// rootCmd defines the base command for the punchcard CLI application.
//
// The command accepts no positional arguments. Its Run is the startup
// trigger: it invokes the native greeting provider once and displays the
// result.
var rootCmd = &cobra.Command{
	Use:              "punchcard",
	Short:            "Anonymous punch card benchmark",
	Long:             `Runs the native punch card routine once and displays its result, using cobra, logrus, dotenv and env modules`,
	Args:             cobra.ExactArgs(0),
	PersistentPreRun: rootCmdPreRun,
	Run:              rootCmdRun,
}

// rootCmdRun is the main execution function for the root command.
//
// Parameters:
//   - cmd: The cobra command being executed
//   - args: Command-line arguments (unused, as root command takes no args)
func rootCmdRun(cmd *cobra.Command, args []string) {
	shell.New(newProvider(), newDisplay(cmd)).Start()
}

// newProvider selects the stub when one is configured and the native
// benchmark otherwise.
func newProvider() greeting.Provider {
	if conf.Stub != "" {
		log.Debug("using stub provider")
		return greeting.Stub(conf.Stub)
	}
	return native.New(native.Options{
		Fs:          afero.NewOsFs(),
		ProfilePath: conf.Profile,
		StoreDSN:    conf.StoreDSN,
		Placeholder: conf.Placeholder,
	})
}

func newDisplay(cmd *cobra.Command) shell.Display {
	if conf.Output != "" {
		return shell.FileField{Fs: afero.NewOsFs(), Path: conf.Output}
	}
	return shell.WriterField{W: cmd.OutOrStdout()}
}

// rootCmdPreRun performs setup operations before executing the root command.
// This function is called before both the root command and any subcommands.
//
// It configures the logging level based on the debug flag. When debug mode
// is enabled, logrus is set to DebugLevel for detailed logging output.
//
// Parameters:
//   - cmd: The cobra command being executed
//   - args: Command-line arguments
func rootCmdPreRun(cmd *cobra.Command, args []string) {
	if debug {
		log.SetLevel(log.DebugLevel)
	}
}

// Execute starts the command-line interface execution.
// This is the main entry point called from main.go to begin command processing.
//
// If command execution fails, it prints the error message to stdout and
// exits the program with status code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

// init initializes the command-line interface during package loading.
//
// This function performs the following setup operations:
//   - Loads configuration from environment variables using config.GetEnvVars()
//   - Defines persistent flags that are available to all commands
//   - Sets up command-specific flags for the root command
//   - Registers subcommands (man pages and version information)
func init() {
	// get configuration from environment variables
	conf = config.GetEnvVars()

	// create rootCmd-level flags
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug-level logging")
	rootCmd.PersistentFlags().StringVarP(&conf.Profile, "profile", "p", conf.Profile, "Benchmark profile file (.yaml, .yml or .hcl)")
	rootCmd.PersistentFlags().StringVar(&conf.StoreDSN, "store", conf.StoreDSN, "SQLite DSN for the redeemed-card store (default in-memory)")
	rootCmd.PersistentFlags().StringVarP(&conf.Output, "output", "o", conf.Output, "Write the result to this file instead of stdout")

	// optional flags for the startup path, override env vars
	rootCmd.Flags().StringVar(&conf.Placeholder, "placeholder", conf.Placeholder, "Text displayed when the native routine fails")
	rootCmd.Flags().StringVar(&conf.Stub, "stub", conf.Stub, "Replace the native routine with a stub returning this text")

	// add sub-commands
	rootCmd.AddCommand(
		man.NewManCmd(),
		version.Command(),
	)
}
