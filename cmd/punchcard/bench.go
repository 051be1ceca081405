package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/toozej/punchcard/internal/app"
	"github.com/toozej/punchcard/internal/native"
)

var benchFormat string

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the punch card benchmark and report failures instead of a placeholder",
	Args:  cobra.NoArgs,
	Run:   runBenchCommand,
}

func init() {
	benchCmd.Flags().StringVarP(&benchFormat, "format", "f", app.FormatText, "Report format (text or yaml)")
	rootCmd.AddCommand(benchCmd)
}

func runBenchCommand(cmd *cobra.Command, args []string) {
	opts := native.Options{
		ProfilePath: conf.Profile,
		StoreDSN:    conf.StoreDSN,
	}

	if err := app.Bench(cmd.Context(), afero.NewOsFs(), cmd.OutOrStdout(), opts, benchFormat, conf.Output); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
