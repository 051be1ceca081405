package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toozej/punchcard/internal/app"
)

var demoPunches int

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk a card through punching, remasking, merging and redemption",
	Args:  cobra.NoArgs,
	Run:   runDemoCommand,
}

func init() {
	demoCmd.Flags().IntVarP(&demoPunches, "punches", "n", 3, "Number of punches before redemption")
	rootCmd.AddCommand(demoCmd)
}

func runDemoCommand(cmd *cobra.Command, args []string) {
	if err := app.Demo(cmd.Context(), cmd.OutOrStdout(), demoPunches, conf.StoreDSN); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
