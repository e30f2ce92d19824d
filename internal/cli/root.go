// Package cli implements the negotiator command line interface.
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/challengegame/negotiator/internal/cli.version=1.2.3"
	version = "0.4.0"
	logo    = "\n" +
		"                       _   _       _\n" +
		"  _ __   ___  __ _  __| | (_) __ _| |_ ___  _ __\n" +
		" | '_ \\ / _ \\/ _` |/ _ \\ | |/ _` | __/ _ \\| '__|\n" +
		" | | | |  __/ (_| | (_) || | (_| | || (_) | |\n" +
		" |_| |_|\\___|\\__, |\\___/ |_|\\__,_|\\__\\___/|_|\n" +
		"             |___/\n"
)

var rootCmd = &cobra.Command{
	Use:   "negotiator",
	Short: "negotiator - Stakeholder negotiation simulator",
	Long:  color.CyanString(logo) + "\nTurn-based stakeholder negotiation over refugee-education policy packages.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(playCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("negotiator " + version)
	},
}
