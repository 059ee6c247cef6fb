// Package cli wires the extraction pipelines to a command-line interface
// using the Cobra library.
package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rmetl",
		Short: "rmetl - extract Rick and Morty data into bulk-loadable TSV tables",
		Long: `rmetl pages through the remote character collection and reads the local
location and episode snapshots, flattening them into tab-separated tables
(characters, character_episode_join, locations, episodes) ready for bulk loading.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewExtractCmd())

	return rootCmd
}
