package cli

import (
	"github.com/spf13/cobra"

	"github.com/BartekS5/rmetl/internal/config"
)

type ExtractOptions struct {
	DryRun   bool
	Parallel bool
}

func NewExtractCmd() *cobra.Command {
	opts := &ExtractOptions{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract and normalize source data into TSV tables",
	}

	pf := cmd.PersistentFlags()
	pf.String("api-url", config.DefaultAPIURL, "Base URL of the paged character collection")
	pf.String("start-page", config.DefaultStartPage, "Cursor of the first page to fetch")
	pf.StringP("out-dir", "o", config.DefaultOutDir, "Directory the TSV tables are written to")
	pf.String("locations-json", config.DefaultLocationsJSON, "Path to the locations snapshot")
	pf.String("episodes-json", config.DefaultEpisodesJSON, "Path to the episodes snapshot")
	pf.Duration("http-timeout", 0, "Timeout per page request (0 = none)")
	pf.String("log-file", "", "Also append logs to this file")
	pf.Bool("debug", false, "Log every page request")
	pf.BoolVar(&opts.DryRun, "dry-run", false, "Normalize everything but write no tables")

	characters := &cobra.Command{
		Use:   "characters",
		Short: "Page through the remote collection into characters and character_episode_join",
		RunE: func(c *cobra.Command, args []string) error {
			return runExtract(c, opts, extractCharacters)
		},
	}

	snapshots := &cobra.Command{
		Use:   "snapshots",
		Short: "Convert the local location and episode snapshots into tables",
		RunE: func(c *cobra.Command, args []string) error {
			return runExtract(c, opts, extractSnapshots)
		},
	}

	all := &cobra.Command{
		Use:   "all",
		Short: "Run both the remote and the snapshot extraction",
		RunE: func(c *cobra.Command, args []string) error {
			return runExtract(c, opts, extractCharacters, extractSnapshots)
		},
	}
	all.Flags().BoolVar(&opts.Parallel, "parallel", false, "Run the two flows concurrently (they write disjoint files)")

	cmd.AddCommand(characters, snapshots, all)
	return cmd
}
