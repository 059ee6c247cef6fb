package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/BartekS5/rmetl/internal/config"
	"github.com/BartekS5/rmetl/internal/etl"
	"github.com/BartekS5/rmetl/pkg/logger"
	"github.com/BartekS5/rmetl/pkg/models"
	"github.com/BartekS5/rmetl/pkg/source"
)

// flow is one independent extraction writing its own set of tables.
type flow func(ctx context.Context, cfg *config.Config, dryRun bool) error

func runExtract(c *cobra.Command, opts *ExtractOptions, flows ...flow) error {
	v := config.New()
	if err := config.BindFlags(v, c.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := logger.INFO
	if cfg.Debug {
		level = logger.DEBUG
	}
	if err := logger.InitLogger(cfg.LogFile, level); err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logger.Close()

	runID := uuid.NewString()
	logger.SetRunID(runID)
	logger.Infof("Starting run %s (%s) into %s", runID, c.CommandPath(), cfg.OutDir)
	if opts.DryRun {
		logger.Infof("[DRY RUN] tables will not be written")
	}

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Parallel && len(flows) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for _, f := range flows {
			g.Go(func() error { return f(gctx, cfg, opts.DryRun) })
		}
		err = g.Wait()
	} else {
		for _, f := range flows {
			if err = f(ctx, cfg, opts.DryRun); err != nil {
				break
			}
		}
	}

	if err != nil {
		logger.Errorf("Run %s failed: %v", runID, err)
		return err
	}
	logger.Infof("Run %s finished successfully.", runID)
	return nil
}

func extractCharacters(ctx context.Context, cfg *config.Config, dryRun bool) (err error) {
	rows, err := openTable(cfg.OutDir, models.CharacterTable.File, models.CharacterTable.Header(), dryRun)
	if err != nil {
		return err
	}
	defer closeTable(rows, &err)

	joins, err := openTable(cfg.OutDir, models.CharacterEpisodeTable.File, models.CharacterEpisodeTable.Header(), dryRun)
	if err != nil {
		return err
	}
	defer closeTable(joins, &err)

	ext := etl.NewAPIExtractor(source.NewHTTPClient(cfg.HTTPTimeout), cfg.APIURL)
	pipeline := etl.NewPipeline(models.CharacterTable.Name,
		etl.NewPaginator(ext, cfg.StartPage), etl.NewCharacterNormalizer(), rows, joins)

	stats, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("characters: %w", err)
	}
	logger.Infof("characters: %d pages, %d rows -> %s, %d rows -> %s (%s)",
		stats.Pages, stats.Rows, models.CharacterTable.File, stats.JoinRows, models.CharacterEpisodeTable.File,
		formatDuration(stats.Duration))
	return nil
}

func extractSnapshots(ctx context.Context, cfg *config.Config, dryRun bool) error {
	if err := extractSnapshot(ctx, cfg.LocationsJSON, models.LocationTable, cfg.OutDir, dryRun); err != nil {
		return err
	}
	return extractSnapshot(ctx, cfg.EpisodesJSON, models.EpisodeTable, cfg.OutDir, dryRun)
}

func extractSnapshot(ctx context.Context, path string, table models.TableSchema, outDir string, dryRun bool) (err error) {
	rows, err := openTable(outDir, table.File, table.Header(), dryRun)
	if err != nil {
		return err
	}
	defer closeTable(rows, &err)

	pipeline := etl.NewPipeline(table.Name,
		etl.NewPaginator(etl.NewSnapshotExtractor(path), ""), etl.NewFlatNormalizer(table), rows, nil)

	stats, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", table.Name, err)
	}
	logger.Infof("%s: %d rows from %s -> %s", table.Name, stats.Rows, path, table.File)
	return nil
}

func openTable(dir, name string, header []string, dryRun bool) (*etl.TableWriter, error) {
	if dryRun {
		return etl.NewTableWriter(io.Discard, header), nil
	}
	return etl.CreateTable(dir, name, header)
}

// closeTable releases w and reports a close failure unless an earlier error is already set.
func closeTable(w *etl.TableWriter, err *error) {
	if cerr := w.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
