package cli

import (
	"context"
	stdliberrors "errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nyayatech/BareAct-Intelligence/internal/application/ingestion"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

var (
	watchDir   string
	watchSweep bool
)

// newWatchCmd creates the watch command: monitor a drop directory and ingest
// documents as they arrive.
func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a drop directory and ingest documents as they arrive",
		Long: `Run the ingest pipeline in the foreground against a drop directory. New and
rewritten source documents are picked up after a debounce delay so partially
copied files are not parsed mid-write. Interrupt with Ctrl-C to stop; for a
supervised deployment use the worker daemon instead.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}

	cmd.Flags().StringVar(&watchDir, "dir", "", "drop directory to watch (default from config)")
	cmd.Flags().BoolVar(&watchSweep, "sweep", false, "ingest documents already in the directory before watching")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := cliCtx.Config
	if watchDir != "" {
		cfg.Ingest.WatchDir = watchDir
	}
	if cfg.Ingest.WatchDir == "" {
		return errors.New(errors.ErrCodeConfigInvalid,
			"no watch directory configured (set ingest.watch_dir or --dir)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, infra, err := buildPipeline(ctx, cfg, cliCtx.Logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	if err := svc.Prepare(ctx); err != nil {
		return err
	}

	if watchSweep {
		res, err := svc.IngestDirectory(ctx, cfg.Ingest.WatchDir)
		if res != nil {
			if printErr := PrintResult(cmd, batchReport{res}); printErr != nil {
				return printErr
			}
		}
		if err != nil {
			return err
		}
	}

	watcher := ingestion.NewWatcher(svc, cfg.Ingest, nil, cliCtx.Logger)
	if err := watcher.Run(ctx); err != nil && !stdliberrors.Is(err, context.Canceled) {
		return err
	}

	PrintSuccess(cmd, "watcher stopped")
	return nil
}
