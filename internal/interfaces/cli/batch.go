package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nyayatech/BareAct-Intelligence/internal/application/ingestion"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

var (
	batchWorkers int
	batchOut     string
)

// newBatchCmd creates the batch command: ingest every source document under
// a directory.
func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Ingest every bare act found under a directory",
		Long: `Scan a directory tree for source documents (.pdf, .txt, .text), then run the
full ingest pipeline over them with a bounded worker pool. One failing
document never aborts the batch; failures are collected and reported at the
end, and the command exits non-zero when any document failed.`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}

	cmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent documents (default from config)")
	cmd.Flags().StringVar(&batchOut, "out", "", "directory to additionally write parsed JSON into")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if batchWorkers > 0 {
		cliCtx.Config.Ingest.Workers = batchWorkers
	}
	if batchOut != "" {
		cliCtx.Config.Ingest.OutputDir = batchOut
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	svc, infra, err := buildPipeline(ctx, cliCtx.Config, cliCtx.Logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	res, runErr := svc.IngestDirectory(ctx, args[0])
	if res != nil {
		if printErr := PrintResult(cmd, batchReport{res}); printErr != nil {
			return printErr
		}
	}
	if runErr != nil {
		return runErr
	}

	if res.Failed() > 0 {
		return errors.New(errors.ErrCodeIngestRunFailed,
			fmt.Sprintf("%d of %d documents failed", res.Failed(), res.Scanned))
	}
	return nil
}

// batchReport wraps a batch result for CLI rendering.
type batchReport struct {
	*ingestion.BatchResult
}

func (r batchReport) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Batch ingest finished in %s\n", r.Duration.Round(time.Millisecond))
	fmt.Fprintf(&sb, "  scanned:  %d\n", r.Scanned)
	fmt.Fprintf(&sb, "  ingested: %d\n", r.Ingested)
	fmt.Fprintf(&sb, "  skipped:  %d\n", r.Skipped)
	fmt.Fprintf(&sb, "  failed:   %d", r.Failed())

	if len(r.Failures) > 0 {
		sb.WriteString("\n\nFailures:")
		for _, f := range r.Failures {
			fmt.Fprintf(&sb, "\n  %s: %s", f.SourceFile, f.Reason)
		}
	}

	return sb.String()
}

func (r batchReport) TableHeaders() []string {
	return []string{"SOURCE", "DOCUMENT", "OUTCOME", "METHOD", "SECTIONS"}
}

func (r batchReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Documents)+len(r.Failures))
	for _, d := range r.Documents {
		outcome := d.Outcome
		if d.SkipReason != "" {
			outcome = fmt.Sprintf("%s (%s)", d.Outcome, d.SkipReason)
		}
		rows = append(rows, []string{
			d.SourceFile,
			d.DocumentID,
			outcome,
			d.Method,
			fmt.Sprintf("%d", d.Sections),
		})
	}
	for _, f := range r.Failures {
		rows = append(rows, []string{f.SourceFile, "", "failed: " + f.Reason, "", ""})
	}
	return rows
}
