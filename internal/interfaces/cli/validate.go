package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

var (
	validateForceOCR bool
	validateNoOCR    bool
	validateStrict   bool
)

// newValidateCmd creates the validate command: parse one document and report
// the self-validation findings without persisting anything.
func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Parse a bare act and print its validation report",
		Long: `Run the full acquisition and parsing pipeline over a document, then print the
validation report: structure validity, content preservation, entity extraction
and cross-reference accuracy. With --strict the command exits non-zero when
any check fails, which makes it usable as a pre-ingest gate in scripts.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}

	cmd.Flags().BoolVar(&validateForceOCR, "force-ocr", false, "skip pdftotext and extract via OCR")
	cmd.Flags().BoolVar(&validateNoOCR, "no-ocr", false, "disable the OCR fallback for scanned PDFs")
	cmd.Flags().BoolVar(&validateStrict, "strict", false, "exit with an error when validation fails")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if validateForceOCR && validateNoOCR {
		return errors.InvalidParam("--force-ocr and --no-ocr are mutually exclusive")
	}

	cfg := cliCtx.Config
	if validateForceOCR {
		cfg.Acquisition.ForceOCR = true
	}
	if validateNoOCR {
		cfg.Acquisition.DisableOCR = true
	}

	act, _, err := parseDocument(cmd, cliCtx, args[0])
	if err != nil {
		return err
	}

	vr := act.Metadata.Validation
	if vr == nil {
		return errors.Internal("parser produced no validation report")
	}

	switch strings.ToLower(cliCtx.OutputFormat) {
	case "json":
		err = PrintResult(cmd, vr)
	case "table":
		err = PrintResult(cmd, newValidationSummary(vr))
	default:
		err = PrintResult(cmd, vr.Render())
	}
	if err != nil {
		return err
	}

	if validateStrict && !vr.IsValid {
		return errors.New(errors.ErrCodeValidationFailed,
			"document failed validation checks").WithDetail(args[0])
	}
	return nil
}

// validationSummary renders the four validation checks as a table.
type validationSummary struct {
	report *statute.ValidationReport
}

func newValidationSummary(vr *statute.ValidationReport) validationSummary {
	return validationSummary{report: vr}
}

func (v validationSummary) TableHeaders() []string {
	return []string{"CHECK", "RESULT"}
}

func (v validationSummary) TableRows() [][]string {
	pass := func(ok bool) string {
		if ok {
			return "PASS"
		}
		return "FAIL"
	}
	st := v.report.Stats
	return [][]string{
		{"structure", pass(st.StructureValidity)},
		{"content preservation", pass(st.ContentPreservation)},
		{"entity extraction", pass(st.EntityExtraction)},
		{"cross-references", pass(st.CrossReferenceAccuracy)},
		{"errors", fmt.Sprintf("%d", st.TotalErrors)},
		{"warnings", fmt.Sprintf("%d", st.TotalWarnings)},
		{"overall score", fmt.Sprintf("%.1f", st.OverallScore)},
	}
}
