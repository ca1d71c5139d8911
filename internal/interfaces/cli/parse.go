package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/acquisition"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

var (
	parseForceOCR bool
	parseNoOCR    bool
	parseOut      string
	parseFull     bool
)

// newParseCmd creates the parse command: acquire and parse one document
// without touching any backing store.
func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a bare act into its structured form without persisting it",
		Long: `Extract text from a bare act PDF (or read a plain-text file), parse it into
chapters, sections, subsections and clauses, extract statutory entities and
cross-references, and run the self-validation checks. Nothing is written to
the graph, ledger or object store; use "bareact ingest" for that.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}

	cmd.Flags().BoolVar(&parseForceOCR, "force-ocr", false, "skip pdftotext and extract via OCR")
	cmd.Flags().BoolVar(&parseNoOCR, "no-ocr", false, "disable the OCR fallback for scanned PDFs")
	cmd.Flags().StringVar(&parseOut, "out", "", "directory to write the parsed document JSON into")
	cmd.Flags().BoolVar(&parseFull, "full", false, "print the full parsed document instead of a summary")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if parseForceOCR && parseNoOCR {
		return errors.InvalidParam("--force-ocr and --no-ocr are mutually exclusive")
	}

	cfg := cliCtx.Config
	if parseForceOCR {
		cfg.Acquisition.ForceOCR = true
	}
	if parseNoOCR {
		cfg.Acquisition.DisableOCR = true
	}

	act, res, err := parseDocument(cmd, cliCtx, args[0])
	if err != nil {
		return err
	}

	if parseOut != "" {
		path, err := writeActFile(parseOut, act)
		if err != nil {
			return err
		}
		cliCtx.Logger.Info("parsed document written", logging.String("path", path))
	}

	if parseFull {
		return PrintResult(cmd, act)
	}
	return PrintResult(cmd, newParseSummary(act, res.Method))
}

// parseDocument runs acquisition and parsing for a single source file.
func parseDocument(cmd *cobra.Command, cliCtx *CLIContext, path string) (*statute.Act, *acquisition.Result, error) {
	extractor := buildExtractor(cliCtx.Config, cliCtx.Logger)
	res, err := extractor.Extract(cmd.Context(), path)
	if err != nil {
		return nil, nil, err
	}

	parser := buildParser(cliCtx.Config, cliCtx.Logger)
	act, err := parser.Parse(res.Text, path)
	if err != nil {
		return nil, nil, err
	}
	return act, res, nil
}

// writeActFile writes the parsed document JSON into dir, named after its
// document ID, and returns the written path.
func writeActFile(dir string, act *statute.Act) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "could not create output directory")
	}
	data, err := json.MarshalIndent(act, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "could not marshal parsed document")
	}
	path := filepath.Join(dir, act.DocumentID()+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "could not write parsed document")
	}
	return path, nil
}

// parseSummary is the human-facing digest of a parse run.
type parseSummary struct {
	Name            string  `json:"name"`
	Year            int     `json:"year"`
	ActNumber       string  `json:"act_number,omitempty"`
	DocumentID      string  `json:"document_id"`
	Method          string  `json:"extraction_method"`
	Chapters        int     `json:"chapters"`
	Sections        int     `json:"sections"`
	Schedules       int     `json:"schedules"`
	Authorities     int     `json:"authorities"`
	Penalties       int     `json:"penalties"`
	Definitions     int     `json:"definitions"`
	CrossReferences int     `json:"cross_references"`
	Valid           bool    `json:"valid"`
	Score           float64 `json:"validation_score"`
}

func newParseSummary(act *statute.Act, method string) parseSummary {
	s := parseSummary{
		Name:            act.Name,
		Year:            act.Year,
		ActNumber:       act.ActNumber,
		DocumentID:      act.DocumentID(),
		Method:          method,
		Chapters:        act.TotalChapters,
		Sections:        act.TotalSections,
		Schedules:       len(act.Schedules),
		Authorities:     len(act.Authorities),
		Penalties:       len(act.Penalties),
		Definitions:     len(act.Definitions),
		CrossReferences: len(act.CrossReferences),
	}
	if vr := act.Metadata.Validation; vr != nil {
		s.Valid = vr.IsValid
		s.Score = vr.Stats.OverallScore
	}
	return s
}

func (s parseSummary) String() string {
	var sb strings.Builder

	title := s.Name
	if s.Year > 0 {
		title = fmt.Sprintf("%s, %d", title, s.Year)
	}
	if s.ActNumber != "" {
		title = fmt.Sprintf("%s (%s)", title, s.ActNumber)
	}
	sb.WriteString(title + "\n")

	verdict := "FAIL"
	if s.Valid {
		verdict = "PASS"
	}
	fmt.Fprintf(&sb, "  document:         %s\n", s.DocumentID)
	fmt.Fprintf(&sb, "  extraction:       %s\n", s.Method)
	fmt.Fprintf(&sb, "  chapters:         %d\n", s.Chapters)
	fmt.Fprintf(&sb, "  sections:         %d\n", s.Sections)
	fmt.Fprintf(&sb, "  schedules:        %d\n", s.Schedules)
	fmt.Fprintf(&sb, "  authorities:      %d\n", s.Authorities)
	fmt.Fprintf(&sb, "  penalties:        %d\n", s.Penalties)
	fmt.Fprintf(&sb, "  definitions:      %d\n", s.Definitions)
	fmt.Fprintf(&sb, "  cross-references: %d\n", s.CrossReferences)
	fmt.Fprintf(&sb, "  validation:       %s (score %.1f)", verdict, s.Score)

	return sb.String()
}

func (s parseSummary) TableHeaders() []string {
	return []string{"NAME", "YEAR", "CHAPTERS", "SECTIONS", "ENTITIES", "VALID"}
}

func (s parseSummary) TableRows() [][]string {
	entities := s.Authorities + s.Penalties + s.Definitions
	return [][]string{{
		s.Name,
		fmt.Sprintf("%d", s.Year),
		fmt.Sprintf("%d", s.Chapters),
		fmt.Sprintf("%d", s.Sections),
		fmt.Sprintf("%d", entities),
		fmt.Sprintf("%t", s.Valid),
	}}
}
