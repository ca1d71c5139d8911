package acquisition

import (
	"bytes"
	"context"
	stdliberrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/nyayatech/BareAct-Intelligence/internal/config"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

// Extraction method label values.
const (
	MethodPDFToText = "pdftotext"
	MethodOCR       = "ocr"
	MethodPlainText = "plain"
)

// Result is the outcome of one text acquisition.
type Result struct {
	// Text is the recovered document text.
	Text string

	// Method names the tool chain that produced Text.
	Method string

	// LowYield marks text below the configured minimum that was accepted
	// anyway. Some signal is better than none; callers should surface a
	// warning rather than reject the document.
	LowYield bool

	// FellBack is set when OCR produced the text after a pdftotext attempt.
	FellBack bool
}

// runFunc executes an external tool and returns its stdout. Swapped out in
// tests so no real subprocess ever runs.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// lookPathFunc reports whether a tool is installed.
type lookPathFunc func(name string) (string, error)

// Extractor recovers plain text from source documents. PDFs go through
// pdftotext first; scanned PDFs fall back to a pdftoppm + tesseract chain.
// Text files are read directly.
type Extractor struct {
	config   config.AcquisitionConfig
	logger   logging.Logger
	run      runFunc
	lookPath lookPathFunc
}

// NewExtractor creates an Extractor. Zero-valued timeouts and thresholds
// fall back to the package defaults.
func NewExtractor(cfg config.AcquisitionConfig, log logging.Logger) *Extractor {
	if cfg.ExtractTimeout <= 0 {
		cfg.ExtractTimeout = config.DefaultExtractTimeout
	}
	if cfg.OCRTimeout <= 0 {
		cfg.OCRTimeout = config.DefaultOCRTimeout
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = config.DefaultMinTextLength
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Extractor{
		config:   cfg,
		logger:   log,
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

// OCRAvailable reports whether the tesseract binary is on PATH.
func (e *Extractor) OCRAvailable() bool {
	_, err := e.lookPath("tesseract")
	return err == nil
}

// Extract recovers the text of the document at path. The extension selects
// the chain: .pdf runs the pdftotext/OCR chain, .txt and .text are read
// directly, anything else is rejected.
func (e *Extractor) Extract(ctx context.Context, path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAcquisitionFailed, "source document not found").
			WithDetail(fmt.Sprintf("path: %s", path))
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrCodeAcquisitionBadFormat, "source path is a directory").
			WithDetail(fmt.Sprintf("path: %s", path))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return e.extractPDF(ctx, path)
	case ".txt", ".text":
		return e.readPlainText(path)
	default:
		return nil, errors.New(errors.ErrCodeAcquisitionBadFormat, "unsupported document format").
			WithDetail(fmt.Sprintf("path: %s", path))
	}
}

func (e *Extractor) readPlainText(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAcquisitionFailed, "failed to read text file").
			WithDetail(fmt.Sprintf("path: %s", path))
	}

	text := string(data)
	yield := len(strings.TrimSpace(text))
	if yield == 0 {
		return nil, errors.New(errors.ErrCodeAcquisitionLowYield, "text file is empty").
			WithDetail(fmt.Sprintf("path: %s", path))
	}

	lowYield := yield < e.config.MinTextLength
	if lowYield {
		e.logger.Warn("text file below minimum yield, accepting anyway",
			logging.String("path", path),
			logging.Int("chars", yield))
	}
	return &Result{Text: text, Method: MethodPlainText, LowYield: lowYield}, nil
}

// extractPDF runs pdftotext first and falls back to OCR when the yield
// suggests a scanned document. Low-yield pdftotext output is kept as a last
// resort if OCR cannot do better.
func (e *Extractor) extractPDF(ctx context.Context, path string) (*Result, error) {
	var (
		text        string
		timedOut    bool
		toolMissing bool
	)

	if !e.config.ForceOCR {
		out, err := e.runTool(ctx, e.config.ExtractTimeout, "pdftotext", "-layout", "-enc", "UTF-8", path, "-")
		switch {
		case err == nil:
			text = string(out)
			yield := len(strings.TrimSpace(text))
			if yield >= e.config.MinTextLength {
				e.logger.Info("extracted text via pdftotext",
					logging.String("path", path),
					logging.Int("chars", len(text)))
				return &Result{Text: text, Method: MethodPDFToText}, nil
			}
			e.logger.Warn("pdftotext yield too small, likely scanned PDF",
				logging.String("path", path),
				logging.Int("chars", yield))
		case isContextError(err):
			timedOut = true
			e.logger.Warn("pdftotext timed out", logging.String("path", path))
		case isToolMissing(err):
			toolMissing = true
			e.logger.Warn("pdftotext not found, falling back to OCR")
		default:
			e.logger.Warn("pdftotext failed", logging.String("path", path), logging.Err(err))
		}
	}

	if !e.config.DisableOCR {
		ocrText, err := e.ocrPDF(ctx, path)
		switch {
		case err == nil && len(strings.TrimSpace(ocrText)) >= e.config.MinTextLength:
			e.logger.Info("extracted text via OCR",
				logging.String("path", path),
				logging.Int("chars", len(ocrText)))
			return &Result{Text: ocrText, Method: MethodOCR, FellBack: !e.config.ForceOCR}, nil
		case err != nil:
			if isContextError(err) {
				timedOut = true
			}
			if errors.IsCode(err, errors.ErrCodeAcquisitionToolMissing) {
				toolMissing = true
			}
			e.logger.Warn("OCR extraction failed", logging.String("path", path), logging.Err(err))
		default:
			e.logger.Warn("OCR yield too small",
				logging.String("path", path),
				logging.Int("chars", len(strings.TrimSpace(ocrText))))
		}
	}

	if strings.TrimSpace(text) != "" {
		e.logger.Warn("using limited pdftotext output",
			logging.String("path", path),
			logging.Int("chars", len(strings.TrimSpace(text))))
		return &Result{Text: text, Method: MethodPDFToText, LowYield: true}, nil
	}

	switch {
	case timedOut:
		return nil, errors.New(errors.ErrCodeAcquisitionTimeout, "text extraction timed out").
			WithDetail(fmt.Sprintf("path: %s", path))
	case toolMissing:
		return nil, errors.New(errors.ErrCodeAcquisitionToolMissing, "no extraction tool available").
			WithDetail("install poppler-utils (pdftotext, pdftoppm) and tesseract")
	default:
		return nil, errors.New(errors.ErrCodeAcquisitionLowYield, "no usable text recovered").
			WithDetail(fmt.Sprintf("path: %s", path))
	}
}

// runTool executes one external tool bounded by timeout.
func (e *Extractor) runTool(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	out, err := e.run(cctx, name, args...)
	if err != nil && cctx.Err() == context.DeadlineExceeded {
		return nil, context.DeadlineExceeded
	}
	return out, err
}

// runCommand is the production runFunc backed by os/exec.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w", firstLine(msg), err)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func isContextError(err error) bool {
	return stdliberrors.Is(err, context.DeadlineExceeded) || stdliberrors.Is(err, context.Canceled)
}

func isToolMissing(err error) bool {
	return stdliberrors.Is(err, exec.ErrNotFound) || os.IsNotExist(err)
}
