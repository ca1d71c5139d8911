package acquisition

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

var pageNumPattern = regexp.MustCompile(`(\d+)\.png$`)

// ocrPDF renders each page of a scanned PDF to an image with pdftoppm and
// recognises the pages with tesseract, joining their output in page order.
// The whole chain shares one OCRTimeout budget.
func (e *Extractor) ocrPDF(ctx context.Context, path string) (string, error) {
	if _, err := e.lookPath("tesseract"); err != nil {
		return "", errors.New(errors.ErrCodeAcquisitionToolMissing, "tesseract is not installed")
	}
	if _, err := e.lookPath("pdftoppm"); err != nil {
		return "", errors.New(errors.ErrCodeAcquisitionToolMissing, "pdftoppm is not installed").
			WithDetail("install poppler-utils")
	}

	cctx, cancel := context.WithTimeout(ctx, e.config.OCRTimeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "bareact-ocr-*")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeAcquisitionFailed, "failed to create OCR scratch directory")
	}
	defer os.RemoveAll(tmpDir)

	e.logger.Info("rendering PDF pages for OCR", logging.String("path", path))
	prefix := filepath.Join(tmpDir, "page")
	if _, err := e.run(cctx, "pdftoppm", "-png", "-r", "300", path, prefix); err != nil {
		if cctx.Err() == context.DeadlineExceeded {
			return "", context.DeadlineExceeded
		}
		return "", errors.Wrap(err, errors.ErrCodeAcquisitionFailed, "pdftoppm failed to render pages").
			WithDetail(fmt.Sprintf("path: %s", path))
	}

	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil || len(pages) == 0 {
		return "", errors.New(errors.ErrCodeAcquisitionFailed, "no page images rendered from PDF").
			WithDetail(fmt.Sprintf("path: %s", path))
	}
	sortPages(pages)

	var parts []string
	for _, img := range pages {
		out, err := e.run(cctx, "tesseract", img, "stdout", "-l", "eng")
		if err != nil {
			if cctx.Err() == context.DeadlineExceeded {
				return "", context.DeadlineExceeded
			}
			e.logger.Warn("tesseract failed on page",
				logging.String("page", filepath.Base(img)),
				logging.Err(err))
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", errors.New(errors.ErrCodeAcquisitionLowYield, "OCR recovered no text").
			WithDetail(fmt.Sprintf("path: %s", path))
	}

	e.logger.Info("OCR complete",
		logging.String("path", path),
		logging.Int("pages", len(pages)),
		logging.Int("pages_with_text", len(parts)))
	return strings.Join(parts, "\n\n"), nil
}

// sortPages orders rendered page files by the page number embedded in the
// filename. pdftoppm zero-pads the numbers, but numeric comparison also
// holds for renderers that do not.
func sortPages(pages []string) {
	sort.Slice(pages, func(i, j int) bool {
		return pageNumber(pages[i]) < pageNumber(pages[j])
	})
}

func pageNumber(path string) int {
	m := pageNumPattern.FindStringSubmatch(filepath.Base(path))
	if len(m) == 2 {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}
