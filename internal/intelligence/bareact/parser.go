package bareact

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// ParserConfig holds the tuneable parameters of a parse run.
type ParserConfig struct {
	// Verbose enables per-line and per-pass debug logging in the pipeline
	// components. Keep off for batch runs; a single act can emit thousands
	// of entries.
	Verbose bool `json:"verbose" yaml:"verbose"`

	// MinTextLength is the minimum rune count of usable input text. Inputs
	// below it fail immediately rather than producing a hollow document.
	MinTextLength int `json:"min_text_length" yaml:"min_text_length"`
}

// DefaultParserConfig returns production-ready defaults.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		Verbose:       false,
		MinTextLength: 100,
	}
}

// ---------------------------------------------------------------------------
// Parser interface
// ---------------------------------------------------------------------------

// Parser turns raw statutory text into a structured Act. A parse is a
// synchronous, CPU-bound pass over in-memory text with no suspension points,
// so Parse takes no context; batch-level cancellation happens between
// documents, not inside one.
type Parser interface {
	// Parse processes text acquired from sourceFile. The filename is used
	// only as a metadata fallback when the header scan cannot determine the
	// act's name or year. The returned Act carries its validation report in
	// Metadata; validation findings never fail the parse. An error is
	// returned only for unusably short input or when no sections could be
	// recovered.
	Parse(text, sourceFile string) (*statute.Act, error)
}

// ParserOption customizes a Parser beyond its config.
type ParserOption func(*bareActParser)

// WithClock replaces the wall clock used for the parse timestamp. Tests use
// it to make output fully deterministic.
func WithClock(now func() time.Time) ParserOption {
	return func(p *bareActParser) {
		if now != nil {
			p.now = now
		}
	}
}

// WithBoundaryLocator replaces the content-start heuristic. The default
// chapter-anchored locator works for gazette-style layouts; publishers with
// different front matter can plug in their own.
func WithBoundaryLocator(l BoundaryLocator) ParserOption {
	return func(p *bareActParser) {
		if l != nil {
			p.locator = l
		}
	}
}

// ---------------------------------------------------------------------------
// bareActParser
// ---------------------------------------------------------------------------

type bareActParser struct {
	cfg    ParserConfig
	logger logging.Logger
	now    func() time.Time

	locator    BoundaryLocator
	structure  *StructureParser
	decomposer *SectionDecomposer
	entities   *EntityExtractor
	crossRefs  *CrossReferenceResolver
	schedules  *ScheduleExtractor
	validator  Validator
}

// NewParser constructs the full parsing pipeline. A nil logger is replaced
// with a no-op implementation; unless cfg.Verbose is set, pipeline
// components log through a no-op logger while the parser itself keeps the
// injected one for run-level entries.
func NewParser(cfg ParserConfig, logger logging.Logger, opts ...ParserOption) Parser {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = DefaultParserConfig().MinTextLength
	}

	componentLogger := logger
	if !cfg.Verbose {
		componentLogger = logging.NewNopLogger()
	}

	p := &bareActParser{
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		locator:    NewBoundaryLocator(),
		structure:  NewStructureParser(componentLogger),
		decomposer: NewSectionDecomposer(),
		entities:   NewEntityExtractor(componentLogger),
		crossRefs:  NewCrossReferenceResolver(),
		schedules:  NewScheduleExtractor(),
		validator:  NewValidator(componentLogger),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *bareActParser) Parse(text, sourceFile string) (*statute.Act, error) {
	started := p.now()

	normalized := normalizeText(text)
	if utf8.RuneCountInString(strings.TrimSpace(normalized)) < p.cfg.MinTextLength {
		return nil, errors.New(errors.ErrCodeParseTextTooShort,
			"text content is too short or empty").WithDetail(sourceFile)
	}
	lines := splitLines(normalized)

	act := statute.NewAct()
	act.Name, act.Year, act.ActNumber = extractActMetadata(normalized, sourceFile)
	act.Preamble = extractPreamble(lines)

	start := p.locator.ContentStart(lines)
	p.structure.Run(lines, start, act)
	if len(act.Sections) == 0 {
		return nil, errors.New(errors.ErrCodeParseNoSections,
			"no sections recovered from input").WithDetail(sourceFile)
	}

	for i := range act.Sections {
		act.Sections[i].Subsections = p.decomposer.Decompose(act.Sections[i].Content)
	}
	act.Authorities, act.Penalties, act.Definitions = p.entities.Extract(normalized, act.Sections)
	act.CrossReferences = p.crossRefs.Resolve(act.Sections)
	act.Schedules = p.schedules.Extract(normalized)

	act.Metadata = statute.Metadata{
		SourceFile: sourceFile,
		TextLength: utf8.RuneCountInString(text),
		LineCount:  len(lines),
		ParsedAt:   started,
	}
	act.Finalize()
	act.Metadata.Validation = p.validator.Validate(act, normalized)

	p.logger.Info("statute parsed",
		logging.String("source_file", sourceFile),
		logging.String("name", act.Name),
		logging.Int("year", act.Year),
		logging.Int("chapters", act.TotalChapters),
		logging.Int("sections", act.TotalSections),
		logging.Int("schedules", len(act.Schedules)),
		logging.Bool("validation_passed", act.Metadata.Validation.IsValid),
		logging.Duration("elapsed", time.Since(started)))
	return act, nil
}
