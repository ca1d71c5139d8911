package errors

import (
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal      ErrorCode = "COMMON_001"
	ErrCodeBadRequest    ErrorCode = "COMMON_002"
	ErrCodeNotFound      ErrorCode = "COMMON_003"
	ErrCodeConflict      ErrorCode = "COMMON_004"
	ErrCodeTimeout       ErrorCode = "COMMON_005"
	ErrCodeSerialization ErrorCode = "COMMON_006"
	ErrCodeConfigInvalid ErrorCode = "COMMON_007"
	ErrCodeUnavailable   ErrorCode = "COMMON_008"
)

// Aliases used at call sites throughout the pipeline.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeTimeout      = ErrCodeTimeout
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")

	// Domain specific aliases
	CodeAcquisitionFailed = ErrCodeAcquisitionFailed
	CodeParseFailed       = ErrCodeParseFailed
	CodeStatuteNotFound   = ErrCodeStatuteNotFound
	CodeGraphError        = ErrCodeGraphError
	CodeStorageError      = ErrCodeArtifactStoreError
	CodeLedgerError       = ErrCodeLedgerError
	CodePublishError      = ErrCodeEventPublishFailed
)

// Acquisition Error Codes.  Acquisition converts a source document (PDF or
// plain text) into raw UTF-8 text before the structural parser runs; every
// code in this family is fatal for the document concerned.
const (
	ErrCodeAcquisitionFailed      ErrorCode = "ACQ_001"
	ErrCodeAcquisitionToolMissing ErrorCode = "ACQ_002"
	ErrCodeAcquisitionTimeout     ErrorCode = "ACQ_003"
	ErrCodeAcquisitionLowYield    ErrorCode = "ACQ_004"
	ErrCodeAcquisitionBadFormat   ErrorCode = "ACQ_005"
)

// Parse Error Codes.  Raised only when a document cannot be considered parsed
// at all; partial extraction quality is reported through the validation
// report, never through this family.
const (
	ErrCodeParseFailed       ErrorCode = "PARSE_001"
	ErrCodeParseTextTooShort ErrorCode = "PARSE_002"
	ErrCodeParseNoSections   ErrorCode = "PARSE_003"
)

// Validation Error Codes.  The validator itself records findings inside the
// report; these codes exist for engine-level failures and for callers that
// opt in to treating a low score as a hard failure (bareact validate --strict).
const (
	ErrCodeValidationFailed        ErrorCode = "VALIDATE_001"
	ErrCodeValidationBelowThreshold ErrorCode = "VALIDATE_002"
)

// Statute Persistence Error Codes
const (
	ErrCodeStatuteNotFound    ErrorCode = "STAT_001"
	ErrCodeStatuteExists      ErrorCode = "STAT_002"
	ErrCodeGraphError         ErrorCode = "STAT_003"
	ErrCodeArtifactStoreError ErrorCode = "STAT_004"
	ErrCodeLedgerError        ErrorCode = "STAT_005"
	ErrCodeEventPublishFailed ErrorCode = "STAT_006"
)

// Ingestion Error Codes
const (
	ErrCodeIngestRunFailed       ErrorCode = "INGEST_001"
	ErrCodeIngestWatcherFailed   ErrorCode = "INGEST_002"
	ErrCodeIngestUnsupportedFile ErrorCode = "INGEST_003"
)

// fatalModules lists the code-family prefixes whose members abort processing
// of the current document.  Everything else is recorded and processing
// continues past individually imperfect documents.
var fatalModules = map[string]bool{
	"ACQ":   true,
	"PARSE": true,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:      "internal error",
	ErrCodeBadRequest:    "bad request",
	ErrCodeNotFound:      "resource not found",
	ErrCodeConflict:      "resource conflict",
	ErrCodeTimeout:       "operation timed out",
	ErrCodeSerialization: "serialization failed",
	ErrCodeConfigInvalid: "invalid configuration",
	ErrCodeUnavailable:   "service unavailable",

	ErrCodeAcquisitionFailed:      "text acquisition failed",
	ErrCodeAcquisitionToolMissing: "extraction tool not installed",
	ErrCodeAcquisitionTimeout:     "extraction tool timed out",
	ErrCodeAcquisitionLowYield:    "extracted text below minimum yield",
	ErrCodeAcquisitionBadFormat:   "unsupported source document format",

	ErrCodeParseFailed:       "failed to parse statute text",
	ErrCodeParseTextTooShort: "input text below minimum viable length",
	ErrCodeParseNoSections:   "no sections recovered from input",

	ErrCodeValidationFailed:         "validation engine failure",
	ErrCodeValidationBelowThreshold: "validation score below required threshold",

	ErrCodeStatuteNotFound:    "statute not found",
	ErrCodeStatuteExists:      "statute already exists",
	ErrCodeGraphError:         "graph database error",
	ErrCodeArtifactStoreError: "artifact store error",
	ErrCodeLedgerError:        "ingest ledger error",
	ErrCodeEventPublishFailed: "failed to publish event",

	ErrCodeIngestRunFailed:       "ingestion run failed",
	ErrCodeIngestWatcherFailed:   "drop-directory watcher failed",
	ErrCodeIngestUnsupportedFile: "unsupported file type for ingestion",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsFatalCode reports whether the code belongs to a family that aborts
// processing of the current document (acquisition and parse failures).
func IsFatalCode(code ErrorCode) bool {
	return fatalModules[ModuleForCode(code)]
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
