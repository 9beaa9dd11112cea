package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeDatabaseError      ErrorCode = "COMMON_009"
	ErrCodeCacheError         ErrorCode = "COMMON_010"
	ErrCodeExternalService    ErrorCode = "COMMON_011"
	ErrCodeNotImplemented     ErrorCode = "COMMON_012"
)

// Aliases kept short for the most frequent call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// Structure Parser Error Codes.
// All PARSE_* codes map to 4xx responses: a malformed structure is a caller
// problem, never a server fault.
const (
	ErrCodeParseSyntax         ErrorCode = "PARSE_001"
	ErrCodeParseUnknownAtom    ErrorCode = "PARSE_002"
	ErrCodeParseRingClosure    ErrorCode = "PARSE_003"
	ErrCodeParseBracket        ErrorCode = "PARSE_004"
	ErrCodeParseValence        ErrorCode = "PARSE_005"
	ErrCodeParseEmptyStructure ErrorCode = "PARSE_006"
)

// Exact-Match Index Error Codes.
const (
	ErrCodeIndexLoadFailed     ErrorCode = "IDX_001"
	ErrCodeIndexRecordInvalid  ErrorCode = "IDX_002"
	ErrCodeIndexHashAmbiguous  ErrorCode = "IDX_003"
	ErrCodeIndexNotLoaded      ErrorCode = "IDX_004"
	ErrCodeSnapshotUnavailable ErrorCode = "IDX_005"
)

// Pattern Library Error Codes.
const (
	ErrCodePatternCompileFailed ErrorCode = "PTN_001"
	ErrCodePatternInvalidQuery  ErrorCode = "PTN_002"
	ErrCodePatternDuplicateID   ErrorCode = "PTN_003"
	ErrCodePatternLibraryEmpty  ErrorCode = "PTN_004"
)

// Scaffold Matcher Error Codes.
const (
	ErrCodeMatchTimeout       ErrorCode = "MATCH_001"
	ErrCodeMatchCandidateSize ErrorCode = "MATCH_002"
)

// Benchmark Error Codes.
const (
	ErrCodeBenchGroundTruth  ErrorCode = "BENCH_001"
	ErrCodeBenchReportFailed ErrorCode = "BENCH_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeParseSyntax:         http.StatusBadRequest,
	ErrCodeParseUnknownAtom:    http.StatusBadRequest,
	ErrCodeParseRingClosure:    http.StatusBadRequest,
	ErrCodeParseBracket:        http.StatusBadRequest,
	ErrCodeParseValence:        http.StatusBadRequest,
	ErrCodeParseEmptyStructure: http.StatusBadRequest,

	ErrCodeIndexLoadFailed:     http.StatusServiceUnavailable,
	ErrCodeIndexRecordInvalid:  http.StatusServiceUnavailable,
	ErrCodeIndexHashAmbiguous:  http.StatusOK,
	ErrCodeIndexNotLoaded:      http.StatusServiceUnavailable,
	ErrCodeSnapshotUnavailable: http.StatusServiceUnavailable,

	ErrCodePatternCompileFailed: http.StatusInternalServerError,
	ErrCodePatternInvalidQuery:  http.StatusInternalServerError,
	ErrCodePatternDuplicateID:   http.StatusInternalServerError,
	ErrCodePatternLibraryEmpty:  http.StatusInternalServerError,

	ErrCodeMatchTimeout:       http.StatusOK,
	ErrCodeMatchCandidateSize: http.StatusBadRequest,

	ErrCodeBenchGroundTruth:  http.StatusBadRequest,
	ErrCodeBenchReportFailed: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeParseSyntax:         "invalid structure syntax",
	ErrCodeParseUnknownAtom:    "unknown atom symbol",
	ErrCodeParseRingClosure:    "unbalanced ring closure",
	ErrCodeParseBracket:        "unbalanced bracket",
	ErrCodeParseValence:        "valence violation",
	ErrCodeParseEmptyStructure: "structure contains no atoms",

	ErrCodeIndexLoadFailed:     "reference index failed to load",
	ErrCodeIndexRecordInvalid:  "malformed reference record",
	ErrCodeIndexHashAmbiguous:  "canonical-form collision with fingerprint mismatch",
	ErrCodeIndexNotLoaded:      "reference index not loaded",
	ErrCodeSnapshotUnavailable: "dataset snapshot unavailable",

	ErrCodePatternCompileFailed: "scaffold pattern failed to compile",
	ErrCodePatternInvalidQuery:  "scaffold pattern query graph is malformed",
	ErrCodePatternDuplicateID:   "duplicate scaffold pattern identifier",
	ErrCodePatternLibraryEmpty:  "scaffold pattern library is empty",

	ErrCodeMatchTimeout:       "substructure match exceeded time budget",
	ErrCodeMatchCandidateSize: "candidate structure exceeds size limit",

	ErrCodeBenchGroundTruth:  "failed to load benchmark ground truth",
	ErrCodeBenchReportFailed: "failed to generate benchmark report",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
