package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
)

// Aliases
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Configuration Error Codes
const (
	ErrCodeInvalidConfig ErrorCode = "CFG_001"
	ErrCodeMissingConfig ErrorCode = "CFG_002"
)

// Data Source Error Codes (litigation records, news feeds, document text)
const (
	ErrCodeDataSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeDataSourceRateLimited ErrorCode = "SRC_002"
	ErrCodeDataSourceAuthFailed  ErrorCode = "SRC_003"
	ErrCodeDataSourceParseError  ErrorCode = "SRC_004"
	ErrCodeExtractionFailed      ErrorCode = "SRC_005"
)

// Report Error Codes
const (
	ErrCodeReportRenderFailed ErrorCode = "RPT_001"
	ErrCodeSnapshotInvalid    ErrorCode = "RPT_002"
)

// Publish Error Codes
const (
	ErrCodeIssueTrackerFailed ErrorCode = "PUB_001"
	ErrCodeWebhookFailed      ErrorCode = "PUB_002"
	ErrCodeArchiveFailed      ErrorCode = "PUB_003"
	ErrCodeEventPublishFailed ErrorCode = "PUB_004"
	ErrCodeRunLocked          ErrorCode = "PUB_005"
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeServiceUnavailable: "service unavailable",

	ErrCodeInvalidConfig: "invalid configuration",
	ErrCodeMissingConfig: "missing configuration",

	ErrCodeDataSourceUnavailable: "data source unavailable",
	ErrCodeDataSourceRateLimited: "data source rate limited",
	ErrCodeDataSourceAuthFailed:  "data source authentication failed",
	ErrCodeDataSourceParseError:  "failed to parse data source response",
	ErrCodeExtractionFailed:      "document text extraction failed",

	ErrCodeReportRenderFailed: "report rendering failed",
	ErrCodeSnapshotInvalid:    "snapshot comparison failed",

	ErrCodeIssueTrackerFailed: "issue tracker request failed",
	ErrCodeWebhookFailed:      "chat webhook request failed",
	ErrCodeArchiveFailed:      "report archive failed",
	ErrCodeEventPublishFailed: "report event publish failed",
	ErrCodeRunLocked:          "another run holds the lock",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

// IsPublishError reports whether code belongs to the publish module.
func IsPublishError(code ErrorCode) bool {
	return ModuleForCode(code) == "PUB"
}

//Personal.AI order the ending
