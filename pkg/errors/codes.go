package errors

import (
	"net/http"
	"strings"
)

// ErrorCode identifies a specific failure category. Codes are prefixed by the
// module they belong to so that metrics and logs can be grouped per subsystem.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeDatabaseError      ErrorCode = "COMMON_010"
	ErrCodeCacheError         ErrorCode = "COMMON_011"
	ErrCodeExternalService    ErrorCode = "COMMON_012"
)

// Product module error codes.
const (
	ErrCodeProductNotFound     ErrorCode = "PRD_001"
	ErrCodeProductInvalid      ErrorCode = "PRD_002"
	ErrCodeProductFetchFailed  ErrorCode = "PRD_003"
	ErrCodeProductStoreCorrupt ErrorCode = "PRD_004"
)

// Analysis module error codes.
const (
	ErrCodeAnalysisFailed         ErrorCode = "ANL_001"
	ErrCodeAnalysisTypeInvalid    ErrorCode = "ANL_002"
	ErrCodeAnalysisNotFound       ErrorCode = "ANL_003"
	ErrCodeAnalysisPersistFailed  ErrorCode = "ANL_004"
	ErrCodeClusteringFailed       ErrorCode = "ANL_005"
	ErrCodeClusterMethodInvalid   ErrorCode = "ANL_006"
	ErrCodeReportGenerationFailed ErrorCode = "ANL_007"
	ErrCodeReportNotFound         ErrorCode = "ANL_008"
)

// Pricing module error codes.
const (
	ErrCodePricingDataInvalid   ErrorCode = "PRC_001"
	ErrCodePricingStoreFailed   ErrorCode = "PRC_002"
	ErrCodePricingCleanupFailed ErrorCode = "PRC_003"
)

// Similarity oracle error codes.
const (
	ErrCodeOracleUnavailable  ErrorCode = "ORC_001"
	ErrCodeOracleSearchFailed ErrorCode = "ORC_002"
)

// AI insight generator error codes.
const (
	ErrCodeAIUnavailable     ErrorCode = "AI_001"
	ErrCodeAIRequestFailed   ErrorCode = "AI_002"
	ErrCodeAIResponseInvalid ErrorCode = "AI_003"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes for the API layer.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,

	ErrCodeProductNotFound:     http.StatusNotFound,
	ErrCodeProductInvalid:      http.StatusBadRequest,
	ErrCodeProductFetchFailed:  http.StatusInternalServerError,
	ErrCodeProductStoreCorrupt: http.StatusInternalServerError,

	ErrCodeAnalysisFailed:         http.StatusInternalServerError,
	ErrCodeAnalysisTypeInvalid:    http.StatusBadRequest,
	ErrCodeAnalysisNotFound:       http.StatusNotFound,
	ErrCodeAnalysisPersistFailed:  http.StatusInternalServerError,
	ErrCodeClusteringFailed:       http.StatusInternalServerError,
	ErrCodeClusterMethodInvalid:   http.StatusBadRequest,
	ErrCodeReportGenerationFailed: http.StatusInternalServerError,
	ErrCodeReportNotFound:         http.StatusNotFound,

	ErrCodePricingDataInvalid:   http.StatusBadRequest,
	ErrCodePricingStoreFailed:   http.StatusInternalServerError,
	ErrCodePricingCleanupFailed: http.StatusInternalServerError,

	ErrCodeOracleUnavailable:  http.StatusServiceUnavailable,
	ErrCodeOracleSearchFailed: http.StatusBadGateway,

	ErrCodeAIUnavailable:     http.StatusServiceUnavailable,
	ErrCodeAIRequestFailed:   http.StatusBadGateway,
	ErrCodeAIResponseInvalid: http.StatusBadGateway,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode, defaulting
// to 500 for unknown codes.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the ErrorCode maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether the ErrorCode maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode ("COMMON", "PRD", ...).
func ModuleForCode(code ErrorCode) string {
	parts := strings.SplitN(string(code), "_", 2)
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
