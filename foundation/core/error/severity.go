// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors. The logger maps severities
//              to log levels when reporting failures.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-19 v0.2.0: Severity mapping for document and registry codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a recoverable caller mistake such as an unknown
	// key or an out-of-range index
	SeverityLow Severity = iota

	// SeverityMedium indicates a failed operation that left state intact,
	// such as a malformed file that aborted a load
	SeverityMedium

	// SeverityHigh indicates a storage or filesystem failure
	SeverityHigh

	// SeverityCritical indicates broken internal state
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Level returns the numeric level of the severity (0-3)
func (s Severity) Level() int {
	return int(s)
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical

	case CodeIOError, CodeDatabaseError:
		return SeverityHigh

	case CodeMalformedLine, CodeNoSourceBound, CodeDirectoryNotRegistered,
		CodeConfigError, CodeInvalidFormat:
		return SeverityMedium

	case CodeNotFound, CodeInvalidInput, CodeKeyNotFound, CodeInvalidComments,
		CodeUnknownName, CodeIndexOutOfRange, CodeNoMatch, CodeEmptyRegistry,
		CodeDuplicateEntry:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
