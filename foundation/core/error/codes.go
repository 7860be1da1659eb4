// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used by property documents, the
//              document registry and the supporting stores.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: Replaced service codes with document and registry codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeIOError      Code = "IO_ERROR"

	// Property documents
	CodeMalformedLine   Code = "MALFORMED_LINE"
	CodeKeyNotFound     Code = "KEY_NOT_FOUND"
	CodeInvalidComments Code = "INVALID_COMMENTS"
	CodeNoSourceBound   Code = "NO_SOURCE_BOUND"

	// Document registry
	CodeUnknownName            Code = "UNKNOWN_NAME"
	CodeIndexOutOfRange        Code = "INDEX_OUT_OF_RANGE"
	CodeNoMatch                Code = "NO_MATCH"
	CodeEmptyRegistry          Code = "EMPTY_REGISTRY"
	CodeDuplicateEntry         Code = "DUPLICATE_ENTRY"
	CodeDirectoryNotRegistered Code = "DIRECTORY_NOT_REGISTERED"

	// Storage and configuration
	CodeDatabaseError Code = "DATABASE_ERROR"
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidFormat Code = "INVALID_FORMAT"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeIOError,
		CodeMalformedLine, CodeKeyNotFound, CodeInvalidComments, CodeNoSourceBound,
		CodeUnknownName, CodeIndexOutOfRange, CodeNoMatch, CodeEmptyRegistry,
		CodeDuplicateEntry, CodeDirectoryNotRegistered,
		CodeDatabaseError, CodeConfigError, CodeInvalidFormat:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeMalformedLine, CodeKeyNotFound, CodeInvalidComments, CodeNoSourceBound:
		return "document"
	case CodeUnknownName, CodeIndexOutOfRange, CodeNoMatch, CodeEmptyRegistry,
		CodeDuplicateEntry, CodeDirectoryNotRegistered:
		return "registry"
	case CodeDatabaseError:
		return "storage"
	case CodeConfigError, CodeInvalidFormat:
		return "configuration"
	case CodeNotFound, CodeIOError:
		return "filesystem"
	default:
		return "generic"
	}
}

// IsLookupFailure reports whether the code is one of the strict lookup
// failures a caller can recover from by choosing another selector or key
func (c Code) IsLookupFailure() bool {
	switch c {
	case CodeKeyNotFound, CodeUnknownName, CodeIndexOutOfRange, CodeNoMatch:
		return true
	default:
		return false
	}
}
