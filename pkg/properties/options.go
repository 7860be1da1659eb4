// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     properties
// Description: Load and write options
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package properties

import (
	"strings"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/foundation/utils/filex"
	"github.com/msto63/propkit/pkg/logging"
)

const (
	// DefaultSeparator splits a line into key and value
	DefaultSeparator = '='

	// DefaultComment marks a line as a comment
	DefaultComment = '#'

	// Extension is the file extension of property documents
	Extension = ".properties"
)

// Option configures a Document on construction or load
type Option func(*settings)

type settings struct {
	separator rune
	comment   rune
	logger    *logging.Logger
	fs        filex.FS
}

// WithSeparator sets the key/value separator
func WithSeparator(sep rune) Option {
	return func(s *settings) {
		s.separator = sep
	}
}

// WithComment sets the comment marker
func WithComment(marker rune) Option {
	return func(s *settings) {
		s.comment = marker
	}
}

// WithLogger sets the logger used for load and write diagnostics
func WithLogger(logger *logging.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFS sets the filesystem the document reads from and writes to
func WithFS(fs filex.FS) Option {
	return func(s *settings) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// Position places the comment block of a written document
type Position int

const (
	// Top writes comments before the entries
	Top Position = iota
	// Bottom writes comments after the entries
	Bottom
)

// String returns the position name
func (p Position) String() string {
	switch p {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "invalid"
	}
}

// ParsePosition converts "top" or "bottom" to a Position
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	default:
		return Top, mdwerror.New("comments position must be top or bottom").
			WithCode(mdwerror.CodeInvalidComments).
			WithOperation("properties.ParsePosition").
			WithDetail("position", s)
	}
}

// WriteOption configures Write and Encode
type WriteOption func(*writeSettings)

type writeSettings struct {
	separator rune
	comment   rune
	comments  []string
	position  Position
}

// WithComments adds comment lines to the written document
func WithComments(lines ...string) WriteOption {
	return func(w *writeSettings) {
		w.comments = append(w.comments, lines...)
	}
}

// AtPosition places the comment block
func AtPosition(pos Position) WriteOption {
	return func(w *writeSettings) {
		w.position = pos
	}
}

// WriteSeparator overrides the separator for one write
func WriteSeparator(sep rune) WriteOption {
	return func(w *writeSettings) {
		w.separator = sep
	}
}

// WriteComment overrides the comment marker for one write
func WriteComment(marker rune) WriteOption {
	return func(w *writeSettings) {
		w.comment = marker
	}
}
