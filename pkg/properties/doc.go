// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     properties
// Description: Reading, mutating and writing .properties documents
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

// Package properties parses line-oriented key/value files into an ordered
// Document, mutates it and writes it back.
//
// The format is one entry per line, split on a single separator rune
// (default '='). Lines starting with the comment marker (default '#') and
// empty lines are skipped. A line ending in a backslash continues on the
// next physical line; the continuation is appended after a single space:
//
//	greeting=hello \
//	world
//
// parses to greeting="hello world". A value must not contain the
// separator; such a line fails the load with CodeMalformedLine and leaves
// the previous content untouched.
//
// Usage:
//
//	doc, err := properties.Open("lang/en.properties")
//	if err != nil {
//		return err
//	}
//	doc.Set("title", "Settings")
//	if err := doc.Write("", properties.WithComments("generated")); err != nil {
//		return err
//	}
package properties
