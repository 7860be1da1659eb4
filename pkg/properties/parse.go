// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     properties
// Description: Line parser with backslash continuation
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package properties

import (
	"strings"
	"unicode"
	"unicode/utf8"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
)

const continuationMarker = `\`

// parsed holds the result of one parse pass
type parsed struct {
	entries map[string]string
	order   []string
}

func (p *parsed) set(key, value string) {
	if _, ok := p.entries[key]; !ok {
		p.order = append(p.order, key)
	}
	p.entries[key] = value
}

// parse turns physical lines into ordered entries. The continuation state
// lives only in this call.
func parse(lines []string, sep, comment rune) (*parsed, error) {
	result := &parsed{entries: make(map[string]string)}
	separator := string(sep)
	pendingKey := ""
	continuing := false

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		if continuing {
			if line == "" {
				continuing = false
				pendingKey = ""
				continue
			}
			part, more := stripContinuation(line)
			result.entries[pendingKey] += " " + part
			if !more {
				continuing = false
				pendingKey = ""
			}
			continue
		}

		if line == "" {
			continue
		}
		if first, _ := utf8.DecodeRuneInString(line); first == comment {
			continue
		}

		parts := strings.Split(line, separator)
		if len(parts) != 2 {
			return nil, mdwerror.New("line does not contain exactly one separator").
				WithCode(mdwerror.CodeMalformedLine).
				WithOperation("properties.parse").
				WithDetail("line", i+1).
				WithDetail("separators", len(parts)-1)
		}

		key := parts[0]
		value, more := stripContinuation(parts[1])
		result.set(key, value)
		if more {
			pendingKey = key
			continuing = true
		}
	}

	return result, nil
}

// stripContinuation removes a trailing continuation marker and the
// whitespace before it
func stripContinuation(s string) (string, bool) {
	if !strings.HasSuffix(s, continuationMarker) {
		return s, false
	}
	s = strings.TrimSuffix(s, continuationMarker)
	return strings.TrimRightFunc(s, unicode.IsSpace), true
}

// CheckEntry reports whether key and value would be read back unchanged
// after being written with sep and comment. Set accepts any pair; callers
// that import foreign data check first.
func CheckEntry(key, value string, sep, comment rune) error {
	var reason string
	switch {
	case strings.ContainsRune(key, sep) || strings.ContainsRune(value, sep):
		reason = "key or value contains the separator"
	case strings.ContainsAny(key, "\r\n") || strings.ContainsAny(value, "\r\n"):
		reason = "key or value spans multiple lines"
	case strings.HasPrefix(key, string(comment)):
		reason = "key starts with the comment marker"
	case strings.TrimLeftFunc(key, unicode.IsSpace) != key:
		reason = "key starts with whitespace"
	case strings.TrimRightFunc(value, unicode.IsSpace) != value:
		reason = "value ends with whitespace"
	case strings.HasSuffix(value, continuationMarker):
		reason = "value ends with a continuation marker"
	default:
		return nil
	}
	return mdwerror.New(reason).
		WithCode(mdwerror.CodeInvalidFormat).
		WithOperation("properties.CheckEntry").
		WithDetail("key", key).
		WithDetail("separator", string(sep))
}
