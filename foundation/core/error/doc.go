// Package error provides the structured error type used by propkit.
//
// Package: error
// Title: propkit Error Handling
// Description: Errors carry a Code, a Severity, the failing operation and
//              free-form details. Property documents and the document
//              registry report every failure through this type, so callers
//              can branch on the code instead of matching message text.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Usage:
//
//	import mdwerror "github.com/msto63/propkit/foundation/core/error"
//
//	err := mdwerror.New("key not found").
//		WithCode(mdwerror.CodeKeyNotFound).
//		WithOperation("properties.Remove").
//		WithDetail("key", key)
//
//	if mdwerror.HasCode(err, mdwerror.CodeKeyNotFound) {
//		// fall back to a default
//	}
package error
