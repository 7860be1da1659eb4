// Package log provides structured logging for propkit.
//
// Package: log
// Title: propkit Structured Logging
// Description: A small structured logger with levels, persistent context
//              fields, JSON/text/logfmt output and a timer for measuring
//              operations. Entries can be bound to the registry name of a
//              property document and to the operation being performed.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Usage:
//
//	logger := log.NewWithConfig(log.Config{Level: log.LevelDebug, Format: log.FormatText})
//	docLog := logger.WithDocument("prop1").WithOperation("load")
//	docLog.Info("document loaded", log.Path("/etc/app/en.properties"), log.Field("entries", 12))
//
//	timer := logger.StartTimer("directory scan")
//	defer timer.Stop()
package log
