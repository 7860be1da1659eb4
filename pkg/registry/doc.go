// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     registry
// Description: Named collection of property documents with a current pointer
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

// Package registry tracks several property documents, for example one per
// language, under unique names and keeps a "current" selection.
//
// Documents are looked up with a Selector: ByName, ByIndex (negative
// indices count from the end), ByRelativePath or ByAbsolutePath. Path
// selectors are soft: when no document is bound to the path, Get and
// Remove return nil without an error and Select is a no-op.
//
// When the current document is removed the registry selects the next
// document if the removed one was first, otherwise the previous one.
//
// Directories of .properties files can be loaded, rescanned and dropped
// as a unit. A Watcher keeps tracked directories in sync with the disk.
//
// A Registry is not safe for concurrent use; share it with a Watcher
// through Watcher.Do.
package registry
