// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     properties
// Description: Serialization of documents to writers and files
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package properties

import (
	"bufio"
	"bytes"
	"io"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	mdwlog "github.com/msto63/propkit/foundation/core/log"
)

func (d *Document) writeSettings(opts []WriteOption) (writeSettings, error) {
	w := writeSettings{
		separator: d.separator,
		comment:   d.comment,
		position:  Top,
	}
	for _, opt := range opts {
		opt(&w)
	}
	if w.position != Top && w.position != Bottom {
		return w, mdwerror.New("invalid comments position").
			WithCode(mdwerror.CodeInvalidComments).
			WithOperation("properties.Write").
			WithDetail("position", int(w.position))
	}
	return w, nil
}

// Encode writes the entries in insertion order as key<sep>value lines,
// with the optional comment block before or after them
func (d *Document) Encode(w io.Writer, opts ...WriteOption) error {
	ws, err := d.writeSettings(opts)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	writeComments := func() {
		for _, c := range ws.comments {
			bw.WriteRune(ws.comment)
			bw.WriteString(c)
			bw.WriteByte('\n')
		}
	}

	if ws.position == Top {
		writeComments()
	}
	for _, k := range d.order {
		bw.WriteString(k)
		bw.WriteRune(ws.separator)
		bw.WriteString(d.entries[k])
		bw.WriteByte('\n')
	}
	if ws.position == Bottom {
		writeComments()
	}

	if err := bw.Flush(); err != nil {
		return mdwerror.Wrap(err, "failed to encode properties").
			WithCode(mdwerror.CodeIOError).
			WithOperation("properties.Encode")
	}
	return nil
}

// Write stores the document at path, or at the bound file when path is
// empty. The file is replaced atomically. Write does not rebind the
// document.
func (d *Document) Write(path string, opts ...WriteOption) error {
	if path == "" {
		path = d.path
	}
	if path == "" {
		return mdwerror.New("no path given and no source file bound").
			WithCode(mdwerror.CodeNoSourceBound).
			WithOperation("properties.Write")
	}

	var buf bytes.Buffer
	if err := d.Encode(&buf, opts...); err != nil {
		return err
	}

	if err := d.fs.WriteFile(path, buf.Bytes()); err != nil {
		d.logger.ErrorWithErr("write failed", err, mdwlog.Path(path))
		return mdwerror.Wrap(err, "failed to write properties").
			WithOperation("properties.Write").
			WithDetail("path", path)
	}

	d.logger.Debug("document written", "path", path, "entries", len(d.order))
	return nil
}
