package source

import "unicode/utf8"

// Resolve converts the start of a span into a 1-based (line, column)
// position by scanning the source from the beginning. A CRLF pair counts
// as one line terminator; a lone LF or CR each counts as one. When the
// span starts at or past the end of the source, Resolve degrades to an
// estimated position just past the last line instead of failing.
//
// Resolve is O(offset); callers resolving many spans against the same
// source should build an Index once and use Index.Resolve instead.
func Resolve(src []byte, span Span) Position {
	offset := span.Start
	if offset < 0 {
		offset = 0
	}
	if offset >= len(src) {
		return pastEnd(src)
	}

	line := 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		switch src[i] {
		case '\n':
			line++
			lineStart = i + 1
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				// CRLF counts once; the LF branch advances past it.
				continue
			}
			line++
			lineStart = i + 1
		}
	}
	return Position{Line: line, Column: utf8.RuneCount(src[lineStart:offset]) + 1}
}

// pastEnd estimates a position one column past the last line of src.
func pastEnd(src []byte) Position {
	line := 1
	lineStart := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n':
			line++
			lineStart = i + 1
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				continue
			}
			line++
			lineStart = i + 1
		}
	}
	return Position{Line: line, Column: utf8.RuneCount(src[lineStart:]) + 1}
}
