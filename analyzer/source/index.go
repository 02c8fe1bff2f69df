package source

import (
	"sort"
	"unicode/utf8"
)

// Index is a precomputed table of line start offsets for one source text.
// Building it is O(n); resolving a span through it is O(log n). An Index
// is read-only after construction and safe for concurrent use.
type Index struct {
	src        []byte
	lineStarts []int
}

// NewIndex builds a line-offset index for src. Line terminators follow
// the same convention as Resolve: CRLF counts once, lone LF or CR once.
func NewIndex(src []byte) *Index {
	starts := make([]int, 1, 64)
	starts[0] = 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				continue
			}
			starts = append(starts, i+1)
		}
	}
	return &Index{src: src, lineStarts: starts}
}

// Resolve converts the start of a span into a 1-based (line, column)
// position using binary search over the line table. Offsets at or past
// the end of the source degrade to an estimate just past the last line.
func (x *Index) Resolve(span Span) Position {
	offset := span.Start
	if offset < 0 {
		offset = 0
	}
	if offset >= len(x.src) {
		last := x.lineStarts[len(x.lineStarts)-1]
		return Position{
			Line:   len(x.lineStarts),
			Column: utf8.RuneCount(x.src[last:]) + 1,
		}
	}
	// Largest line start <= offset.
	line := sort.Search(len(x.lineStarts), func(i int) bool {
		return x.lineStarts[i] > offset
	}) - 1
	start := x.lineStarts[line]
	return Position{Line: line + 1, Column: utf8.RuneCount(x.src[start:offset]) + 1}
}

// LineCount returns the number of lines in the indexed source.
func (x *Index) LineCount() int {
	return len(x.lineStarts)
}
