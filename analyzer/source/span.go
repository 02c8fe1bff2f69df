package source

import "fmt"

// Span is a half-open byte interval [Start, End) into one source text.
type Span struct {
	Start int
	End   int
}

// NewSpan creates a span, clamping negative offsets to zero.
func NewSpan(start, end int) Span {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return Span{Start: start, End: end}
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.Start == s.End
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Position is a 1-based (line, column) location in a source text.
// Column counts Unicode scalar values since the start of the line.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
