package source_test

import (
	"testing"

	"github.com/jsvet/jsvet/analyzer/source"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		offset int
		want   source.Position
	}{
		{
			name:   "offset zero",
			src:    "let a = 1;\nlet b = 2;\n",
			offset: 0,
			want:   source.Position{Line: 1, Column: 1},
		},
		{
			name:   "second line",
			src:    "let a = 1;\nlet b = 2;\n",
			offset: 11,
			want:   source.Position{Line: 2, Column: 1},
		},
		{
			name:   "mid second line",
			src:    "let a = 1;\nlet b = 2;\n",
			offset: 15,
			want:   source.Position{Line: 2, Column: 5},
		},
		{
			name:   "crlf counts once",
			src:    "a\r\nb\r\nc",
			offset: 6,
			want:   source.Position{Line: 3, Column: 1},
		},
		{
			name:   "lone cr is a terminator",
			src:    "a\rb",
			offset: 2,
			want:   source.Position{Line: 2, Column: 1},
		},
		{
			name:   "multibyte column counts scalar values",
			src:    "héllo = 1\nπ = 2",
			offset: len("héllo = 1\nπ"),
			want:   source.Position{Line: 2, Column: 2},
		},
		{
			name:   "past end degrades to estimate",
			src:    "a\nbc",
			offset: 100,
			want:   source.Position{Line: 2, Column: 3},
		},
		{
			name:   "empty source",
			src:    "",
			offset: 0,
			want:   source.Position{Line: 1, Column: 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := source.Resolve([]byte(tc.src), source.NewSpan(tc.offset, tc.offset))
			assert.Equal(t, tc.want, got)

			idx := source.NewIndex([]byte(tc.src))
			assert.Equal(t, tc.want, idx.Resolve(source.NewSpan(tc.offset, tc.offset)), "index resolution must agree")
		})
	}
}

func TestResolve_Monotonic(t *testing.T) {
	src := []byte("const x = 1;\r\nif (x) {\n\treturn x;\r}\n")
	idx := source.NewIndex(src)
	prev := source.Position{}
	for offset := 0; offset <= len(src); offset++ {
		got := idx.Resolve(source.NewSpan(offset, offset))
		if offset > 0 {
			after := got.Line > prev.Line || (got.Line == prev.Line && got.Column >= prev.Column)
			assert.True(t, after, "offset %d: %v decreased from %v", offset, got, prev)
		}
		assert.Equal(t, got, source.Resolve(src, source.NewSpan(offset, offset)), "offset %d", offset)
		prev = got
	}
}

func TestResolve_PureLFColumn(t *testing.T) {
	src := []byte("aaa\nbbbb\ncc\n")
	lastNewline := 8
	for offset := lastNewline + 1; offset < len(src); offset++ {
		got := source.Resolve(src, source.NewSpan(offset, offset))
		assert.Equal(t, offset-lastNewline, got.Column)
		assert.Equal(t, 3, got.Line)
	}
}
