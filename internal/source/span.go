// Package source holds the minimal source-location vocabulary the resolver
// and executor need. The lexer, preprocessor, and AST builder that produce
// these values live upstream of this module (see spec §1 Non-goals); this
// package only defines the shapes they hand us.
package source

import "fmt"

// A File identifies one contributing source file by its project-relative,
// slash-normalized path. It is never an absolute filesystem path: diagnostics
// render a minimized filename the same way regardless of where the workspace
// happens to sit on disk.
type File string

// A Pos is a single point in a File, both byte offset and human-facing
// line/column. Line and Column are 1-based; Offset is 0-based.
type Pos struct {
	File   File
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	if p.File == "" {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsValid reports whether p names a real location.
func (p Pos) IsValid() bool { return p.File != "" }

// A Span covers source text from Start up to and including End. A Span with
// an invalid Start is used for synthetic nodes that have no source origin
// (defaulted literals, monomorphized instantiations).
type Span struct {
	Start, End Pos
}

func (s Span) String() string {
	if !s.Start.IsValid() {
		return "<synthetic>"
	}
	if s.Start.File == s.End.File && s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.File, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// IsValid reports whether s covers real source text.
func (s Span) IsValid() bool { return s.Start.IsValid() }

// Synthetic is the zero Span, used for compiler-introduced nodes (defaulted
// literals, monomorphization instances, implicit casts).
var Synthetic = Span{}
