package schema

import (
	"strconv"

	"src.elv.sh/formtk/pkg/diag"
)

// Statement is one parsed line of a schema block:
//
//	<fieldName> <type>[(<arg>)][[]|[][]][!] ["<label>"]
type Statement struct {
	diag.Ranging
	Name  string
	Type  TypeExpr
	Label string
	// Whether Label was given.
	HasLabel bool
}

// TypeExpr is the type part of a Statement.
type TypeExpr struct {
	diag.Ranging
	// Keyword or name of a nested block.
	Name string
	// Whether Name was written in braces, forcing a block lookup.
	Braced bool
	Arg    string
	HasArg bool
	// 0 for a single value, 1 for an array, 2 for a grid.
	Dims     int
	Required bool
}

type scanner struct {
	doc *Document
	src string
	pos int
	end int
}

func parseStatement(doc *Document, r diag.Ranging) (*Statement, error) {
	s := &scanner{doc, doc.Text, r.From, r.To}
	st := &Statement{Ranging: r}

	st.Name = s.ident()
	if st.Name == "" {
		return nil, s.errorAt(s.pos, s.pos+1, "expected field name")
	}
	if !s.space() {
		return nil, s.errorAt(s.pos, s.pos+1, "expected whitespace after field name %s", st.Name)
	}

	typ, err := s.typeExpr()
	if err != nil {
		return nil, err
	}
	st.Type = *typ

	if s.space() && s.peek() == '"' {
		label, err := s.label()
		if err != nil {
			return nil, err
		}
		st.Label, st.HasLabel = label, true
		s.space()
	}
	if s.pos < s.end && s.peek() != '#' {
		return nil, s.errorAt(s.pos, s.end, "unexpected text after statement")
	}
	return st, nil
}

func (s *scanner) typeExpr() (*TypeExpr, error) {
	t := &TypeExpr{}
	start := s.pos
	if s.peek() == '{' {
		s.pos++
		t.Name, t.Braced = s.ident(), true
		if t.Name == "" || s.peek() != '}' {
			return nil, s.errorAt(start, s.wordEnd(), "malformed nested record reference, want {NAME}")
		}
		s.pos++
	} else {
		t.Name = s.ident()
		if t.Name == "" {
			return nil, s.errorAt(s.pos, s.wordEnd(), "expected type")
		}
	}

	if s.peek() == '(' {
		argStart := s.pos
		s.pos++
		for s.pos < s.end && s.src[s.pos] != ')' {
			s.pos++
		}
		if s.pos == s.end {
			return nil, s.errorAt(argStart, s.end, "unclosed type argument")
		}
		arg := s.src[argStart+1 : s.pos]
		s.pos++
		r := trimRange(s.src, diag.Ranging{From: argStart + 1, To: s.pos - 1})
		t.Arg, t.HasArg = s.src[r.From:r.To], true
		if t.Arg == "" {
			return nil, s.errorAt(argStart, s.pos, "empty type argument %q", "("+arg+")")
		}
	}

	for s.peek() == '[' {
		if s.pos+1 < s.end && s.src[s.pos+1] == ']' {
			s.pos += 2
			t.Dims++
			continue
		}
		return nil, s.errorAt(start, s.wordEnd(), "malformed array suffix, want [] or [][]")
	}
	if s.peek() == '!' {
		s.pos++
		t.Required = true
	}
	if s.pos < s.end && !isSpace(s.src[s.pos]) {
		if s.src[s.pos] == ']' {
			return nil, s.errorAt(start, s.wordEnd(), "malformed array suffix, want [] or [][]")
		}
		return nil, s.errorAt(start, s.wordEnd(), "unexpected %q in type", s.src[s.pos])
	}
	t.Ranging = diag.Ranging{From: start, To: s.pos}
	if t.Dims > 2 {
		return nil, s.errorAt(start, s.pos, "malformed grid suffix, at most two dimensions are supported")
	}
	return t, nil
}

func (s *scanner) label() (string, error) {
	start := s.pos
	s.pos++
	for s.pos < s.end {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
			continue
		case '"':
			s.pos++
			label, err := strconv.Unquote(s.src[start:s.pos])
			if err != nil {
				return "", s.errorAt(start, s.pos, "invalid label: %v", err)
			}
			return label, nil
		}
		s.pos++
	}
	return "", s.errorAt(start, s.end, "unterminated label")
}

func (s *scanner) peek() byte {
	if s.pos < s.end {
		return s.src[s.pos]
	}
	return 0
}

func (s *scanner) ident() string {
	start := s.pos
	for s.pos < s.end && isIdentByte(s.src[s.pos], s.pos == start) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// space skips whitespace and reports whether there was any.
func (s *scanner) space() bool {
	start := s.pos
	for s.pos < s.end && isSpace(s.src[s.pos]) {
		s.pos++
	}
	return s.pos > start
}

// wordEnd returns the end of the run of non-space bytes at the position.
func (s *scanner) wordEnd() int {
	i := s.pos
	for i < s.end && !isSpace(s.src[i]) {
		i++
	}
	return i
}

func (s *scanner) errorAt(from, to int, format string, args ...any) error {
	to = min(max(to, from), s.end)
	return newError(s.doc, diag.Ranging{From: from, To: to}, format, args...)
}

func isIdentByte(b byte, first bool) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') ||
		(!first && '0' <= b && b <= '9')
}
