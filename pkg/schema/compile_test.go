package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"src.elv.sh/formtk/pkg/diag"
)

var ignoreRanges = cmpopts.IgnoreTypes(diag.Ranging{})

func mustCompile(t *testing.T, text string) *Tree {
	t.Helper()
	tree, err := CompileText("[test]", text)
	if err != nil {
		t.Fatalf("CompileText: %v", err)
	}
	return tree
}

func TestCompile_Scalar(t *testing.T) {
	tree := mustCompile(t, `name TEXTSHORT "Display Name"`)
	want := []*Field{{Label: "Display Name", Kind: ShortText, Name: "name"}}
	if diff := cmp.Diff(want, tree.Fields, ignoreRanges); diff != "" {
		t.Errorf("Fields (-want +got):\n%s", diff)
	}
}

func TestCompile_AllScalarKinds(t *testing.T) {
	tree := mustCompile(t, `
		# comments and blank lines are ignored

		a TEXTSHORT
		b TEXTLONG   "Notes"
		c INTEGER!   "Count"
		d DATE
		e BOOLEAN    "Flag" # trailing comment
		f FILE(image)
		g REF( author )
	`)
	want := []*Field{
		{Name: "a", Label: "a", Kind: ShortText},
		{Name: "b", Label: "Notes", Kind: LongText},
		{Name: "c", Label: "Count", Kind: Integer, Required: true},
		{Name: "d", Label: "d", Kind: Date},
		{Name: "e", Label: "Flag", Kind: Boolean},
		{Name: "f", Label: "f", Kind: File, Args: []string{"image"}},
		{Name: "g", Label: "g", Kind: Ref, Args: []string{"author"}},
	}
	if diff := cmp.Diff(want, tree.Fields, ignoreRanges); diff != "" {
		t.Errorf("Fields (-want +got):\n%s", diff)
	}
}

func TestCompile_ArrayOfNestedRecord(t *testing.T) {
	tree := mustCompile(t, `
		items ENTRY[] "Items"

		[ENTRY]
		name TEXTSHORT "Name"
		qty  INTEGER
	`)
	entry := []*Field{
		{Name: "name", Label: "Name", Kind: ShortText},
		{Name: "qty", Label: "qty", Kind: Integer},
	}
	want := []*Field{{
		Name: "items", Label: "Items", Kind: Array,
		Elem: &Field{Kind: Object, Block: "ENTRY", Fields: entry},
	}}
	if diff := cmp.Diff(want, tree.Fields, ignoreRanges); diff != "" {
		t.Errorf("Fields (-want +got):\n%s", diff)
	}
}

func TestCompile_GridBracedAndNestedBlocks(t *testing.T) {
	tree := mustCompile(t, `
		cells INTEGER[][]
		owner {PERSON}! "Owner"

		[PERSON]
		name    TEXTSHORT
		address ADDRESS

		[ADDRESS]
		city TEXTSHORT
	`)
	address := []*Field{{Name: "city", Label: "city", Kind: ShortText}}
	person := []*Field{
		{Name: "name", Label: "name", Kind: ShortText},
		{Name: "address", Label: "address", Kind: Object, Block: "ADDRESS", Fields: address},
	}
	want := []*Field{
		{Name: "cells", Label: "cells", Kind: Grid, Elem: &Field{Kind: Integer}},
		{Name: "owner", Label: "Owner", Kind: Object, Block: "PERSON", Fields: person, Required: true},
	}
	if diff := cmp.Diff(want, tree.Fields, ignoreRanges); diff != "" {
		t.Errorf("Fields (-want +got):\n%s", diff)
	}
}

func TestCompile_ReusedBlockIsNotRecursion(t *testing.T) {
	tree := mustCompile(t, `
		a P
		b P[]

		[P]
		x TEXTSHORT
	`)
	if len(tree.Fields) != 2 || tree.Fields[1].Elem.Block != "P" {
		t.Errorf("unexpected fields %v", tree.Fields)
	}
}

func TestCompile_LabelEscapes(t *testing.T) {
	tree := mustCompile(t, `q TEXTSHORT "say \"hi\"\t"`)
	if got := tree.Fields[0].Label; got != "say \"hi\"\t" {
		t.Errorf("Label -> %q", got)
	}
}

func TestCompile_Ranges(t *testing.T) {
	text := "a TEXTSHORT\n  items ENTRY[]  \n[ENTRY]\nx INTEGER"
	tree := mustCompile(t, text)
	f := tree.Fields[1]
	if got := text[f.From:f.To]; got != "items ENTRY[]" {
		t.Errorf("statement range covers %q", got)
	}
}

var compileErrorTests = []struct {
	name    string
	text    string
	message string
	culprit string
}{
	{"unknown type", `age WEIRDTYPE`, "unknown type WEIRDTYPE", "WEIRDTYPE"},
	{"undefined braced block", `x {NOPE}`, "undefined nested record NOPE", "{NOPE}"},
	{"unclosed brace", `x {NOPE`, "malformed nested record reference", "{NOPE"},
	{"unclosed bracket", `x INTEGER[`, "malformed array suffix", "INTEGER["},
	{"junk in bracket", `x INTEGER[3]`, "malformed array suffix", "INTEGER[3]"},
	{"stray bracket", `x INTEGER]`, "malformed array suffix", "INTEGER]"},
	{"three dimensions", `x INTEGER[][][]`, "malformed grid suffix", "INTEGER[][][]"},
	{"missing argument", `x FILE`, "FILE requires an argument", "FILE"},
	{"unexpected argument", `x TEXTSHORT(a)`, "TEXTSHORT takes no argument", "TEXTSHORT(a)"},
	{"empty argument", `x REF()`, "empty type argument", "()"},
	{"unclosed argument", `x REF(a`, "unclosed type argument", "(a"},
	{"missing type", `x`, "expected whitespace after field name", ""},
	{"bad field name", `1x TEXTSHORT`, "expected field name", "1"},
	{"unterminated label", `x TEXTSHORT "abc`, "unterminated label", `"abc`},
	{"trailing text", `x TEXTSHORT "a" b`, "unexpected text after statement", "b"},
	{"duplicate field", "x TEXTSHORT\nx INTEGER", "duplicate field x", "x INTEGER"},
	{"recursion", "x A\n[A]\ny B\n[B]\nz A[]", "recursive reference to nested record A", "A[]"},
	{"malformed header", "x TEXTSHORT\n[a b]", "malformed block header", "[a b]"},
	{"duplicate header", "[A]\nx TEXTSHORT\n[A]", "block A already defined on line 1", "[A]"},
}

func TestCompile_Errors(t *testing.T) {
	for _, test := range compileErrorTests {
		t.Run(test.name, func(t *testing.T) {
			tree, err := CompileText("[test]", test.text)
			if tree != nil {
				t.Errorf("got a tree despite errors")
			}
			entries := UnpackErrors(err)
			if len(entries) != 1 {
				t.Fatalf("got %d errors (%v), want 1", len(entries), err)
			}
			e := entries[0]
			if e.Type != ErrorType || !strings.Contains(e.Message, test.message) {
				t.Errorf("error %q, want message containing %q", e.Error(), test.message)
			}
			if got := test.text[e.Context.From:e.Context.To]; got != test.culprit {
				t.Errorf("culprit %q, want %q", got, test.culprit)
			}
		})
	}
}

func TestCompile_ReportsAllStatements(t *testing.T) {
	_, err := CompileText("[test]", "a WEIRD\nb TEXTSHORT\nc ODD[]")
	entries := UnpackErrors(err)
	if len(entries) != 2 {
		t.Fatalf("got %d errors, want 2", len(entries))
	}
	if !strings.Contains(entries[0].Error(), "[test]:1:3:") ||
		!strings.Contains(entries[1].Error(), "[test]:3:3:") {
		t.Errorf("errors don't identify their statements: %v", err)
	}
}

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument("song", `lines LINE[]`, map[string]string{
		"LINE": "text TEXTSHORT\nchord TEXTSHORT",
	})
	if err != nil {
		t.Fatal(err)
	}
	tree, err := Compile(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(tree.Fields[0].Elem.Fields); got != 2 {
		t.Errorf("LINE compiled to %d fields, want 2", got)
	}
}

func TestKindString(t *testing.T) {
	if ShortText.String() != "short-text" || Ref.String() != "reference" || Kind(99).String() != "unknown" {
		t.Errorf("unexpected Kind names")
	}
	if !Ref.IsScalar() || Array.IsScalar() {
		t.Errorf("unexpected IsScalar")
	}
}

func TestKeywords(t *testing.T) {
	want := []string{"BOOLEAN", "DATE", "FILE", "INTEGER", "REF", "TEXTLONG", "TEXTSHORT"}
	if diff := cmp.Diff(want, Keywords()); diff != "" {
		t.Errorf("Keywords (-want +got):\n%s", diff)
	}
}
