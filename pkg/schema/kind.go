package schema

import "sort"

// Kind identifies the node kind a field descriptor compiles to.
type Kind int

// Possible values of Kind.
const (
	ShortText Kind = iota
	LongText
	Integer
	Date
	Boolean
	File
	Ref
	Array
	Grid
	Object
)

var kindNames = [...]string{
	ShortText: "short-text",
	LongText:  "long-text",
	Integer:   "integer",
	Date:      "date",
	Boolean:   "boolean",
	File:      "file",
	Ref:       "reference",
	Array:     "array",
	Grid:      "grid",
	Object:    "object",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsScalar reports whether k is a leaf kind.
func (k Kind) IsScalar() bool { return k <= Ref }

type keyword struct {
	kind Kind
	// Name of the argument, for keywords that take one.
	arg string
}

var keywords = map[string]keyword{
	"TEXTSHORT": {ShortText, ""},
	"TEXTLONG":  {LongText, ""},
	"INTEGER":   {Integer, ""},
	"DATE":      {Date, ""},
	"BOOLEAN":   {Boolean, ""},
	"FILE":      {File, "kind"},
	"REF":       {Ref, "targetType"},
}

// Keywords returns the type keywords, sorted.
func Keywords() []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
