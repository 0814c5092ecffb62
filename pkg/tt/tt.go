// Package tt supports table-driven tests with little boilerplate.
//
// A typical use looks like:
//
//	tt.Test(t, tt.Fn("Compile", compile), tt.Table{
//		tt.Args("name TEXTSHORT").Rets(want, nil),
//	})
package tt

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Table is a list of test cases.
type Table []*Case

// Case is one test case, created with Args and augmented with Rets.
type Case struct {
	args         []any
	retsMatchers [][]any
}

// Args returns a new Case with the given arguments.
func Args(args ...any) *Case {
	return &Case{args: args}
}

// Rets adds a set of matchers for the return values and returns the receiver.
// A matcher implementing Matcher is called with the actual value; any other
// matcher is compared with reflect.DeepEqual.
func (c *Case) Rets(matchers ...any) *Case {
	c.retsMatchers = append(c.retsMatchers, matchers)
	return c
}

// FnDescription describes a function under test.
type FnDescription struct {
	name    string
	body    any
	argsFmt string
	retsFmt string
}

// Fn makes a new FnDescription with the given name and body.
func Fn(name string, body any) *FnDescription {
	return &FnDescription{name: name, body: body}
}

// ArgsFmt sets the format string used for arguments in failure messages.
func (fn *FnDescription) ArgsFmt(s string) *FnDescription {
	fn.argsFmt = s
	return fn
}

// RetsFmt sets the format string used for return values in failure messages.
func (fn *FnDescription) RetsFmt(s string) *FnDescription {
	fn.retsFmt = s
	return fn
}

// T is the subset of testing.TB used by Test.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test runs fn against every case of the table.
func Test(t T, fn *FnDescription, tests Table) {
	t.Helper()
	for _, test := range tests {
		rets := call(fn.body, test.args)
		for _, retsMatcher := range test.retsMatchers {
			if match(retsMatcher, rets) {
				continue
			}
			var args string
			if fn.argsFmt == "" {
				args = sprintCommaDelimited(test.args...)
			} else {
				args = fmt.Sprintf(fn.argsFmt, test.args...)
			}
			var diff string
			if fn.retsFmt == "" {
				diff = diffValues(retsMatcher, rets)
			} else {
				diff = fmt.Sprintf("-"+fn.retsFmt+"\n+"+fn.retsFmt+"\n",
					append(retsMatcher, rets...)...)
			}
			t.Errorf("%s(%s) returns (-Wanted +Actual):\n%s", fn.name, args, diff)
		}
	}
}

// Matcher wraps the Match method.
type Matcher interface {
	// Match reports whether a return value is considered a match. The
	// argument is of type RetValue so that it cannot be implemented
	// accidentally.
	Match(RetValue) bool
}

// RetValue is the type of the argument passed to Matcher.Match.
type RetValue any

// Any is a Matcher that matches any value.
var Any Matcher = anyMatcher{}

type anyMatcher struct{}

func (anyMatcher) Match(RetValue) bool { return true }

// ErrorContains returns a Matcher that matches non-nil errors whose message
// contains s.
func ErrorContains(s string) Matcher { return errorContains{s} }

type errorContains struct{ s string }

func (m errorContains) Match(v RetValue) bool {
	err, ok := v.(error)
	return ok && err != nil && strings.Contains(err.Error(), m.s)
}

func match(matchers, actual []any) bool {
	for i, matcher := range matchers {
		if m, ok := matcher.(Matcher); ok {
			if !m.Match(actual[i]) {
				return false
			}
		} else if !reflect.DeepEqual(matcher, actual[i]) {
			return false
		}
	}
	return true
}

func diffValues(want, got []any) (diff string) {
	defer func() {
		// cmp panics on values with unexported fields, such as most error
		// values.
		if recover() != nil {
			diff = fmt.Sprintf("-%v\n+%v\n", want, got)
		}
	}()
	return cmp.Diff(want, got)
}

func call(fn any, args []any) []any {
	fnType := reflect.TypeOf(fn)
	argsReflect := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			// reflect.ValueOf(nil) returns a zero Value, which can't be used
			// as an argument; use the zero value of the parameter type.
			var paramType reflect.Type
			if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
				paramType = fnType.In(fnType.NumIn() - 1).Elem()
			} else {
				paramType = fnType.In(i)
			}
			argsReflect[i] = reflect.New(paramType).Elem()
		} else {
			argsReflect[i] = reflect.ValueOf(arg)
		}
	}
	retsReflect := reflect.ValueOf(fn).Call(argsReflect)
	rets := make([]any, len(retsReflect))
	for i, retReflect := range retsReflect {
		rets[i] = retReflect.Interface()
	}
	return rets
}

func sprintCommaDelimited(args ...any) string {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, arg)
	}
	return b.String()
}
