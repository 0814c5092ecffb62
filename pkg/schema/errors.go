package schema

import (
	"fmt"

	"src.elv.sh/formtk/pkg/diag"
	"src.elv.sh/formtk/pkg/errutil"
)

// ErrorType is the type of all errors reported by this package.
const ErrorType = "compile error"

func newError(doc *Document, r diag.Ranger, format string, args ...any) *diag.Error {
	return &diag.Error{
		Type:    ErrorType,
		Message: fmt.Sprintf(format, args...),
		Context: *doc.context(r),
	}
}

// UnpackErrors returns the positioned errors contained in an error returned
// by this package, or nil if err is nil.
func UnpackErrors(err error) []*diag.Error {
	var entries []*diag.Error
	for _, e := range errutil.Errors(err) {
		if de, ok := e.(*diag.Error); ok {
			entries = append(entries, de)
		}
	}
	return entries
}
