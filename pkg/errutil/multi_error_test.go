package errutil

import (
	"errors"
	"testing"

	"src.elv.sh/formtk/pkg/tt"
)

var (
	err1 = errors.New("error 1")
	err2 = errors.New("error 2")
	err3 = errors.New("error 3")
)

func TestMulti(t *testing.T) {
	tt.Test(t, tt.Fn("Multi", Multi), tt.Table{
		tt.Args().Rets(nil),
		tt.Args(nil, nil).Rets(nil),
		tt.Args(err1).Rets(err1),
		tt.Args(err1, nil).Rets(err1),
		tt.Args(err1, err2).Rets(multiError{err1, err2}),
		tt.Args(Multi(err1, err2), err3).Rets(multiError{err1, err2, err3}),
	})
}

func TestMultiError(t *testing.T) {
	want := "multiple errors: error 1; error 2"
	if got := Multi(err1, err2).Error(); got != want {
		t.Errorf("Error() -> %q, want %q", got, want)
	}
}

func TestErrors(t *testing.T) {
	if got := Errors(nil); got != nil {
		t.Errorf("Errors(nil) -> %v", got)
	}
	if got := Errors(err1); len(got) != 1 || got[0] != err1 {
		t.Errorf("Errors(err1) -> %v", got)
	}
	if got := Errors(Multi(err1, err2)); len(got) != 2 {
		t.Errorf("Errors(Multi(err1, err2)) -> %v", got)
	}
}
