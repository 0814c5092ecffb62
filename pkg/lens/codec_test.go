package lens

import (
	"testing"

	"src.elv.sh/formtk/pkg/tt"
)

func decodeInt(v any) (int, error)       { return IntCodec.Decode(v) }
func decodeBool(v any) (bool, error)     { return BoolCodec.Decode(v) }
func decodeString(v any) (string, error) { return StringCodec.Decode(v) }

func TestIntCodec(t *testing.T) {
	tt.Test(t, tt.Fn("IntCodec.Decode", decodeInt), tt.Table{
		tt.Args(12).Rets(12, nil),
		tt.Args(12.0).Rets(12, nil),
		tt.Args(" 42 ").Rets(42, nil),
		tt.Args("").Rets(0, ErrEmpty),
		tt.Args(nil).Rets(0, ErrEmpty),
		tt.Args(1.5).Rets(0, tt.ErrorContains("as integer")),
		tt.Args("x").Rets(0, tt.ErrorContains("as integer")),
	})
	if g := IntCodec.Encode(7); g != "7" {
		t.Errorf("Encode(7) -> %#v, want \"7\"", g)
	}
}

func TestBoolCodec(t *testing.T) {
	tt.Test(t, tt.Fn("BoolCodec.Decode", decodeBool), tt.Table{
		tt.Args(true).Rets(true, nil),
		tt.Args("false").Rets(false, nil),
		tt.Args(nil).Rets(false, nil),
		tt.Args(3).Rets(false, tt.ErrorContains("as boolean")),
	})
}

func TestStringCodec(t *testing.T) {
	tt.Test(t, tt.Fn("StringCodec.Decode", decodeString), tt.Table{
		tt.Args(nil).Rets("", nil),
		tt.Args("a").Rets("a", nil),
		tt.Args(12).Rets("12", nil),
	})
}

func TestTyped(t *testing.T) {
	var v any = "10"
	l := Of(FromPtr(&v), IntCodec)
	n, err := l.Value()
	if n != 10 || err != nil {
		t.Errorf("Value -> (%v, %v), want (10, nil)", n, err)
	}
	l.SetValue(11)
	if v != "11" {
		t.Errorf("SetValue didn't encode; got %#v", v)
	}
}
