package lens

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Codec converts between the representation of a value in storage and its
// domain type T.
type Codec[T any] interface {
	Decode(stored any) (T, error)
	Encode(v T) any
}

// Typed is a Lens paired with a Codec.
type Typed[T any] struct {
	Lens
	Codec Codec[T]
}

// Of returns a Typed lens.
func Of[T any](l Lens, c Codec[T]) Typed[T] { return Typed[T]{l, c} }

// Value decodes the current value of the slot.
func (t Typed[T]) Value() (T, error) { return t.Codec.Decode(t.Get()) }

// SetValue encodes v and assigns it to the slot.
func (t Typed[T]) SetValue(v T) { t.Set(t.Codec.Encode(v)) }

// ErrEmpty is returned by codecs when the stored value is nil or an empty
// string.
var ErrEmpty = errors.New("empty value")

type cannotDecode struct {
	what   string
	stored any
}

func (err cannotDecode) Error() string {
	return fmt.Sprintf("cannot decode %#v as %s", err.stored, err.what)
}

type stringCodec struct{}

// StringCodec decodes any stored value as its string form; nil becomes "".
var StringCodec Codec[string] = stringCodec{}

func (stringCodec) Decode(stored any) (string, error) {
	switch s := stored.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return fmt.Sprint(s), nil
	}
}

func (stringCodec) Encode(v string) any { return v }

type intCodec struct{}

// IntCodec decodes integers stored as Go numbers or as decimal strings, and
// encodes them as strings. It is meant for string-typed storage such as the
// content of a text widget.
var IntCodec Codec[int] = intCodec{}

func (intCodec) Decode(stored any) (int, error) {
	switch v := stored.(type) {
	case nil:
		return 0, ErrEmpty
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, cannotDecode{"integer", stored}
		}
		return int(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, ErrEmpty
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, cannotDecode{"integer", stored}
		}
		return i, nil
	}
	return 0, cannotDecode{"integer", stored}
}

func (intCodec) Encode(v int) any { return strconv.Itoa(v) }

type boolCodec struct{}

// BoolCodec decodes booleans stored as Go bools or as the strings "true" and
// "false", and encodes them as Go bools. A nil stored value decodes to false.
var BoolCodec Codec[bool] = boolCodec{}

func (boolCodec) Decode(stored any) (bool, error) {
	switch v := stored.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, cannotDecode{"boolean", stored}
		}
		return b, nil
	}
	return false, cannotDecode{"boolean", stored}
}

func (boolCodec) Encode(v bool) any { return v }
