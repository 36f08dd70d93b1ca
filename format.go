// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jcell

import (
	"fmt"
	"io"
	"strconv"

	"github.com/creachadair/jcell/internal/escape"

	"go4.org/mem"
)

// Kind is the JSON type of a complete value.
type Kind byte

// Constants defining the valid Kind values.
const (
	InvalidKind Kind = iota // not a complete JSON value
	NullKind                // null
	BoolKind                // true or false
	NumberKind              // an integer or a (mantissa . exponent) pair
	StringKind              // a string
	ArrayKind               // a list
	ObjectKind              // a dictionary
)

var kindStr = [...]string{
	InvalidKind: "invalid",
	NullKind:    "null",
	BoolKind:    "bool",
	NumberKind:  "number",
	StringKind:  "string",
	ArrayKind:   "array",
	ObjectKind:  "object",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[InvalidKind]
	}
	return kindStr[k]
}

// Kind reports the JSON type of v. It does not examine the elements of arrays
// and objects.
func (a *Arena) Kind(v Value) Kind {
	switch v.Type() {
	case Integer:
		return NumberKind
	case String:
		return StringKind
	case Atom:
		switch v {
		case Null:
			return NullKind
		case True, False:
			return BoolKind
		case EmptyArray:
			return ArrayKind
		case EmptyDict:
			return ObjectKind
		case EmptyString:
			return StringKind
		}
		return InvalidKind
	}
	if h, t := a.Pair(v); h.IsInteger() && t.IsInteger() {
		return NumberKind
	}
	switch a.LastTail(v, 0) {
	case EmptyArray:
		return ArrayKind
	case EmptyDict:
		return ObjectKind
	case EmptyString:
		if a.IsStr(v) {
			return StringKind
		}
	}
	return InvalidKind
}

// Number returns the mantissa and decimal exponent of the number v.  It
// reports false if v is not a number.
func (a *Arena) Number(v Value) (mant, exp int64, ok bool) {
	if v.IsInteger() {
		return a.Int64(v), 0, true
	} else if v.IsCons() {
		if h, t := a.Pair(v); h.IsInteger() && t.IsInteger() {
			return a.Int64(h), a.Int64(t), true
		}
	}
	return 0, 0, false
}

// An item is a unit of pending output for the printers: either literal text,
// or a value to be rendered.
type item struct {
	text string
	v    Value
}

// AppendJSON appends the JSON encoding of the complete value v to dst.
// Object members are written in the order they were added, which is the
// reverse of their order in the dictionary chain.
//
// String bytes are written as UTF-8 where they form valid sequences, and
// other bytes are escaped as the Latin-1 code points they denote. Since an
// escape below \u0100 is stored as the byte it denotes, escapes that spell
// out a UTF-8 sequence are written back as that sequence: "\u00c3\u00a9" is
// written as "é", not as the two code points Ã and ©.
func (a *Arena) AppendJSON(dst []byte, v Value) ([]byte, error) {
	work := []item{{v: v}}
	var elts []Value
	for len(work) != 0 {
		next := work[len(work)-1]
		work = work[:len(work)-1]
		if next.text != "" {
			dst = append(dst, next.text...)
			continue
		}

		v := next.v
		switch a.Kind(v) {
		case NullKind, BoolKind:
			dst = append(dst, atomName[v]...)
		case NumberKind:
			m, e, _ := a.Number(v)
			dst = strconv.AppendInt(dst, m, 10)
			if e != 0 {
				dst = append(dst, 'e')
				dst = strconv.AppendInt(dst, e, 10)
			}
		case StringKind:
			dst = a.appendQuoted(dst, v)
		case ArrayKind:
			elts = elts[:0]
			for ; v.IsCons(); v = a.Tail(v) {
				elts = append(elts, a.Head(v))
			}
			work = append(work, item{text: "]"})
			for i := len(elts) - 1; i >= 0; i-- {
				work = append(work, item{v: elts[i]})
				if i > 0 {
					work = append(work, item{text: ","})
				}
			}
			dst = append(dst, '[')
		case ObjectKind:
			elts = elts[:0]
			for ; v.IsCons(); v = a.Tail(v) {
				elts = append(elts, a.Head(v))
			}
			work = append(work, item{text: "}"})
			for i, p := range elts {
				if !p.IsCons() {
					return dst, fmt.Errorf("invalid object member %#v", p)
				}
				key, val := a.Pair(p)
				if a.Kind(key) != StringKind {
					return dst, fmt.Errorf("invalid object key %#v", key)
				}
				work = append(work, item{v: val}, item{text: ":"}, item{v: key})
				if i+1 < len(elts) {
					work = append(work, item{text: ","})
				}
			}
			dst = append(dst, '{')
		default:
			return dst, fmt.Errorf("value %#v is not JSON", v)
		}
	}
	return dst, nil
}

func (a *Arena) appendQuoted(dst []byte, v Value) []byte {
	// Collect runs of bytes across chunk boundaries, so that a multi-byte
	// sequence split between chunks is escaped as a unit.
	var run []byte
	dst = append(dst, '"')
	for c := a.StrBegin(v); ; {
		u, ok := c.Next()
		if ok && u < 0x100 {
			run = append(run, byte(u))
			continue
		}
		dst = escape.Append(dst, mem.B(run))
		run = run[:0]
		if !ok {
			break
		}
		dst = escape.AppendRune(dst, rune(u))
	}
	return append(dst, '"')
}

func (a *Arena) appendEscaped(dst []byte, c Value) []byte {
	switch c.tag() {
	case tagShortStr:
		return escape.Append(dst, mem.B(shortBytes(c)))
	case tagChunk:
		return escape.Append(dst, mem.B(a.chunkBytes(c)))
	case tagBoxInt, tagInt:
		return escape.AppendRune(dst, rune(a.Int64(c)))
	}
	return dst
}

// JSON returns the JSON encoding of v, or a diagnostic string if v is not a
// complete JSON value.
func (a *Arena) JSON(v Value) string {
	out, err := a.AppendJSON(nil, v)
	if err != nil {
		return fmt.Sprintf("<invalid: %v>", err)
	}
	return string(out)
}

// AppendSexp appends a debugging representation of v to dst, as an
// S-expression. Pairs are written (a . b), lists (a b c), string chunks are
// quoted, integers are in decimal, and atoms are written by name where they
// have one, as 'c' if printable, or in hexadecimal.
func (a *Arena) AppendSexp(dst []byte, v Value) []byte {
	work := []item{{v: v}}
	var elts []Value
	for len(work) != 0 {
		next := work[len(work)-1]
		work = work[:len(work)-1]
		if next.text != "" {
			dst = append(dst, next.text...)
			continue
		}

		switch v := next.v; v.Type() {
		case Cons:
			elts = elts[:0]
			for ; v.IsCons(); v = a.Tail(v) {
				elts = append(elts, a.Head(v))
			}
			work = append(work, item{text: ")"})
			if v != EmptyArray {
				work = append(work, item{v: v}, item{text: " . "})
			}
			for i := len(elts) - 1; i >= 0; i-- {
				work = append(work, item{v: elts[i]})
				if i > 0 {
					work = append(work, item{text: " "})
				}
			}
			dst = append(dst, '(')
		case String:
			dst = append(dst, '"')
			dst = a.appendEscaped(dst, v)
			dst = append(dst, '"')
		case Integer:
			dst = strconv.AppendInt(dst, a.Int64(v), 10)
		default:
			dst = appendAtom(dst, v)
		}
	}
	return dst
}

func appendAtom(dst []byte, v Value) []byte {
	if int(v) < len(atomName) {
		return append(dst, atomName[v]...)
	} else if v >= 0x20 && v < 0x7f {
		return append(dst, '\'', byte(v), '\'')
	}
	return fmt.Appendf(dst, "0x%X", uint32(v))
}

// Sprint returns the S-expression representation of v.
func (a *Arena) Sprint(v Value) string { return string(a.AppendSexp(nil, v)) }

// Format writes the S-expression representation of v to w.
func (a *Arena) Format(w io.Writer, v Value) error {
	_, err := w.Write(a.AppendSexp(nil, v))
	return err
}
