// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jcell

import (
	"fmt"

	"github.com/creachadair/jcell/internal/pool"
)

// A Value is a tagged word denoting an atom, an integer, a string chunk, or a
// cons pair.  The low OffsetBits address an element within a pool block, the
// next TagBits select the representation, and the remaining high bits select
// the pool block.  Immediate integers and short strings pack their payload
// into the offset and block bits and need no storage.
//
// The zero Value is Null.
type Value uint32

// Type is the type of a Value.
type Type byte

// Constants defining the valid Type values.
const (
	Cons    Type = iota // a pair of values
	String              // a string chunk
	Integer             // an immediate or boxed integer
	Atom                // a singleton constant
)

var typeStr = [...]string{
	Cons:    "cons",
	String:  "string",
	Integer: "integer",
	Atom:    "atom",
}

func (t Type) String() string {
	if int(t) >= len(typeStr) {
		return "invalid type"
	}
	return typeStr[t]
}

const (
	// OffsetBits is the number of bits addressing an element in a block.
	OffsetBits = pool.OffsetBits

	// TagBits is the number of bits selecting the representation of a value.
	TagBits = 3

	tagShift   = OffsetBits
	blockShift = OffsetBits + TagBits
	offMask    = 1<<OffsetBits - 1
	tagMask    = 1<<TagBits - 1

	payloadBits = 32 - TagBits
)

// Representation tags.
const (
	tagAtom     = iota // atom code in the offset bits
	tagCons            // index into the cons pool
	tagChunk           // index into the byte pool
	tagShortStr        // 1..3 printable ASCII bytes, packed
	tagBoxInt          // index into the integer pool
	tagInt             // immediate signed integer
)

// Limits of immediate integers. Integers outside this range are boxed.
const (
	MaxImmediate = 1<<(payloadBits-1) - 1
	MinImmediate = -MaxImmediate - 1
)

// Data atoms.
const (
	Null        Value = 0
	EmptyArray  Value = 1 // the empty JSON array, terminator of lists
	EmptyDict   Value = 2 // the empty JSON object, terminator of dictionaries
	True        Value = 3
	False       Value = 4
	EmptyString Value = 5 // the empty string, terminator of string chains
)

// Failed is the state of a parse that has encountered an error.
const Failed Value = ctlFailed

// Absent is returned by traversals that run off the end of a chain.  It is not
// a valid atom code and never occurs in a constructed value.
const Absent Value = ^Value(0)

// Parser control codes. These occur only within a parser continuation.
const (
	ctlBase   = 0x80
	ctlRoot   = 0x80 // bottom of the continuation stack
	ctlFailed = 0x81

	ctlArrOpen  = 0x90 // after "[", want value or "]"
	ctlArrNext  = 0x91 // after an element, want "," or "]"
	ctlArrValue = 0x92 // after ",", want value
	ctlObjOpen  = 0x98 // after "{", want key or "}"
	ctlObjKey   = 0x99 // after ",", want key
	ctlObjColon = 0x9a // after a key, want ":"
	ctlObjValue = 0x9b // after ":", want value
	ctlObjNext  = 0x9c // after a member, want "," or "}"

	ctlStr    = 0xa0 // in string text
	ctlStrEsc = 0xa1 // after "\"
	ctlStrHex = 0xa4 // after "\u" and n hex digits, 0xa4..0xa7

	ctlNumSign  = 0xb0 // after "-", want digit
	ctlNumZero  = 0xb1 // after a leading "0"
	ctlNumInt   = 0xb2 // in integer digits
	ctlNumDot   = 0xb3 // after ".", want digit
	ctlNumFrac  = 0xb4 // in fraction digits
	ctlNumE     = 0xb5 // after "e", want sign or digit
	ctlNumESign = 0xb6 // after exponent sign, want digit
	ctlNumExp   = 0xb7 // in exponent digits

	ctlLit = 0xc0 // literal progress: ctlLit + 8*literal + matched
)

func mkValue(tag uint32, i pool.Index) Value {
	return Value(uint32(i)&offMask | tag<<tagShift | (uint32(i)>>OffsetBits)<<blockShift)
}

func (v Value) tag() uint32 { return uint32(v) >> tagShift & tagMask }

// index returns the pool index of v, or the packed payload of an immediate.
func (v Value) index() pool.Index {
	return pool.Index(uint32(v)&offMask | (uint32(v)>>blockShift)<<OffsetBits)
}

// Type reports the type of v. It depends only on the tag bits of v.
func (v Value) Type() Type {
	switch v.tag() {
	case tagCons:
		return Cons
	case tagChunk, tagShortStr:
		return String
	case tagBoxInt, tagInt:
		return Integer
	default:
		return Atom
	}
}

// IsCons reports whether v is a cons pair.
func (v Value) IsCons() bool { return v.tag() == tagCons }

// IsAtom reports whether v is an atom.
func (v Value) IsAtom() bool { return v.Type() == Atom }

// IsString reports whether v is a single string chunk.
func (v Value) IsString() bool { return v.Type() == String }

// IsInteger reports whether v is an integer.
func (v Value) IsInteger() bool { return v.Type() == Integer }

// IsAbsent reports whether v is the Absent sentinel.
func (v Value) IsAbsent() bool { return v == Absent }

// IsControl reports whether v is a parser control code.
func (v Value) IsControl() bool { return v >= ctlBase && v <= 0xff }

// Code returns the atom code of v, or -1 if v is not an atom below 256.
func (v Value) Code() int {
	if v <= 0xff {
		return int(v)
	}
	return -1
}

var atomName = [...]string{
	Null:        "null",
	EmptyArray:  "()",
	EmptyDict:   "{}",
	True:        "true",
	False:       "false",
	EmptyString: `""`,
}

// GoString renders v as a compact tag and payload, for debugging.
func (v Value) GoString() string {
	switch v.tag() {
	case tagAtom:
		if int(v) < len(atomName) {
			return atomName[v]
		} else if v == Failed {
			return "#failed"
		}
		return fmt.Sprintf("#atom(0x%x)", uint32(v))
	case tagCons:
		return fmt.Sprintf("#cons(%d/%d)", v.index().Block(), v.index().Offset())
	case tagChunk:
		return fmt.Sprintf("#chunk(%d/%d)", v.index().Block(), v.index().Offset())
	case tagShortStr:
		return fmt.Sprintf("#str(%q)", shortBytes(v))
	case tagBoxInt:
		return fmt.Sprintf("#int(%d/%d)", v.index().Block(), v.index().Offset())
	case tagInt:
		return fmt.Sprintf("#int(%d)", immInt(v))
	}
	if v == Absent {
		return "#absent"
	}
	return fmt.Sprintf("#invalid(0x%x)", uint32(v))
}

// mkImmInt packs n, which must be in the immediate range.
func mkImmInt(n int64) Value {
	return mkValue(tagInt, pool.Index(uint32(n)&(1<<payloadBits-1)))
}

// immInt decodes an immediate integer by sign-extending its payload.
func immInt(v Value) int64 {
	return int64(int32(uint32(v.index())<<TagBits) >> TagBits)
}

func isShortByte(b byte) bool { return b >= 0x20 && b < 0x7f }

// mkShort packs text as a short string, reporting false if it does not fit.
func mkShort(text []byte) (Value, bool) {
	if len(text) == 0 || len(text) > 3 {
		return 0, false
	}
	p := uint32(len(text))
	for i, b := range text {
		if !isShortByte(b) {
			return 0, false
		}
		p |= uint32(b) << (2 + 7*i)
	}
	return mkValue(tagShortStr, pool.Index(p)), true
}

func shortLen(v Value) int { return int(v.index() & 3) }

func shortBytes(v Value) []byte {
	var buf [3]byte
	return appendShort(buf[:0], v)
}

func appendShort(dst []byte, v Value) []byte {
	p := uint32(v.index())
	for i := range shortLen(v) {
		dst = append(dst, byte(p>>(2+7*i))&0x7f)
	}
	return dst
}
