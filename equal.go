// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jcell

import (
	"unicode/utf8"
)

// A StrCursor iterates over the units of a string value. A unit is either a
// byte of a string chunk, or a single code point stored as an integer chunk.
// Since code points below 0x100 are always stored as bytes, the two kinds of
// unit never share a value.
type StrCursor struct {
	a    *Arena
	text []byte  // remaining bytes of the current chunk
	buf  [3]byte // storage for a short string chunk
	rest Value   // the remaining chain after the current chunk
}

// StrBegin returns a cursor positioned before the first unit of the string v.
func (a *Arena) StrBegin(v Value) StrCursor {
	return StrCursor{a: a, rest: v}
}

// Next returns the next unit of the string and reports whether there was one.
func (c *StrCursor) Next() (int32, bool) {
	for len(c.text) == 0 {
		var chunk Value
		switch {
		case c.rest.IsCons():
			chunk, c.rest = c.a.Pair(c.rest)
		case c.rest == EmptyString:
			return 0, false
		default:
			chunk, c.rest = c.rest, EmptyString
		}
		switch chunk.tag() {
		case tagShortStr:
			c.text = appendShort(c.buf[:0], chunk)
		case tagChunk:
			c.text = c.a.chunkBytes(chunk)
		case tagBoxInt, tagInt:
			return int32(c.a.Int64(chunk)), true
		default:
			return 0, false
		}
	}
	b := c.text[0]
	c.text = c.text[1:]
	return int32(b), true
}

// IsStr reports whether v is a string: EmptyString, a single chunk, or a chain
// of chunks ending in EmptyString.
func (a *Arena) IsStr(v Value) bool {
	if v == EmptyString || v.IsString() {
		return true
	}
	for ; v.IsCons(); v = a.Tail(v) {
		if !isChunk(a.Head(v)) {
			return false
		}
	}
	return v == EmptyString
}

// AppendStr appends the contents of the string v to dst. Bytes are copied
// as-is; code points are encoded as UTF-8.
func (a *Arena) AppendStr(dst []byte, v Value) []byte {
	for ; v.IsCons(); v = a.Tail(v) {
		dst = a.appendChunk(dst, a.Head(v))
	}
	return a.appendChunk(dst, v)
}

func (a *Arena) appendChunk(dst []byte, c Value) []byte {
	switch c.tag() {
	case tagShortStr:
		return appendShort(dst, c)
	case tagChunk:
		return append(dst, a.chunkBytes(c)...)
	case tagBoxInt, tagInt:
		return utf8.AppendRune(dst, rune(a.Int64(c)))
	}
	return dst
}

// EqualStr reports whether the string v has the same contents as s, with code
// points in v compared as their UTF-8 encoding.
func (a *Arena) EqualStr(v Value, s string) bool {
	if !a.IsStr(v) {
		return false
	}
	c := a.StrBegin(v)
	var buf [utf8.UTFMax]byte
	for {
		u, ok := c.Next()
		if !ok {
			return s == ""
		}
		if u < 0x100 {
			if s == "" || s[0] != byte(u) {
				return false
			}
			s = s[1:]
			continue
		}
		n := utf8.EncodeRune(buf[:], rune(u))
		if len(s) < n || s[:n] != string(buf[:n]) {
			return false
		}
		s = s[n:]
	}
}

// Equal reports whether x and y are structurally equal.  Values are equal if
// they are identical, if they are integers with the same value, if they are
// strings with the same contents regardless of how they are divided into
// chunks, or if they are pairs with equal heads and tails.
//
// The spines of lists and dictionaries are compared cell by cell. The key and
// value of each dictionary member are compared separately, so a member whose
// value is a chain of chunks is not mistaken for a string.
func (a *Arena) Equal(x, y Value) bool {
	type pair struct {
		x, y Value
		ctx  eqContext
	}
	work := []pair{{x: x, y: y}}
	for len(work) != 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		x, y := p.x, p.y

		if x == y {
			continue
		} else if !x.IsCons() || !y.IsCons() {
			if !a.equalAtom(x, y) {
				return false
			}
			continue
		}

		ctx := p.ctx
		if ctx == eqValue {
			if a.IsStr(x) && a.IsStr(y) {
				if !a.equalStr(x, y) {
					return false
				}
				continue
			}
			ctx = eqList
			if a.LastTail(x, 0) == EmptyDict {
				ctx = eqDict
			}
		}

		xh, xt := a.Pair(x)
		yh, yt := a.Pair(y)
		switch ctx {
		case eqList:
			work = append(work, pair{xt, yt, eqList}, pair{xh, yh, eqValue})
		case eqDict:
			work = append(work, pair{xt, yt, eqDict}, pair{xh, yh, eqMember})
		case eqMember:
			work = append(work, pair{xt, yt, eqValue}, pair{xh, yh, eqValue})
		}
	}
	return true
}

// An eqContext records the role of a pair of values being compared by Equal.
type eqContext byte

const (
	eqValue  eqContext = iota // a complete value
	eqList                    // the rest of a list spine
	eqDict                    // the rest of a dictionary spine
	eqMember                  // a (key . value) dictionary member
)

// equalAtom compares x and y, at least one of which is not a pair.
func (a *Arena) equalAtom(x, y Value) bool {
	switch {
	case x.IsInteger() && y.IsInteger():
		return a.Int64(x) == a.Int64(y)
	case a.IsStr(x) && a.IsStr(y):
		return a.equalStr(x, y)
	}
	return false
}

// equalStr compares two strings by walking both with paired cursors.
func (a *Arena) equalStr(x, y Value) bool {
	cx, cy := a.StrBegin(x), a.StrBegin(y)
	for {
		ux, okx := cx.Next()
		uy, oky := cy.Next()
		if okx != oky || ux != uy {
			return false
		} else if !okx {
			return true
		}
	}
}
