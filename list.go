// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jcell

import (
	"encoding/binary"

	"go4.org/mem"
)

// NthTail follows the tail of v n times. It returns Absent if the chain ends
// before n steps.
func (a *Arena) NthTail(v Value, n int) Value {
	for ; n > 0; n-- {
		if !v.IsCons() {
			return Absent
		}
		v = a.Tail(v)
	}
	return v
}

// Nth returns the slot holding the nth element (from 0) of the chain v, or an
// absent slot if v has no such element.
func (a *Arena) Nth(v Value, n int) Slot {
	if c := a.NthTail(v, n); c.IsCons() {
		return Slot{cell: c}
	}
	return Slot{}
}

// First returns the slot of the first element of v.
func (a *Arena) First(v Value) Slot { return a.Nth(v, 0) }

// Second returns the slot of the second element of v.
func (a *Arena) Second(v Value) Slot { return a.Nth(v, 1) }

// Third returns the slot of the third element of v.
func (a *Arena) Third(v Value) Slot { return a.Nth(v, 2) }

// LastTail returns the portion of the chain v comprising its last n cons
// cells. For n == 0 this is the terminator of the chain. If the chain has
// fewer than n cells, v itself is returned.
func (a *Arena) LastTail(v Value, n int) Value {
	lead := v
	for ; n > 0; n-- {
		if !lead.IsCons() {
			return v
		}
		lead = a.Tail(lead)
	}
	for lead.IsCons() {
		lead = a.Tail(lead)
		v = a.Tail(v)
	}
	return v
}

// Len returns the number of cons cells in the chain v.
func (a *Arena) Len(v Value) int {
	var n int
	for ; v.IsCons(); v = a.Tail(v) {
		n++
	}
	return n
}

// Pop returns the head of *v and replaces *v with its tail. If *v is not a
// cons, Pop returns Null and leaves *v unchanged.
func (a *Arena) Pop(v *Value) Value {
	if !v.IsCons() {
		return Null
	}
	head, tail := a.Pair(*v)
	*v = tail
	return head
}

// Reverse reverses the chain v in place and returns the new first cell. The
// terminator of the chain is preserved. No other reference to the cells of v
// may be in use.
func (a *Arena) Reverse(v Value) Value {
	if !v.IsCons() {
		return v
	}
	first, prev := v, Absent
	for v.IsCons() {
		next := a.Tail(v)
		a.SetTail(v, prev)
		prev, v = v, next
	}
	a.SetTail(first, v) // v is now the original terminator
	return prev
}

// Concat returns a chain containing the elements of x followed by y.  The
// cells of x are copied, so x is not modified; y is shared. A single string
// chunk in either position is treated as a one-element string chain.
func (a *Arena) Concat(x, y Value) (Value, error) {
	if isChunk(y) {
		var err error
		if y, err = a.Cons(y, EmptyString); err != nil {
			return 0, err
		}
	}
	if isChunk(x) {
		return a.Cons(x, y)
	} else if !x.IsCons() {
		return y, nil
	}

	out, err := a.Cons(a.Head(x), y)
	if err != nil {
		return 0, err
	}
	last := out
	for x = a.Tail(x); x.IsCons(); x = a.Tail(x) {
		c, err := a.Cons(a.Head(x), y)
		if err != nil {
			return 0, err
		}
		a.SetTail(last, c)
		last = c
	}
	return out, nil
}

// isChunk reports whether v can stand alone as an element of a string chain.
func isChunk(v Value) bool { return v.IsString() || v.IsInteger() }

// Split cuts the string x at each occurrence of the byte sep, and returns a
// list of the pieces, each a string chain or EmptyString. Split is
// destructive: the cells and chunks of x are reused for the pieces, and x must
// not be used afterward.
func (a *Arena) Split(x Value, sep byte) (Value, error) {
	if x == EmptyString {
		return a.List(EmptyString)
	}
	if isChunk(x) {
		var err error
		if x, err = a.Cons(x, EmptyString); err != nil {
			return 0, err
		}
	}

	pieces := EmptyArray
	for {
		piece, rest, found, err := a.cut(x, sep)
		if err != nil {
			return 0, err
		}
		if pieces, err = a.Cons(piece, pieces); err != nil {
			return 0, err
		}
		if !found {
			return a.Reverse(pieces), nil
		}
		x = rest
	}
}

// cut splits the string chain x at the first occurrence of sep. It returns
// the piece before sep and the remainder after it. If sep does not occur,
// found is false and piece is x.
func (a *Arena) cut(x Value, sep byte) (piece, rest Value, found bool, err error) {
	var prev Value = Absent // the cell before cur, if any
	for cur := x; cur.IsCons(); prev, cur = cur, a.Tail(cur) {
		chunk := a.Head(cur)
		text := a.Bytes(chunk)
		i := mem.IndexByte(mem.B(text), sep)
		if i < 0 {
			continue
		}

		// Build the remainder first: the bytes after sep, followed by the rest
		// of the chain after this chunk.
		rest = a.Tail(cur)
		if i+1 < len(text) {
			c, err := a.Chunk(append([]byte(nil), text[i+1:]...))
			if err != nil {
				return 0, 0, false, err
			}
			if rest, err = a.Cons(c, rest); err != nil {
				return 0, 0, false, err
			}
		}

		// Terminate the piece at this chunk, dropping it entirely if sep was
		// its first byte.
		if i == 0 {
			if prev == Absent {
				return EmptyString, rest, true, nil
			}
			a.SetTail(prev, EmptyString)
			return x, rest, true, nil
		}
		a.truncate(cur, i)
		a.SetTail(cur, EmptyString)
		return x, rest, true, nil
	}
	return x, 0, false, nil
}

// truncate shortens the chunk at the head of cell to its first n bytes.  A
// boxed chunk is shortened in place; a short string is replaced.
func (a *Arena) truncate(cell Value, n int) {
	chunk := a.Head(cell)
	if chunk.tag() == tagChunk {
		binary.LittleEndian.PutUint16(a.bytes.Slice(chunk.index(), 2), uint16(n))
		return
	}
	short, ok := mkShort(a.Bytes(chunk)[:n])
	if !ok {
		panic("jcell: invalid short string")
	}
	a.SetHead(cell, short)
}
