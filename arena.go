// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jcell

import (
	"encoding/binary"
	"fmt"

	"github.com/creachadair/jcell/internal/pool"
)

// ErrExhausted is wrapped by errors reported when an Arena cannot allocate
// more storage within its configured limits.
var ErrExhausted = pool.ErrExhausted

// Options configure an Arena. A nil *Options provides default values.
type Options struct {
	// InitialSize is the capacity, in elements, of a newly-allocated pool
	// block. If zero, pool.DefaultInitialSize is used.
	InitialSize int

	// BlockLimit, if positive, bounds the number of blocks in each pool.
	// Allocations beyond this limit fail.
	BlockLimit int
}

// An Arena holds the storage for boxed values: a pool of bytes for string
// chunks, a pool of integers, and a pool of cons cells. Storage is reclaimed
// only in bulk, by releasing to a Mark.
//
// The zero Arena is ready for use. An Arena is not safe for concurrent use by
// multiple goroutines without external synchronization.
type Arena struct {
	bytes pool.Pool[byte]
	ints  pool.Pool[int64]
	cells pool.Pool[[2]Value]
}

// NewArena constructs a new empty Arena with the given options.
func NewArena(opts *Options) *Arena {
	a := new(Arena)
	if opts != nil {
		a.bytes.InitialSize, a.bytes.Limit = opts.InitialSize, opts.BlockLimit
		a.ints.InitialSize, a.ints.Limit = opts.InitialSize, opts.BlockLimit
		a.cells.InitialSize, a.cells.Limit = opts.InitialSize, opts.BlockLimit
	}
	return a
}

// A Mark records the allocation state of an Arena.
type Mark struct {
	bytes, ints, cells pool.Pos
}

// Mark returns the current allocation state of a.
func (a *Arena) Mark() Mark {
	return Mark{bytes: a.bytes.Top(), ints: a.ints.Top(), cells: a.cells.Top()}
}

// Release discards everything allocated in a since m was taken, and frees the
// pool blocks that are no longer needed. The caller must ensure that no value
// allocated after m is used again.
func (a *Arena) Release(m Mark) {
	a.bytes.Rewind(m.bytes)
	a.ints.Rewind(m.ints)
	a.cells.Rewind(m.cells)
}

// Destroy frees all the storage held by a. Any value that refers to a pool is
// invalid after Destroy. The arena may be reused afterward.
func (a *Arena) Destroy() {
	a.bytes.Free(1)
	a.ints.Free(1)
	a.cells.Free(1)
}

// PushBytes registers buf as storage for string chunks. Chunks allocated
// after this call are written into buf until it is full. The arena never
// grows buf, and stops using it once it is released past the point where it
// was pushed. The caller must not modify buf while values stored there are in
// use. The length of buf must not exceed pool.BlockSize.
func (a *Arena) PushBytes(buf []byte) error {
	if _, err := a.bytes.Push(buf); err != nil {
		return fmt.Errorf("push bytes: %w", err)
	}
	return nil
}

// Stats record the usage of the pools of an Arena.
type Stats struct {
	Bytes, Ints, Cells pool.Stats
}

// Stats reports the current pool usage of a.
func (a *Arena) Stats() Stats {
	return Stats{Bytes: a.bytes.Stats(), Ints: a.ints.Stats(), Cells: a.cells.Stats()}
}

// Cons returns a new pair of head and tail.
func (a *Arena) Cons(head, tail Value) (Value, error) {
	i, err := a.cells.Alloc(1)
	if err != nil {
		return 0, fmt.Errorf("cons: %w", err)
	}
	*a.cells.At(i) = [2]Value{head, tail}
	return mkValue(tagCons, i), nil
}

// Int returns an integer value for n. Integers in the immediate range are
// packed into the value itself and do not allocate.
func (a *Arena) Int(n int64) (Value, error) {
	if n >= MinImmediate && n <= MaxImmediate {
		return mkImmInt(n), nil
	}
	return a.boxInt(n)
}

// boxInt stores n in the integer pool regardless of its magnitude.
func (a *Arena) boxInt(n int64) (Value, error) {
	i, err := a.ints.Alloc(1)
	if err != nil {
		return 0, fmt.Errorf("int: %w", err)
	}
	*a.ints.At(i) = n
	return mkValue(tagBoxInt, i), nil
}

// maxChunk is the largest number of bytes stored in one chunk.
const maxChunk = pool.BlockSize - 2

// Chunk returns a single string chunk holding a copy of text, which must be
// non-empty and no longer than pool.BlockSize-2 bytes. Text of at most three
// printable ASCII bytes is packed into the value and does not allocate.
func (a *Arena) Chunk(text []byte) (Value, error) {
	if v, ok := mkShort(text); ok {
		return v, nil
	} else if len(text) == 0 || len(text) > maxChunk {
		return 0, fmt.Errorf("chunk: invalid length %d", len(text))
	}
	i, err := a.bytes.Alloc(len(text) + 2)
	if err != nil {
		return 0, fmt.Errorf("chunk: %w", err)
	}
	buf := a.bytes.Slice(i, len(text)+2)
	binary.LittleEndian.PutUint16(buf, uint16(len(text)))
	copy(buf[2:], text)
	return mkValue(tagChunk, i), nil
}

// Str returns a string value for s. Empty strings are EmptyString, strings
// that fit in one chunk are a single chunk, and longer strings are a chain of
// chunks ending in EmptyString.
func (a *Arena) Str(s string) (Value, error) {
	if len(s) <= maxChunk {
		if s == "" {
			return EmptyString, nil
		}
		return a.Chunk([]byte(s))
	}
	out := EmptyString
	for end := len(s); end > 0; {
		pos := max(end-maxChunk, 0)
		c, err := a.Chunk([]byte(s[pos:end]))
		if err != nil {
			return 0, err
		}
		out, err = a.Cons(c, out)
		if err != nil {
			return 0, err
		}
		end = pos
	}
	return out, nil
}

// List returns a list of the given values, ending in EmptyArray.
func (a *Arena) List(vs ...Value) (Value, error) {
	out := EmptyArray
	for i := len(vs) - 1; i >= 0; i-- {
		var err error
		out, err = a.Cons(vs[i], out)
		if err != nil {
			return 0, err
		}
	}
	return out, nil
}

// Int64 returns the integer denoted by v, or 0 if v is not an integer.
func (a *Arena) Int64(v Value) int64 {
	switch v.tag() {
	case tagInt:
		return immInt(v)
	case tagBoxInt:
		return *a.ints.At(v.index())
	}
	return 0
}

// Bytes returns the contents of the string chunk v, or nil if v is not a
// string chunk. For a boxed chunk the result is a view of arena storage that
// is valid until the next allocation; the caller must not modify it.
func (a *Arena) Bytes(v Value) []byte {
	switch v.tag() {
	case tagShortStr:
		return shortBytes(v)
	case tagChunk:
		return a.chunkBytes(v)
	}
	return nil
}

func (a *Arena) chunkBytes(v Value) []byte {
	i := v.index()
	n := int(binary.LittleEndian.Uint16(a.bytes.Slice(i, 2)))
	return a.bytes.Slice(i, n+2)[2:]
}

// cell returns the storage of the cons v, which is valid until the next
// allocation.
func (a *Arena) cell(v Value) *[2]Value {
	if !v.IsCons() {
		panic(fmt.Sprintf("jcell: %#v is not a cons", v))
	}
	return a.cells.At(v.index())
}

// Head returns the head of the cons v. It panics if v is not a cons.
func (a *Arena) Head(v Value) Value { return a.cell(v)[0] }

// Tail returns the tail of the cons v. It panics if v is not a cons.
func (a *Arena) Tail(v Value) Value { return a.cell(v)[1] }

// Pair returns the head and tail of the cons v. It panics if v is not a cons.
func (a *Arena) Pair(v Value) (head, tail Value) {
	c := a.cell(v)
	return c[0], c[1]
}

// SetHead replaces the head of the cons v. It panics if v is not a cons.
func (a *Arena) SetHead(v, head Value) { a.cell(v)[0] = head }

// SetTail replaces the tail of the cons v. It panics if v is not a cons.
func (a *Arena) SetTail(v, tail Value) { a.cell(v)[1] = tail }

// A Slot is a reference to the storage of one element of a cons cell. The
// zero Slot is absent.
type Slot struct {
	cell Value
	tail bool
}

// Absent reports whether s refers to no storage.
func (s Slot) Absent() bool { return !s.cell.IsCons() }

// Load returns the value stored in s, or Absent if s is absent.
func (a *Arena) Load(s Slot) Value {
	if s.Absent() {
		return Absent
	} else if s.tail {
		return a.Tail(s.cell)
	}
	return a.Head(s.cell)
}

// Store replaces the value stored in s. It panics if s is absent.
func (a *Arena) Store(s Slot, v Value) {
	if s.tail {
		a.SetTail(s.cell, v)
	} else {
		a.SetHead(s.cell, v)
	}
}
