// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package pool implements a growable pool of fixed-capacity memory blocks
// addressed by packed (block, offset) indices.
//
// A Pool hands out contiguous runs of elements by bumping a top cursor.  The
// active block is grown in place by doubling until it reaches BlockSize, after
// which a new block is pushed.  Growing a block reallocates its storage, so
// slices and pointers obtained from At and Slice are only valid until the
// next call to Alloc; only indices may be retained.
//
// Memory is reclaimed only in bulk, by rewinding the top cursor to an earlier
// position and freeing the blocks above it.
package pool

import (
	"github.com/pkg/errors"
)

const (
	// OffsetBits is the number of index bits that address an element within
	// a single block.
	OffsetBits = 16

	// BlockSize is the maximum number of elements in one block.
	BlockSize = 1 << OffsetBits

	// BlockBits is the number of index bits that select a block.
	BlockBits = 13

	// MaxBlocks is the largest block number an index can represent.
	// Block 0 is never used, so that a zero Index is always invalid.
	MaxBlocks = 1<<BlockBits - 1

	// DefaultInitialSize is the initial capacity of a fresh block if the pool
	// does not specify one.
	DefaultInitialSize = 256

	inlineBlocks = 8
)

// ErrExhausted is reported when a pool cannot grow any further.
var ErrExhausted = errors.New("pool exhausted")

// An Index addresses an element of a pool. The zero Index is invalid.
type Index uint32

// At returns the index of the given offset within the given block.
func At(block, offset int) Index { return Index(block<<OffsetBits | offset) }

// Block returns the block number of i.
func (i Index) Block() int { return int(i >> OffsetBits) }

// Offset returns the element offset of i within its block.
func (i Index) Offset() int { return int(i & (BlockSize - 1)) }

// A Pos records the top cursor of a pool.  The offset of a Pos may equal
// BlockSize, when its block is completely full.
type Pos struct {
	Block, Offset int
}

type block[T any] struct {
	mem      []T
	freeable bool // the pool allocated mem and may discard it
}

// A Pool is a growable collection of blocks of T. The zero value is ready for
// use. A Pool must not be copied after first use.
type Pool[T any] struct {
	// InitialSize is the capacity of a newly-allocated block. If zero,
	// DefaultInitialSize is used.
	InitialSize int

	// Limit, if positive, is the maximum number of blocks the pool may hold.
	// Values larger than MaxBlocks are treated as MaxBlocks.
	Limit int

	top    Pos
	n      int        // the highest block in use, 0 if none
	blocks []block[T] // the block table; aliases inline until promoted
	inline [inlineBlocks]block[T]
}

func (p *Pool[T]) init() {
	if p.blocks == nil {
		p.blocks = p.inline[:]
	}
}

func (p *Pool[T]) limit() int {
	if p.Limit > 0 && p.Limit < MaxBlocks {
		return p.Limit
	}
	return MaxBlocks
}

func (p *Pool[T]) initialSize() int {
	if p.InitialSize > 0 {
		return min(p.InitialSize, BlockSize)
	}
	return DefaultInitialSize
}

// push adds mem as a new block at the top of the table, promoting the table
// to the heap if the inline descriptors are exhausted.
func (p *Pool[T]) push(mem []T, freeable bool) (int, error) {
	p.init()
	top := p.n + 1
	if top > p.limit() {
		return 0, errors.Wrapf(ErrExhausted, "block limit %d reached", p.limit())
	}
	if top >= len(p.blocks) {
		end := len(p.blocks) << 1
		if end <= top {
			return 0, errors.Wrapf(ErrExhausted, "block table overflow at %d", top)
		}
		bs := make([]block[T], end)
		copy(bs, p.blocks)
		p.blocks = bs
	}
	p.n = top
	p.blocks[top] = block[T]{mem: mem, freeable: freeable}
	return top, nil
}

// Push registers mem as a block not owned by the pool, and returns the index
// of its first element. Subsequent allocations are served from mem until it
// is full. The pool never grows or retains mem after it is freed.
func (p *Pool[T]) Push(mem []T) (Index, error) {
	if len(mem) == 0 || len(mem) > BlockSize {
		return 0, errors.Errorf("invalid block size %d", len(mem))
	}
	b, err := p.push(mem, false)
	if err != nil {
		return 0, err
	}
	p.top = Pos{Block: b}
	return At(b, 0), nil
}

// Alloc reserves n contiguous elements and returns the index of the first.
// The new elements are zero unless they are reused space released by Rewind.
// In case of error, the pool is unchanged and no index is returned.
func (p *Pool[T]) Alloc(n int) (Index, error) {
	if n <= 0 || n > BlockSize {
		return 0, errors.Errorf("invalid allocation size %d", n)
	}
	p.init()
	if b, off := p.top.Block, p.top.Offset; b != 0 {
		blk := &p.blocks[b]
		if off+n <= len(blk.mem) {
			p.top.Offset += n
			return At(b, off), nil
		} else if blk.freeable && off+n <= BlockSize {
			size := max(len(blk.mem), 1)
			for size < off+n {
				size <<= 1
			}
			grown := make([]T, min(size, BlockSize))
			copy(grown, blk.mem[:off])
			blk.mem = grown
			p.top.Offset += n
			return At(b, off), nil
		}
	}

	size := p.initialSize()
	for size < n {
		size <<= 1
	}
	b, err := p.push(make([]T, min(size, BlockSize)), true)
	if err != nil {
		return 0, err
	}
	p.top = Pos{Block: b, Offset: n}
	return At(b, 0), nil
}

// At returns a pointer to the element at i.  The pointer is valid until the
// next call to Alloc.
func (p *Pool[T]) At(i Index) *T { return &p.blocks[i.Block()].mem[i.Offset()] }

// Slice returns a slice of the n elements starting at i.  The slice is valid
// until the next call to Alloc.
func (p *Pool[T]) Slice(i Index, n int) []T {
	off := i.Offset()
	return p.blocks[i.Block()].mem[off : off+n : off+n]
}

// Top returns the current top cursor of the pool.
func (p *Pool[T]) Top() Pos { return p.top }

// Free releases block b and every block above it.  If the remaining blocks
// fit in the inline table, the promoted table is discarded.  After Free, the
// top is at the end of the highest remaining block. The next allocation grows
// that block in place if the pool owns it and it has room to grow, and begins
// a fresh block otherwise.
func (p *Pool[T]) Free(b int) {
	p.init()
	b = max(b, 1)
	for ; p.n >= b; p.n-- {
		p.blocks[p.n] = block[T]{}
	}
	if p.n < inlineBlocks && len(p.blocks) > inlineBlocks {
		copy(p.inline[:], p.blocks[:inlineBlocks])
		p.blocks = p.inline[:]
	}
	if p.n == 0 {
		p.top = Pos{}
	} else {
		p.top = Pos{Block: p.n, Offset: len(p.blocks[p.n].mem)}
	}
}

// Rewind resets the top cursor to pos, which must have been obtained from Top
// earlier, and frees every block above the block containing pos.  Elements
// allocated after pos must no longer be referenced.
func (p *Pool[T]) Rewind(pos Pos) {
	if p.n > pos.Block {
		p.Free(pos.Block + 1)
	}
	if pos.Block <= p.n {
		p.top = pos
	}
}

// Stats record the usage of a pool.
type Stats struct {
	Blocks   int // number of blocks in use
	Elements int // total capacity of all blocks, in elements
	TableCap int // capacity of the block table
	Promoted bool
}

// Stats returns the current usage statistics for p.
func (p *Pool[T]) Stats() Stats {
	p.init()
	s := Stats{Blocks: p.n, TableCap: len(p.blocks), Promoted: len(p.blocks) > inlineBlocks}
	for _, b := range p.blocks[1 : p.n+1] {
		s.Elements += len(b.mem)
	}
	return s
}
