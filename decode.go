// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jcell

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"

	"github.com/tailscale/hujson"
	"go4.org/mem"
)

// DefaultChunkSize is the number of bytes Decode reads per chunk if the
// caller does not specify a size.
const DefaultChunkSize = 4096

// A Parser feeds chunks of input to an incremental parse, and tracks the
// input offset and the first error reported.
//
// The values constructed by the parse are allocated in the Arena. The Parser
// records an arena mark when it is created, so that Discard can reclaim all
// the storage used by an abandoned parse.
type Parser struct {
	a     *Arena
	mark  Mark
	state Value
	off   int
	err   error
}

// NewParser constructs a new Parser that allocates values in a.
func NewParser(a *Arena) *Parser {
	return &Parser{a: a, mark: a.Mark(), state: ctlRoot}
}

// Feed consumes the next chunk of input. Once Feed reports an error, the
// parse has failed and all further calls report the same error. In case of a
// syntax error, the error has concrete type [*SyntaxError], and its offset is
// relative to the start of the complete input.
func (p *Parser) Feed(text []byte) error { return p.feed(mem.B(text)) }

// FeedString is like Feed, but accepts a string.
func (p *Parser) FeedString(text string) error { return p.feed(mem.S(text)) }

func (p *Parser) feed(text mem.RO) error {
	if p.err != nil {
		return p.err
	}
	st, err := p.a.feed(text, p.state)
	p.state = st
	p.setErr(err)
	p.off += text.Len()
	return p.err
}

func (p *Parser) setErr(err error) {
	var serr *SyntaxError
	if errors.As(err, &serr) {
		cp := *serr
		cp.Offset += p.off
		p.err = &cp
	} else if err != nil {
		p.err = fmt.Errorf("at offset %d: %w", p.off, err)
	}
}

// Finish reports the end of the input, and returns the complete value.  It
// reports an error if the input does not contain exactly one complete value.
func (p *Parser) Finish() (Value, error) {
	if p.err != nil {
		return Failed, p.err
	}
	st, err := p.a.finish(p.state)
	p.state = st
	p.setErr(err)
	return st, p.err
}

// Complete reports whether the input so far forms a complete value.
func (p *Parser) Complete() bool { return p.a.IsComplete(p.state) }

// State returns the current state of the parse.
func (p *Parser) State() Value { return p.state }

// Offset returns the number of input bytes consumed.
func (p *Parser) Offset() int { return p.off }

// Err returns the first error reported by the parse, or nil.
func (p *Parser) Err() error { return p.err }

// Discard abandons the parse and releases all the arena storage allocated
// since p was created. Values obtained from p must not be used afterward.
// The Parser is reset and may be used for a new parse.
func (p *Parser) Discard() {
	p.a.Release(p.mark)
	p.state, p.off, p.err = ctlRoot, 0, nil
}

// Decode parses a single JSON value from r, reading chunkSize bytes at a
// time.  If chunkSize <= 0, DefaultChunkSize is used.
func Decode(a *Arena, r io.Reader, chunkSize int) (Value, error) {
	p := NewParser(a)
	buf := make([]byte, cmp.Or(max(chunkSize, 0), DefaultChunkSize))
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if ferr := p.Feed(buf[:n]); ferr != nil {
				return Failed, ferr
			}
		}
		if err == io.EOF {
			return p.Finish()
		} else if err != nil {
			return Failed, err
		}
	}
}

// DecodeJWCC parses a single JWCC value from src. JWCC is JSON extended with
// comments and trailing commas; these are removed before parsing, preserving
// the offsets of the remaining input. The contents of src are not modified.
func DecodeJWCC(a *Arena, src []byte, chunkSize int) (Value, error) {
	std, err := hujson.Standardize(bytes.Clone(src))
	if err != nil {
		return Failed, fmt.Errorf("standardize: %w", err)
	}
	return Decode(a, bytes.NewReader(std), chunkSize)
}
