// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jcell

import (
	"errors"
	"fmt"
	"math"

	"github.com/creachadair/jcell/internal/escape"

	"go4.org/mem"
)

// ErrFailed is reported when input is fed to a parse that has already failed.
var ErrFailed = errors.New("parse has failed")

// SyntaxError is the concrete type of errors reported by the parser for
// malformed input.
type SyntaxError struct {
	Offset  int // byte offset of the error in the input
	Message string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at offset %d: %s", s.Offset, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

type allocError struct{ error }

func (e allocError) Unwrap() error { return e.error }

// Start begins parsing text as a JSON value. It returns the state of the
// parse, which is Failed, a complete value, or a continuation to be passed to
// Feed or Finish.
func (a *Arena) Start(text []byte) Value { return a.Feed(text, ctlRoot) }

// StartString is like Start, but accepts a string.
func (a *Arena) StartString(text string) Value { return a.FeedString(text, ctlRoot) }

// Feed continues the parse whose current state is state, consuming text. It
// makes all the progress the input allows and returns the new state.  No
// input consumed by an earlier call is examined again.
//
// If state is Failed, or if text contains an error, Feed returns Failed.  If
// state is complete, text may contain only whitespace.
func (a *Arena) Feed(text []byte, state Value) Value {
	v, _ := a.feed(mem.B(text), state)
	return v
}

// FeedString is like Feed, but accepts a string.
func (a *Arena) FeedString(text string, state Value) Value {
	v, _ := a.feed(mem.S(text), state)
	return v
}

// IsComplete reports whether state is a complete value.
//
// A top-level number is not complete until a byte that cannot continue it
// has been seen, since more digits might follow. Call Finish to complete it
// at the end of the input.
func (a *Arena) IsComplete(state Value) bool {
	return state != Failed && !a.inProgress(state)
}

// inProgress reports whether st is a continuation. The first element of a
// continuation is a frame: a control code, or a cons whose head is one. No
// complete value has either as its head.
func (a *Arena) inProgress(st Value) bool {
	if st == ctlRoot {
		return true
	} else if !st.IsCons() {
		return false
	}
	f := a.Head(st)
	return f.IsControl() || (f.IsCons() && a.Head(f).IsControl())
}

// Finish reports that no further input will follow, and returns the final
// state of the parse: a complete value, or Failed if the value is incomplete.
func (a *Arena) Finish(state Value) Value {
	v, _ := a.finish(state)
	return v
}

func (a *Arena) finish(st Value) (out Value, err error) {
	if st == Failed {
		return Failed, ErrFailed
	} else if a.IsComplete(st) {
		return st, nil
	}
	p := &parser{a: a, stk: st}
	defer p.recoverError(&out, &err)

	if st != ctlRoot && a.Tail(st) == ctlRoot {
		if f := a.Head(st); f.IsCons() && isNumCode(a.Head(f)) {
			return p.numValue(p.loadNum(f)), nil
		}
	}
	p.fail("unexpected end of input")
	panic("unreachable")
}

func (a *Arena) feed(in mem.RO, st Value) (out Value, err error) {
	if st == Failed {
		return Failed, ErrFailed
	}
	p := &parser{a: a, in: in}
	if a.IsComplete(st) {
		p.done, p.result = true, st
	} else {
		p.stk = st
	}
	defer p.recoverError(&out, &err)

	p.run()
	if p.done {
		return p.result, nil
	}
	return p.stk, nil
}

// A parser holds the transient state of a single call to feed. Everything
// that must survive between calls is stored in the continuation stk.
type parser struct {
	a   *Arena
	in  mem.RO
	pos int
	stk Value // the continuation: a chain of frames ending in ctlRoot

	done   bool  // a complete top-level value has been found
	result Value // the complete value, if done

	pend []byte // decoded string bytes not yet stored in the string frame
}

func (p *parser) recoverError(out *Value, errp *error) {
	if x := recover(); x != nil {
		switch e := x.(type) {
		case *SyntaxError:
			*errp = e
		case allocError:
			*errp = e.error
		default:
			panic(x)
		}
		*out = Failed
	}
}

func (p *parser) fail(msg string, args ...any) {
	panic(&SyntaxError{Offset: p.pos, Message: fmt.Sprintf(msg, args...)})
}

func (p *parser) cons(head, tail Value) Value {
	v, err := p.a.Cons(head, tail)
	if err != nil {
		panic(allocError{err})
	}
	return v
}

func (p *parser) int(n int64) Value {
	v, err := p.a.Int(n)
	if err != nil {
		panic(allocError{err})
	}
	return v
}

func (p *parser) eof() bool { return p.pos >= p.in.Len() }

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.in.At(p.pos)) {
		p.pos++
	}
}

func (p *parser) push(frame Value) { p.stk = p.cons(frame, p.stk) }

func (p *parser) pop() { p.stk = p.a.Tail(p.stk) }

// run consumes the input, dispatching on the frame atop the stack.
func (p *parser) run() {
	for !p.eof() {
		if p.done {
			p.skipSpace()
			if !p.eof() {
				p.fail("unexpected %q after value", p.in.At(p.pos))
			}
			return
		}
		if p.stk == ctlRoot {
			p.skipSpace()
			if !p.eof() {
				p.beginValue()
			}
			continue
		}

		frame := p.a.Head(p.stk)
		if frame.IsAtom() {
			p.literal(frame)
			continue
		}
		switch code := p.a.Head(frame); {
		case code >= ctlArrOpen && code <= ctlObjNext:
			p.container(frame, code)
		case code >= ctlStr && code < ctlStrHex+4:
			p.str(frame, code)
		case isNumCode(code):
			p.number(frame)
		default:
			p.fail("invalid parser state %#v", code)
		}
	}
}

// deliver passes a complete value v to the frame atop the stack.
func (p *parser) deliver(v Value) {
	if p.stk == ctlRoot {
		p.done, p.result = true, v
		return
	}
	frame := p.a.Head(p.stk)
	var next Value
	switch code := p.a.Head(frame); code {
	case ctlArrOpen, ctlArrValue:
		next = ctlArrNext
	case ctlObjOpen, ctlObjKey:
		next = ctlObjColon
	case ctlObjValue:
		next = ctlObjNext
	default:
		p.fail("invalid parser state %#v", code)
	}
	acc := p.cons(v, p.a.Tail(frame))
	p.a.SetHead(frame, next)
	p.a.SetTail(frame, acc)
}

// beginValue starts a new value at the current input byte.
func (p *parser) beginValue() {
	c := p.in.At(p.pos)
	switch {
	case c == '{':
		p.push(p.cons(ctlObjOpen, EmptyDict))
	case c == '[':
		p.push(p.cons(ctlArrOpen, EmptyArray))
	case c == '"':
		p.push(p.cons(ctlStr, p.cons(mkImmInt(0), EmptyString)))
	case c == '-':
		p.push(p.newNum(numState{code: ctlNumSign, neg: true}))
	case c == '0':
		p.push(p.newNum(numState{code: ctlNumZero}))
	case isDigit(c):
		p.push(p.newNum(numState{code: ctlNumInt, mant: int64(c - '0')}))
	case c == 't':
		p.push(litCode(0, 1))
	case c == 'f':
		p.push(litCode(1, 1))
	case c == 'n':
		p.push(litCode(2, 1))
	default:
		p.fail("unexpected %q", c)
	}
	p.pos++
}

// container handles punctuation for the array or object frame atop the stack.
func (p *parser) container(frame, code Value) {
	p.skipSpace()
	if p.eof() {
		return
	}
	c := p.in.At(p.pos)
	switch code {
	case ctlArrOpen:
		if c == ']' {
			p.pos++
			p.pop()
			p.deliver(p.a.Reverse(p.a.Tail(frame)))
			return
		}
		p.beginValue()
	case ctlArrValue, ctlObjValue:
		p.beginValue()
	case ctlArrNext:
		switch c {
		case ',':
			p.a.SetHead(frame, ctlArrValue)
		case ']':
			p.pop()
			p.deliver(p.a.Reverse(p.a.Tail(frame)))
		default:
			p.fail(`expected "," or "]", got %q`, c)
		}
		p.pos++
	case ctlObjOpen, ctlObjKey:
		if c == '}' && code == ctlObjOpen {
			p.pos++
			p.pop()
			p.deliver(EmptyDict)
			return
		} else if c != '"' {
			p.fail("expected string key, got %q", c)
		}
		p.beginValue()
	case ctlObjColon:
		if c != ':' {
			p.fail(`expected ":", got %q`, c)
		}
		p.a.SetHead(frame, ctlObjValue)
		p.pos++
	case ctlObjNext:
		switch c {
		case ',':
			p.a.SetHead(frame, ctlObjKey)
		case '}':
			p.pop()
			p.deliver(p.fixObject(p.a.Tail(frame)))
		default:
			p.fail(`expected "," or "}", got %q`, c)
		}
		p.pos++
	}
}

// fixObject rewrites the accumulated members of an object in place. The
// input is a chain of alternating values and keys, most recent first:
//
//	(v2 k2 v1 k1 . {})
//
// Each key cell becomes a (key . value) pair and each value cell becomes the
// spine cell holding it:
//
//	((k2 . v2) (k1 . v1) . {})
func (p *parser) fixObject(acc Value) Value {
	for cell := acc; cell.IsCons(); {
		v, kcell := p.a.Pair(cell)
		next := p.a.Tail(kcell)
		p.a.SetTail(kcell, v)
		p.a.SetHead(cell, kcell)
		p.a.SetTail(cell, next)
		cell = next
	}
	return acc
}

var litText = [...]string{"true", "false", "null"}
var litAtom = [...]Value{True, False, Null}

// litCode returns the control code for literal lit with n bytes matched.
func litCode(lit, n int) Value { return Value(ctlLit + 8*lit + n) }

// literal matches the input against the literal frame atop the stack.
func (p *parser) literal(frame Value) {
	if !frame.IsControl() || frame < ctlLit {
		p.fail("invalid parser state %#v", frame)
	}
	lit, n := int(frame-ctlLit)/8, int(frame-ctlLit)%8
	want := litText[lit]
	for ; n < len(want) && !p.eof(); n++ {
		if c := p.in.At(p.pos); c != want[n] {
			p.fail("unexpected %q in %s", c, want)
		}
		p.pos++
	}
	if n == len(want) {
		p.pop()
		p.deliver(litAtom[lit])
		return
	}
	p.a.SetHead(p.stk, litCode(lit, n))
}

// str consumes string text for the string frame atop the stack.  The frame
// has the shape (code hex . chunks), where hex accumulates the digits of a
// \u escape and chunks holds the stored text in reverse order.
func (p *parser) str(frame, code Value) {
	cell := p.a.Tail(frame)
	hex := p.a.Int64(p.a.Head(cell))

	for !p.eof() {
		c := p.in.At(p.pos)
		switch {
		case code == ctlStr:
			start := p.pos
			for !p.eof() {
				if c = p.in.At(p.pos); c == '"' || c == '\\' || c < ' ' {
					break
				}
				p.pos++
			}
			p.pend = mem.Append(p.pend, p.in.Slice(start, p.pos))
			if p.eof() {
				break
			} else if c < ' ' {
				p.fail("unescaped control %q", c)
			}
			p.pos++
			if c == '"' {
				p.closeString(frame)
				return
			}
			code = ctlStrEsc

		case code == ctlStrEsc:
			if c == 'u' {
				code, hex = ctlStrHex, 0
			} else if b, ok := escape.Unescape(c); ok {
				p.pend = append(p.pend, b)
				code = ctlStr
			} else {
				p.fail("invalid %q after escape", c)
			}
			p.pos++

		default:
			d, ok := escape.HexValue(c)
			if !ok {
				p.fail("invalid Unicode escape: not a hex digit: %q", c)
			}
			p.pos++
			hex = hex<<4 | int64(d)
			if code < ctlStrHex+3 {
				code++
				continue
			}
			if hex < 0x100 {
				p.pend = append(p.pend, byte(hex))
			} else {
				p.flush(frame)
				cp, err := p.a.boxInt(hex)
				if err != nil {
					panic(allocError{err})
				}
				p.a.SetTail(cell, p.cons(cp, p.a.Tail(cell)))
			}
			code, hex = ctlStr, 0
		}
	}

	// The input ended inside the string; save its state.
	p.flush(frame)
	p.a.SetHead(frame, code)
	p.a.SetHead(cell, mkImmInt(hex))
}

// flush stores the pending string bytes as chunks of the string frame.
func (p *parser) flush(frame Value) {
	cell := p.a.Tail(frame)
	for len(p.pend) != 0 {
		n := min(len(p.pend), maxChunk)
		c, err := p.a.Chunk(p.pend[:n])
		if err != nil {
			panic(allocError{err})
		}
		p.a.SetTail(cell, p.cons(c, p.a.Tail(cell)))
		p.pend = p.pend[n:]
	}
	p.pend = p.pend[:0]
}

func (p *parser) closeString(frame Value) {
	p.flush(frame)
	s := p.a.Reverse(p.a.Tail(p.a.Tail(frame)))
	if s.IsCons() {
		if h, t := p.a.Pair(s); t == EmptyString && h.IsString() {
			s = h
		}
	}
	p.pop()
	p.deliver(s)
}

func isNumCode(v Value) bool { return v >= ctlNumSign && v <= ctlNumExp }

// numState is the unpacked form of a number frame:
//
//	(code flags mant shift zeros . exp)
//
// The digits seen so far denote mant * 10^shift, where mant has no trailing
// zeros and carries the sign of the number. Fraction zeros not yet followed by a nonzero digit are counted in
// zeros. Digits that do not fit in mant are dropped, and integer digits are
// accounted for by shift.
type numState struct {
	code      Value
	neg, eneg bool
	mant      int64 // signed mantissa
	shift     int64 // decimal exponent of mant
	zeros     int64 // pending fraction zeros
	exp       int64 // magnitude of the explicit exponent
}

const maxExponent = 999_999_999

func (p *parser) newNum(ns numState) Value {
	f := p.cons(ctlNumSign, p.cons(0, p.cons(0, p.cons(0, p.cons(0, 0)))))
	p.storeNum(f, ns)
	return f
}

func (p *parser) loadNum(f Value) (ns numState) {
	var c Value
	ns.code, c = p.a.Pair(f)
	flags := p.a.Int64(p.a.Head(c))
	ns.neg, ns.eneg = flags&1 != 0, flags&2 != 0
	c = p.a.Tail(c)
	ns.mant = p.a.Int64(p.a.Head(c))
	c = p.a.Tail(c)
	ns.shift = p.a.Int64(p.a.Head(c))
	c = p.a.Tail(c)
	ns.zeros = p.a.Int64(p.a.Head(c))
	ns.exp = p.a.Int64(p.a.Tail(c))
	return
}

func (p *parser) storeNum(f Value, ns numState) {
	var flags int64
	if ns.neg {
		flags |= 1
	}
	if ns.eneg {
		flags |= 2
	}
	p.a.SetHead(f, ns.code)
	c := p.a.Tail(f)
	p.a.SetHead(c, mkImmInt(flags))
	c = p.a.Tail(c)
	p.a.SetHead(c, p.int(ns.mant))
	c = p.a.Tail(c)
	p.a.SetHead(c, p.int(ns.shift))
	c = p.a.Tail(c)
	p.a.SetHead(c, p.int(ns.zeros))
	p.a.SetTail(c, p.int(ns.exp))
}

// number consumes digits for the number frame atop the stack. The number
// ends at the first byte that cannot continue it, which is left unconsumed.
func (p *parser) number(frame Value) {
	ns := p.loadNum(frame)
	for !p.eof() {
		if !p.numStep(&ns, p.in.At(p.pos)) {
			v := p.numValue(ns)
			p.pop()
			p.deliver(v)
			return
		}
		p.pos++
	}
	p.storeNum(frame, ns)
}

// numStep advances ns by one input byte c. It reports false if c does not
// belong to the number.
func (p *parser) numStep(ns *numState, c byte) bool {
	switch ns.code {
	case ctlNumSign:
		if c == '0' {
			ns.code = ctlNumZero
		} else if isDigit(c) {
			ns.code, ns.mant = ctlNumInt, ns.digit(c)
		} else {
			p.fail("got %q, want digit", c)
		}
	case ctlNumZero:
		switch {
		case c == '.':
			ns.code = ctlNumDot
		case c == 'e' || c == 'E':
			ns.code = ctlNumE
		case isDigit(c):
			p.fail("extra leading zeroes")
		default:
			return false
		}
	case ctlNumInt:
		switch {
		case isDigit(c):
			ns.addInt(ns.digit(c))
		case c == '.':
			ns.code = ctlNumDot
		case c == 'e' || c == 'E':
			ns.code = ctlNumE
		default:
			return false
		}
	case ctlNumDot:
		if !isDigit(c) {
			p.fail("no digits after decimal point")
		}
		ns.code = ctlNumFrac
		ns.addFrac(ns.digit(c))
	case ctlNumFrac:
		switch {
		case isDigit(c):
			ns.addFrac(ns.digit(c))
		case c == 'e' || c == 'E':
			ns.code = ctlNumE
		default:
			return false
		}
	case ctlNumE:
		switch {
		case c == '+' || c == '-':
			ns.code, ns.eneg = ctlNumESign, c == '-'
		case isDigit(c):
			ns.code = ctlNumExp
			ns.addExp(int64(c - '0'))
		default:
			p.fail("got %q, want sign or digit", c)
		}
	case ctlNumESign:
		if !isDigit(c) {
			p.fail("missing exponent digits")
		}
		ns.code = ctlNumExp
		ns.addExp(int64(c - '0'))
	case ctlNumExp:
		if !isDigit(c) {
			return false
		}
		ns.addExp(int64(c - '0'))
	}
	return true
}

// digit returns the value of the digit c with the sign of the number.
func (ns *numState) digit(c byte) int64 {
	if ns.neg {
		return -int64(c - '0')
	}
	return int64(c - '0')
}

func (ns *numState) addInt(d int64) {
	if d != 0 {
		if m, ok := mulAdd(ns.mant, ns.shift+1, d); ok {
			ns.mant, ns.shift = m, 0
			return
		}
	}
	ns.shift++ // a trailing zero, or a digit beyond the precision of mant
}

func (ns *numState) addFrac(d int64) {
	if d == 0 {
		ns.zeros++
		return
	}
	k := ns.zeros + 1 // position of d after the decimal point
	if ns.shift < 0 {
		k -= ns.shift
	}
	if m, ok := mulAdd(ns.mant, ns.shift+k, d); ok {
		ns.mant, ns.shift, ns.zeros = m, -k, 0
	} else {
		ns.zeros++
	}
}

func (ns *numState) addExp(d int64) {
	ns.exp = min(ns.exp*10+d, maxExponent)
}

// mulAdd returns m*10^n + d, reporting false if the result overflows.  The
// operands m and d must not have opposite signs.
func mulAdd(m, n, d int64) (int64, bool) {
	if m == 0 {
		return d, true
	}
	for ; n > 0; n-- {
		if m > math.MaxInt64/10 || m < math.MinInt64/10 {
			return 0, false
		}
		m *= 10
	}
	if (d > 0 && m > math.MaxInt64-d) || (d < 0 && m < math.MinInt64-d) {
		return 0, false
	}
	return m + d, true
}

// numValue returns the compact value of a finished number: an integer if the
// value is integral and fits, otherwise a (mantissa . exponent) pair.
func (p *parser) numValue(ns numState) Value {
	switch ns.code {
	case ctlNumSign, ctlNumDot, ctlNumE, ctlNumESign:
		p.fail("incomplete number")
	}
	if ns.mant == 0 {
		return mkImmInt(0)
	}
	e := ns.shift
	if ns.eneg {
		e -= ns.exp
	} else {
		e += ns.exp
	}
	e = max(min(e, maxExponent), -maxExponent)
	m := ns.mant
	if e > 0 {
		if v, ok := mulAdd(m, e, 0); ok {
			m, e = v, 0
		}
	}
	if e == 0 {
		return p.int(m)
	}
	return p.cons(p.int(m), p.int(e))
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
