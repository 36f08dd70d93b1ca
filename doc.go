// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package jcell implements a streaming JSON decoder that builds values in a
// compact arena of tagged 32-bit cells.
//
// # Values
//
// A Value is a 32-bit word that either holds its payload directly (atoms,
// small integers, strings of up to three printable bytes) or refers to
// storage in an Arena (cons cells, boxed integers, string chunks). Values are
// only meaningful with respect to the Arena that allocated them.
//
// JSON data map onto values as follows:
//
//	JSON type  | Representation
//	---------- | ------------------------------------------------------
//	null       | Null
//	true/false | True, False
//	number     | an integer, or a cons (mantissa . exponent) for m×10^e
//	string     | a short string, a byte chunk, or a chain of chunks
//	           | ending in EmptyString
//	array      | a list of elements ending in EmptyArray
//	object     | a list of (key . value) pairs ending in EmptyDict,
//	           | most recently parsed member first
//
// # Arenas
//
// An Arena owns the storage for values. A zero Arena is ready for use.  Use
// Mark and Release to discard everything allocated after a point, and
// Destroy to return all storage at once. The Options passed to NewArena may
// bound the storage an arena is allowed to use; allocation beyond that
// limit fails with an error wrapping ErrExhausted.
//
// # Parsing
//
// The parser is incremental: input may be supplied in arbitrary pieces, and
// the state between pieces is itself a Value stored in the arena.
//
//	st := a.Start(first)
//	st = a.Feed(second, st)
//	v := a.Finish(st)
//	if v == jcell.Failed {
//	   log.Fatal("Invalid input")
//	}
//
// The Parser type wraps this protocol with error reporting. In case of error,
// a *SyntaxError is returned giving the offset of the failure:
//
//	p := jcell.NewParser(a)
//	for _, chunk := range input {
//	   if err := p.Feed(chunk); err != nil {
//	      log.Fatalf("Parse failed: %v", err)
//	   }
//	}
//	v, err := p.Finish()
//
// Decode and DecodeJWCC read a complete value from an io.Reader or a JWCC
// (JSON with commas and comments) document respectively.
//
// # Output
//
// AppendJSON renders a value as compact JSON, Indenter renders it as
// pretty-printed JWCC, and AppendSexp renders the underlying cell structure
// as an S-expression, which is useful for debugging.
package jcell
