// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jcell_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/creachadair/jcell"
	"github.com/creachadair/mds/mapset"
	"github.com/creachadair/mds/mtest"
)

func mustValue(t *testing.T) func(jcell.Value, error) jcell.Value {
	t.Helper()
	return func(v jcell.Value, err error) jcell.Value {
		t.Helper()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		return v
	}
}

func TestIntegers(t *testing.T) {
	tests := []struct {
		input int64
		boxed bool
	}{
		{0, false},
		{1, false},
		{-1, false},
		{12345, false},
		{jcell.MaxImmediate, false},
		{jcell.MinImmediate, false},
		{jcell.MaxImmediate + 1, true},
		{jcell.MinImmediate - 1, true},
		{1 << 40, true},
		{math.MaxInt64, true},
		{math.MinInt64, true},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.input), func(t *testing.T) {
			a := jcell.NewArena(nil)
			v := mustValue(t)(a.Int(tc.input))
			if got := v.Type(); got != jcell.Integer {
				t.Errorf("Type: got %v, want %v", got, jcell.Integer)
			}
			if got := a.Int64(v); got != tc.input {
				t.Errorf("Int64: got %d, want %d", got, tc.input)
			}
			if got := a.Stats().Ints.Blocks != 0; got != tc.boxed {
				t.Errorf("Boxed: got %v, want %v", got, tc.boxed)
			}
			if got := a.Kind(v); got != jcell.NumberKind {
				t.Errorf("Kind: got %v, want %v", got, jcell.NumberKind)
			}
		})
	}
}

func TestChunks(t *testing.T) {
	tests := []struct {
		input string
		boxed bool
	}{
		{"a", false},
		{"ab", false},
		{"abc", false},
		{"~ }", false},
		{"abcd", true},
		{"a\tb", true},
		{"\x7f", true},
		{"é", true},
		{"hello, world", true},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			a := jcell.NewArena(nil)
			v := mustValue(t)(a.Chunk([]byte(tc.input)))
			if got := v.Type(); got != jcell.String {
				t.Errorf("Type: got %v, want %v", got, jcell.String)
			}
			if got := string(a.Bytes(v)); got != tc.input {
				t.Errorf("Bytes: got %q, want %q", got, tc.input)
			}
			if got := a.Stats().Bytes.Blocks != 0; got != tc.boxed {
				t.Errorf("Boxed: got %v, want %v", got, tc.boxed)
			}
			if !a.EqualStr(v, tc.input) {
				t.Errorf("EqualStr(%#v, %q): got false, want true", v, tc.input)
			}
		})
	}

	t.Run("Invalid", func(t *testing.T) {
		var a jcell.Arena
		if v, err := a.Chunk(nil); err == nil {
			t.Errorf("Chunk(nil): got %#v, want error", v)
		}
		if v, err := a.Chunk(make([]byte, 1<<16)); err == nil {
			t.Errorf("Chunk(64K): got %#v, want error", v)
		}
	})
}

func TestAtoms(t *testing.T) {
	atoms := []jcell.Value{
		jcell.Null, jcell.EmptyArray, jcell.EmptyDict,
		jcell.True, jcell.False, jcell.EmptyString, jcell.Failed,
	}
	seen := mapset.New(atoms...)
	if seen.Len() != len(atoms) {
		t.Errorf("Atoms are not distinct: %v", atoms)
	}
	for _, v := range atoms {
		if !v.IsAtom() {
			t.Errorf("IsAtom(%#v): got false, want true", v)
		}
		if v.IsCons() || v.IsString() || v.IsInteger() {
			t.Errorf("Value %#v has a non-atom type", v)
		}
	}
	if !jcell.Absent.IsAbsent() || seen.Has(jcell.Absent) {
		t.Error("Absent should be distinct from every atom")
	}
	if !jcell.Failed.IsControl() {
		t.Error("Failed should be a control code")
	}

	// Boxed values never alias atoms.
	a := jcell.NewArena(nil)
	must := mustValue(t)
	for i := range 100 {
		c := must(a.Cons(jcell.Null, jcell.Null))
		n := must(a.Int(math.MaxInt64 - int64(i)))
		s := must(a.Chunk([]byte("boxed string")))
		for _, v := range []jcell.Value{c, n, s} {
			if seen.Has(v) || v.IsAtom() {
				t.Fatalf("Value %#v aliases an atom", v)
			}
		}
	}

	wantKind := map[jcell.Value]jcell.Kind{
		jcell.Null:        jcell.NullKind,
		jcell.True:        jcell.BoolKind,
		jcell.False:       jcell.BoolKind,
		jcell.EmptyArray:  jcell.ArrayKind,
		jcell.EmptyDict:   jcell.ObjectKind,
		jcell.EmptyString: jcell.StringKind,
		jcell.Failed:      jcell.InvalidKind,
	}
	for v, want := range wantKind {
		if got := a.Kind(v); got != want {
			t.Errorf("Kind(%#v): got %v, want %v", v, got, want)
		}
	}
}

func TestAccessors(t *testing.T) {
	a := jcell.NewArena(nil)
	must := mustValue(t)

	c := must(a.Cons(jcell.True, jcell.False))
	if h, tl := a.Pair(c); h != jcell.True || tl != jcell.False {
		t.Errorf("Pair: got (%#v, %#v), want (true, false)", h, tl)
	}
	a.SetHead(c, jcell.Null)
	a.SetTail(c, jcell.EmptyArray)
	if h, tl := a.Head(c), a.Tail(c); h != jcell.Null || tl != jcell.EmptyArray {
		t.Errorf("After Set: got (%#v, %#v), want (null, ())", h, tl)
	}

	mtest.MustPanic(t, func() { a.Head(jcell.Null) })
	mtest.MustPanic(t, func() { a.Tail(jcell.EmptyString) })
	mtest.MustPanic(t, func() { a.SetHead(must(a.Int(5)), jcell.Null) })
	mtest.MustPanic(t, func() { a.Dict(jcell.Null) })

	if got := a.Int64(jcell.Null); got != 0 {
		t.Errorf("Int64(null): got %d, want 0", got)
	}
	if got := a.Bytes(c); got != nil {
		t.Errorf("Bytes(cons): got %q, want nil", got)
	}
}

func TestGoString(t *testing.T) {
	a := jcell.NewArena(nil)
	must := mustValue(t)
	tests := []struct {
		input jcell.Value
		want  string
	}{
		{jcell.Null, "null"},
		{jcell.EmptyArray, "()"},
		{jcell.EmptyString, `""`},
		{jcell.Failed, "#failed"},
		{jcell.Absent, "#absent"},
		{must(a.Int(-25)), "#int(-25)"},
		{must(a.Chunk([]byte("xy"))), `#str("xy")`},
	}
	for _, tc := range tests {
		if got := fmt.Sprintf("%#v", tc.input); got != tc.want {
			t.Errorf("GoString: got %q, want %q", got, tc.want)
		}
	}
}
