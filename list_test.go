// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jcell_test

import (
	"testing"

	"github.com/creachadair/jcell"
	"github.com/google/go-cmp/cmp"
)

// ints returns a list of integer values.
func ints(t *testing.T, a *jcell.Arena, ns ...int64) jcell.Value {
	t.Helper()
	must := mustValue(t)
	vs := make([]jcell.Value, len(ns))
	for i, n := range ns {
		vs[i] = must(a.Int(n))
	}
	return must(a.List(vs...))
}

// toInts returns the integer elements of the chain v.
func toInts(a *jcell.Arena, v jcell.Value) []int64 {
	var out []int64
	for v.IsCons() {
		out = append(out, a.Int64(a.Pop(&v)))
	}
	return out
}

// strs returns the contents of the elements of the list v as Go strings.
func strs(a *jcell.Arena, v jcell.Value) []string {
	var out []string
	for v.IsCons() {
		out = append(out, string(a.AppendStr(nil, a.Pop(&v))))
	}
	return out
}

func TestTraversal(t *testing.T) {
	a := jcell.NewArena(nil)
	lst := ints(t, a, 10, 20, 30, 40)

	if got := a.Len(lst); got != 4 {
		t.Errorf("Len: got %d, want 4", got)
	}
	for i, want := range []int64{10, 20, 30, 40} {
		if got := a.Int64(a.Load(a.Nth(lst, i))); got != want {
			t.Errorf("Nth(%d): got %d, want %d", i, got, want)
		}
	}
	if s := a.Nth(lst, 4); !s.Absent() {
		t.Errorf("Nth(4): got %#v, want absent", a.Load(s))
	}
	if got := a.Load(a.Nth(lst, 10)); got != jcell.Absent {
		t.Errorf("Load(Nth(10)): got %#v, want absent", got)
	}
	if got := a.Int64(a.Load(a.Third(lst))); got != 30 {
		t.Errorf("Third: got %d, want 30", got)
	}

	if got := toInts(a, a.NthTail(lst, 2)); !cmp.Equal(got, []int64{30, 40}) {
		t.Errorf("NthTail(2): got %v, want [30 40]", got)
	}
	if got := a.NthTail(lst, 4); got != jcell.EmptyArray {
		t.Errorf("NthTail(4): got %#v, want ()", got)
	}
	if got := a.NthTail(lst, 5); got != jcell.Absent {
		t.Errorf("NthTail(5): got %#v, want absent", got)
	}

	if got := toInts(a, a.LastTail(lst, 1)); !cmp.Equal(got, []int64{40}) {
		t.Errorf("LastTail(1): got %v, want [40]", got)
	}
	if got := a.LastTail(lst, 0); got != jcell.EmptyArray {
		t.Errorf("LastTail(0): got %#v, want ()", got)
	}
	if got := a.LastTail(lst, 10); got != lst {
		t.Errorf("LastTail(10): got %#v, want %#v", got, lst)
	}

	// Slots can be written through.
	a.Store(a.Second(lst), jcell.True)
	if got := a.Load(a.Second(lst)); got != jcell.True {
		t.Errorf("After Store: got %#v, want true", got)
	}
	a.Store(a.First(lst), jcell.Null)
	if got := a.Head(lst); got != jcell.Null {
		t.Errorf("After Store: head is %#v, want null", got)
	}
}

func TestPop(t *testing.T) {
	a := jcell.NewArena(nil)
	lst := ints(t, a, 1, 2)
	cur := lst
	var got []int64
	for range 3 {
		got = append(got, a.Int64(a.Pop(&cur)))
	}
	if diff := cmp.Diff([]int64{1, 2, 0}, got); diff != "" {
		t.Errorf("Pop (-want, +got):\n%s", diff)
	}
	if cur != jcell.EmptyArray {
		t.Errorf("After Pop: got %#v, want ()", cur)
	}
	if a.Len(lst) != 2 {
		t.Errorf("Pop modified the list: %s", a.Sprint(lst))
	}
}

func TestReverse(t *testing.T) {
	a := jcell.NewArena(nil)
	for _, tc := range [][]int64{nil, {1}, {1, 2}, {1, 2, 3, 4, 5}} {
		got := toInts(a, a.Reverse(ints(t, a, tc...)))
		var want []int64
		for i := len(tc) - 1; i >= 0; i-- {
			want = append(want, tc[i])
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Reverse %v (-want, +got):\n%s", tc, diff)
		}
	}

	// The terminator is preserved.
	must := mustValue(t)
	v := must(a.Cons(must(a.Int(1)), must(a.Cons(must(a.Int(2)), jcell.EmptyDict))))
	r := a.Reverse(v)
	if got := a.LastTail(r, 0); got != jcell.EmptyDict {
		t.Errorf("Reverse terminator: got %#v, want {}", got)
	}
	if got := a.Sprint(r); got != "(2 1 . {})" {
		t.Errorf("Reverse: got %s, want (2 1 . {})", got)
	}
}

func TestConcat(t *testing.T) {
	a := jcell.NewArena(nil)
	must := mustValue(t)

	x := ints(t, a, 1, 2, 3)
	y := ints(t, a, 4, 5)
	xy := must(a.Concat(x, y))
	if diff := cmp.Diff([]int64{1, 2, 3, 4, 5}, toInts(a, xy)); diff != "" {
		t.Errorf("Concat (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, toInts(a, x)); diff != "" {
		t.Errorf("Concat modified x (-want, +got):\n%s", diff)
	}
	if got := a.NthTail(xy, 3); got != y {
		t.Errorf("Concat did not share y: got %#v, want %#v", got, y)
	}
	if got := must(a.Concat(jcell.EmptyArray, y)); got != y {
		t.Errorf("Concat((), y): got %#v, want %#v", got, y)
	}

	// Strings concatenate as chains.
	s := must(a.Concat(must(a.Str("hello, ")), must(a.Str("world"))))
	if !a.EqualStr(s, "hello, world") {
		t.Errorf("Concat strings: got %q", a.AppendStr(nil, s))
	}
	if got := a.Kind(s); got != jcell.StringKind {
		t.Errorf("Concat strings: kind is %v, want %v", got, jcell.StringKind)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		chunks []string
		want   []string
	}{
		{[]string{"abc"}, []string{"abc"}},
		{[]string{"a,b"}, []string{"a", "b"}},
		{[]string{",a,"}, []string{"", "a", ""}},
		{[]string{"a,,b"}, []string{"a", "", "b"}},
		{[]string{"alpha", ",bravo,", "charlie"}, []string{"alpha", "bravo", "charlie"}},
		{[]string{"al", "pha,br", "avo"}, []string{"alpha", "bravo"}},
		{[]string{"one", ",", "two"}, []string{"one", "two"}},
		{[]string{"x,", "y"}, []string{"x", "y"}},
	}
	for _, tc := range tests {
		a := jcell.NewArena(nil)
		must := mustValue(t)

		// Build a chain of chunks.
		s := jcell.EmptyString
		for i := len(tc.chunks) - 1; i >= 0; i-- {
			s = must(a.Cons(must(a.Str(tc.chunks[i])), s))
		}

		got := must(a.Split(s, ','))
		if diff := cmp.Diff(tc.want, strs(a, got)); diff != "" {
			t.Errorf("Split %q (-want, +got):\n%s", tc.chunks, diff)
		}
		for v := got; v.IsCons(); v = a.Tail(v) {
			if !a.IsStr(a.Head(v)) {
				t.Errorf("Split %q: piece %s is not a string", tc.chunks, a.Sprint(a.Head(v)))
			}
		}
	}

	t.Run("Empty", func(t *testing.T) {
		a := jcell.NewArena(nil)
		got := mustValue(t)(a.Split(jcell.EmptyString, ','))
		if diff := cmp.Diff([]string{""}, strs(a, got)); diff != "" {
			t.Errorf("Split empty (-want, +got):\n%s", diff)
		}
	})
}

func TestEqual(t *testing.T) {
	a := jcell.NewArena(nil)
	must := mustValue(t)

	chain := func(parts ...string) jcell.Value {
		out := jcell.EmptyString
		for i := len(parts) - 1; i >= 0; i-- {
			out = must(a.Cons(must(a.Str(parts[i])), out))
		}
		return out
	}
	whole := must(a.Str("hello world"))
	for _, parts := range [][]string{
		{"hello world"},
		{"hello", " world"},
		{"h", "e", "llo wor", "ld"},
		{"hel", "lo ", "wor", "ld"},
	} {
		c := chain(parts...)
		if !a.Equal(whole, c) || !a.Equal(c, whole) {
			t.Errorf("Equal(%q, %s): got false, want true", "hello world", a.Sprint(c))
		}
	}
	if a.Equal(whole, chain("hello", "world")) {
		t.Error("Equal: strings with different content compared equal")
	}
	if a.Equal(whole, chain("hello world", "!")) {
		t.Error("Equal: strings of different length compared equal")
	}
	if !a.Equal(jcell.EmptyString, chain()) {
		t.Error("Equal: empty strings compared unequal")
	}

	// Boxed and immediate integers compare by value.
	b1 := must(a.Int(1 << 40))
	b2 := must(a.Int(1 << 40))
	if b1 == b2 || !a.Equal(b1, b2) {
		t.Errorf("Equal(%#v, %#v): got false, want true", b1, b2)
	}
	if a.Equal(b1, must(a.Int(5))) {
		t.Error("Equal: different integers compared equal")
	}

	// Structure is compared recursively.
	x := must(a.List(ints(t, a, 1, 2), whole, jcell.True))
	y := must(a.List(ints(t, a, 1, 2), chain("hello ", "world"), jcell.True))
	z := must(a.List(ints(t, a, 1, 3), whole, jcell.True))
	if !a.Equal(x, y) {
		t.Errorf("Equal(%s, %s): got false, want true", a.Sprint(x), a.Sprint(y))
	}
	if a.Equal(x, z) {
		t.Errorf("Equal(%s, %s): got true, want false", a.Sprint(x), a.Sprint(z))
	}
	if a.Equal(ints(t, a, 1, 2), ints(t, a, 1, 2, 3)) {
		t.Error("Equal: lists of different length compared equal")
	}

	// Strings in the tail of a pair compare by content, as in object members.
	k := must(a.Str("key"))
	for _, tail := range []jcell.Value{
		must(a.Str("hello world")),
		chain("hello", " world"),
		chain("h", "ello", " ", "world"),
	} {
		p, q := must(a.Cons(k, whole)), must(a.Cons(k, tail))
		if !a.Equal(p, q) || !a.Equal(q, p) {
			t.Errorf("Equal(%s, %s): got false, want true", a.Sprint(p), a.Sprint(q))
		}
		d1 := must(a.Dict(k, whole, must(a.Str("n")), jcell.Null))
		d2 := must(a.Dict(k, tail, must(a.Str("n")), jcell.Null))
		if !a.Equal(d1, d2) {
			t.Errorf("Equal(%s, %s): got false, want true", a.Sprint(d1), a.Sprint(d2))
		}
	}
	if p, q := must(a.Cons(k, whole)), must(a.Cons(k, chain("hello", "world"))); a.Equal(p, q) {
		t.Errorf("Equal(%s, %s): got true, want false", a.Sprint(p), a.Sprint(q))
	}

	// A member whose value is a chain reads as a string, but keys still count.
	d1 := must(a.Dict(must(a.Str("ab")), chain("c", "d")))
	d2 := must(a.Dict(must(a.Str("a")), chain("b", "cd")))
	if a.Equal(d1, d2) {
		t.Errorf("Equal(%s, %s): got true, want false", a.Sprint(d1), a.Sprint(d2))
	}
	o1 := parseChunks(a, `{"ab":"c`, `d"}`)
	o2 := parseChunks(a, `{"a":"b`, `cd"}`)
	if a.Equal(o1, o2) {
		t.Errorf("Equal(%s, %s): got true, want false", a.Sprint(o1), a.Sprint(o2))
	}
	if o3 := parseChunks(a, `{"ab":"cd"}`); !a.Equal(o1, o3) {
		t.Errorf("Equal(%s, %s): got false, want true", a.Sprint(o1), a.Sprint(o3))
	}
}

func TestDict(t *testing.T) {
	a := jcell.NewArena(nil)
	must := mustValue(t)
	key := func(s string) jcell.Value { return must(a.Str(s)) }

	d := must(a.Dict(
		key("apple"), must(a.Int(1)),
		key("pear"), must(a.Int(2)),
	))
	if got := a.Len(d); got != 2 {
		t.Errorf("Len: got %d, want 2", got)
	}
	if got := a.Kind(d); got != jcell.ObjectKind {
		t.Errorf("Kind: got %v, want %v", got, jcell.ObjectKind)
	}

	if got := a.Int64(a.Load(a.Find(d, "apple"))); got != 1 {
		t.Errorf("Find apple: got %d, want 1", got)
	}
	if s := a.Find(d, "plum"); !s.Absent() {
		t.Errorf("Find plum: got %#v, want absent", a.Load(s))
	}

	// A later binding shadows an earlier one.
	d = must(a.DictSet(d, key("apple"), jcell.True))
	if got := a.Load(a.DictGet(d, key("apple"))); got != jcell.True {
		t.Errorf("DictGet apple: got %#v, want true", got)
	}
	if got := a.Len(d); got != 3 {
		t.Errorf("Len: got %d, want 3", got)
	}

	// Slots update the value in place.
	a.Store(a.Find(d, "pear"), jcell.Null)
	if got := a.Load(a.Find(d, "pear")); got != jcell.Null {
		t.Errorf("After Store: got %#v, want null", got)
	}
	if got := a.JSON(d); got != `{"apple":1,"pear":null,"apple":true}` {
		t.Errorf("JSON: got %s", got)
	}
}
