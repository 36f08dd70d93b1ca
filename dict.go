// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jcell

// DictGet returns the slot holding the value of the first pair in d whose key
// is Equal to key, or an absent slot if there is none. Pairs are scanned from
// the front of the chain, so the most recently added pair for a key wins.
func (a *Arena) DictGet(d, key Value) Slot {
	for ; d.IsCons(); d = a.Tail(d) {
		if p := a.Head(d); p.IsCons() && a.Equal(a.Head(p), key) {
			return Slot{cell: p, tail: true}
		}
	}
	return Slot{}
}

// Find is like DictGet, but compares keys against the contents of a Go string.
func (a *Arena) Find(d Value, key string) Slot {
	for ; d.IsCons(); d = a.Tail(d) {
		if p := a.Head(d); p.IsCons() && a.EqualStr(a.Head(p), key) {
			return Slot{cell: p, tail: true}
		}
	}
	return Slot{}
}

// DictSet returns d with a new (key . val) pair added at the front. Existing
// pairs with the same key are retained, but are shadowed for DictGet.
func (a *Arena) DictSet(d, key, val Value) (Value, error) {
	p, err := a.Cons(key, val)
	if err != nil {
		return 0, err
	}
	return a.Cons(p, d)
}

// Dict returns a dictionary of the given key/value pairs, in which the last
// pair listed is found first.
func (a *Arena) Dict(kvs ...Value) (Value, error) {
	if len(kvs)%2 != 0 {
		panic("jcell: odd number of arguments to Dict")
	}
	out := EmptyDict
	for i := 0; i < len(kvs); i += 2 {
		var err error
		out, err = a.DictSet(out, kvs[i], kvs[i+1])
		if err != nil {
			return 0, err
		}
	}
	return out, nil
}
