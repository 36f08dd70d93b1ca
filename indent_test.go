// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jcell_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/andreyvit/diff"
	"github.com/creachadair/jcell"
)

func TestIndent(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{`"x"`, `"x"`},
		{`1.5`, `15e-1`},
		{`[]`, `[]`},
		{`{}`, `{}`},
		{`[1,2,3]`, `[1, 2, 3]`},
		{`[[],{},null]`, `[[], {}, null]`},
		{`{"a":1}`, `{"a": 1}`},
		{`{"a":[]}`, `{"a": []}`},
		{`[1,2,3,4]`, `
[
  1,
  2,
  3,
  4,
]`},
		{`{"a":1,"bbb":2}`, `
{
  "a":   1,
  "bbb": 2,
}`},
		{`{"a":1,"bb":[1,2,3,4]}`, `
{
  "a": 1,

  "bb": [
    1,
    2,
    3,
    4,
  ],
}`},
		{`[{"a":[1]},[[1]]]`, `
[
  {
    "a": [1],
  },
  [
    [1],
  ],
]`},
	}
	for _, tc := range tests {
		a := jcell.NewArena(nil)
		v := parseChunks(a, tc.input)
		var sb strings.Builder
		if err := a.WriteIndent(&sb, v); err != nil {
			t.Errorf("WriteIndent %q: unexpected error: %v", tc.input, err)
			continue
		}
		if got, want := sb.String(), strings.TrimPrefix(tc.want, "\n"); got != want {
			t.Errorf("WriteIndent %q: output differs:\n%s", tc.input, diff.LineDiff(want, got))
		}
	}
}

func TestIndentRoundTrip(t *testing.T) {
	inputs := []string{
		testInput,
		`{"a":{"b":{"c":[1,2,3,4,{"d":null}]}},"e":"\u0001 "}`,
		strings.Repeat("[", 500) + strings.Repeat("]", 500),
	}
	for _, input := range inputs {
		a := jcell.NewArena(nil)
		v := parseChunks(a, input)

		f := jcell.Indenter{Indent: "\t", LineItems: 2}
		var sb strings.Builder
		if err := f.Format(&sb, a, v); err != nil {
			t.Fatalf("Format: unexpected error: %v", err)
		}
		w, err := jcell.DecodeJWCC(a, []byte(sb.String()), 0)
		if err != nil {
			t.Fatalf("DecodeJWCC: unexpected error: %v\n%s", err, sb.String())
		}
		if !a.Equal(v, w) {
			t.Errorf("Round trip: got %s, want %s", a.JSON(w), a.JSON(v))
		}
	}

	a := jcell.NewArena(nil)
	var sb strings.Builder
	if err := a.WriteIndent(&sb, jcell.Failed); err == nil {
		t.Errorf("WriteIndent(failed): got %q, want error", sb.String())
	}
}

var errShortWrite = errors.New("write limit reached")

// limitWriter accepts up to n bytes and then fails.
type limitWriter struct{ n int }

func (w *limitWriter) Write(data []byte) (int, error) {
	if len(data) > w.n {
		nw := w.n
		w.n = 0
		return nw, errShortWrite
	}
	w.n -= len(data)
	return len(data), nil
}

func TestIndentWriteError(t *testing.T) {
	a := jcell.NewArena(nil)
	v := parseChunks(a, "["+strings.Repeat(`{"key":"value","n":[1,2,3,4]},`, 500)+"null]")

	for _, n := range []int{0, 100, 5000} {
		err := a.WriteIndent(&limitWriter{n: n}, v)
		if !errors.Is(err, errShortWrite) {
			t.Errorf("WriteIndent with limit %d: got %v, want %v", n, err, errShortWrite)
		}
	}
}
