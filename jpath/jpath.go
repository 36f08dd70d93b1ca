// Package jpath implements a subset of JSONPath for selecting values from a
// parsed jcell value.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/jcell"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = ".." name
  step = "[" value "]"
  name = WORD
  name = "'" QTEXT "'"
  name = "*"
 value = name
 value = INDEX ["," INDEX ...]
 value = [INDEX] ":" [INDEX]

  WORD = RE `\w+`
 QTEXT = RE `[^']*`
 INDEX = RE `-?\d+`

Script and filter steps, "[(...)]" and "[?(...)]", are not supported.
*/

// An Expr is a parsed JSONPath expression.
type Expr []Step

// Parse parses s as a JSONPath expression.
func Parse(s string) (Expr, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var out Expr
	for t != "" {
		step, rest, err := parseStep(t)
		if err != nil {
			return nil, fmt.Errorf("at %q: %w", t, err)
		}
		out = append(out, step)
		t = rest
	}
	return out, nil
}

// MustParse is like Parse, but panics if s is not a valid expression.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("jpath: %v", err))
	}
	return e
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		buf.WriteString(s.String())
	}
	return buf.String()
}

// An Op is a path operator.
type Op byte

const (
	Invalid Op = iota // invalid operator
	Member            // select a named member (.name, ['name'])
	Each              // select every member or element (.*, [*])
	Index             // select array elements by position ([0,-1])
	Slice             // select a range of array elements ([1:3])
	Recur             // select a named member at any depth (..name)
	RecurEach         // select every value at any depth (..*)
)

var opText = [...]string{
	Invalid:   "invalid",
	Member:    "member",
	Each:      "each",
	Index:     "index",
	Slice:     "slice",
	Recur:     "recur",
	RecurEach: "recur-each",
}

func (o Op) String() string {
	if int(o) >= len(opText) {
		return opText[Invalid]
	}
	return opText[o]
}

// A Step is a single step of a JSONPath expression.
type Step struct {
	Op Op

	Name    string // for Member and Recur
	Quoted  bool   // the name was written in quotes
	Bracket bool   // the step was written in brackets

	Indexes []int // for Index

	Start, End       int // for Slice
	HasStart, HasEnd bool
}

func (s Step) String() string {
	switch s.Op {
	case Member:
		name := s.Name
		if s.Quoted {
			name = "'" + name + "'"
		}
		if s.Bracket {
			return "[" + name + "]"
		}
		return "." + name
	case Each:
		if s.Bracket {
			return "[*]"
		}
		return ".*"
	case Recur:
		if s.Quoted {
			return "..'" + s.Name + "'"
		}
		return ".." + s.Name
	case RecurEach:
		return "..*"
	case Index:
		parts := make([]string, len(s.Indexes))
		for i, n := range s.Indexes {
			parts[i] = strconv.Itoa(n)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case Slice:
		var lo, hi string
		if s.HasStart {
			lo = strconv.Itoa(s.Start)
		}
		if s.HasEnd {
			hi = strconv.Itoa(s.End)
		}
		return "[" + lo + ":" + hi + "]"
	}
	return "<invalid>"
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, ".."); ok {
		name, quoted, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid ..name: %w", err)
		} else if name == "*" && !quoted {
			return Step{Op: RecurEach}, u, nil
		}
		return Step{Op: Recur, Name: name, Quoted: quoted}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		name, quoted, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid .name: %w", err)
		} else if name == "*" && !quoted {
			return Step{Op: Each}, u, nil
		}
		return Step{Op: Member, Name: name, Quoted: quoted}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		out, u, err := parseValue(t)
		if err != nil {
			return Step{}, t, err
		}
		u, ok := strings.CutPrefix(u, "]")
		if !ok {
			return Step{}, u, errors.New("missing close bracket")
		}
		out.Bracket = true
		return out, u, nil
	}
	return Step{}, s, errors.New("invalid path step")
}

func parseName(s string) (name string, quoted bool, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return "*", false, t, nil
	}
	if m := wordRE.FindStringSubmatch(s); m != nil {
		return m[1], false, s[len(m[0]):], nil
	}
	if m := quoteRE.FindStringSubmatch(s); m != nil {
		return m[1], true, s[len(m[0]):], nil
	}
	return "", false, s, errors.New("invalid name")
}

func parseValue(s string) (Step, string, error) {
	if strings.HasPrefix(s, "(") || strings.HasPrefix(s, "?(") {
		return Step{}, s, errors.New("script and filter steps are not supported")
	}
	if m := indexRE.FindStringSubmatch(s); m != nil {
		rest := s[len(m[0]):]
		if u, ok := strings.CutPrefix(rest, ":"); ok && !strings.Contains(m[1], ",") {
			return parseSlice(m[1], u)
		}
		var idx []int
		for _, f := range strings.Split(m[1], ",") {
			n, err := strconv.Atoi(f)
			if err != nil {
				return Step{}, s, fmt.Errorf("invalid index %q", f)
			}
			idx = append(idx, n)
		}
		return Step{Op: Index, Indexes: idx}, rest, nil
	}
	if u, ok := strings.CutPrefix(s, ":"); ok {
		return parseSlice("", u)
	}
	if name, quoted, rest, err := parseName(s); err == nil {
		if name == "*" && !quoted {
			return Step{Op: Each}, rest, nil
		}
		return Step{Op: Member, Name: name, Quoted: quoted}, rest, nil
	}
	return Step{}, s, fmt.Errorf("invalid value: %q", s)
}

// parseSlice parses the end of a slice whose start text is lo, which may be
// empty, and whose remaining input is s.
func parseSlice(lo, s string) (Step, string, error) {
	out := Step{Op: Slice}
	if lo != "" {
		n, err := strconv.Atoi(lo)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid slice start %q", lo)
		}
		out.Start, out.HasStart = n, true
	}
	if m := sliceEndRE.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid slice end %q", m[1])
		}
		out.End, out.HasEnd = n, true
		s = s[len(m[0]):]
	} else if !out.HasStart {
		return Step{}, s, errors.New("invalid slice")
	}
	return out, s, nil
}

var (
	wordRE     = regexp.MustCompile(`^(\w+)`)
	indexRE    = regexp.MustCompile(`^(-?\d+(?:,-?\d+)*)`)
	sliceEndRE = regexp.MustCompile(`^(-?\d+)`)
	quoteRE    = regexp.MustCompile(`^'([^']*)'`)
)

// Eval evaluates e against root, whose storage is in a, and returns the
// selected values in the order they are found. Steps that do not apply to a value, such
// as a member lookup on an array, select nothing from it.
func (e Expr) Eval(a *jcell.Arena, root jcell.Value) []jcell.Value {
	cur := []jcell.Value{root}
	for _, s := range e {
		var next []jcell.Value
		for _, v := range cur {
			next = s.apply(a, v, next)
		}
		cur = next
	}
	return cur
}

// apply appends to out the values selected by s from v.
func (s Step) apply(a *jcell.Arena, v jcell.Value, out []jcell.Value) []jcell.Value {
	switch s.Op {
	case Member:
		if a.Kind(v) == jcell.ObjectKind {
			if slot := a.Find(v, s.Name); !slot.Absent() {
				out = append(out, a.Load(slot))
			}
		}
	case Each:
		out = appendChildren(a, v, out)
	case Index:
		elts := appendElements(a, v, nil)
		for _, i := range s.Indexes {
			if i < 0 {
				i += len(elts)
			}
			if i >= 0 && i < len(elts) {
				out = append(out, elts[i])
			}
		}
	case Slice:
		elts := appendElements(a, v, nil)
		lo, hi := 0, len(elts)
		if s.HasStart {
			lo = clampIndex(s.Start, len(elts))
		}
		if s.HasEnd {
			hi = clampIndex(s.End, len(elts))
		}
		if lo < hi {
			out = append(out, elts[lo:hi]...)
		}
	case Recur, RecurEach:
		// Walk the descendants of v in document order. A descendant is selected
		// by ..* always, and by ..name if it is the value of a member so named.
		type node struct {
			v   jcell.Value
			sel bool
		}
		work := []node{{v: v}}
		var kids []node
		for len(work) != 0 {
			next := work[len(work)-1]
			work = work[:len(work)-1]
			if next.sel {
				out = append(out, next.v)
			}

			kids = kids[:0]
			switch a.Kind(next.v) {
			case jcell.ArrayKind:
				for _, e := range appendElements(a, next.v, nil) {
					kids = append(kids, node{v: e, sel: s.Op == RecurEach})
				}
			case jcell.ObjectKind:
				// Dictionary members are stored most recent first, which is the
				// order they must be pushed to be visited in document order.
				for m := next.v; m.IsCons(); {
					key, val := a.Pair(a.Pop(&m))
					sel := s.Op == RecurEach || a.EqualStr(key, s.Name)
					work = append(work, node{v: val, sel: sel})
				}
				continue
			}
			for i := len(kids) - 1; i >= 0; i-- {
				work = append(work, kids[i])
			}
		}
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return max(0, min(i, n))
}

// appendElements appends the elements of v to out, if v is an array.
func appendElements(a *jcell.Arena, v jcell.Value, out []jcell.Value) []jcell.Value {
	if a.Kind(v) == jcell.ArrayKind {
		for v.IsCons() {
			out = append(out, a.Pop(&v))
		}
	}
	return out
}

// appendChildren appends the elements of an array or the member values of an
// object to out, in document order.
func appendChildren(a *jcell.Arena, v jcell.Value, out []jcell.Value) []jcell.Value {
	switch a.Kind(v) {
	case jcell.ArrayKind:
		return appendElements(a, v, out)
	case jcell.ObjectKind:
		// Dictionary members are stored most recent first.
		start := len(out)
		for v.IsCons() {
			out = append(out, a.Tail(a.Pop(&v)))
		}
		slices.Reverse(out[start:])
	}
	return out
}
