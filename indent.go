// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jcell

import (
	"bufio"
	"fmt"
	"io"
	"text/tabwriter"
)

// An Indenter carries the settings for pretty-printing values.  A zero value
// is ready for use with default settings.
//
// The output is JWCC: every element of a multi-line array or object is
// followed by a comma, including the last. Short arrays and objects of
// scalars are written on one line.
type Indenter struct {
	// Indent is the text added per nesting level. If empty, two spaces are
	// used.
	Indent string

	// LineItems is the maximum number of elements in an array written on one
	// line. If zero, 3 is used.
	LineItems int
}

func (f Indenter) indent() string {
	if f.Indent == "" {
		return "  "
	}
	return f.Indent
}

func (f Indenter) lineItems() int {
	if f.LineItems <= 0 {
		return 3
	}
	return f.LineItems
}

// WriteIndent renders a pretty-printed representation of v to w with default
// settings.
func (a *Arena) WriteIndent(w io.Writer, v Value) error {
	var f Indenter
	return f.Format(w, a, v)
}

// A fmtItem is a unit of pending output for the Indenter.
type fmtItem struct {
	text   string
	v      Value
	indent string // for values: the indentation of the enclosing line
	flush  bool   // end the current column block
}

// Format renders a pretty-printed representation of v, whose storage is in a,
// to w using the settings from f.
func (f Indenter) Format(w io.Writer, a *Arena, v Value) error {
	bw := bufio.NewWriter(w)
	tw := tabwriter.NewWriter(bw, 4, 4, 1, ' ', 0)

	var buf []byte
	work := []fmtItem{{v: v}}
	for len(work) != 0 {
		next := work[len(work)-1]
		work = work[:len(work)-1]
		if next.flush {
			if err := tw.Flush(); err != nil {
				return err
			}
			continue
		} else if next.text != "" {
			if _, err := io.WriteString(tw, next.text); err != nil {
				return err
			}
			continue
		}

		var err error
		buf, err = f.appendLine(buf[:0], a, next.v)
		if err != nil {
			return err
		} else if buf != nil {
			if _, err := tw.Write(buf); err != nil {
				return err
			}
			continue
		}

		// The value needs multiple lines. Queue its pieces in reverse.
		seq, err := f.expand(a, next.v, next.indent)
		if err != nil {
			return err
		}
		for i := len(seq) - 1; i >= 0; i-- {
			work = append(work, seq[i])
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return bw.Flush()
}

// expand returns the output items for the multi-line array or object v,
// whose closing bracket is indented by indent.
func (f Indenter) expand(a *Arena, v Value, indent string) ([]fmtItem, error) {
	adent := indent + f.indent()
	if a.Kind(v) == ArrayKind {
		seq := []fmtItem{{text: "[\n"}}
		for v.IsCons() {
			seq = append(seq,
				fmtItem{text: adent},
				fmtItem{v: a.Pop(&v), indent: adent},
				fmtItem{text: ",\n"},
			)
		}
		return append(seq, fmtItem{flush: true}, fmtItem{text: indent + "]"}), nil
	}

	// Dictionary members are stored most recent first.
	var members []Value
	for v.IsCons() {
		p := a.Pop(&v)
		if !p.IsCons() {
			return nil, fmt.Errorf("invalid object member %#v", p)
		}
		members = append(members, p)
	}
	seq := []fmtItem{{text: "{\n"}}
	prevBoring, curBoring := true, true
	for i := len(members) - 1; i >= 0; i-- {
		key, val := a.Pair(members[i])

		// Leave extra space before the next member if either it or its
		// predecessor was non-boring.
		prevBoring, curBoring = curBoring, f.isBoring(a, val)
		if i != len(members)-1 && !(prevBoring && curBoring) {
			seq = append(seq, fmtItem{text: "\n"})
		}

		// Boring values line up in columns; others are stapled to the key.
		sep := ": "
		if curBoring {
			sep = ":\t"
		}
		seq = append(seq,
			fmtItem{text: adent},
			fmtItem{v: key},
			fmtItem{text: sep},
			fmtItem{v: val, indent: adent},
			fmtItem{text: ",\n"},
		)
	}
	return append(seq, fmtItem{flush: true}, fmtItem{text: indent + "}"}), nil
}

// appendLine appends the one-line rendering of v to buf if v is boring.  If
// v needs multiple lines, it returns nil without error.
func (f Indenter) appendLine(buf []byte, a *Arena, v Value) ([]byte, error) {
	if !f.isBoring(a, v) {
		return nil, nil
	}
	switch a.Kind(v) {
	case ArrayKind:
		buf = append(buf, '[')
		for i := 0; v.IsCons(); i++ {
			if i > 0 {
				buf = append(buf, ", "...)
			}
			var err error
			if buf, err = a.AppendJSON(buf, a.Pop(&v)); err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case ObjectKind:
		if v == EmptyDict {
			return append(buf, "{}"...), nil
		}
		key, val := a.Pair(a.Head(v))
		buf = append(buf, '{')
		buf = a.appendQuoted(buf, key)
		buf = append(buf, ": "...)
		var err error
		if buf, err = a.AppendJSON(buf, val); err != nil {
			return nil, err
		}
		return append(buf, '}'), nil
	}
	return a.AppendJSON(buf, v)
}

// isBoring reports whether v is simple enough to be rendered on one line:
// a scalar, an array of at most LineItems scalars, or an object with at most
// one member whose value is a scalar. Empty arrays and objects are scalars
// for this purpose.
func (f Indenter) isBoring(a *Arena, v Value) bool {
	switch a.Kind(v) {
	case ArrayKind:
		for i := 0; v.IsCons(); i++ {
			if i >= f.lineItems() || !isScalar(a, a.Pop(&v)) {
				return false
			}
		}
		return true
	case ObjectKind:
		if v == EmptyDict {
			return true
		}
		p := a.Head(v)
		return a.Tail(v) == EmptyDict && p.IsCons() && isScalar(a, a.Tail(p))
	}
	return true
}

func isScalar(a *Arena, v Value) bool {
	switch a.Kind(v) {
	case ArrayKind:
		return v == EmptyArray
	case ObjectKind:
		return v == EmptyDict
	}
	return true
}
