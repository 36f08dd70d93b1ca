// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program jcell decodes a JSON value from a file or standard input, feeding
// the input to the parser in fixed-size chunks, and prints the result.
//
// Usage:
//
//	jcell [flags] [file]
//
// With no file, or if file is "-", input is read from stdin.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/creachadair/jcell"
	"github.com/creachadair/jcell/jpath"
)

var (
	chunkSize = flag.Int("chunk", jcell.DefaultChunkSize, "Input bytes per parser feed")
	allowJWCC = flag.Bool("jwcc", false, "Accept comments and trailing commas (JWCC)")
	sexpOut   = flag.Bool("sexp", false, "Print the S-expression form instead of JSON")
	indentOut = flag.Bool("indent", false, "Pretty-print the output")
	pathExpr  = flag.String("path", "", "Print only values selected by this JSONPath expression")
	showStats = flag.Bool("stats", false, "Log arena statistics after decoding")
	blockMax  = flag.Int("max-blocks", 0, "Maximum blocks per arena pool (0 means no limit)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [file]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("jcell: ")

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}
	var sel jpath.Expr
	if *pathExpr != "" {
		var err error
		sel, err = jpath.Parse(*pathExpr)
		if err != nil {
			log.Fatalf("Invalid path: %v", err)
		}
	}

	in, err := openInput(flag.Arg(0))
	if err != nil {
		log.Fatalf("Open input: %v", err)
	}
	defer in.Close()

	a := jcell.NewArena(&jcell.Options{BlockLimit: *blockMax})
	defer a.Destroy()

	v, err := decode(a, in)
	if err != nil {
		log.Fatalf("Decode: %v", err)
	}
	if *showStats {
		s := a.Stats()
		log.Printf("bytes: %+v", s.Bytes)
		log.Printf("ints:  %+v", s.Ints)
		log.Printf("cells: %+v", s.Cells)
	}

	vals := []jcell.Value{v}
	if sel != nil {
		vals = sel.Eval(a, v)
	}
	for _, v := range vals {
		if err := printValue(os.Stdout, a, v); err != nil {
			log.Fatalf("Print: %v", err)
		}
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func decode(a *jcell.Arena, r io.Reader) (jcell.Value, error) {
	if !*allowJWCC {
		return jcell.Decode(a, r, *chunkSize)
	}
	src, err := io.ReadAll(r)
	if err != nil {
		return jcell.Failed, err
	}
	return jcell.DecodeJWCC(a, src, *chunkSize)
}

func printValue(w io.Writer, a *jcell.Arena, v jcell.Value) error {
	var buf bytes.Buffer
	switch {
	case *sexpOut:
		buf.Write(a.AppendSexp(nil, v))
	case *indentOut:
		if err := a.WriteIndent(&buf, v); err != nil {
			return err
		}
	default:
		out, err := a.AppendJSON(nil, v)
		if err != nil {
			return err
		}
		buf.Write(out)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
