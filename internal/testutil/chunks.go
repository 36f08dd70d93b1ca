// Package testutil defines support code for unit tests.
package testutil

// Split returns text cut at the given offsets, which must be nondecreasing
// and within the bounds of text.
func Split(text string, cuts ...int) []string {
	var out []string
	pos := 0
	for _, c := range cuts {
		out = append(out, text[pos:c])
		pos = c
	}
	return append(out, text[pos:])
}

// Chunks returns text divided into consecutive pieces of at most n bytes.
func Chunks(text string, n int) []string {
	var out []string
	for len(text) > n {
		out = append(out, text[:n])
		text = text[n:]
	}
	return append(out, text)
}

// Bytes returns text divided into single bytes.
func Bytes(text string) []string { return Chunks(text, 1) }
