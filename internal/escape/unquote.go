// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles the escape sequences of JSON strings.
package escape

var unescape = [...]byte{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// Unescape returns the byte denoted by the single-character escape sequence
// "\c", and reports whether c is a valid escape. The Unicode escape "\u" is
// not included, since it requires further input.
func Unescape(c byte) (byte, bool) {
	if int(c) < len(unescape) && unescape[c] != 0 {
		return unescape[c], true
	}
	return 0, false
}

// HexValue returns the value of the hexadecimal digit c, and reports whether
// c is a hex digit.
func HexValue(c byte) (int, bool) {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0'), true
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}
