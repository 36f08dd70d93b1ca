// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Append appends the escaped form of src to dst, for inclusion in a JSON
// string. Valid UTF-8 sequences are copied; any other byte is taken to be a
// Latin-1 code point and written as a \u escape.
func Append(dst []byte, src mem.RO) []byte {
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		if r == utf8.RuneError && n <= 1 {
			dst = appendU(dst, rune(src.At(0)))
			src = src.SliceFrom(1)
			continue
		}
		dst = AppendRune(dst, r)
		src = src.SliceFrom(n)
	}
	return dst
}

// AppendRune appends the escaped form of r to dst.
func AppendRune(dst []byte, r rune) []byte {
	if r < utf8.RuneSelf {
		if r < ' ' {
			if b := controlEsc[r]; b != 0 {
				return append(dst, '\\', b)
			}
			return appendU(dst, r)
		} else if r == '\\' || r == '"' {
			return append(dst, '\\', byte(r))
		}
		return append(dst, byte(r))
	}

	switch {
	case r == '\ufffd', r == '\u2028', r == '\u2029':
		return appendU(dst, r)
	case r >= 0xd800 && r < 0xe000:
		return appendU(dst, r) // a lone surrogate half
	case !utf8.ValidRune(r):
		return appendU(dst, utf8.RuneError)
	}
	return utf8.AppendRune(dst, r)
}

func appendU(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		hexDigit[r>>12&15], hexDigit[r>>8&15], hexDigit[r>>4&15], hexDigit[r&15])
}
