// Package script classifies text by the scripts it is written in.
//
// It is a heuristic, not a language detector: text is "target script" when it
// contains no CJK Unified Ideograph at all, so digits, symbols and empty strings
// count as target script.
package script

import "unicode"

// cjkUnified is the CJK Unified Ideographs block
var cjkUnified = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x4E00, Hi: 0x9FFF, Stride: 1},
	},
}

// IsCJK reports whether r is a CJK Unified Ideograph
func IsCJK(r rune) bool {
	return unicode.Is(cjkUnified, r)
}

// ContainsCJK reports whether s contains at least one CJK Unified Ideograph
func ContainsCJK(s string) bool {
	for _, r := range s {
		if IsCJK(r) {
			return true
		}
	}
	return false
}

// IsTarget reports whether s is already free of the source script
func IsTarget(s string) bool {
	return !ContainsCJK(s)
}

// CountCJK returns the number of CJK Unified Ideographs in s
func CountCJK(s string) int {
	n := 0
	for _, r := range s {
		if IsCJK(r) {
			n++
		}
	}
	return n
}
