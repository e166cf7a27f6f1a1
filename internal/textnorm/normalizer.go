// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package textnorm provides the line splitting and OCR confusion correction
// shared by every parser and extractor. Correction is scoped per field type:
// document numbers run through CorrectDigits, name tokens through
// CorrectLetters. There is no global correction pass.
package textnorm

import (
	"strings"
	"unicode"
)

// digitConfusions maps letters that OCR commonly produces in place of a
// digit. Applied only inside fields expected to be numeric.
var digitConfusions = map[rune]rune{
	'O': '0',
	'Q': '0',
	'D': '0',
	'I': '1',
	'L': '1',
	'Z': '2',
	'S': '5',
	'G': '6',
	'B': '8',
}

// letterConfusions is the reverse direction: digits that OCR produces in
// place of a letter. Applied only inside fields expected to be alphabetic.
var letterConfusions = map[rune]rune{
	'0': 'O',
	'1': 'I',
	'2': 'Z',
	'5': 'S',
	'6': 'G',
	'8': 'B',
}

// pairConfusions are multi-character shapes OCR merges or splits.
var pairConfusions = []struct{ from, to string }{
	{"rn", "m"},
	{"RN", "M"},
	{"vv", "w"},
	{"VV", "W"},
}

// SplitLines splits raw recognition text into trimmed lines, dropping lines
// that carry no letter or digit (scanner noise, ruling artifacts).
func SplitLines(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" || !hasWordChar(l) {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

func hasWordChar(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// StripSpaces removes every whitespace rune. MRZ candidate detection runs on
// space-stripped lines because OCR tends to inject spaces into the zone.
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// CorrectDigits rewrites confused letters to digits. Characters that are
// neither a known confusion nor already a digit pass through unchanged, so
// mixed alphanumeric document numbers keep their genuine letter prefix when
// the caller corrects only the numeric tail.
func CorrectDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := digitConfusions[unicode.ToUpper(r)]; ok {
			return d
		}
		return r
	}, s)
}

// CorrectDigitsTail corrects only the part of s after the given prefix
// length. Document numbers shaped "letters + digits" keep their letters.
func CorrectDigitsTail(s string, prefixLen int) string {
	if prefixLen >= len(s) {
		return s
	}
	return s[:prefixLen] + CorrectDigits(s[prefixLen:])
}

// CorrectLetters rewrites stray digits inside an alphabetic token to the
// most visually similar letter, and fixes known pair confusions. A no-op on
// already-clean text.
func CorrectLetters(s string) string {
	out := strings.Map(func(r rune) rune {
		if l, ok := letterConfusions[r]; ok {
			return l
		}
		return r
	}, s)
	for _, p := range pairConfusions {
		out = strings.ReplaceAll(out, p.from, p.to)
	}
	return out
}

// LooksNumeric reports whether, after digit correction, s is digits only.
func LooksNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range CorrectDigits(s) {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// CollapseSpaces folds runs of whitespace into single spaces and trims.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
