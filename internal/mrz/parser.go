// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package mrz decodes ICAO 9303-style machine-readable zones out of noisy
// recognition text. Parse never fails: fields that cannot be decoded stay
// unset and the caller falls back to free-text extraction.
package mrz

import (
	"regexp"
	"strings"

	"idscan/internal/identity"
	"idscan/internal/nationality"
	"idscan/internal/textnorm"
)

// Century pivots for two-digit MRZ years. Birth and expiry deliberately use
// different pivots; unifying them would silently shift decoded years.
const (
	DefaultBirthPivot  = 30
	DefaultExpiryPivot = 50
)

// namePrefixes are the accepted leading tokens of an MRZ name line. The
// first entry is the clean form; the quote, I and 1 variants are the usual
// OCR corruptions of the leading P. PP and PM are country-specific document
// type codes seen on some national layouts.
var namePrefixes = []string{"P<", "'<", "I<", "1<", "PP", "PM"}

// dataGrammar is one accepted data-line layout. Grammars are tried in
// order; the first whose pattern matches wins. Submatch order is fixed:
// document number, nationality code, birth YYMMDD, expiry YYMMDD.
type dataGrammar struct {
	name    string
	pattern *regexp.Regexp
}

// dataGrammars covers the standard TD3 layout plus the compacted national
// variants where the check digit after the document number was dropped or
// the number runs 8 or 10 characters. Keep this a table: every pattern is
// enumerable by tests on its own.
var dataGrammars = []dataGrammar{
	{
		name:    "td3",
		pattern: regexp.MustCompile(`^([A-Z0-9<]{9})[0-9<]([A-Z<]{3})([0-9]{6})[0-9<][MF<]([0-9]{6})[0-9<]`),
	},
	{
		name:    "compact9",
		pattern: regexp.MustCompile(`^([A-Z0-9]{9})([A-Z]{3})([0-9]{6})[0-9]?[MF<]([0-9]{6})`),
	},
	{
		name:    "compact10",
		pattern: regexp.MustCompile(`^([A-Z0-9]{10})<?([A-Z]{3})([0-9]{6})[0-9]?[MF<]([0-9]{6})`),
	},
	{
		name:    "compact8",
		pattern: regexp.MustCompile(`^([A-Z0-9]{8})<{0,2}([A-Z]{3})([0-9]{6})[0-9]?[MF<]([0-9]{6})`),
	},
}

// minDataLineLen is the shortest stripped line still considered a data-line
// candidate. Real zones are 36 or 44 columns; badly cropped scans lose the
// trailing filler.
const minDataLineLen = 28

// mrzCharset matches a line made only of zone characters.
var mrzCharset = regexp.MustCompile(`^[A-Z0-9<']+$`)

// Parser decodes MRZ blocks. Zero value is not usable; call New.
type Parser struct {
	BirthPivot  int
	ExpiryPivot int
}

// New returns a parser with the default century pivots.
func New() *Parser {
	return &Parser{BirthPivot: DefaultBirthPivot, ExpiryPivot: DefaultExpiryPivot}
}

// Parse scans the text for MRZ candidate lines and decodes what it can.
// An empty record means no usable zone was found.
func (p *Parser) Parse(text string) identity.MRZRecord {
	var nameLines, dataLines []string

	for _, line := range textnorm.SplitLines(text) {
		stripped := textnorm.StripSpaces(strings.ToUpper(line))
		if !mrzCharset.MatchString(stripped) {
			continue
		}
		// A line may qualify as both: PP/PM prefixes collide with document
		// numbers, so candidates go on every list they match and the
		// pairing loop below sorts out which reading decodes.
		if hasNamePrefix(stripped) {
			nameLines = append(nameLines, stripped)
		}
		if len(stripped) >= minDataLineLen && matchGrammar(stripped) != nil {
			dataLines = append(dataLines, stripped)
		}
	}

	// Two-line path: try every name/data pairing until one decodes jointly.
	// A pair where either half refuses to decode is discarded rather than
	// guessed at.
	for _, nl := range nameLines {
		for _, dl := range dataLines {
			var rec identity.MRZRecord
			if p.decodeNameLine(nl, &rec) && p.decodeDataLine(dl, &rec) {
				return rec
			}
		}
	}

	// Degraded single-line paths.
	for _, nl := range nameLines {
		var rec identity.MRZRecord
		if p.decodeNameLine(nl, &rec) {
			return rec
		}
	}
	for _, dl := range dataLines {
		var rec identity.MRZRecord
		if p.decodeDataLine(dl, &rec) {
			return rec
		}
	}

	return identity.MRZRecord{}
}

func hasNamePrefix(line string) bool {
	for _, p := range namePrefixes {
		if strings.HasPrefix(line, p) && len(line) > 5 {
			return true
		}
	}
	return false
}

func matchGrammar(line string) *dataGrammar {
	for i := range dataGrammars {
		if dataGrammars[i].pattern.MatchString(line) {
			return &dataGrammars[i]
		}
	}
	return nil
}

// decodeNameLine fills surname, given names and nationality from a name
// line: 2-char prefix, 3-char country code, then SURNAME<<GIVEN<NAMES.
func (p *Parser) decodeNameLine(line string, rec *identity.MRZRecord) bool {
	if len(line) < 8 {
		return false
	}
	country := strings.Trim(line[2:5], "<")
	rest := line[5:]

	surnamePart, givenPart, ok := strings.Cut(rest, "<<")
	if !ok {
		// A name line without the double separator only carries a surname.
		surnamePart = rest
	}

	surname := joinNameParts(surnamePart, false)
	given := joinNameParts(givenPart, true)
	if surname == "" && given == "" {
		return false
	}
	// A "name" made of digits is a data line wearing a name prefix (PP and
	// PM collide with document numbers); refuse it so the pairing loop can
	// keep looking.
	if !looksLikeName(surname) && !looksLikeName(given) {
		return false
	}
	if surname != "" {
		rec.Surname = &surname
	}
	if given != "" {
		rec.GivenNames = &given
	}
	if rec.Nationality == nil && country != "" {
		nat := resolveCountry(country)
		rec.Nationality = &nat
	}
	return true
}

// looksLikeName wants at least two letters and no digit majority.
func looksLikeName(s string) bool {
	letters, digits := 0, 0
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			letters++
		case r >= '0' && r <= '9':
			digits++
		}
	}
	return letters >= 2 && letters > digits
}

// joinNameParts splits a zone name section on single fillers, keeping
// compound names ("EL<AMRANI" stays "EL AMRANI"). Given names additionally
// get stray digits restored to letters.
func joinNameParts(section string, correctDigits bool) string {
	section = strings.Trim(section, "<")
	if section == "" {
		return ""
	}
	parts := strings.Split(section, "<")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if correctDigits {
			part = textnorm.CorrectLetters(part)
		}
		out = append(out, part)
	}
	return strings.Join(out, " ")
}

// decodeDataLine fills document number, dates and nationality from a data
// line using the first matching grammar.
func (p *Parser) decodeDataLine(line string, rec *identity.MRZRecord) bool {
	g := matchGrammar(line)
	if g == nil {
		return false
	}
	m := g.pattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}

	doc := strings.Trim(m[1], "<")
	if doc != "" {
		rec.DocumentNumber = &doc
	}
	if birth := p.decodeDate(m[3], p.BirthPivot); birth != nil {
		rec.BirthDate = birth
	}
	if expiry := p.decodeDate(m[4], p.ExpiryPivot); expiry != nil {
		rec.ExpiryDate = expiry
	}
	if rec.Nationality == nil {
		if country := strings.Trim(m[2], "<"); country != "" {
			nat := resolveCountry(country)
			rec.Nationality = &nat
		}
	}
	return rec.DocumentNumber != nil || rec.BirthDate != nil || rec.ExpiryDate != nil
}

// decodeDate turns a YYMMDD block into a Date using the century pivot:
// two-digit years at or below the pivot land in the 2000s.
func (p *Parser) decodeDate(yymmdd string, pivot int) *identity.Date {
	if len(yymmdd) != 6 {
		return nil
	}
	yy := atoi2(yymmdd[0:2])
	mm := atoi2(yymmdd[2:4])
	dd := atoi2(yymmdd[4:6])
	if yy < 0 || mm < 0 || dd < 0 {
		return nil
	}
	year := 1900 + yy
	if yy <= pivot {
		year = 2000 + yy
	}
	d := identity.Date{Day: dd, Month: mm, Year: year}
	if !d.Valid() {
		return nil
	}
	return &d
}

func atoi2(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// resolveCountry maps an MRZ country code to the canonical nationality,
// falling back to the general resolver for codes outside the static table.
func resolveCountry(code string) string {
	if canonical, ok := nationality.ResolveCode(code); ok {
		return canonical
	}
	return nationality.Resolve(code)
}
