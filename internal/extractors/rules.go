// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extractors holds the shared line-scanning machinery used by the
// per-family free-text extractors. Each family is an ordered table of
// (label pattern, validator) pairs per target field; the first pattern
// whose capture passes validation wins and an already-populated field is
// never overwritten.
package extractors

import (
	"regexp"
	"strings"

	"idscan/internal/identity"
	"idscan/internal/nationality"
	"idscan/internal/textnorm"
)

// Field names a target slot of the IdentityRecord.
type Field int

const (
	FieldLastName Field = iota
	FieldFirstName
	FieldNationality
	FieldDocumentNumber
	FieldBirthDate
	FieldExpiryDate
)

// Extractor is the contract every document family implements. Extract is a
// pure function over text; it performs no I/O and is safe to call
// concurrently.
type Extractor interface {
	Name() string
	Extract(text string) identity.IdentityRecord
}

// Rule binds one label pattern to a target field. Pattern must expose the
// candidate value as capture group 1. Validate cleans and vets the capture;
// returning ok=false leaves the field unset rather than populating it with
// a guess.
type Rule struct {
	Field    Field
	Pattern  *regexp.Regexp
	Validate func(raw string) (string, bool)
}

// ScanLines runs the rule table over every line in priority order. Rules
// are data so tests can enumerate each pattern independently.
func ScanLines(text string, rules []Rule, rec *identity.IdentityRecord) {
	lines := textnorm.SplitLines(text)
	for _, rule := range rules {
		if fieldSet(rec, rule.Field) {
			continue
		}
		for _, line := range lines {
			m := rule.Pattern.FindStringSubmatch(line)
			if m == nil || len(m) < 2 {
				continue
			}
			value, ok := rule.Validate(strings.TrimSpace(m[1]))
			if !ok {
				continue
			}
			setField(rec, rule.Field, value)
			break
		}
	}
}

func fieldSet(rec *identity.IdentityRecord, f Field) bool {
	switch f {
	case FieldLastName:
		return rec.LastName != ""
	case FieldFirstName:
		return rec.FirstName != ""
	case FieldNationality:
		return rec.Nationality != ""
	case FieldDocumentNumber:
		return rec.DocumentNumber != ""
	case FieldBirthDate:
		return rec.BirthDate != nil
	case FieldExpiryDate:
		return rec.ExpiryDate != nil
	}
	return false
}

func setField(rec *identity.IdentityRecord, f Field, value string) {
	switch f {
	case FieldLastName:
		rec.SetLastNameOnce(value)
	case FieldFirstName:
		rec.SetFirstNameOnce(value)
	case FieldNationality:
		rec.SetNationalityOnce(value)
	case FieldDocumentNumber:
		rec.SetDocumentNumberOnce(value)
	case FieldBirthDate, FieldExpiryDate:
		if d, ok := ParseDate(value); ok {
			if f == FieldBirthDate {
				rec.SetBirthDateOnce(d)
			} else {
				rec.SetExpiryDateOnce(d)
			}
		}
	}
}

// docNumberShapes are the only accepted document number formats: 1-2
// letters followed by 6-8 digits, or a bare 8-9 digit number. Anything
// else is invalid, not coerced.
var docNumberShapes = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]{1,2}[0-9]{6,8}$`),
	regexp.MustCompile(`^[0-9]{8,9}$`),
}

var docLetterPrefix = regexp.MustCompile(`^[A-Z]{1,2}`)

// ValidateDocNumber corrects digit confusions in the numeric tail, then
// accepts the candidate only when it matches one of the valid shapes.
func ValidateDocNumber(raw string) (string, bool) {
	cleaned := strings.ToUpper(textnorm.StripSpaces(raw))
	prefix := docLetterPrefix.FindString(cleaned)
	cleaned = textnorm.CorrectDigitsTail(cleaned, len(prefix))
	for _, shape := range docNumberShapes {
		if shape.MatchString(cleaned) {
			return cleaned, true
		}
	}
	return "", false
}

// ValidateName accepts alphabetic captures of at least two letters,
// restoring stray digits first. Mixed junk is rejected.
var nameCharset = regexp.MustCompile(`^[A-ZÀ-ÖØ-Þ' \-]+$`)

func ValidateName(raw string) (string, bool) {
	cleaned := textnorm.CollapseSpaces(textnorm.CorrectLetters(strings.ToUpper(raw)))
	if len([]rune(cleaned)) < 2 || !nameCharset.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}

// ValidateNationality resolves the capture against the reference list.
func ValidateNationality(raw string) (string, bool) {
	return nationality.ResolveLine(raw)
}

// ValidateDate keeps captures that parse as a calendar date.
func ValidateDate(raw string) (string, bool) {
	if _, ok := ParseDate(raw); !ok {
		return "", false
	}
	return raw, true
}

// datePattern accepts DD/MM/YYYY with /, ., -, or space separators.
var datePattern = regexp.MustCompile(`^([0-9OISB]{1,2})[\s/.\-]+([0-9OISB]{1,2})[\s/.\-]+([0-9OISB]{4})$`)

// ParseDate decodes a free-text date into the single calendar
// representation. Digit confusions inside the components are corrected
// before conversion.
func ParseDate(raw string) (identity.Date, bool) {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return identity.Date{}, false
	}
	day := atoi(textnorm.CorrectDigits(m[1]))
	month := atoi(textnorm.CorrectDigits(m[2]))
	year := atoi(textnorm.CorrectDigits(m[3]))
	d := identity.Date{Day: day, Month: month, Year: year}
	if !d.Valid() {
		return identity.Date{}, false
	}
	return d, true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}
