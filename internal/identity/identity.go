// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package identity

import "fmt"

// DocumentType identifies the document family an extraction run decided on.
type DocumentType int

const (
	DocumentUnknown DocumentType = iota
	DocumentForeignPassport
	DocumentResidencePermit
	DocumentNationalID
)

func (dt DocumentType) String() string {
	switch dt {
	case DocumentForeignPassport:
		return "FOREIGN_PASSPORT"
	case DocumentResidencePermit:
		return "RESIDENCE_PERMIT"
	case DocumentNationalID:
		return "NATIONAL_ID"
	default:
		return "UNKNOWN"
	}
}

// DetectionResult is the classifier's verdict for one recognition text.
// Confidence is a heuristic strength-of-match value in [0,100], not a
// calibrated probability.
type DetectionResult struct {
	Type       DocumentType
	Confidence float64
}

// Date is the single calendar representation used for every decoded date.
// Year is always four digits; MRZ two-digit years are resolved with the
// century pivot before a Date is built.
type Date struct {
	Day   int
	Month int
	Year  int
}

func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// Valid reports whether the date describes a real calendar day.
// February lengths are checked against the leap-year rule.
func (d Date) Valid() bool {
	if d.Year < 1900 || d.Year > 2100 || d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	days := [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	max := days[d.Month-1]
	if d.Month == 2 && (d.Year%4 == 0 && (d.Year%100 != 0 || d.Year%400 == 0)) {
		max = 29
	}
	return d.Day <= max
}

// MRZRecord holds the fields decodable from a machine-readable zone.
// Every field is optional; nil means "not decodable", never an empty
// string with meaning.
type MRZRecord struct {
	Surname        *string
	GivenNames     *string
	Nationality    *string
	DocumentNumber *string
	BirthDate      *Date
	ExpiryDate     *Date
}

// Empty reports whether no field at all was decoded.
func (r MRZRecord) Empty() bool {
	return r.Surname == nil && r.GivenNames == nil && r.Nationality == nil &&
		r.DocumentNumber == nil && r.BirthDate == nil && r.ExpiryDate == nil
}

// IdentityRecord is the canonical output schema shared by all extractors.
// A field is populated with at most one value; use the SetOnce helpers so a
// later, lower-priority candidate never overwrites an earlier one.
type IdentityRecord struct {
	LastName       string
	FirstName      string
	Nationality    string
	DocumentNumber string
	BirthDate      *Date
	ExpiryDate     *Date
}

// SetLastNameOnce populates LastName only when it is still empty.
func (r *IdentityRecord) SetLastNameOnce(v string) {
	if r.LastName == "" && v != "" {
		r.LastName = v
	}
}

// SetFirstNameOnce populates FirstName only when it is still empty.
func (r *IdentityRecord) SetFirstNameOnce(v string) {
	if r.FirstName == "" && v != "" {
		r.FirstName = v
	}
}

// SetNationalityOnce populates Nationality only when it is still empty.
func (r *IdentityRecord) SetNationalityOnce(v string) {
	if r.Nationality == "" && v != "" {
		r.Nationality = v
	}
}

// SetDocumentNumberOnce populates DocumentNumber only when it is still empty.
func (r *IdentityRecord) SetDocumentNumberOnce(v string) {
	if r.DocumentNumber == "" && v != "" {
		r.DocumentNumber = v
	}
}

// SetBirthDateOnce populates BirthDate only when it is still unset.
func (r *IdentityRecord) SetBirthDateOnce(d Date) {
	if r.BirthDate == nil {
		r.BirthDate = &d
	}
}

// SetExpiryDateOnce populates ExpiryDate only when it is still unset.
func (r *IdentityRecord) SetExpiryDateOnce(d Date) {
	if r.ExpiryDate == nil {
		r.ExpiryDate = &d
	}
}

// FieldCount returns the number of populated fields. The dual-path race in
// the pipeline uses it to pick the richer of two candidate records.
func (r IdentityRecord) FieldCount() int {
	n := 0
	for _, s := range []string{r.LastName, r.FirstName, r.Nationality, r.DocumentNumber} {
		if s != "" {
			n++
		}
	}
	if r.BirthDate != nil {
		n++
	}
	if r.ExpiryDate != nil {
		n++
	}
	return n
}

// Empty reports whether nothing was extracted.
func (r IdentityRecord) Empty() bool {
	return r.FieldCount() == 0
}

// FailureReason categorizes a failed pipeline run for the calling form.
type FailureReason string

const (
	FailureNone       FailureReason = ""
	FailureNetwork    FailureReason = "network"
	FailureConfig     FailureReason = "config"
	FailureQuota      FailureReason = "quota"
	FailureUnreadable FailureReason = "unreadable"
)

// ExtractionOutcome is the unit returned to callers. It is created once per
// pipeline run and handed whole to the calling form; this package never
// persists it.
type ExtractionOutcome struct {
	Record       IdentityRecord
	DocumentType DocumentType
	Confidence   float64
	RawText      string
	Failure      FailureReason
}
