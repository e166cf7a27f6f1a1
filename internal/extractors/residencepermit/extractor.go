// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package residencepermit extracts identity fields from the recognized
// text of French residence permits and their receipt variants.
package residencepermit

import (
	"regexp"

	"idscan/internal/extractors"
	"idscan/internal/identity"
)

// Labels appear in French on the card itself and occasionally in English
// on bilingual layouts. Patterns are ordered most specific first; a later
// pattern never overrides an earlier hit on the same field.
var rules = []extractors.Rule{
	// (?:^|\s) rather than \b keeps PRÉNOM from matching the NOM rule.
	{Field: extractors.FieldLastName, Pattern: regexp.MustCompile(`(?i)(?:^|\s)NOM\s*[:.]?\s+([A-ZÀ-Þa-zà-þ' \-]{2,40})`), Validate: extractors.ValidateName},
	{Field: extractors.FieldLastName, Pattern: regexp.MustCompile(`(?i)\bSURNAME\s*[:.]?\s+([A-Za-z' \-]{2,40})`), Validate: extractors.ValidateName},

	{Field: extractors.FieldFirstName, Pattern: regexp.MustCompile(`(?i)\bPR[EÉ]NOM\(?S?\)?\s*[:.]?\s+([A-ZÀ-Þa-zà-þ' \-]{2,40})`), Validate: extractors.ValidateName},
	{Field: extractors.FieldFirstName, Pattern: regexp.MustCompile(`(?i)\bGIVEN\s+NAMES?\s*[:.]?\s+([A-Za-z' \-]{2,40})`), Validate: extractors.ValidateName},

	{Field: extractors.FieldNationality, Pattern: regexp.MustCompile(`(?i)\bNATIONALIT[EÉ]\s*[:.]?\s+([A-ZÀ-Þa-zà-þ]{2,30})`), Validate: extractors.ValidateNationality},
	{Field: extractors.FieldNationality, Pattern: regexp.MustCompile(`(?i)\bNATIONALITY\s*[:.]?\s+([A-Za-z]{2,30})`), Validate: extractors.ValidateNationality},

	{Field: extractors.FieldDocumentNumber, Pattern: regexp.MustCompile(`(?i)\bN[°ºO]?\s*(?:DE\s+)?TITRE\s*[:.]?\s*([A-Z0-9 ]{6,14})`), Validate: extractors.ValidateDocNumber},
	{Field: extractors.FieldDocumentNumber, Pattern: regexp.MustCompile(`(?i)\bN[°ºO]?\s*[ÉE]TRANGER\s*[:.]?\s*([A-Z0-9 ]{6,14})`), Validate: extractors.ValidateDocNumber},
	{Field: extractors.FieldDocumentNumber, Pattern: regexp.MustCompile(`(?i)\bDOCUMENT\s+N[°ºO]?\s*[:.]?\s*([A-Z0-9 ]{6,14})`), Validate: extractors.ValidateDocNumber},

	{Field: extractors.FieldBirthDate, Pattern: regexp.MustCompile(`(?i)\bN[EÉ]\(?E?\)?\s+LE\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},
	{Field: extractors.FieldBirthDate, Pattern: regexp.MustCompile(`(?i)DATE\s+DE\s+NAISSANCE\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},
	{Field: extractors.FieldBirthDate, Pattern: regexp.MustCompile(`(?i)DATE\s+OF\s+BIRTH\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},

	{Field: extractors.FieldExpiryDate, Pattern: regexp.MustCompile(`(?i)VALABLE\s+JUSQU'?\s*(?:AU)?\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},
	{Field: extractors.FieldExpiryDate, Pattern: regexp.MustCompile(`(?i)DATE\s+D'?EXPIRATION\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},
	{Field: extractors.FieldExpiryDate, Pattern: regexp.MustCompile(`(?i)EXPIRY\s+DATE\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},
}

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Name() string { return "residence-permit" }

func (e *Extractor) Extract(text string) identity.IdentityRecord {
	var rec identity.IdentityRecord
	extractors.ScanLines(text, rules, &rec)
	return rec
}
