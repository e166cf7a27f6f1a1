// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package nationalid extracts identity fields from national identity
// cards. Layouts overlap with residence permits but use the card's own
// labels for the number and validity fields.
package nationalid

import (
	"regexp"

	"idscan/internal/extractors"
	"idscan/internal/identity"
)

var rules = []extractors.Rule{
	{Field: extractors.FieldLastName, Pattern: regexp.MustCompile(`(?i)(?:^|\s)NOM\s*[:.]?\s+([A-ZÀ-Þa-zà-þ' \-]{2,40})`), Validate: extractors.ValidateName},

	{Field: extractors.FieldFirstName, Pattern: regexp.MustCompile(`(?i)\bPR[EÉ]NOM\(?S?\)?\s*[:.]?\s+([A-ZÀ-Þa-zà-þ' \-]{2,40})`), Validate: extractors.ValidateName},

	{Field: extractors.FieldNationality, Pattern: regexp.MustCompile(`(?i)\bNATIONALIT[EÉ]\s*[:.]?\s+([A-ZÀ-Þa-zà-þ]{2,30})`), Validate: extractors.ValidateNationality},

	{Field: extractors.FieldDocumentNumber, Pattern: regexp.MustCompile(`(?i)\bCARTE\s+N[°ºO]?\s*[:.]?\s*([A-Z0-9 ]{6,14})`), Validate: extractors.ValidateDocNumber},
	{Field: extractors.FieldDocumentNumber, Pattern: regexp.MustCompile(`(?i)(?:^|\s)N[°º]\s*[:.]?\s*([A-Z0-9 ]{6,14})`), Validate: extractors.ValidateDocNumber},

	{Field: extractors.FieldBirthDate, Pattern: regexp.MustCompile(`(?i)\bN[EÉ]\(?E?\)?\s+LE\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},
	{Field: extractors.FieldBirthDate, Pattern: regexp.MustCompile(`(?i)DATE\s+DE\s+NAISSANCE\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},

	{Field: extractors.FieldExpiryDate, Pattern: regexp.MustCompile(`(?i)VALABLE\s+JUSQU'?\s*(?:AU)?\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},
	{Field: extractors.FieldExpiryDate, Pattern: regexp.MustCompile(`(?i)EXPIRE\s+LE\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},
}

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Name() string { return "national-id" }

func (e *Extractor) Extract(text string) identity.IdentityRecord {
	var rec identity.IdentityRecord
	extractors.ScanLines(text, rules, &rec)
	return rec
}
