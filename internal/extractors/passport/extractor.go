// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package passport extracts identity fields from the printed (non-MRZ)
// area of passport data pages. It backs up the machine-readable zone
// parser when the zone itself is unreadable; the caller merges the two
// results with populate-once semantics.
package passport

import (
	"regexp"

	"idscan/internal/extractors"
	"idscan/internal/identity"
)

var rules = []extractors.Rule{
	{Field: extractors.FieldLastName, Pattern: regexp.MustCompile(`(?i)(?:^|\s)NOM\s*[:.]?\s+([A-ZÀ-Þa-zà-þ' \-]{2,40})`), Validate: extractors.ValidateName},
	{Field: extractors.FieldLastName, Pattern: regexp.MustCompile(`(?i)\bSURNAME\s*[:.]?\s+([A-Za-z' \-]{2,40})`), Validate: extractors.ValidateName},

	{Field: extractors.FieldFirstName, Pattern: regexp.MustCompile(`(?i)\bPR[EÉ]NOMS?\s*[:.]?\s+([A-ZÀ-Þa-zà-þ' \-]{2,40})`), Validate: extractors.ValidateName},
	{Field: extractors.FieldFirstName, Pattern: regexp.MustCompile(`(?i)\bGIVEN\s+NAMES?\s*[:.]?\s+([A-Za-z' \-]{2,40})`), Validate: extractors.ValidateName},

	{Field: extractors.FieldNationality, Pattern: regexp.MustCompile(`(?i)\bNATIONALIT[EÉY]\s*[:.]?\s+([A-ZÀ-Þa-zà-þ]{2,30})`), Validate: extractors.ValidateNationality},

	{Field: extractors.FieldDocumentNumber, Pattern: regexp.MustCompile(`(?i)\bPASSE?PORT\s+N[°ºO]?\s*[:.]?\s*([A-Z0-9 ]{6,14})`), Validate: extractors.ValidateDocNumber},
	{Field: extractors.FieldDocumentNumber, Pattern: regexp.MustCompile(`(?i)\bN[°ºO]?\s*(?:DU\s+)?PASSE?PORT\s*[:.]?\s*([A-Z0-9 ]{6,14})`), Validate: extractors.ValidateDocNumber},

	{Field: extractors.FieldBirthDate, Pattern: regexp.MustCompile(`(?i)DATE\s+DE\s+NAISSANCE\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},
	{Field: extractors.FieldBirthDate, Pattern: regexp.MustCompile(`(?i)DATE\s+OF\s+BIRTH\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},

	{Field: extractors.FieldExpiryDate, Pattern: regexp.MustCompile(`(?i)DATE\s+D'?EXPIRATION\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},
	{Field: extractors.FieldExpiryDate, Pattern: regexp.MustCompile(`(?i)DATE\s+OF\s+EXPIRY\s*[:.]?\s*([0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{1,2}[\s/.\-]+[0-9OISB]{4})`), Validate: extractors.ValidateDate},
}

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Name() string { return "passport" }

func (e *Extractor) Extract(text string) identity.IdentityRecord {
	var rec identity.IdentityRecord
	extractors.ScanLines(text, rules, &rec)
	return rec
}
