// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package passport

import (
	"testing"

	"idscan/internal/identity"
)

func TestExtract_PrintedDataPage(t *testing.T) {
	text := `ROYAUME DU MAROC
PASSEPORT
Nom / Surname: IDRISSI
Prénoms / Given names: YOUSSEF
Nationalité / Nationality: Marocaine
Passeport N°: AB1234567
Date de naissance / Date of birth: 05/07/1988
Date d'expiration / Date of expiry: 04/07/2028`

	rec := New().Extract(text)

	if rec.LastName != "IDRISSI" {
		t.Errorf("LastName = %q, want IDRISSI", rec.LastName)
	}
	if rec.FirstName != "YOUSSEF" {
		t.Errorf("FirstName = %q, want YOUSSEF", rec.FirstName)
	}
	if rec.Nationality != "Maroc" {
		t.Errorf("Nationality = %q, want Maroc", rec.Nationality)
	}
	if rec.DocumentNumber != "AB1234567" {
		t.Errorf("DocumentNumber = %q, want AB1234567", rec.DocumentNumber)
	}
	wantBirth := identity.Date{Day: 5, Month: 7, Year: 1988}
	if rec.BirthDate == nil || *rec.BirthDate != wantBirth {
		t.Errorf("BirthDate = %v, want %v", rec.BirthDate, wantBirth)
	}
	wantExp := identity.Date{Day: 4, Month: 7, Year: 2028}
	if rec.ExpiryDate == nil || *rec.ExpiryDate != wantExp {
		t.Errorf("ExpiryDate = %v, want %v", rec.ExpiryDate, wantExp)
	}
}

func TestExtract_EnglishOnlyLabels(t *testing.T) {
	text := `PASSPORT
Surname: SMITH
Given names: JOHN
Nationality: British
Passport No: X1234567
Date of birth: 10/10/1975
Date of expiry: 09/10/2030`

	rec := New().Extract(text)
	if rec.LastName != "SMITH" || rec.FirstName != "JOHN" {
		t.Errorf("name = %q %q", rec.FirstName, rec.LastName)
	}
	if rec.DocumentNumber != "X1234567" {
		t.Errorf("DocumentNumber = %q, want X1234567", rec.DocumentNumber)
	}
	if rec.ExpiryDate == nil || rec.ExpiryDate.Year != 2030 {
		t.Errorf("ExpiryDate = %v, want year 2030", rec.ExpiryDate)
	}
}
