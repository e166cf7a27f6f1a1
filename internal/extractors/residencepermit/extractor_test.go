// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package residencepermit

import (
	"testing"

	"idscan/internal/identity"
)

const permitText = `REPUBLIQUE FRANCAISE
TITRE DE SEJOUR
Nom: BENALI
Prénom(s): KARIM
Nationalité: Marocaine
N° étranger: 990123456
Né le: 15/03/1990
Valable jusqu'au: 20/06/2027`

func TestExtract_FrenchPermit(t *testing.T) {
	rec := New().Extract(permitText)

	if rec.LastName != "BENALI" {
		t.Errorf("LastName = %q, want BENALI", rec.LastName)
	}
	if rec.FirstName != "KARIM" {
		t.Errorf("FirstName = %q, want KARIM", rec.FirstName)
	}
	if rec.Nationality != "Maroc" {
		t.Errorf("Nationality = %q, want Maroc", rec.Nationality)
	}
	if rec.DocumentNumber != "990123456" {
		t.Errorf("DocumentNumber = %q, want 990123456", rec.DocumentNumber)
	}
	want := identity.Date{Day: 15, Month: 3, Year: 1990}
	if rec.BirthDate == nil || *rec.BirthDate != want {
		t.Errorf("BirthDate = %v, want %v", rec.BirthDate, want)
	}
	wantExp := identity.Date{Day: 20, Month: 6, Year: 2027}
	if rec.ExpiryDate == nil || *rec.ExpiryDate != wantExp {
		t.Errorf("ExpiryDate = %v, want %v", rec.ExpiryDate, wantExp)
	}
}

func TestExtract_EnglishLabels(t *testing.T) {
	text := `RESIDENCE PERMIT
Surname: OKAFOR
Given names: CHIDI
Nationality: Nigerian
Document N°: AB1234567
Date of birth: 01/01/1985
Expiry date: 31/12/2026`

	rec := New().Extract(text)
	if rec.LastName != "OKAFOR" || rec.FirstName != "CHIDI" {
		t.Errorf("name = %q %q", rec.FirstName, rec.LastName)
	}
	if rec.Nationality != "Nigéria" {
		t.Errorf("Nationality = %q, want Nigéria", rec.Nationality)
	}
	if rec.DocumentNumber != "AB1234567" {
		t.Errorf("DocumentNumber = %q, want AB1234567", rec.DocumentNumber)
	}
}

func TestExtract_GarbledDigitsCorrected(t *testing.T) {
	text := "N° titre: 99O12345B\nNé le: 1S/03/1990"
	rec := New().Extract(text)
	if rec.DocumentNumber != "990123458" {
		t.Errorf("DocumentNumber = %q, want 990123458", rec.DocumentNumber)
	}
	if rec.BirthDate == nil || rec.BirthDate.Day != 15 {
		t.Errorf("BirthDate = %v, want day 15", rec.BirthDate)
	}
}

func TestExtract_NoLabelsLeavesRecordEmpty(t *testing.T) {
	rec := New().Extract("quelques lignes sans aucune etiquette utile")
	if !rec.Empty() {
		t.Errorf("record not empty: %+v", rec)
	}
}

func TestExtract_PrenomDoesNotFeedNom(t *testing.T) {
	rec := New().Extract("Prénom(s): MARIE")
	if rec.LastName != "" {
		t.Errorf("LastName = %q, want empty", rec.LastName)
	}
	if rec.FirstName != "MARIE" {
		t.Errorf("FirstName = %q, want MARIE", rec.FirstName)
	}
}
