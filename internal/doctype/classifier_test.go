// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package doctype

import (
	"testing"

	"idscan/internal/identity"
)

const passportText = `ROYAUME DU MAROC
PASSEPORT
Surname: SMITH
Given names: JOHN
P<MARSMITH<<JOHN<<<<<<<<<<<<<<<<<<<<<<<<<<<<
AB1234567MAR8501019M30010153<<<<<<<<<<<<<06`

const permitText = `TITRE DE SEJOUR
Préfecture de Police
Nom: BENALI
Valable jusqu'au 12/04/2027
N° étranger: 7503123456`

func TestClassify_Passport(t *testing.T) {
	got := New().Classify(passportText)
	if got.Type != identity.DocumentForeignPassport {
		t.Errorf("type = %v, want FOREIGN_PASSPORT", got.Type)
	}
	if got.Confidence < DefaultThreshold {
		t.Errorf("confidence = %v, want >= threshold", got.Confidence)
	}
}

func TestClassify_ResidencePermit(t *testing.T) {
	got := New().Classify(permitText)
	if got.Type != identity.DocumentResidencePermit {
		t.Errorf("type = %v, want RESIDENCE_PERMIT", got.Type)
	}
	if got.Confidence < DefaultThreshold {
		t.Errorf("confidence = %v, want >= threshold", got.Confidence)
	}
}

func TestClassify_NoSignalsIsZero(t *testing.T) {
	got := New().Classify("grocery list: apples, flour, coffee")
	if got.Type != identity.DocumentUnknown {
		t.Errorf("type = %v, want UNKNOWN", got.Type)
	}
	if got.Confidence != 0 {
		t.Errorf("confidence = %v, want 0 when nothing matches", got.Confidence)
	}
}

func TestClassify_MixedSignalsAmbiguous(t *testing.T) {
	// Both families present with comparable strength: must not commit.
	text := "PASSEPORT\nTITRE DE SEJOUR\nNom: X"
	got := New().Classify(text)
	if got.Type != identity.DocumentUnknown {
		t.Errorf("type = %v, want UNKNOWN on near-tie", got.Type)
	}
	if got.Confidence <= 0 {
		t.Error("ambiguous text with signals should keep a nonzero confidence")
	}
}

func TestClassify_ConfidenceBounds(t *testing.T) {
	for _, text := range []string{passportText, permitText, "", "random"} {
		got := New().Classify(text)
		if got.Confidence < 0 || got.Confidence > 100 {
			t.Errorf("confidence %v out of [0,100] for %q", got.Confidence, text)
		}
	}
}

func TestClassify_NationalID(t *testing.T) {
	text := `CARTE NATIONALE D'IDENTITÉ
Nom: DUPONT
Prénom(s): CLAIRE
Expire le: 01/11/2032`
	got := New().Classify(text)
	if got.Type != identity.DocumentNationalID {
		t.Errorf("type = %v, want NATIONAL_ID", got.Type)
	}
	if got.Confidence < DefaultThreshold {
		t.Errorf("confidence = %v, want >= %v", got.Confidence, DefaultThreshold)
	}
}
