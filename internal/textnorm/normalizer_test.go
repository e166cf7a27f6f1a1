// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textnorm

import (
	"reflect"
	"testing"
)

func TestSplitLines_DropsNoise(t *testing.T) {
	text := "NOM: MARTIN\r\n\n---___---\n  \nPRENOM: PAUL\n"
	got := SplitLines(text)
	want := []string{"NOM: MARTIN", "PRENOM: PAUL"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines = %v, want %v", got, want)
	}
}

func TestCorrectLetters_NoOpOnCleanText(t *testing.T) {
	for _, s := range []string{"MARTIN", "DUPONT", "EL AMRANI"} {
		if got := CorrectLetters(s); got != s {
			t.Errorf("CorrectLetters(%q) = %q, want unchanged", s, got)
		}
	}
}

func TestCorrectLetters_RestoresDigits(t *testing.T) {
	cases := []struct{ in, want string }{
		{"MART1N", "MARTIN"},
		{"DUP0NT", "DUPONT"},
		{"5MITH", "SMITH"},
		{"8ERNARD", "BERNARD"},
		{"Larnia", "Lamia"}, // rn -> m
	}
	for _, tc := range cases {
		if got := CorrectLetters(tc.in); got != tc.want {
			t.Errorf("CorrectLetters(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCorrectDigits(t *testing.T) {
	cases := []struct{ in, want string }{
		{"12O45678", "12045678"},
		{"I2345678", "12345678"},
		{"9876543S", "98765435"},
		{"12345678", "12345678"},
	}
	for _, tc := range cases {
		if got := CorrectDigits(tc.in); got != tc.want {
			t.Errorf("CorrectDigits(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCorrectDigitsTail_PreservesPrefix(t *testing.T) {
	// Letter prefix must survive, numeric tail gets corrected.
	if got := CorrectDigitsTail("AB12O4567", 2); got != "AB1204567" {
		t.Errorf("CorrectDigitsTail = %q, want AB1204567", got)
	}
}

func TestStripSpaces(t *testing.T) {
	if got := StripSpaces("P< MAR SMITH"); got != "P<MARSMITH" {
		t.Errorf("StripSpaces = %q", got)
	}
}

func TestLooksNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"12345678", true},
		{"12O45678", true}, // corrected O counts
		{"AB123456", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := LooksNumeric(tc.in); got != tc.want {
			t.Errorf("LooksNumeric(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
