// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package nationality

import "testing"

func TestResolve_Codes(t *testing.T) {
	cases := []struct{ in, want string }{
		{"MAR", "Maroc"},
		{"FRA", "France"},
		{"DZA", "Algérie"},
		{"TUN", "Tunisie"},
	}
	for _, tc := range cases {
		if got := Resolve(tc.in); got != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve_NamesAndAdjectives(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Maroc", "Maroc"},
		{"MAROCAINE", "Maroc"},
		{"marocain", "Maroc"},
		{"Française", "France"},
		{"ALGERIENNE", "Algérie"},
		{"COTE D'IVOIRE", "Côte d'Ivoire"},
		{"Royaume-Uni", "Royaume-Uni"},
	}
	for _, tc := range cases {
		if got := Resolve(tc.in); got != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve_GarbledOCR(t *testing.T) {
	// Digits standing in for letters must still resolve.
	cases := []struct{ in, want string }{
		{"ALGER1ENNE", "Algérie"},
		{"MAR0CAINE", "Maroc"},
		{"TUNI5IENNE", "Tunisie"},
	}
	for _, tc := range cases {
		if got := Resolve(tc.in); got != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve_Unrecognized(t *testing.T) {
	for _, in := range []string{"", "XYZQW", "12345", "ZZZ"} {
		if got := Resolve(in); got != Unrecognized {
			t.Errorf("Resolve(%q) = %q, want Unrecognized", in, got)
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	inputs := []string{"MAR", "marocaine", "France", "garbage token", "", "États-Unis"}
	for _, in := range inputs {
		once := Resolve(in)
		twice := Resolve(once)
		if once != twice {
			t.Errorf("Resolve not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestResolveCode(t *testing.T) {
	if got, ok := ResolveCode("MAR"); !ok || got != "Maroc" {
		t.Errorf("ResolveCode(MAR) = %q, %v", got, ok)
	}
	// Single-letter ICAO code used by Germany.
	if got, ok := ResolveCode("D"); !ok || got != "Allemagne" {
		t.Errorf("ResolveCode(D) = %q, %v", got, ok)
	}
	if _, ok := ResolveCode("QQQ"); ok {
		t.Error("ResolveCode(QQQ) should not resolve")
	}
}

func TestResolveLine(t *testing.T) {
	if got, ok := ResolveLine("marocaine  n° 12345"); !ok || got != "Maroc" {
		t.Errorf("ResolveLine = %q, %v", got, ok)
	}
	if _, ok := ResolveLine("n° 12345"); ok {
		t.Error("ResolveLine should not resolve a numeric line")
	}
}

func TestIsCanonical(t *testing.T) {
	if !IsCanonical("Maroc") {
		t.Error("Maroc should be canonical")
	}
	if IsCanonical("MAROCAINE") {
		t.Error("MAROCAINE is an alias, not canonical")
	}
	if !IsCanonical(Unrecognized) {
		t.Error("Unrecognized marker counts as canonical output")
	}
}
