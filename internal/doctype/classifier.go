// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package doctype scores raw recognition text against document-family
// signatures and returns a type plus a 0-100 confidence. It is a pure
// function of the text; the orchestrator decides what to do with ties and
// low-confidence verdicts.
package doctype

import (
	"regexp"
	"strings"

	"idscan/internal/identity"
	"idscan/internal/textnorm"
)

// DefaultThreshold is the confidence below which a verdict is reported as
// Unknown. The orchestrator then races both extraction paths.
const DefaultThreshold = 25.0

// signal is one weighted signature: a keyword or a line pattern.
type signal struct {
	keyword string
	pattern *regexp.Regexp
	weight  float64
}

// mrzShapedLine matches data lines from a machine-readable zone once
// spaces are stripped: long runs of uppercase, digits and filler.
var mrzShapedLine = regexp.MustCompile(`^[A-Z0-9<']{28,}$`)

// passportSignals and permitSignals are the per-family signature tables.
// Weights follow keyword specificity: header phrases outrank field-label
// vocabulary, which outranks generic layout markers.
var passportSignals = []signal{
	{keyword: "PASSEPORT", weight: 30},
	{keyword: "PASSPORT", weight: 30},
	{keyword: "ROYAUME DU MAROC", weight: 20},
	{pattern: regexp.MustCompile(`(?m)^\s*P[<']`), weight: 30},
	{keyword: "SURNAME", weight: 10},
	{keyword: "GIVEN NAMES", weight: 10},
	{keyword: "PRENOMS", weight: 8},
	{keyword: "DATE OF ISSUE", weight: 8},
	{keyword: "DATE DE DELIVRANCE", weight: 8},
	{keyword: "AUTORITE", weight: 5},
	{keyword: "AUTHORITY", weight: 5},
	{keyword: "PLACE OF BIRTH", weight: 5},
}

var nationalIDSignals = []signal{
	{keyword: "CARTE NATIONALE D IDENTITE", weight: 35},
	{keyword: "NATIONAL IDENTITY CARD", weight: 30},
	{keyword: "CARTE D IDENTITE", weight: 25},
	{keyword: "IDENTITE NATIONALE", weight: 15},
	{keyword: "EXPIRE LE", weight: 5},
}

var permitSignals = []signal{
	{keyword: "TITRE DE SEJOUR", weight: 35},
	{keyword: "CARTE DE SEJOUR", weight: 35},
	{keyword: "RESIDENCE PERMIT", weight: 30},
	{keyword: "RECEPISSE", weight: 15},
	{keyword: "PREFECTURE", weight: 12},
	{keyword: "VALABLE JUSQU", weight: 10},
	{keyword: "AUTORISE SON TITULAIRE", weight: 10},
	{keyword: "N ETRANGER", weight: 10},
	{keyword: "MOTIF DU SEJOUR", weight: 10},
	{keyword: "DELIVRE LE", weight: 5},
}

// Classifier scores text against the signature tables.
type Classifier struct {
	// Threshold below which the verdict degrades to Unknown.
	Threshold float64
}

// New returns a classifier with the default threshold.
func New() *Classifier {
	return &Classifier{Threshold: DefaultThreshold}
}

// Classify scans the text and returns the best-matching document family
// with its confidence. Ties and scores below the threshold come back as
// DocumentUnknown; confidence is 0 only when no signature matched at all.
func (c *Classifier) Classify(text string) identity.DetectionResult {
	folded := foldForMatching(text)

	scores := []struct {
		docType identity.DocumentType
		score   float64
	}{
		{identity.DocumentForeignPassport, clamp(scoreSignals(folded, passportSignals) + mrzLineBonus(text))},
		{identity.DocumentResidencePermit, clamp(scoreSignals(folded, permitSignals))},
		{identity.DocumentNationalID, clamp(scoreSignals(folded, nationalIDSignals))},
	}

	best, runner := scores[0].score, 0.0
	bestType := scores[0].docType
	for _, s := range scores[1:] {
		switch {
		case s.score > best:
			runner = best
			best, bestType = s.score, s.docType
		case s.score > runner:
			runner = s.score
		}
	}

	if best == 0 {
		return identity.DetectionResult{Type: identity.DocumentUnknown, Confidence: 0}
	}
	// A near-tie is as ambiguous as a weak match: both paths must run.
	if best < c.Threshold || best-runner < 10 {
		return identity.DetectionResult{Type: identity.DocumentUnknown, Confidence: best}
	}
	return identity.DetectionResult{Type: bestType, Confidence: best}
}

func scoreSignals(folded string, signals []signal) float64 {
	var score float64
	for _, s := range signals {
		if s.pattern != nil {
			if s.pattern.MatchString(folded) {
				score += s.weight
			}
			continue
		}
		if strings.Contains(folded, s.keyword) {
			score += s.weight
		}
	}
	return score
}

// mrzLineBonus rewards MRZ-shaped lines directly on the raw text; the zone
// is the strongest passport marker there is.
func mrzLineBonus(text string) float64 {
	var bonus float64
	for _, line := range textnorm.SplitLines(text) {
		if mrzShapedLine.MatchString(textnorm.StripSpaces(line)) && strings.Count(line, "<") >= 5 {
			bonus += 25
		}
	}
	if bonus > 50 {
		bonus = 50
	}
	return bonus
}

// foldForMatching uppercases and folds accents and apostrophes away so the
// signature tables stay plain ASCII.
func foldForMatching(text string) string {
	replacer := strings.NewReplacer(
		"É", "E", "È", "E", "Ê", "E", "Ë", "E",
		"À", "A", "Â", "A", "Î", "I", "Ï", "I",
		"Ô", "O", "Û", "U", "Ç", "C",
		"'", " ", "’", " ", "°", " ",
	)
	folded := replacer.Replace(strings.ToUpper(text))
	lines := strings.Split(folded, "\n")
	for i, l := range lines {
		lines[i] = textnorm.CollapseSpaces(l)
	}
	return strings.Join(lines, "\n")
}

func clamp(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
