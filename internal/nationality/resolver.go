// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package nationality canonicalizes raw nationality tokens. Input may be a
// country name, a nationality adjective (French or English), an ICAO
// 3-letter code, or an OCR-garbled variant of any of those. Output is
// always a fixed reference-list entry or the Unrecognized marker, never the
// raw token.
package nationality

import (
	"strings"
	"unicode"

	"idscan/internal/textnorm"
)

// Unrecognized is the explicit marker returned for tokens the reference
// list does not cover. Resolve(Unrecognized) == Unrecognized.
const Unrecognized = "Inconnue"

// codes maps ICAO document codes to the canonical nationality. The single
// letter "D" is the ICAO code Germany actually uses on passports.
var codes = map[string]string{
	"MAR": "Maroc",
	"FRA": "France",
	"DZA": "Algérie",
	"TUN": "Tunisie",
	"SEN": "Sénégal",
	"CIV": "Côte d'Ivoire",
	"CMR": "Cameroun",
	"GIN": "Guinée",
	"MLI": "Mali",
	"COM": "Comores",
	"COD": "République démocratique du Congo",
	"COG": "Congo",
	"GAB": "Gabon",
	"MDG": "Madagascar",
	"MRT": "Mauritanie",
	"NER": "Niger",
	"NGA": "Nigéria",
	"TGO": "Togo",
	"BEN": "Bénin",
	"BFA": "Burkina Faso",
	"TCD": "Tchad",
	"EGY": "Égypte",
	"ESP": "Espagne",
	"PRT": "Portugal",
	"ITA": "Italie",
	"DEU": "Allemagne",
	"D":   "Allemagne",
	"GBR": "Royaume-Uni",
	"BEL": "Belgique",
	"NLD": "Pays-Bas",
	"CHE": "Suisse",
	"LUX": "Luxembourg",
	"TUR": "Turquie",
	"LBN": "Liban",
	"SYR": "Syrie",
	"IRQ": "Irak",
	"IRN": "Iran",
	"AFG": "Afghanistan",
	"PAK": "Pakistan",
	"IND": "Inde",
	"BGD": "Bangladesh",
	"LKA": "Sri Lanka",
	"CHN": "Chine",
	"VNM": "Vietnam",
	"PHL": "Philippines",
	"RUS": "Russie",
	"UKR": "Ukraine",
	"ROU": "Roumanie",
	"POL": "Pologne",
	"BGR": "Bulgarie",
	"SRB": "Serbie",
	"ALB": "Albanie",
	"USA": "États-Unis",
	"CAN": "Canada",
	"BRA": "Brésil",
	"ARG": "Argentine",
	"MEX": "Mexique",
	"HTI": "Haïti",
	"ETH": "Éthiopie",
	"ERI": "Érythrée",
	"SOM": "Somalie",
	"SDN": "Soudan",
	"GHA": "Ghana",
	"GMB": "Gambie",
	"GNB": "Guinée-Bissau",
	"CPV": "Cap-Vert",
	"JPN": "Japon",
	"KOR": "Corée du Sud",
	"THA": "Thaïlande",
	"GEO": "Géorgie",
	"ARM": "Arménie",
	"KAZ": "Kazakhstan",
	"UZB": "Ouzbékistan",
	"MDA": "Moldavie",
}

// aliases maps normalized name and adjective variants to the canonical
// form. The canonical forms themselves are added at init so Resolve is
// idempotent by construction.
var aliases = map[string]string{
	"MAROCAIN":      "Maroc",
	"MAROCAINE":     "Maroc",
	"MOROCCO":       "Maroc",
	"MOROCCAN":      "Maroc",
	"ROYAUMEDUMAROC": "Maroc",
	"FRANCAIS":      "France",
	"FRANCAISE":     "France",
	"FRENCH":        "France",
	"ALGERIEN":      "Algérie",
	"ALGERIENNE":    "Algérie",
	"ALGERIA":       "Algérie",
	"ALGERIAN":      "Algérie",
	"TUNISIEN":      "Tunisie",
	"TUNISIENNE":    "Tunisie",
	"TUNISIA":       "Tunisie",
	"TUNISIAN":      "Tunisie",
	"SENEGALAIS":    "Sénégal",
	"SENEGALAISE":   "Sénégal",
	"SENEGAL":       "Sénégal",
	"IVOIRIEN":      "Côte d'Ivoire",
	"IVOIRIENNE":    "Côte d'Ivoire",
	"COTEDIVOIRE":   "Côte d'Ivoire",
	"CAMEROUNAIS":   "Cameroun",
	"CAMEROUNAISE":  "Cameroun",
	"CAMEROON":      "Cameroun",
	"GUINEEN":       "Guinée",
	"GUINEENNE":     "Guinée",
	"GUINEA":        "Guinée",
	"MALIEN":        "Mali",
	"MALIENNE":      "Mali",
	"COMORIEN":      "Comores",
	"COMORIENNE":    "Comores",
	"CONGOLAIS":     "Congo",
	"CONGOLAISE":    "Congo",
	"GABONAIS":      "Gabon",
	"GABONAISE":     "Gabon",
	"MALGACHE":      "Madagascar",
	"MAURITANIEN":   "Mauritanie",
	"MAURITANIENNE": "Mauritanie",
	"NIGERIEN":      "Niger",
	"NIGERIENNE":    "Niger",
	"NIGERIAN":      "Nigéria",
	"NIGERIA":       "Nigéria",
	"TOGOLAIS":      "Togo",
	"TOGOLAISE":     "Togo",
	"BENINOIS":      "Bénin",
	"BENINOISE":     "Bénin",
	"BURKINABE":     "Burkina Faso",
	"TCHADIEN":      "Tchad",
	"TCHADIENNE":    "Tchad",
	"EGYPTIEN":      "Égypte",
	"EGYPTIENNE":    "Égypte",
	"EGYPT":         "Égypte",
	"ESPAGNOL":      "Espagne",
	"ESPAGNOLE":     "Espagne",
	"SPAIN":         "Espagne",
	"SPANISH":       "Espagne",
	"PORTUGAIS":     "Portugal",
	"PORTUGAISE":    "Portugal",
	"ITALIEN":       "Italie",
	"ITALIENNE":     "Italie",
	"ITALY":         "Italie",
	"ITALIAN":       "Italie",
	"ALLEMAND":      "Allemagne",
	"ALLEMANDE":     "Allemagne",
	"GERMANY":       "Allemagne",
	"GERMAN":        "Allemagne",
	"BRITANNIQUE":   "Royaume-Uni",
	"UNITEDKINGDOM": "Royaume-Uni",
	"BRITISH":       "Royaume-Uni",
	"BELGE":         "Belgique",
	"BELGIUM":       "Belgique",
	"BELGIAN":       "Belgique",
	"NEERLANDAIS":   "Pays-Bas",
	"NEERLANDAISE":  "Pays-Bas",
	"DUTCH":         "Pays-Bas",
	"SUISSE":        "Suisse",
	"SWISS":         "Suisse",
	"TURC":          "Turquie",
	"TURQUE":        "Turquie",
	"TURKEY":        "Turquie",
	"TURKISH":       "Turquie",
	"LIBANAIS":      "Liban",
	"LIBANAISE":     "Liban",
	"LEBANON":       "Liban",
	"LEBANESE":      "Liban",
	"SYRIEN":        "Syrie",
	"SYRIENNE":      "Syrie",
	"SYRIAN":        "Syrie",
	"IRAKIEN":       "Irak",
	"IRAKIENNE":     "Irak",
	"IRAQI":         "Irak",
	"IRANIEN":       "Iran",
	"IRANIENNE":     "Iran",
	"IRANIAN":       "Iran",
	"AFGHAN":        "Afghanistan",
	"AFGHANE":       "Afghanistan",
	"PAKISTANAIS":   "Pakistan",
	"PAKISTANAISE":  "Pakistan",
	"PAKISTANI":     "Pakistan",
	"INDIEN":        "Inde",
	"INDIENNE":      "Inde",
	"INDIA":         "Inde",
	"INDIAN":        "Inde",
	"BANGLADAIS":    "Bangladesh",
	"BANGLADAISE":   "Bangladesh",
	"BANGLADESHI":   "Bangladesh",
	"SRILANKAIS":    "Sri Lanka",
	"SRILANKAISE":   "Sri Lanka",
	"CHINOIS":       "Chine",
	"CHINOISE":      "Chine",
	"CHINA":         "Chine",
	"CHINESE":       "Chine",
	"VIETNAMIEN":    "Vietnam",
	"VIETNAMIENNE":  "Vietnam",
	"VIETNAMESE":    "Vietnam",
	"PHILIPPIN":     "Philippines",
	"PHILIPPINE":    "Philippines",
	"FILIPINO":      "Philippines",
	"RUSSE":         "Russie",
	"RUSSIA":        "Russie",
	"RUSSIAN":       "Russie",
	"UKRAINIEN":     "Ukraine",
	"UKRAINIENNE":   "Ukraine",
	"UKRAINIAN":     "Ukraine",
	"ROUMAIN":       "Roumanie",
	"ROUMAINE":      "Roumanie",
	"ROMANIA":       "Roumanie",
	"ROMANIAN":      "Roumanie",
	"POLONAIS":      "Pologne",
	"POLONAISE":     "Pologne",
	"POLAND":        "Pologne",
	"POLISH":        "Pologne",
	"BULGARE":       "Bulgarie",
	"BULGARIA":      "Bulgarie",
	"BULGARIAN":     "Bulgarie",
	"SERBE":         "Serbie",
	"SERBIA":        "Serbie",
	"SERBIAN":       "Serbie",
	"ALBANAIS":      "Albanie",
	"ALBANAISE":     "Albanie",
	"ALBANIAN":      "Albanie",
	"AMERICAIN":     "États-Unis",
	"AMERICAINE":    "États-Unis",
	"ETATSUNIS":     "États-Unis",
	"AMERICAN":      "États-Unis",
	"CANADIEN":      "Canada",
	"CANADIENNE":    "Canada",
	"CANADIAN":      "Canada",
	"BRESILIEN":     "Brésil",
	"BRESILIENNE":   "Brésil",
	"BRAZIL":        "Brésil",
	"BRAZILIAN":     "Brésil",
	"ARGENTIN":      "Argentine",
	"ARGENTINE":     "Argentine",
	"MEXICAIN":      "Mexique",
	"MEXICAINE":     "Mexique",
	"MEXICAN":       "Mexique",
	"HAITIEN":       "Haïti",
	"HAITIENNE":     "Haïti",
	"HAITIAN":       "Haïti",
	"ETHIOPIEN":     "Éthiopie",
	"ETHIOPIENNE":   "Éthiopie",
	"ERYTHREEN":     "Érythrée",
	"ERYTHREENNE":   "Érythrée",
	"SOMALIEN":      "Somalie",
	"SOMALIENNE":    "Somalie",
	"SOUDANAIS":     "Soudan",
	"SOUDANAISE":    "Soudan",
	"GHANEEN":       "Ghana",
	"GHANEENNE":     "Ghana",
	"GAMBIEN":       "Gambie",
	"GAMBIENNE":     "Gambie",
	"CAPVERDIEN":    "Cap-Vert",
	"CAPVERDIENNE":  "Cap-Vert",
	"JAPONAIS":      "Japon",
	"JAPONAISE":     "Japon",
	"JAPANESE":      "Japon",
	"COREEN":        "Corée du Sud",
	"COREENNE":      "Corée du Sud",
	"THAILANDAIS":   "Thaïlande",
	"THAILANDAISE":  "Thaïlande",
	"GEORGIEN":      "Géorgie",
	"GEORGIENNE":    "Géorgie",
	"ARMENIEN":      "Arménie",
	"ARMENIENNE":    "Arménie",
	"KAZAKH":        "Kazakhstan",
	"KAZAKHE":       "Kazakhstan",
	"OUZBEK":        "Ouzbékistan",
	"OUZBEKE":       "Ouzbékistan",
	"MOLDAVE":       "Moldavie",
}

// lookup is built once at init: every alias, every canonical name, and
// every ICAO code, keyed by normalized form. Never mutated afterwards.
var lookup = func() map[string]string {
	m := make(map[string]string, len(aliases)+2*len(codes))
	for alias, canonical := range aliases {
		m[alias] = canonical
	}
	for code, canonical := range codes {
		m[code] = canonical
		m[normalize(canonical)] = canonical
	}
	return m
}()

// accentFold maps accented runes to their base letter for matching.
var accentFold = map[rune]rune{
	'À': 'A', 'Â': 'A', 'Ä': 'A', 'Á': 'A', 'Ã': 'A',
	'É': 'E', 'È': 'E', 'Ê': 'E', 'Ë': 'E',
	'Î': 'I', 'Ï': 'I', 'Í': 'I',
	'Ô': 'O', 'Ö': 'O', 'Ó': 'O', 'Õ': 'O',
	'Û': 'U', 'Ü': 'U', 'Ù': 'U', 'Ú': 'U',
	'Ç': 'C', 'Ñ': 'N',
}

// normalize uppercases, folds accents and strips every non-letter so that
// "Côte d'Ivoire", "COTE D IVOIRE" and "cote-d-ivoire" all collide.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if f, ok := accentFold[r]; ok {
			r = f
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Resolve maps a raw token to its canonical nationality, or to Unrecognized
// when the reference list does not cover it. Resolve is idempotent:
// Resolve(Resolve(x)) == Resolve(x) for any input.
func Resolve(token string) string {
	token = strings.TrimSpace(token)
	if token == "" || token == Unrecognized {
		return Unrecognized
	}
	if canonical, ok := lookup[normalize(token)]; ok {
		return canonical
	}
	// Second chance for OCR-garbled tokens: restore confused letters and
	// retry. "ALGER1ENNE" style input lands here.
	corrected := textnorm.CorrectLetters(strings.ToUpper(token))
	if canonical, ok := lookup[normalize(corrected)]; ok {
		return canonical
	}
	return Unrecognized
}

// ResolveCode resolves an ICAO document code (3-letter, occasionally
// 1-letter). Garbled codes get one digit-to-letter correction attempt.
func ResolveCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if canonical, ok := codes[code]; ok {
		return canonical, true
	}
	corrected := textnorm.CorrectLetters(code)
	if canonical, ok := codes[corrected]; ok {
		return canonical, true
	}
	return "", false
}

// IsCanonical reports whether s is already a reference-list entry (or the
// Unrecognized marker).
func IsCanonical(s string) bool {
	if s == Unrecognized {
		return true
	}
	canonical, ok := lookup[normalize(s)]
	return ok && canonical == s
}

// plausibleToken reports whether a raw capture is worth resolving at all:
// at least three letters once stripped.
func plausibleToken(s string) bool {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n >= 3
}

// ResolveLine scans a free-text line (typically the remainder after a
// "Nationalité:" label) and returns the first token run that resolves.
func ResolveLine(line string) (string, bool) {
	if !plausibleToken(line) {
		return "", false
	}
	if c := Resolve(line); c != Unrecognized {
		return c, true
	}
	for _, word := range strings.Fields(line) {
		if !plausibleToken(word) {
			continue
		}
		if c := Resolve(word); c != Unrecognized {
			return c, true
		}
	}
	return "", false
}
