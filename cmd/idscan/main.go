// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"idscan/internal/config"
	"idscan/internal/identity"
	"idscan/internal/observability"
	"idscan/internal/pipeline"
	"idscan/internal/preprocess"
	"idscan/internal/security"
	"idscan/internal/version"
)

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	// If config file is not specified, try to find one in standard locations
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg = config.LoadConfigOrDefault("")
	}
	return cfg
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// resolveAPIKey picks the recognition key from flag, environment, config
// file, then an interactive no-echo prompt. The prompt only runs when
// stdin is a terminal; scripts get an error instead of a hang.
func resolveAPIKey(flagKey string, cfg *config.Config) (*security.Secret, error) {
	if flagKey != "" {
		return security.NewSecret(flagKey), nil
	}
	if key := os.Getenv("IDSCAN_API_KEY"); key != "" {
		return security.NewSecret(key), nil
	}
	if cfg.Recognition.APIKey != "" {
		return security.NewSecret(cfg.Recognition.APIKey), nil
	}
	if !isTerminal(os.Stdin) {
		return nil, fmt.Errorf("no API key: use -key, IDSCAN_API_KEY, or recognition.api_key in the config file")
	}
	fmt.Fprint(os.Stderr, "Recognition API key: ")
	key, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("error reading API key: %w", err)
	}
	return security.NewSecret(strings.TrimSpace(string(key))), nil
}

func main() {
	inputFile := flag.String("file", "", "Path to the input file (image or PDF)")
	apiKey := flag.String("key", "", "Recognition API key (overrides IDSCAN_API_KEY and config file)")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	outputFormat := flag.String("format", "", "Output format: text, json (default: text)")
	debug := flag.Bool("debug", false, "Enable debug logging of each pipeline stage")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	// The document path can arrive positionally as well.
	path := *inputFile
	if path == "" && flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file (use -file or pass a path)")
		flag.Usage()
		os.Exit(1)
	}

	cfg := loadConfiguration(*configFile)

	format := cfg.Defaults.Format
	if isFlagSet("format") && *outputFormat != "" {
		format = *outputFormat
	}
	if format != "text" && format != "json" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (use text or json)\n", format)
		os.Exit(1)
	}

	// Auto-detect non-interactive environment
	disableColor := *noColor || cfg.Defaults.NoColor
	if !isTerminal(os.Stdout) || os.Getenv("CI") != "" {
		disableColor = true
	}
	color.NoColor = disableColor

	debugMode := *debug || cfg.Defaults.Debug
	var observer *observability.StandardObserver
	if debugMode {
		observer = observability.NewStandardObserver(observability.ObservabilityDebug, os.Stderr)
		observer.DebugObserver = observability.NewDebugObserver(os.Stderr)
		observer.DebugObserver.LogDetail("main", fmt.Sprintf("Input file: %s", path))
	} else {
		observer = observability.NewStandardObserver(observability.ObservabilityOff, os.Stderr)
	}

	doc, err := preprocess.Prepare(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	orchestrator := pipeline.NewFromConfig(cfg, observer)

	var outcome identity.ExtractionOutcome
	if doc.HasText() {
		// A PDF text layer skips the recognition round-trip entirely.
		if debugMode {
			observer.DebugObserver.LogDetail("main", "Document carries a text layer; skipping recognition")
		}
		outcome = orchestrator.ExtractText(doc.Text)
	} else {
		key, err := resolveAPIKey(*apiKey, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if key.Empty() {
			fmt.Fprintln(os.Stderr, "Error: empty API key")
			os.Exit(1)
		}
		outcome = orchestrator.ExtractImage(context.Background(), doc.Image, key.Reveal())
		key.Clear()
	}

	var output string
	switch format {
	case "json":
		output, err = formatJSON(outcome)
	default:
		output = formatText(outcome)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)

	if outcome.Failure != identity.FailureNone {
		os.Exit(1)
	}
}

// jsonOutcome is the stable wire shape of the json format; dates render as
// DD/MM/YYYY strings to match the text output.
type jsonOutcome struct {
	DocumentType   string  `json:"document_type"`
	Confidence     float64 `json:"confidence"`
	LastName       string  `json:"last_name,omitempty"`
	FirstName      string  `json:"first_name,omitempty"`
	Nationality    string  `json:"nationality,omitempty"`
	DocumentNumber string  `json:"document_number,omitempty"`
	BirthDate      string  `json:"birth_date,omitempty"`
	ExpiryDate     string  `json:"expiry_date,omitempty"`
	Failure        string  `json:"failure,omitempty"`
}

func formatJSON(outcome identity.ExtractionOutcome) (string, error) {
	out := jsonOutcome{
		DocumentType:   outcome.DocumentType.String(),
		Confidence:     outcome.Confidence,
		LastName:       outcome.Record.LastName,
		FirstName:      outcome.Record.FirstName,
		Nationality:    outcome.Record.Nationality,
		DocumentNumber: outcome.Record.DocumentNumber,
		Failure:        string(outcome.Failure),
	}
	if outcome.Record.BirthDate != nil {
		out.BirthDate = outcome.Record.BirthDate.String()
	}
	if outcome.Record.ExpiryDate != nil {
		out.ExpiryDate = outcome.Record.ExpiryDate.String()
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting output: %w", err)
	}
	return string(data), nil
}

func formatText(outcome identity.ExtractionOutcome) string {
	var builder strings.Builder

	if outcome.Failure != identity.FailureNone {
		red := color.New(color.FgRed, color.Bold)
		builder.WriteString(red.Sprintf("Extraction failed: %s", outcome.Failure))
		return builder.String()
	}

	typeLine := fmt.Sprintf("Document type: %s", outcome.DocumentType)
	builder.WriteString(confidenceColor(outcome.Confidence).Sprint(typeLine))
	builder.WriteString(fmt.Sprintf(" (confidence %.0f)\n", outcome.Confidence))

	if outcome.Record.Empty() {
		builder.WriteString("No identity fields extracted.")
		return builder.String()
	}

	label := color.New(color.FgCyan)
	writeField := func(name, value string) {
		if value == "" {
			return
		}
		builder.WriteString(label.Sprintf("%-16s", name+":"))
		builder.WriteString(" " + value + "\n")
	}
	writeField("Last name", outcome.Record.LastName)
	writeField("First name", outcome.Record.FirstName)
	writeField("Nationality", outcome.Record.Nationality)
	writeField("Document no.", outcome.Record.DocumentNumber)
	if outcome.Record.BirthDate != nil {
		writeField("Birth date", outcome.Record.BirthDate.String())
	}
	if outcome.Record.ExpiryDate != nil {
		writeField("Expiry date", outcome.Record.ExpiryDate.String())
	}
	return strings.TrimRight(builder.String(), "\n")
}

// confidenceColor maps a classification confidence to the usual traffic
// light scheme.
func confidenceColor(confidence float64) *color.Color {
	if confidence >= 90 {
		return color.New(color.FgGreen)
	}
	if confidence >= 60 {
		return color.New(color.FgYellow)
	}
	return color.New(color.FgRed)
}
