// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pipeline orchestrates a document extraction run: recognition,
// document-type classification, and dispatch to the matching extraction
// path. Each run owns all of its intermediate state; a single Orchestrator
// serves concurrent runs without locking.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"idscan/internal/config"
	"idscan/internal/doctype"
	"idscan/internal/extractors"
	"idscan/internal/extractors/nationalid"
	"idscan/internal/extractors/passport"
	"idscan/internal/extractors/residencepermit"
	"idscan/internal/identity"
	"idscan/internal/imageprep"
	"idscan/internal/mrz"
	"idscan/internal/observability"
	"idscan/internal/transport"
)

// State names the stage an extraction run is in. Runs move strictly
// forward: Idle, Recognizing, Classifying, Extracting, then Done or Failed.
type State int

const (
	StateIdle State = iota
	StateRecognizing
	StateClassifying
	StateExtracting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecognizing:
		return "recognizing"
	case StateClassifying:
		return "classifying"
	case StateExtracting:
		return "extracting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Recognizer turns an image into raw text. Satisfied by *transport.Client.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, apiKey string) (string, error)
}

// Options are the orchestrator's collaborators. Zero fields get production
// defaults; tests substitute fakes.
type Options struct {
	Recognizer Recognizer
	Classifier *doctype.Classifier
	MRZ        *mrz.Parser
	Permit     extractors.Extractor
	NationalID extractors.Extractor
	Passport   extractors.Extractor
	Observer   *observability.StandardObserver
}

// Orchestrator runs the extraction pipeline.
type Orchestrator struct {
	recognizer Recognizer
	classifier *doctype.Classifier
	mrz        *mrz.Parser
	permit     extractors.Extractor
	nationalID extractors.Extractor
	passport   extractors.Extractor
	observer   *observability.StandardObserver
}

// New builds an orchestrator, defaulting any collaborator left unset.
func New(opts Options) *Orchestrator {
	if opts.Recognizer == nil {
		opts.Recognizer = transport.New(transport.DefaultConfig())
	}
	if opts.Classifier == nil {
		opts.Classifier = doctype.New()
	}
	if opts.MRZ == nil {
		opts.MRZ = mrz.New()
	}
	if opts.Permit == nil {
		opts.Permit = residencepermit.New()
	}
	if opts.NationalID == nil {
		opts.NationalID = nationalid.New()
	}
	if opts.Passport == nil {
		opts.Passport = passport.New()
	}
	if opts.Observer == nil {
		opts.Observer = observability.NewStandardObserver(observability.ObservabilityOff, nil)
	}
	return &Orchestrator{
		recognizer: opts.Recognizer,
		classifier: opts.Classifier,
		mrz:        opts.MRZ,
		permit:     opts.Permit,
		nationalID: opts.NationalID,
		passport:   opts.Passport,
		observer:   opts.Observer,
	}
}

// NewFromConfig wires the production pipeline from loaded configuration.
func NewFromConfig(cfg *config.Config, observer *observability.StandardObserver) *Orchestrator {
	tc := transport.DefaultConfig()
	tc.StandardEndpoints = cfg.Recognition.StandardEndpoints
	tc.ElevatedEndpoints = cfg.Recognition.ElevatedEndpoints
	tc.StandardAttempts = cfg.Recognition.StandardAttempts
	tc.ElevatedAttempts = cfg.Recognition.ElevatedAttempts
	tc.Language = cfg.Recognition.Language
	tc.Engine = cfg.Recognition.Engine
	tc.DetectOrientation = cfg.Recognition.DetectOrientation
	tc.Scale = cfg.Recognition.Scale
	tc.Backoff = cfg.Backoff()
	if timeouts := cfg.AttemptTimeouts(); len(timeouts) > 0 {
		tc.AttemptTimeouts = timeouts
	}
	tc.Compression = imageprep.Options{
		MaxBytes:    cfg.Compression.MaxBytes,
		MaxWidth:    cfg.Compression.MaxWidth,
		MaxHeight:   cfg.Compression.MaxHeight,
		JPEGQuality: cfg.Compression.JPEGQuality,
	}

	return New(Options{
		Recognizer: transport.New(tc),
		Classifier: &doctype.Classifier{Threshold: float64(cfg.Classifier.Threshold)},
		MRZ:        &mrz.Parser{BirthPivot: cfg.MRZ.BirthYearPivot, ExpiryPivot: cfg.MRZ.ExpiryYearPivot},
		Observer:   observer,
	})
}

// ExtractImage runs the full pipeline on an image. A failed run returns an
// outcome with an empty record and a failure category, never a partial
// record presented as complete.
func (o *Orchestrator) ExtractImage(ctx context.Context, image []byte, apiKey string) identity.ExtractionOutcome {
	done := o.observer.StartTiming("pipeline", "extract-image", "")

	text, err := o.recognize(ctx, image, apiKey)
	if err != nil {
		outcome := failedOutcome(err)
		done(false, map[string]interface{}{"state": StateFailed.String(), "failure": string(outcome.Failure)})
		return outcome
	}

	outcome := o.ExtractText(text)
	done(outcome.Failure == identity.FailureNone, map[string]interface{}{
		"type":   outcome.DocumentType.String(),
		"fields": outcome.Record.FieldCount(),
	})
	return outcome
}

// ExtractText runs classification and extraction on text that was already
// recognized, skipping the transport stage. Callers holding a PDF text
// layer use this entry point.
func (o *Orchestrator) ExtractText(text string) identity.ExtractionOutcome {
	detection := o.classify(text)

	record := o.extract(text, detection)
	return identity.ExtractionOutcome{
		Record:       record,
		DocumentType: detection.Type,
		Confidence:   detection.Confidence,
		RawText:      text,
	}
}

func (o *Orchestrator) recognize(ctx context.Context, image []byte, apiKey string) (string, error) {
	done := o.observer.StartTiming("transport", StateRecognizing.String(), "")
	step := o.debugStep("transport", StateRecognizing.String(), fmt.Sprintf("%d bytes", len(image)))
	text, err := o.recognizer.Recognize(ctx, image, apiKey)
	step(err == nil, fmt.Sprintf("%d chars", len(text)))
	done(err == nil, map[string]interface{}{"text_length": len(text)})
	return text, err
}

func (o *Orchestrator) classify(text string) identity.DetectionResult {
	done := o.observer.StartTiming("doctype", StateClassifying.String(), "")
	step := o.debugStep("doctype", StateClassifying.String(), "")
	detection := o.classifier.Classify(text)
	step(true, fmt.Sprintf("%s (%.0f)", detection.Type, detection.Confidence))
	done(true, map[string]interface{}{
		"type":       detection.Type.String(),
		"confidence": detection.Confidence,
	})
	return detection
}

// debugStep opens a traced step when a debug observer is attached, and is
// a no-op otherwise.
func (o *Orchestrator) debugStep(component, step, input string) func(success bool, details string) {
	if d := o.observer.DebugObserver; d != nil {
		return d.StartStep(component, step, input)
	}
	return func(bool, string) {}
}

// extract dispatches to the extraction path for a confidently classified
// type, or races the passport and permit paths when the type is unknown.
func (o *Orchestrator) extract(text string, detection identity.DetectionResult) identity.IdentityRecord {
	done := o.observer.StartTiming("extractors", StateExtracting.String(), "")
	step := o.debugStep("extractors", StateExtracting.String(), detection.Type.String())

	var record identity.IdentityRecord
	switch detection.Type {
	case identity.DocumentForeignPassport:
		record = o.passportPath(text)
	case identity.DocumentResidencePermit:
		record = o.permit.Extract(text)
	case identity.DocumentNationalID:
		record = o.nationalID.Extract(text)
	default:
		record = o.raceBothPaths(text)
	}

	step(!record.Empty(), fmt.Sprintf("%d fields", record.FieldCount()))
	done(!record.Empty(), map[string]interface{}{"fields": record.FieldCount()})
	return record
}

// passportPath decodes the machine-readable zone, falling back to the
// printed-label extractor when no zone was readable.
func (o *Orchestrator) passportPath(text string) identity.IdentityRecord {
	zone := o.mrz.Parse(text)
	if zone.Empty() {
		return o.passport.Extract(text)
	}
	return recordFromMRZ(zone)
}

// raceBothPaths runs the passport path and the permit path concurrently.
// Both branches always run to completion; neither is cancelled when the
// other finishes or fails. The richer record wins, and a tie keeps the
// MRZ-derived result since zone fields carry a stronger guarantee than
// keyword scanning.
func (o *Orchestrator) raceBothPaths(text string) identity.IdentityRecord {
	var passportRec, permitRec identity.IdentityRecord

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		passportRec = o.passportPath(text)
	}()
	go func() {
		defer wg.Done()
		permitRec = o.permit.Extract(text)
	}()
	wg.Wait()

	if permitRec.FieldCount() > passportRec.FieldCount() {
		return permitRec
	}
	return passportRec
}

func recordFromMRZ(zone identity.MRZRecord) identity.IdentityRecord {
	var rec identity.IdentityRecord
	if zone.Surname != nil {
		rec.SetLastNameOnce(*zone.Surname)
	}
	if zone.GivenNames != nil {
		rec.SetFirstNameOnce(*zone.GivenNames)
	}
	if zone.Nationality != nil {
		rec.SetNationalityOnce(*zone.Nationality)
	}
	if zone.DocumentNumber != nil {
		rec.SetDocumentNumberOnce(*zone.DocumentNumber)
	}
	if zone.BirthDate != nil {
		rec.SetBirthDateOnce(*zone.BirthDate)
	}
	if zone.ExpiryDate != nil {
		rec.SetExpiryDateOnce(*zone.ExpiryDate)
	}
	return rec
}

// failedOutcome maps a recognition failure onto the user-facing categories
// the calling form knows how to present.
func failedOutcome(err error) identity.ExtractionOutcome {
	reason := identity.FailureNetwork
	if recErr := transport.AsRecognitionError(err); recErr != nil {
		switch recErr.Kind {
		case transport.KindAuth:
			reason = identity.FailureConfig
		case transport.KindQuotaExhausted:
			reason = identity.FailureQuota
		case transport.KindInvalidResponse:
			reason = identity.FailureUnreadable
		}
	}
	return identity.ExtractionOutcome{Failure: reason}
}
