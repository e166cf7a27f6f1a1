// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package transport sends document images to the external recognition
// service and returns the raw recognized text. It owns endpoint fallback,
// per-attempt timeouts, retry with linear backoff, and the two request
// encodings the service accepts depending on the account tier.
package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"idscan/internal/imageprep"
	"idscan/internal/resilience"
)

// Standard-tier keys are "K" followed by digits. Any other shape is an
// elevated-tier key, which uses a different endpoint list and encoding.
var standardKeyPattern = regexp.MustCompile(`^K\d+$`)

// Default per-endpoint attempt counts per tier.
const (
	defaultStandardAttempts = 3
	defaultElevatedAttempts = 2
)

// Escalating per-attempt timeouts. Later attempts get more slack: slow
// responses are usually load, not loss.
var attemptTimeouts = []time.Duration{90 * time.Second, 120 * time.Second, 150 * time.Second}

// Config holds the recognition service settings.
type Config struct {
	StandardEndpoints []string
	ElevatedEndpoints []string
	StandardAttempts  int
	ElevatedAttempts  int
	Language          string
	Engine            int
	DetectOrientation bool
	Scale             bool
	Backoff           time.Duration
	AttemptTimeouts   []time.Duration
	Compression       imageprep.Options

	// HTTPClient overrides the default client. Per-attempt timeouts are
	// applied through the request context, not the client.
	HTTPClient *http.Client
}

// DefaultConfig returns production settings for the recognition service.
func DefaultConfig() Config {
	return Config{
		StandardEndpoints: []string{
			"https://api.ocr.space/parse/image",
			"https://apipro1.ocr.space/parse/image",
			"https://apipro2.ocr.space/parse/image",
		},
		ElevatedEndpoints: []string{
			"https://apipro1.ocr.space/parse/image",
			"https://apipro2.ocr.space/parse/image",
		},
		StandardAttempts:  defaultStandardAttempts,
		ElevatedAttempts:  defaultElevatedAttempts,
		Language:          "fre",
		Engine:            2,
		DetectOrientation: true,
		Scale:             true,
		Backoff:           2 * time.Second,
		AttemptTimeouts:   attemptTimeouts,
		Compression:       imageprep.DefaultOptions(),
	}
}

// Client talks to the recognition service. It keeps no state between
// calls; a single Client is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a recognition client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// Recognize uploads an image and returns the recognized text. The image is
// recompressed first when it exceeds the configured size threshold; a
// compression failure falls back to the original bytes.
//
// Endpoints are tried strictly in order. Each endpoint gets up to the
// tier's attempt budget with linear backoff between attempts. Auth and
// quota errors abort everything immediately; other errors exhaust the
// current endpoint before falling through to the next. When every endpoint
// is exhausted the last error is returned.
func (c *Client) Recognize(ctx context.Context, image []byte, apiKey string) (string, error) {
	if len(image) == 0 {
		return "", &RecognitionError{Kind: KindInvalidResponse, Message: "empty image"}
	}
	if apiKey == "" {
		return "", &RecognitionError{Kind: KindAuth, Message: "missing api key"}
	}

	// The EXIF probe runs on the original bytes: recompression strips the
	// metadata block. A rotated scan always gets the orientation hint,
	// whatever the configured default.
	detect := c.cfg.DetectOrientation
	if imageprep.Orientation(image) > 1 {
		detect = true
	}

	image = imageprep.Compress(image, c.cfg.Compression)

	standard := standardKeyPattern.MatchString(apiKey)
	endpoints := c.cfg.ElevatedEndpoints
	maxAttempts := c.cfg.ElevatedAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultElevatedAttempts
	}
	if standard {
		endpoints = c.cfg.StandardEndpoints
		maxAttempts = c.cfg.StandardAttempts
		if maxAttempts < 1 {
			maxAttempts = defaultStandardAttempts
		}
	}
	if len(endpoints) == 0 {
		return "", &RecognitionError{Kind: KindNetwork, Message: "no endpoints configured"}
	}

	retryCfg := resilience.RetryConfig{
		MaxRetries: maxAttempts - 1,
		Interval:   c.cfg.Backoff,
		Mode:       resilience.BackoffLinear,
	}

	var lastErr error
	for _, endpoint := range endpoints {
		attempt := 0
		text, err := resilience.RetryWithResult(ctx, retryCfg, func(ctx context.Context) (string, error) {
			timeout := c.attemptTimeout(attempt)
			attempt++
			return c.call(ctx, endpoint, image, apiKey, standard, detect, timeout)
		})
		if err == nil {
			return text, nil
		}
		lastErr = err
		if recErr := AsRecognitionError(err); recErr != nil && recErr.Terminal() {
			return "", recErr
		}
	}
	return "", asRecognitionOrWrap(lastErr)
}

func (c *Client) attemptTimeout(attempt int) time.Duration {
	timeouts := c.cfg.AttemptTimeouts
	if len(timeouts) == 0 {
		timeouts = attemptTimeouts
	}
	if attempt >= len(timeouts) {
		return timeouts[len(timeouts)-1]
	}
	return timeouts[attempt]
}

// call performs one request against one endpoint. The timeout covers the
// whole attempt; once started, an attempt runs to completion or its own
// deadline, never an external cancel.
func (c *Client) call(ctx context.Context, endpoint string, image []byte, apiKey string, standard, detect bool, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var req *http.Request
	var err error
	if standard {
		req, err = c.multipartRequest(ctx, endpoint, image, apiKey, detect)
	} else {
		req, err = c.base64Request(ctx, endpoint, image, apiKey, detect)
	}
	if err != nil {
		return "", (&RecognitionError{Kind: KindNetwork, Message: "build request", cause: err}).classified()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		kind := KindNetwork
		if ctx.Err() == context.DeadlineExceeded {
			kind = KindTimeout
		}
		return "", (&RecognitionError{Kind: kind, Message: "recognition request failed", cause: err}).classified()
	}
	defer resp.Body.Close()

	text, err := decodeResponse(resp)
	if err != nil {
		if recErr := AsRecognitionError(err); recErr != nil {
			return "", recErr.classified()
		}
		return "", err
	}
	return text, nil
}

// formValues carries the recognition parameters shared by both encodings.
func (c *Client) formValues(detect bool) url.Values {
	v := url.Values{}
	v.Set("language", c.cfg.Language)
	v.Set("OCREngine", fmt.Sprintf("%d", c.cfg.Engine))
	v.Set("detectOrientation", boolParam(detect))
	v.Set("scale", boolParam(c.cfg.Scale))
	v.Set("isOverlayRequired", "false")
	return v
}

func boolParam(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// multipartRequest builds the standard-tier request: the image travels as
// a multipart file part and the key as an ordinary form field.
func (c *Client) multipartRequest(ctx context.Context, endpoint string, image []byte, apiKey string, detect bool) (*http.Request, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for k, vs := range c.formValues(detect) {
		if err := w.WriteField(k, vs[0]); err != nil {
			return nil, err
		}
	}
	if err := w.WriteField("apikey", apiKey); err != nil {
		return nil, err
	}
	part, err := w.CreateFormFile("file", "document.jpg")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}

// base64Request builds the elevated-tier request: the image travels
// base64-encoded in the form body and the key in the apikey header.
func (c *Client) base64Request(ctx context.Context, endpoint string, image []byte, apiKey string, detect bool) (*http.Request, error) {
	form := c.formValues(detect)
	form.Set("base64Image", "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(image))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", apiKey)
	return req, nil
}

// serviceResponse is the recognition service's JSON envelope.
type serviceResponse struct {
	OCRExitCode           int
	IsErroredOnProcessing bool
	ErrorMessage          flexibleMessage
	ParsedResults         []struct {
		ParsedText string
	}
}

// flexibleMessage absorbs the service's habit of returning ErrorMessage
// as either a string or an array of strings.
type flexibleMessage string

func (m *flexibleMessage) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = flexibleMessage(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*m = flexibleMessage(strings.Join(list, "; "))
		return nil
	}
	*m = flexibleMessage(string(data))
	return nil
}

func decodeResponse(resp *http.Response) (string, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", &RecognitionError{Kind: KindNetwork, Message: "read response", cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &RecognitionError{Kind: KindAuth, Message: "authentication rejected by recognition service"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &RecognitionError{Kind: KindQuotaExhausted, Message: "recognition quota exhausted"}
	case resp.StatusCode >= 500:
		return "", &RecognitionError{Kind: KindNetwork, Message: fmt.Sprintf("service error %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return "", &RecognitionError{Kind: KindInvalidResponse, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var parsed serviceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &RecognitionError{Kind: KindInvalidResponse, Message: "malformed response body", cause: err}
	}

	if parsed.IsErroredOnProcessing || parsed.OCRExitCode != 1 {
		msg := string(parsed.ErrorMessage)
		return "", &RecognitionError{Kind: classifyServiceMessage(msg), Message: serviceFailureMessage(msg)}
	}
	if len(parsed.ParsedResults) == 0 {
		return "", &RecognitionError{Kind: KindInvalidResponse, Message: "response carries no parsed results"}
	}

	var sb strings.Builder
	for _, r := range parsed.ParsedResults {
		sb.WriteString(r.ParsedText)
	}
	return sb.String(), nil
}

func serviceFailureMessage(msg string) string {
	if msg == "" {
		return "recognition service reported a processing failure"
	}
	return "recognition service error: " + msg
}

// classifyServiceMessage maps the service's free-text error message onto
// an error kind. Auth and quota phrasings must be caught here so the
// retry loop treats them as terminal.
func classifyServiceMessage(msg string) Kind {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "invalid api key") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "forbidden"):
		return KindAuth
	case strings.Contains(lower, "quota") || strings.Contains(lower, "limit exceeded") ||
		strings.Contains(lower, "too many requests"):
		return KindQuotaExhausted
	case strings.Contains(lower, "timed out") || strings.Contains(lower, "timeout"):
		return KindTimeout
	default:
		return KindInvalidResponse
	}
}

func asRecognitionOrWrap(err error) *RecognitionError {
	if err == nil {
		return nil
	}
	if recErr := AsRecognitionError(err); recErr != nil {
		return recErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &RecognitionError{Kind: KindTimeout, Message: "recognition timed out", cause: err}
	}
	return &RecognitionError{Kind: KindNetwork, Message: "recognition failed", cause: err}
}
