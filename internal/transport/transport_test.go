// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	standardKey = "K81234567"
	elevatedKey = "PRO-4f6a2b"
)

func testConfig(endpoints ...string) Config {
	cfg := DefaultConfig()
	cfg.StandardEndpoints = endpoints
	cfg.ElevatedEndpoints = endpoints
	cfg.Backoff = time.Millisecond
	cfg.AttemptTimeouts = []time.Duration{time.Second, time.Second, time.Second}
	return cfg
}

func okBody() string {
	return `{"OCRExitCode":1,"IsErroredOnProcessing":false,"ParsedResults":[{"ParsedText":"PASSEPORT\nP<MARSMITH<<JOHN"}]}`
}

func TestRecognize_StandardKeyUsesMultipart(t *testing.T) {
	var gotContentType, gotFormKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotFormKey = r.FormValue("apikey")

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()

		assert.Equal(t, "fre", r.FormValue("language"))
		assert.Equal(t, "2", r.FormValue("OCREngine"))
		assert.Equal(t, "true", r.FormValue("detectOrientation"))
		assert.Equal(t, "false", r.FormValue("isOverlayRequired"))

		w.Write([]byte(okBody()))
	}))
	defer srv.Close()

	text, err := New(testConfig(srv.URL)).Recognize(context.Background(), []byte("img"), standardKey)
	require.NoError(t, err)
	assert.Contains(t, text, "PASSEPORT")
	assert.Contains(t, gotContentType, "multipart/form-data")
	assert.Equal(t, standardKey, gotFormKey)
}

func TestRecognize_ElevatedKeyUsesBase64AndHeader(t *testing.T) {
	var gotHeaderKey, gotBase64 string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaderKey = r.Header.Get("apikey")
		require.NoError(t, r.ParseForm())
		gotBase64 = r.FormValue("base64Image")
		assert.Empty(t, r.FormValue("apikey"), "elevated key must not travel in the body")
		w.Write([]byte(okBody()))
	}))
	defer srv.Close()

	_, err := New(testConfig(srv.URL)).Recognize(context.Background(), []byte("img"), elevatedKey)
	require.NoError(t, err)
	assert.Equal(t, elevatedKey, gotHeaderKey)
	assert.Contains(t, gotBase64, "data:image/jpeg;base64,")
}

func TestRecognize_NetworkErrorsExhaustAllEndpoints(t *testing.T) {
	var calls1, calls2 atomic.Int32
	fail := func(counter *atomic.Int32) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			counter.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
	srv1 := httptest.NewServer(fail(&calls1))
	defer srv1.Close()
	srv2 := httptest.NewServer(fail(&calls2))
	defer srv2.Close()

	_, err := New(testConfig(srv1.URL, srv2.URL)).Recognize(context.Background(), []byte("img"), standardKey)
	require.Error(t, err)

	recErr := AsRecognitionError(err)
	require.NotNil(t, recErr)
	assert.Equal(t, KindNetwork, recErr.Kind)
	assert.Equal(t, int32(3), calls1.Load(), "standard tier retries each endpoint three times")
	assert.Equal(t, int32(3), calls2.Load())
}

func TestRecognize_ElevatedTierRetriesTwicePerEndpoint(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(testConfig(srv.URL)).Recognize(context.Background(), []byte("img"), elevatedKey)
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRecognize_AuthErrorIsTerminal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("fallback endpoint must not be contacted after an auth failure")
	}))
	defer other.Close()

	_, err := New(testConfig(srv.URL, other.URL)).Recognize(context.Background(), []byte("img"), standardKey)
	require.Error(t, err)

	recErr := AsRecognitionError(err)
	require.NotNil(t, recErr)
	assert.Equal(t, KindAuth, recErr.Kind)
	assert.True(t, recErr.Terminal())
	assert.Equal(t, int32(1), calls.Load(), "auth failure must abort after a single request")
}

func TestRecognize_QuotaMessageIsTerminal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"OCRExitCode":99,"IsErroredOnProcessing":true,"ErrorMessage":"You have reached your monthly quota"}`))
	}))
	defer srv.Close()

	_, err := New(testConfig(srv.URL)).Recognize(context.Background(), []byte("img"), standardKey)
	require.Error(t, err)

	recErr := AsRecognitionError(err)
	require.NotNil(t, recErr)
	assert.Equal(t, KindQuotaExhausted, recErr.Kind)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRecognize_ProcessingErrorRetriesThenSurfaces(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"OCRExitCode":3,"IsErroredOnProcessing":true,"ErrorMessage":["Unable to recognize the file type","E216"]}`))
	}))
	defer srv.Close()

	_, err := New(testConfig(srv.URL)).Recognize(context.Background(), []byte("img"), standardKey)
	require.Error(t, err)

	recErr := AsRecognitionError(err)
	require.NotNil(t, recErr)
	assert.Equal(t, KindInvalidResponse, recErr.Kind)
	assert.Contains(t, recErr.Message, "Unable to recognize")
	assert.Equal(t, int32(3), calls.Load())
}

func TestRecognize_MalformedBodyIsInvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	_, err := New(testConfig(srv.URL)).Recognize(context.Background(), []byte("img"), standardKey)
	require.Error(t, err)

	recErr := AsRecognitionError(err)
	require.NotNil(t, recErr)
	assert.Equal(t, KindInvalidResponse, recErr.Kind)
}

func TestRecognize_ConcatenatesMultipleParsedResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"OCRExitCode":1,"ParsedResults":[{"ParsedText":"page one\n"},{"ParsedText":"page two"}]}`))
	}))
	defer srv.Close()

	text, err := New(testConfig(srv.URL)).Recognize(context.Background(), []byte("img"), standardKey)
	require.NoError(t, err)
	assert.Equal(t, "page one\npage two", text)
}

func TestRecognize_EmptyInputsRejectedWithoutRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made")
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))

	_, err := c.Recognize(context.Background(), nil, standardKey)
	require.Error(t, err)
	assert.Equal(t, KindInvalidResponse, AsRecognitionError(err).Kind)

	_, err = c.Recognize(context.Background(), []byte("img"), "")
	require.Error(t, err)
	assert.Equal(t, KindAuth, AsRecognitionError(err).Kind)
}

func TestStandardKeyPattern(t *testing.T) {
	assert.True(t, standardKeyPattern.MatchString("K12345"))
	assert.False(t, standardKeyPattern.MatchString("PRO-abc"))
	assert.False(t, standardKeyPattern.MatchString("K12A45"))
	assert.False(t, standardKeyPattern.MatchString("k12345"))
}

// rotatedJPEG builds a minimal JPEG whose APP1 segment carries an EXIF
// orientation tag with the given value.
func rotatedJPEG(orientation byte) []byte {
	tiff := []byte{
		'I', 'I', 0x2A, 0x00,
		0x08, 0x00, 0x00, 0x00,
		0x01, 0x00,
		0x12, 0x01, 0x03, 0x00,
		0x01, 0x00, 0x00, 0x00,
		orientation, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	payload := append([]byte("Exif\x00\x00"), tiff...)
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})
	buf.Write([]byte{0xFF, 0xE1, byte((len(payload) + 2) >> 8), byte((len(payload) + 2) & 0xFF)})
	buf.Write(payload)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

func TestRecognize_RotatedScanForcesOrientationHint(t *testing.T) {
	var gotHint string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotHint = r.FormValue("detectOrientation")
		w.Write([]byte(okBody()))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.DetectOrientation = false
	c := New(cfg)

	_, err := c.Recognize(context.Background(), rotatedJPEG(6), standardKey)
	require.NoError(t, err)
	assert.Equal(t, "true", gotHint, "EXIF rotation must force the orientation hint on")

	_, err = c.Recognize(context.Background(), []byte("img"), standardKey)
	require.NoError(t, err)
	assert.Equal(t, "false", gotHint, "image without EXIF keeps the configured default")
}

func TestRecognize_ConfiguredAttemptBudget(t *testing.T) {
	var calls1, calls2 atomic.Int32
	fail := func(counter *atomic.Int32) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			counter.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
	srv1 := httptest.NewServer(fail(&calls1))
	defer srv1.Close()
	srv2 := httptest.NewServer(fail(&calls2))
	defer srv2.Close()

	cfg := testConfig(srv1.URL, srv2.URL)
	cfg.StandardAttempts = 1

	_, err := New(cfg).Recognize(context.Background(), []byte("img"), standardKey)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls1.Load(), "configured budget caps attempts per endpoint")
	assert.Equal(t, int32(1), calls2.Load())
}
