package azureai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguaflow/internal/config"
)

func newWhisperTestClient(t *testing.T, handler http.HandlerFunc) (*WhisperClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewWhisperClient(config.AzureOpenAIConfig{
		APIKey:     "test-key",
		Endpoint:   srv.URL,
		Deployment: "whisper",
		APIVersion: "2024-06-01",
		TimeoutSec: 5,
	}, zerolog.Nop())
	return client, srv
}

func wavInput(data string) Input {
	return Input{Filename: "speech.wav", ContentType: "audio/wav", Data: []byte(data)}
}

func TestWhisperClient_Preconditions(t *testing.T) {
	calls := 0
	client, _ := newWhisperTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})
	ctx := context.Background()

	tests := []struct {
		name        string
		in          Input
		wantMessage string
	}{
		{
			name:        "missing file",
			in:          Input{},
			wantMessage: "no audio file provided",
		},
		{
			name:        "empty file",
			in:          Input{Filename: "speech.wav", Data: []byte{}},
			wantMessage: "audio file is empty",
		},
		{
			name:        "oversize file",
			in:          Input{Filename: "speech.wav", Data: make([]byte, 26*1024*1024)},
			wantMessage: "exceeds the maximum limit of 25MB",
		},
		{
			name:        "unsupported format",
			in:          Input{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("x")},
			wantMessage: "unsupported file type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Transcribe(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
			assert.Contains(t, MessageOf(err), tt.wantMessage)
		})
	}

	// Precondition failures must never reach the network.
	assert.Zero(t, calls)
}

func TestWhisperClient_ServiceFormatSetIsBroader(t *testing.T) {
	// mp4/mpeg/mpga pass the service-level check even though the upload
	// validator never offers them.
	client, _ := newWhisperTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text":"ok"}`))
	})

	for _, name := range []string{"clip.mp4", "radio.mpeg", "cast.mpga"} {
		res, err := client.Transcribe(context.Background(), Input{Filename: name, Data: []byte("bytes")})
		require.NoError(t, err, name)
		assert.Equal(t, "ok", res.Text)
	}
}

func TestWhisperClient_RequestShape(t *testing.T) {
	var gotAPIKey, gotFormat, gotTemperature, gotFilename, gotPath string
	client, _ := newWhisperTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("api-key")
		gotPath = r.URL.Path + "?" + r.URL.RawQuery

		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotFormat = r.FormValue("response_format")
		gotTemperature = r.FormValue("temperature")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		content, _ := io.ReadAll(file)
		assert.Equal(t, "audio-bytes", string(content))

		_, _ = w.Write([]byte(`{"text":"hello"}`))
	})

	_, err := client.Transcribe(context.Background(), wavInput("audio-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "/openai/deployments/whisper/audio/transcriptions?api-version=2024-06-01", gotPath)
	assert.Equal(t, "verbose_json", gotFormat)
	assert.Equal(t, "0", gotTemperature)
	assert.Equal(t, "speech.wav", gotFilename)
}

func TestWhisperClient_DecodeShapes(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantText     string
		wantLanguage string
		wantDuration float64
		wantSegments int
		wantErrKind  Kind
	}{
		{
			name:         "verbose json object",
			body:         `{"text":"hello world","language":"en","duration":4.2,"segments":[{"start":0,"end":2.1,"text":"hello"},{"start":2.1,"end":4.2,"text":"world"}]}`,
			wantText:     "hello world",
			wantLanguage: "en",
			wantDuration: 4.2,
			wantSegments: 2,
		},
		{
			name:     "bare json string",
			body:     `"just the transcript"`,
			wantText: "just the transcript",
		},
		{
			name:     "plain text body",
			body:     "raw transcript text",
			wantText: "raw transcript text",
		},
		{
			name:        "object without text field",
			body:        `{"status":"done"}`,
			wantErrKind: KindUnexpectedResponse,
		},
		{
			name:        "array response",
			body:        `[1,2,3]`,
			wantErrKind: KindUnexpectedResponse,
		},
		{
			name:        "empty body",
			body:        "",
			wantErrKind: KindUnexpectedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newWhisperTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			res, err := client.Transcribe(context.Background(), wavInput("bytes"))

			if tt.wantErrKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrKind, KindOf(err))
				assert.Nil(t, res)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantText, res.Text)
			assert.Equal(t, tt.wantLanguage, res.Language)
			assert.Equal(t, tt.wantDuration, res.Duration)
			assert.Len(t, res.Segments, tt.wantSegments)
		})
	}
}

func TestWhisperClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"code":"401","message":"Access denied"}}`, KindAuth},
		{"deployment not found", http.StatusNotFound, `{"error":{"code":"DeploymentNotFound","message":"not found"}}`, KindConfig},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"code":"429","message":"slow down"}}`, KindRateLimited},
		{"bad request", http.StatusBadRequest, `{"error":{"code":"invalid_request_error","message":"bad audio"}}`, KindBadRequest},
		{"quota exhausted", http.StatusForbidden, `{"error":{"code":"insufficient_quota","message":"quota"}}`, KindQuotaExceeded},
		{"content filtered", http.StatusBadRequest, `{"error":{"code":"content_policy_violation","message":"refused"}}`, KindContentFiltered},
		{"server error carries upstream message", http.StatusInternalServerError, `{"error":{"code":"boom","message":"backend exploded"}}`, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newWhisperTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Transcribe(context.Background(), wavInput("bytes"))
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}

	t.Run("upstream message preserved on unknown errors", func(t *testing.T) {
		client, _ := newWhisperTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":"boom","message":"backend exploded"}}`))
		})
		_, err := client.Transcribe(context.Background(), wavInput("bytes"))
		require.Error(t, err)
		assert.Contains(t, MessageOf(err), "backend exploded")
	})
}

func TestWhisperClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewWhisperClient(config.AzureOpenAIConfig{
		APIKey:     "k",
		Endpoint:   srv.URL,
		Deployment: "whisper",
		APIVersion: "2024-06-01",
		TimeoutSec: 1,
	}, zerolog.Nop())

	_, err := client.Transcribe(context.Background(), wavInput("bytes"))
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestDecodeTranscriptionCompleteRecord(t *testing.T) {
	// A successful decode is all-or-nothing: text always set, optional fields
	// carried when present.
	payload, _ := json.Marshal(map[string]any{
		"text":     "  spaced  ",
		"language": "de",
	})
	res, err := decodeTranscription(payload)
	require.NoError(t, err)
	assert.Equal(t, "  spaced  ", res.Text)
	assert.Equal(t, "de", res.Language)
	assert.Zero(t, res.Duration)
	assert.Empty(t, res.Segments)

	_, err = decodeTranscription([]byte(strings.Repeat(" ", 4)))
	require.Error(t, err)
	assert.Equal(t, KindUnexpectedResponse, KindOf(err))
}
