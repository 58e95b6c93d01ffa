package azureai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"linguaflow/internal/config"
	"linguaflow/internal/media"
	"linguaflow/internal/model"
)

// Input is one media upload handed to the transcription service.
type Input struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Transcriber converts speech in audio/video media to text.
type Transcriber interface {
	Transcribe(ctx context.Context, in Input) (*model.TranscriptionResult, error)
}

// serviceExtensions is the format set the Whisper deployment itself accepts.
// It is broader than the upload validator's set: mp4, mpeg, and mpga are
// accepted here even though the dashboard never offers them.
var serviceExtensions = map[string]struct{}{
	"mp3": {}, "wav": {}, "m4a": {}, "aac": {}, "ogg": {}, "flac": {},
	"wma": {}, "webm": {}, "mp4": {}, "mpeg": {}, "mpga": {}, "mov": {},
	"avi": {}, "mkv": {}, "m4v": {}, "wmv": {}, "flv": {},
}

var serviceContentTypes = map[string]struct{}{
	"audio/mpeg": {}, "audio/mp3": {}, "audio/wav": {}, "audio/m4a": {},
	"audio/aac": {}, "audio/ogg": {}, "audio/flac": {}, "audio/wma": {},
	"audio/webm": {}, "video/mp4": {}, "video/mpeg": {}, "video/mov": {},
	"video/avi": {}, "video/mkv": {}, "video/webm": {}, "video/m4v": {},
	"video/wmv": {}, "video/flv": {},
}

// WhisperClient calls the Azure OpenAI Whisper REST API. It holds no mutable
// state between calls and is safe for concurrent use.
type WhisperClient struct {
	httpClient *http.Client
	endpoint   string
	deployment string
	apiVersion string
	apiKey     string
	log        zerolog.Logger
}

// NewWhisperClient builds a transcription client for one Whisper deployment.
// The configured timeout bounds every call; a hung service fails the run
// instead of blocking it forever.
func NewWhisperClient(cfg config.AzureOpenAIConfig, log zerolog.Logger) *WhisperClient {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &WhisperClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		deployment: cfg.Deployment,
		apiVersion: cfg.APIVersion,
		apiKey:     cfg.APIKey,
		log:        log.With().Str("component", "whisper_client").Logger(),
	}
}

var _ Transcriber = (*WhisperClient)(nil)

// Transcribe sends the media bytes to the Whisper deployment and returns the
// normalized result. All preconditions are enforced locally first; a file that
// violates them never reaches the network.
func (c *WhisperClient) Transcribe(ctx context.Context, in Input) (*model.TranscriptionResult, error) {
	if err := validateServiceInput(in); err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", in.Filename)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "failed to build transcription request", Err: err}
	}
	if _, err := part.Write(in.Data); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "failed to build transcription request", Err: err}
	}
	// Verbose JSON carries language/duration/segments; temperature 0 keeps
	// repeated calls textually stable.
	_ = writer.WriteField("response_format", "verbose_json")
	_ = writer.WriteField("temperature", "0")
	if err := writer.Close(); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "failed to build transcription request", Err: err}
	}

	reqURL := fmt.Sprintf("%s/openai/deployments/%s/audio/transcriptions?api-version=%s",
		c.endpoint, url.PathEscape(c.deployment), url.QueryEscape(c.apiVersion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "failed to build transcription request", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("api-key", c.apiKey)

	c.log.Info().Str("filename", in.Filename).Int("size", len(in.Data)).Msg("sending transcription request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "unable to reach the transcription service", Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "failed to read the transcription response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, payload)
	}

	result, err := decodeTranscription(payload)
	if err != nil {
		return nil, err
	}

	c.log.Info().Int("chars", len(result.Text)).Str("language", result.Language).Msg("transcription completed")
	return result, nil
}

// validateServiceInput enforces the Whisper service's own constraints locally
// so violations fail fast without a network round-trip.
func validateServiceInput(in Input) error {
	if in.Filename == "" || in.Data == nil {
		return NewError(KindValidation, "no audio file provided")
	}
	if len(in.Data) == 0 {
		return NewError(KindValidation, "audio file is empty")
	}
	if int64(len(in.Data)) > media.MaxUploadBytes {
		return NewError(KindValidation, "file size (%.2fMB) exceeds the maximum limit of 25MB",
			float64(len(in.Data))/1024/1024)
	}

	ext := media.Extension(in.Filename)
	if _, ok := serviceExtensions[ext]; ok {
		return nil
	}
	if _, ok := serviceContentTypes[strings.ToLower(in.ContentType)]; ok {
		return nil
	}
	return NewError(KindValidation,
		"unsupported file type: %s. Supported formats: mp3, wav, m4a, aac, ogg, flac, wma, webm, mp4, mpeg, mpga, mov, avi, mkv, m4v, wmv, flv",
		firstNonEmpty(in.ContentType, ext))
}

// whisperVerbose is the structured (verbose_json) response shape.
type whisperVerbose struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// decodeTranscription normalizes the service's two response shapes (a bare
// string, or a structured object with a text field) into one complete result.
// Anything else is an unexpected_response failure.
func decodeTranscription(payload []byte) (*model.TranscriptionResult, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, NewError(KindUnexpectedResponse, "transcription service returned an empty response")
	}

	switch trimmed[0] {
	case '{':
		var verbose whisperVerbose
		if err := json.Unmarshal(trimmed, &verbose); err != nil || verbose.Text == "" {
			return nil, NewError(KindUnexpectedResponse, "transcription service replied in an unrecognized shape")
		}
		result := &model.TranscriptionResult{
			Text:     verbose.Text,
			Language: verbose.Language,
			Duration: verbose.Duration,
		}
		for _, seg := range verbose.Segments {
			result.Segments = append(result.Segments, model.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
		}
		return result, nil

	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil || text == "" {
			return nil, NewError(KindUnexpectedResponse, "transcription service replied in an unrecognized shape")
		}
		return &model.TranscriptionResult{Text: text}, nil

	case '[':
		return nil, NewError(KindUnexpectedResponse, "transcription service replied in an unrecognized shape")

	default:
		// Plain-text response format: the body itself is the transcript.
		return &model.TranscriptionResult{Text: string(trimmed)}, nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return "unknown"
}
