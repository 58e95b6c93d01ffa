package azureai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"linguaflow/internal/config"
	"linguaflow/internal/model"
)

// MaxTranslationChars is the input ceiling for one translation request,
// enforced at the HTTP boundary and again inside the client.
const MaxTranslationChars = 50000

// Translator converts text into a named target language.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (*model.TranslationResult, error)
}

// TranslatorClient calls the Azure OpenAI chat-completions REST API. It is
// stateless between calls and safe for concurrent use.
type TranslatorClient struct {
	httpClient *http.Client
	endpoint   string
	deployment string
	apiVersion string
	apiKey     string
	log        zerolog.Logger
}

// NewTranslatorClient builds a translation client for one chat-completion
// deployment.
func NewTranslatorClient(cfg config.AzureOpenAIConfig, log zerolog.Logger) *TranslatorClient {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &TranslatorClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		deployment: cfg.Deployment,
		apiVersion: cfg.APIVersion,
		apiKey:     cfg.APIKey,
		log:        log.With().Str("component", "translator_client").Logger(),
	}
}

var _ Translator = (*TranslatorClient)(nil)

const systemPromptTemplate = `You are an expert professional translator with deep knowledge of linguistics, cultural nuances, and context preservation.

Your task is to translate text to %s with the following requirements:
1. Maintain the original meaning and tone precisely
2. Preserve formatting, structure, and any special characters
3. Consider cultural context and idiomatic expressions
4. For technical or specialized content, use appropriate terminology
5. Return ONLY the translated text without explanations, notes, or additional content

Translation target: %s`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest deliberately omits temperature: the target model only supports
// its default decoding setting and rejects overrides.
type chatRequest struct {
	Messages            []chatMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Translate sends text to the translator deployment and returns the full
// result. OriginalLength is computed on the untrimmed input.
func (c *TranslatorClient) Translate(ctx context.Context, text, targetLanguage string) (*model.TranslationResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewError(KindValidation, "text to translate cannot be empty")
	}
	if targetLanguage == "" {
		return nil, NewError(KindValidation, "target language must be specified")
	}
	originalLength := utf8.RuneCountInString(text)
	if originalLength > MaxTranslationChars {
		return nil, NewError(KindValidation, "text is too long; limit input to 50,000 characters")
	}

	payload := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(systemPromptTemplate, targetLanguage, targetLanguage)},
			{Role: "user", Content: fmt.Sprintf("Translate this text to %s:\n\n%s", targetLanguage, text)},
		},
		MaxCompletionTokens: 100000,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "failed to build translation request", Err: err}
	}

	reqURL := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, url.PathEscape(c.deployment), url.QueryEscape(c.apiVersion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "failed to build translation request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	c.log.Info().Str("target_language", targetLanguage).Int("chars", originalLength).Msg("sending translation request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "unable to reach the translation service", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "failed to read the translation response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, body)
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, NewError(KindUnexpectedResponse, "translation service replied in an unrecognized shape")
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return nil, NewError(KindUnexpectedResponse, "no translation received from the translation service")
	}

	translated := strings.TrimSpace(decoded.Choices[0].Message.Content)
	result := &model.TranslationResult{
		TranslatedText:   translated,
		OriginalLength:   originalLength,
		TranslatedLength: utf8.RuneCountInString(translated),
		TargetLanguage:   targetLanguage,
		Model:            firstNonEmpty(decoded.Model, c.deployment),
	}

	c.log.Info().Int("translated_chars", result.TranslatedLength).Msg("translation completed")
	return result, nil
}
