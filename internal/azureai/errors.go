package azureai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a pipeline failure. The values double as the machine-readable
// `code` field in HTTP error responses.
type Kind string

const (
	// KindValidation marks bad input caught locally, before any network call.
	KindValidation Kind = "validation_error"
	// KindAuth marks rejected credentials at an external service.
	KindAuth Kind = "auth_error"
	// KindConfig marks a misconfigured deployment, model, or parameter.
	KindConfig Kind = "config_error"
	// KindRateLimited marks a 429; the caller may retry later, this layer never does.
	KindRateLimited Kind = "rate_limited"
	// KindQuotaExceeded marks a billing or usage cap.
	KindQuotaExceeded Kind = "quota_exceeded"
	// KindContentFiltered marks content refused by the provider.
	KindContentFiltered Kind = "content_filtered"
	// KindBadRequest marks a request the service itself rejected as malformed.
	KindBadRequest Kind = "bad_request"
	// KindNetwork marks an unreachable service or timed-out connection.
	KindNetwork Kind = "network_error"
	// KindUnexpectedResponse marks a reply in an unrecognized shape.
	KindUnexpectedResponse Kind = "unexpected_response"
	// KindUnknown is the catch-all; the upstream message is preserved for diagnostics.
	KindUnknown Kind = "unknown_error"
)

// Error is the single error type crossing the client boundary. Message is
// human-readable and safe to display; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified error with a formatted message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, or KindUnknown when err was produced
// outside this taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf extracts the displayable message from err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// apiErrorBody is the error envelope Azure OpenAI returns on failure.
type apiErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// decodeAPIError maps an Azure OpenAI failure response onto the local
// taxonomy. Status takes precedence; the error code refines ambiguous cases.
func decodeAPIError(status int, body []byte) *Error {
	var envelope apiErrorBody
	_ = json.Unmarshal(body, &envelope)
	code := envelope.Error.Code
	message := envelope.Error.Message
	if message == "" {
		message = strings.TrimSpace(string(body))
	}

	switch {
	case status == http.StatusUnauthorized || code == "invalid_api_key" || code == "401":
		return &Error{Kind: KindAuth, Message: "invalid Azure OpenAI API key or endpoint; verify the service credentials"}
	case status == http.StatusNotFound || code == "DeploymentNotFound":
		return &Error{Kind: KindConfig, Message: "Azure OpenAI deployment not found; verify the deployment name"}
	case status == http.StatusTooManyRequests || code == "rate_limit_exceeded" || code == "429":
		return &Error{Kind: KindRateLimited, Message: "rate limit exceeded; wait a moment and try again"}
	case code == "insufficient_quota":
		return &Error{Kind: KindQuotaExceeded, Message: "Azure OpenAI quota exceeded; check your subscription"}
	case code == "content_filter" || code == "content_policy_violation":
		return &Error{Kind: KindContentFiltered, Message: "content was filtered by Azure OpenAI; try different input"}
	case code == "unknown_parameter" || code == "unsupported_parameter" || strings.Contains(message, "Unsupported value"):
		return &Error{Kind: KindConfig, Message: "the model rejected a request parameter; check the deployment configuration"}
	case status == http.StatusBadRequest:
		return &Error{Kind: KindBadRequest, Message: upstreamMessage(message, "the service rejected the request")}
	default:
		return &Error{Kind: KindUnknown, Message: upstreamMessage(message, fmt.Sprintf("Azure OpenAI request failed with status %d", status))}
	}
}

func upstreamMessage(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
