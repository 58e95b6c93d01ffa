package model

import "time"

// Modality is the coarse file category that selects the extraction path.
type Modality string

const (
	ModalityDocument    Modality = "document"
	ModalityAudio       Modality = "audio"
	ModalityVideo       Modality = "video"
	ModalityUnsupported Modality = "unsupported"
)

// Segment is one timestamped piece of a transcription.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptionResult is the normalized output of one speech-to-text call.
// It is either fully populated (Text always set) or never produced at all.
type TranscriptionResult struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Duration float64   `json:"duration,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// TranslationResult is the output of one translation call.
type TranslationResult struct {
	TranslatedText   string `json:"translatedText"`
	OriginalLength   int    `json:"originalLength"`
	TranslatedLength int    `json:"translatedLength"`
	TargetLanguage   string `json:"targetLanguage"`
	Model            string `json:"model"`
}

// RunStatus is the terminal outcome of a pipeline run.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the persisted record of one end-to-end pipeline invocation.
type Run struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename,omitempty"`
	Modality         string    `json:"modality"`
	TargetLanguage   string    `json:"target_language"`
	OriginalLength   int       `json:"original_length"`
	TranslatedLength int       `json:"translated_length"`
	Status           RunStatus `json:"status"`
	ErrorCode        string    `json:"error_code,omitempty"`
	StoragePath      string    `json:"storage_path,omitempty"`
	DurationMs       int64     `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}
