package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"linguaflow/internal/media"
)

var (
	// ErrEmptyDocument means the decoded content held no readable text.
	ErrEmptyDocument = errors.New("document contains no readable text")
	// ErrParseFailed means a structured-format parse failed (corrupt binary).
	ErrParseFailed = errors.New("failed to parse document")
)

// WordExtractor is the external binary-to-text capability for word-processor
// formats. The meta map carries non-fatal extraction context; it is logged,
// never surfaced.
type WordExtractor interface {
	ExtractDocx(r io.Reader) (text string, meta map[string]string, err error)
	ExtractDoc(r io.Reader) (text string, meta map[string]string, err error)
}

// Extractor converts document bytes to plain text.
type Extractor struct {
	word WordExtractor
	log  zerolog.Logger
}

// NewExtractor builds a document extractor delegating word-processor formats
// to the given capability.
func NewExtractor(word WordExtractor, log zerolog.Logger) *Extractor {
	return &Extractor{
		word: word,
		log:  log.With().Str("component", "extractor").Logger(),
	}
}

// Extract returns the plain text held in a document file.
//
// Plain text files pass through as UTF-8. Word-processor binaries go through
// the WordExtractor. Any other extension reaching this stage falls back to
// UTF-8 decoding; callers must not rely on that for binary formats.
func (e *Extractor) Extract(filename string, data []byte) (string, error) {
	ext := media.Extension(filename)

	var text string
	switch ext {
	case "txt":
		text = string(data)

	case "doc", "docx":
		var meta map[string]string
		var err error
		if ext == "docx" {
			text, meta, err = e.word.ExtractDocx(bytes.NewReader(data))
		} else {
			text, meta, err = e.word.ExtractDoc(bytes.NewReader(data))
		}
		if err != nil {
			return "", fmt.Errorf("%w: the file may be corrupted or in an unsupported format: %v", ErrParseFailed, err)
		}
		if len(meta) > 0 {
			e.log.Warn().Str("filename", filename).Interface("meta", meta).Msg("word document extraction reported warnings")
		}

	default:
		// Deliberate fallback, not a validated contract.
		text = string(data)
	}

	if isBlank(text) {
		return "", fmt.Errorf("%w: the document appears to be empty", ErrEmptyDocument)
	}
	return text, nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
