package media

import (
	"fmt"
	"strings"

	"linguaflow/internal/model"
)

// MaxUploadBytes is the per-request size ceiling applied to every upload,
// regardless of modality.
const MaxUploadBytes = 25 * 1024 * 1024

var documentExtensions = map[string]struct{}{
	"txt": {}, "doc": {}, "docx": {}, "pdf": {},
}

var audioExtensions = map[string]struct{}{
	"mp3": {}, "wav": {}, "m4a": {}, "aac": {},
	"ogg": {}, "flac": {}, "wma": {}, "webm": {},
}

var videoExtensions = map[string]struct{}{
	"mp4": {}, "mov": {}, "avi": {}, "mkv": {},
	"webm": {}, "m4v": {}, "wmv": {}, "flv": {},
}

// Extension returns the lower-cased extension of filename without the dot,
// or "" when the name carries no extension.
func Extension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// Classify derives the modality of a file from its extension alone. A missing
// or unknown extension is a normal classification outcome, not an error.
// Extensions present in more than one set (webm) resolve in document, audio,
// video order.
func Classify(filename string) model.Modality {
	ext := Extension(filename)
	if ext == "" {
		return model.ModalityUnsupported
	}
	if _, ok := documentExtensions[ext]; ok {
		return model.ModalityDocument
	}
	if _, ok := audioExtensions[ext]; ok {
		return model.ModalityAudio
	}
	if _, ok := videoExtensions[ext]; ok {
		return model.ModalityVideo
	}
	return model.ModalityUnsupported
}

// Outcome is the result of validating one file against its modality policy.
// Reason is written to be shown verbatim to the end user.
type Outcome struct {
	Accepted bool
	Reason   string
}

func accept() Outcome {
	return Outcome{Accepted: true}
}

func reject(format string, args ...any) Outcome {
	return Outcome{Accepted: false, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks a classified file against the modality's size and format
// policy. Size checks are strict: a file exactly at the limit is accepted.
func Validate(filename string, size int64, m model.Modality) Outcome {
	ext := Extension(filename)

	switch m {
	case model.ModalityDocument:
		if ext == "pdf" {
			return reject("PDF files are not supported. Please convert the document to txt, doc, or docx first")
		}
		if size > MaxUploadBytes {
			return reject("file size (%s) exceeds the maximum limit of 25MB", formatSize(size))
		}
		return accept()

	case model.ModalityAudio:
		if size > MaxUploadBytes {
			return reject("audio file size (%s) exceeds the maximum limit of 25MB", formatSize(size))
		}
		return accept()

	case model.ModalityVideo:
		if size > MaxUploadBytes {
			return reject("video file size (%s) exceeds the maximum limit of 25MB", formatSize(size))
		}
		return accept()

	default:
		if ext == "" {
			return reject("file has no extension")
		}
		return reject("unsupported file format: %s. Supported formats: txt, doc, docx, mp3, wav, m4a, aac, ogg, flac, wma, webm, mp4, mov, avi, mkv, m4v, wmv, flv", ext)
	}
}

func formatSize(size int64) string {
	return fmt.Sprintf("%.2fMB", float64(size)/1024/1024)
}
