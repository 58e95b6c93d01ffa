package pipeline

import (
	"bytes"
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"linguaflow/internal/azureai"
	"linguaflow/internal/media"
	"linguaflow/internal/model"
	"linguaflow/internal/repository"
	"linguaflow/internal/storage"
)

// DocumentExtractor converts document bytes to plain text.
type DocumentExtractor interface {
	Extract(filename string, data []byte) (string, error)
}

// ProcessRequest describes one run. Either Text is set (direct text run) or
// Filename/Data are set (file run); the two are mutually exclusive.
type ProcessRequest struct {
	Text           string
	Filename       string
	ContentType    string
	Data           []byte
	TargetLanguage string
}

// ProcessResult is the outcome of one run. On failure the result still carries
// the run ID, the step timeline, and the elapsed time alongside the error.
type ProcessResult struct {
	RunID         string                     `json:"runId"`
	SourceType    string                     `json:"sourceType"`
	Transcription *model.TranscriptionResult `json:"transcription,omitempty"`
	Translation   *model.TranslationResult   `json:"translation,omitempty"`
	Steps         []Step                     `json:"steps"`
	ElapsedMs     int64                      `json:"elapsedMs"`
}

// Service is the pipeline orchestrator: it validates input, routes it through
// extraction or transcription, and hands the resulting text to translation.
type Service interface {
	Transcribe(ctx context.Context, in azureai.Input) (*model.TranscriptionResult, error)
	Translate(ctx context.Context, text, targetLanguage string) (*model.TranslationResult, error)
	Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error)
	ListRuns(ctx context.Context, limit, offset int) (*repository.PageResult[model.Run], error)
}

type service struct {
	transcriber azureai.Transcriber
	translator  azureai.Translator
	extractor   DocumentExtractor
	store       storage.Storage
	runs        repository.RunRepository
	log         zerolog.Logger
}

// NewService builds the orchestrator. store and runs may be nil; artifact
// archival and run history are then skipped.
func NewService(
	transcriber azureai.Transcriber,
	translator azureai.Translator,
	extractor DocumentExtractor,
	store storage.Storage,
	runs repository.RunRepository,
	log zerolog.Logger,
) Service {
	return &service{
		transcriber: transcriber,
		translator:  translator,
		extractor:   extractor,
		store:       store,
		runs:        runs,
		log:         log.With().Str("component", "pipeline").Logger(),
	}
}

// Transcribe forwards one media upload to the transcription client.
func (s *service) Transcribe(ctx context.Context, in azureai.Input) (*model.TranscriptionResult, error) {
	return s.transcriber.Transcribe(ctx, in)
}

// Translate forwards text to the translation client.
func (s *service) Translate(ctx context.Context, text, targetLanguage string) (*model.TranslationResult, error) {
	return s.translator.Translate(ctx, text, targetLanguage)
}

// Process runs the full pipeline for one input. Every call starts from a fresh
// timeline; nothing carries over from previous runs.
func (s *service) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	if strings.TrimSpace(req.TargetLanguage) == "" {
		return nil, azureai.NewError(azureai.KindValidation, "target language must be specified")
	}

	start := time.Now()
	if req.Filename == "" && len(req.Data) == 0 {
		return s.processText(ctx, start, req)
	}
	return s.processFile(ctx, start, req)
}

func (s *service) processText(ctx context.Context, start time.Time, req ProcessRequest) (*ProcessResult, error) {
	prog := NewTextProgress()
	res := &ProcessResult{RunID: uuid.New().String(), SourceType: "text"}
	run := &model.Run{
		ID:             res.RunID,
		Modality:       "text",
		TargetLanguage: req.TargetLanguage,
		CreatedAt:      start.UTC(),
	}

	if strings.TrimSpace(req.Text) == "" {
		return s.fail(ctx, res, prog, run, start,
			azureai.NewError(azureai.KindValidation, "text to translate cannot be empty"))
	}
	prog.Advance() // analyze done, translate active

	return s.translateAndFinish(ctx, res, prog, run, start, req.Text, req.TargetLanguage)
}

func (s *service) processFile(ctx context.Context, start time.Time, req ProcessRequest) (*ProcessResult, error) {
	modality := media.Classify(req.Filename)
	needsTranscription := modality == model.ModalityAudio || modality == model.ModalityVideo

	prog := NewFileProgress(needsTranscription)
	res := &ProcessResult{RunID: uuid.New().String(), SourceType: string(modality)}
	run := &model.Run{
		ID:             res.RunID,
		Filename:       req.Filename,
		Modality:       string(modality),
		TargetLanguage: req.TargetLanguage,
		CreatedAt:      start.UTC(),
	}

	if outcome := media.Validate(req.Filename, int64(len(req.Data)), modality); !outcome.Accepted {
		return s.fail(ctx, res, prog, run, start,
			azureai.NewError(azureai.KindValidation, "%s", outcome.Reason))
	}

	run.StoragePath = s.archive(ctx, storage.SourceKey(res.RunID, req.Filename), req.Data, req.ContentType)

	var text string
	if needsTranscription {
		prog.Advance() // upload done, transcribe active
		tr, err := s.transcriber.Transcribe(ctx, azureai.Input{
			Filename:    req.Filename,
			ContentType: req.ContentType,
			Data:        req.Data,
		})
		if err != nil {
			return s.fail(ctx, res, prog, run, start, err)
		}
		res.Transcription = tr
		text = tr.Text
		prog.Advance() // transcribe done, translate active
	} else {
		extracted, err := s.extractor.Extract(req.Filename, req.Data)
		if err != nil {
			return s.fail(ctx, res, prog, run, start,
				&azureai.Error{Kind: azureai.KindValidation, Message: err.Error(), Err: err})
		}
		text = extracted
		prog.Advance() // upload done, translate active
	}

	return s.translateAndFinish(ctx, res, prog, run, start, text, req.TargetLanguage)
}

// translateAndFinish runs the shared tail of every run: the length gate, the
// translation call, artifact archival, and the run record.
func (s *service) translateAndFinish(
	ctx context.Context,
	res *ProcessResult,
	prog *Progress,
	run *model.Run,
	start time.Time,
	text, targetLanguage string,
) (*ProcessResult, error) {
	// The gate sits in front of the translation client so an over-long input
	// never issues a request.
	if utf8.RuneCountInString(text) > azureai.MaxTranslationChars {
		return s.fail(ctx, res, prog, run, start,
			azureai.NewError(azureai.KindValidation, "text is too long; limit input to 50,000 characters"))
	}

	translation, err := s.translator.Translate(ctx, text, targetLanguage)
	if err != nil {
		return s.fail(ctx, res, prog, run, start, err)
	}
	res.Translation = translation
	prog.Advance() // translate done, complete active

	s.archive(ctx, storage.TranslationKey(res.RunID), []byte(translation.TranslatedText), "text/plain; charset=utf-8")
	prog.Advance() // complete done

	res.Steps = prog.Steps()
	res.ElapsedMs = time.Since(start).Milliseconds()

	run.OriginalLength = translation.OriginalLength
	run.TranslatedLength = translation.TranslatedLength
	run.Status = model.RunStatusCompleted
	run.DurationMs = res.ElapsedMs
	s.saveRun(ctx, run)

	s.log.Info().
		Str("run_id", res.RunID).
		Str("source_type", res.SourceType).
		Int64("elapsed_ms", res.ElapsedMs).
		Msg("run completed")
	return res, nil
}

// fail marks the active step as errored, records the failed run, and returns
// the partial result alongside the error.
func (s *service) fail(
	ctx context.Context,
	res *ProcessResult,
	prog *Progress,
	run *model.Run,
	start time.Time,
	err error,
) (*ProcessResult, error) {
	prog.Fail()
	res.Steps = prog.Steps()
	res.ElapsedMs = time.Since(start).Milliseconds()

	run.Status = model.RunStatusFailed
	run.ErrorCode = string(azureai.KindOf(err))
	run.DurationMs = res.ElapsedMs
	s.saveRun(ctx, run)

	s.log.Warn().
		Str("run_id", res.RunID).
		Str("error_code", run.ErrorCode).
		Err(err).
		Msg("run failed")
	return res, err
}

// archive uploads a run artifact. Archival is best effort: a storage failure
// is logged and the run continues.
func (s *service) archive(ctx context.Context, key string, data []byte, contentType string) string {
	if s.store == nil {
		return ""
	}
	_, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentType,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to archive run artifact")
		return ""
	}
	return key
}

func (s *service) saveRun(ctx context.Context, run *model.Run) {
	if s.runs == nil {
		return
	}
	if _, err := s.runs.Create(ctx, run); err != nil {
		s.log.Error().Err(err).Str("run_id", run.ID).Msg("failed to record run")
	}
}

// ListRuns returns a page of run history, newest first.
func (s *service) ListRuns(ctx context.Context, limit, offset int) (*repository.PageResult[model.Run], error) {
	if s.runs == nil {
		return &repository.PageResult[model.Run]{Items: []model.Run{}}, nil
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.runs.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
}
