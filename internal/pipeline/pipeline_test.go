package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linguaflow/internal/azureai"
	azuremocks "linguaflow/internal/azureai/mocks"
	"linguaflow/internal/model"
	. "linguaflow/internal/pipeline"
	"linguaflow/internal/pipeline/mocks"
	"linguaflow/internal/repository"
	repomocks "linguaflow/internal/repository/mocks"
	"linguaflow/internal/storage"
	storagemocks "linguaflow/internal/storage/mocks"
)

type pipelineFixture struct {
	transcriber *azuremocks.MockTranscriber
	translator  *azuremocks.MockTranslator
	extractor   *mocks.MockDocumentExtractor
	store       *storagemocks.MockStorage
	runs        *repomocks.MockRunRepository
	svc         Service
}

func newFixture() *pipelineFixture {
	f := &pipelineFixture{
		transcriber: new(azuremocks.MockTranscriber),
		translator:  new(azuremocks.MockTranslator),
		extractor:   new(mocks.MockDocumentExtractor),
		store:       new(storagemocks.MockStorage),
		runs:        new(repomocks.MockRunRepository),
	}
	f.svc = NewService(f.transcriber, f.translator, f.extractor, f.store, f.runs, zerolog.Nop())
	return f
}

func (f *pipelineFixture) allowArchival() {
	f.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, nil).Maybe()
}

func (f *pipelineFixture) expectRunRecord() {
	f.runs.On("Create", mock.Anything, mock.AnythingOfType("*model.Run")).
		Return(&model.Run{}, nil).Once()
}

func translationFor(text, target string) *model.TranslationResult {
	return &model.TranslationResult{
		TranslatedText:   "translated",
		OriginalLength:   len([]rune(text)),
		TranslatedLength: 10,
		TargetLanguage:   target,
		Model:            "gpt-test",
	}
}

func stepStatus(t *testing.T, steps []Step, id StepID) StepStatus {
	t.Helper()
	for _, st := range steps {
		if st.ID == id {
			return st.Status
		}
	}
	t.Fatalf("step %s not present in %v", id, steps)
	return ""
}

func TestProcess_TextRun(t *testing.T) {
	t.Run("success completes every step", func(t *testing.T) {
		f := newFixture()
		f.allowArchival()
		f.expectRunRecord()
		f.translator.On("Translate", mock.Anything, "Hello world", "Spanish").
			Return(translationFor("Hello world", "Spanish"), nil)

		res, err := f.svc.Process(context.Background(), ProcessRequest{
			Text:           "Hello world",
			TargetLanguage: "Spanish",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, res.RunID)
		assert.Equal(t, "text", res.SourceType)
		assert.Nil(t, res.Transcription)
		assert.Equal(t, 11, res.Translation.OriginalLength)
		for _, id := range []StepID{StepAnalyze, StepTranslate, StepComplete} {
			assert.Equal(t, StepCompleted, stepStatus(t, res.Steps, id))
		}
		f.runs.AssertExpectations(t)
	})

	t.Run("empty text fails the analyze step", func(t *testing.T) {
		f := newFixture()
		f.expectRunRecord()

		res, err := f.svc.Process(context.Background(), ProcessRequest{
			Text:           "   ",
			TargetLanguage: "Spanish",
		})

		require.Error(t, err)
		assert.Equal(t, azureai.KindValidation, azureai.KindOf(err))
		assert.Equal(t, StepError, stepStatus(t, res.Steps, StepAnalyze))
		assert.Equal(t, StepPending, stepStatus(t, res.Steps, StepTranslate))
		f.translator.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing target language is rejected before a run starts", func(t *testing.T) {
		f := newFixture()

		res, err := f.svc.Process(context.Background(), ProcessRequest{Text: "hello"})

		require.Error(t, err)
		assert.Nil(t, res)
		assert.Equal(t, azureai.KindValidation, azureai.KindOf(err))
		f.runs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("over-long text never reaches the translator", func(t *testing.T) {
		f := newFixture()
		f.expectRunRecord()

		res, err := f.svc.Process(context.Background(), ProcessRequest{
			Text:           strings.Repeat("a", azureai.MaxTranslationChars+1),
			TargetLanguage: "French",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "50,000")
		assert.Equal(t, StepError, stepStatus(t, res.Steps, StepTranslate))
		assert.Equal(t, StepCompleted, stepStatus(t, res.Steps, StepAnalyze))
		f.translator.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProcess_DocumentRun(t *testing.T) {
	t.Run("extracted text flows into translation", func(t *testing.T) {
		f := newFixture()
		f.allowArchival()
		f.expectRunRecord()
		f.extractor.On("Extract", "notes.txt", []byte("Hello world")).Return("Hello world", nil)
		f.translator.On("Translate", mock.Anything, "Hello world", "German").
			Return(translationFor("Hello world", "German"), nil)

		res, err := f.svc.Process(context.Background(), ProcessRequest{
			Filename:       "notes.txt",
			ContentType:    "text/plain",
			Data:           []byte("Hello world"),
			TargetLanguage: "German",
		})

		require.NoError(t, err)
		assert.Equal(t, "document", res.SourceType)
		assert.Nil(t, res.Transcription)
		for _, id := range []StepID{StepUpload, StepTranslate, StepComplete} {
			assert.Equal(t, StepCompleted, stepStatus(t, res.Steps, id))
		}
		f.transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
	})

	t.Run("pdf is rejected at the upload step", func(t *testing.T) {
		f := newFixture()
		f.expectRunRecord()

		res, err := f.svc.Process(context.Background(), ProcessRequest{
			Filename:       "report.pdf",
			Data:           []byte("%PDF-1.4"),
			TargetLanguage: "German",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "PDF files are not supported")
		assert.Equal(t, StepError, stepStatus(t, res.Steps, StepUpload))
		f.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	})

	t.Run("corrupt document fails the upload step", func(t *testing.T) {
		f := newFixture()
		f.allowArchival()
		f.expectRunRecord()
		f.extractor.On("Extract", "broken.docx", mock.Anything).
			Return("", errors.New("failed to parse document"))

		res, err := f.svc.Process(context.Background(), ProcessRequest{
			Filename:       "broken.docx",
			Data:           []byte("not-a-docx"),
			TargetLanguage: "German",
		})

		require.Error(t, err)
		assert.Equal(t, azureai.KindValidation, azureai.KindOf(err))
		assert.Equal(t, StepError, stepStatus(t, res.Steps, StepUpload))
		f.translator.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProcess_MediaRun(t *testing.T) {
	t.Run("audio run transcribes then translates", func(t *testing.T) {
		f := newFixture()
		f.allowArchival()
		f.expectRunRecord()
		f.transcriber.On("Transcribe", mock.Anything, mock.MatchedBy(func(in azureai.Input) bool {
			return in.Filename == "speech.mp3"
		})).Return(&model.TranscriptionResult{Text: "spoken words", Language: "en"}, nil)
		f.translator.On("Translate", mock.Anything, "spoken words", "Japanese").
			Return(translationFor("spoken words", "Japanese"), nil)

		res, err := f.svc.Process(context.Background(), ProcessRequest{
			Filename:       "speech.mp3",
			ContentType:    "audio/mpeg",
			Data:           []byte("mp3-bytes"),
			TargetLanguage: "Japanese",
		})

		require.NoError(t, err)
		assert.Equal(t, "audio", res.SourceType)
		require.NotNil(t, res.Transcription)
		assert.Equal(t, "spoken words", res.Transcription.Text)
		for _, id := range []StepID{StepUpload, StepTranscribe, StepTranslate, StepComplete} {
			assert.Equal(t, StepCompleted, stepStatus(t, res.Steps, id))
		}
	})

	t.Run("oversized audio never reaches the transcriber", func(t *testing.T) {
		f := newFixture()
		f.expectRunRecord()

		res, err := f.svc.Process(context.Background(), ProcessRequest{
			Filename:       "big.wav",
			Data:           make([]byte, 30*1024*1024),
			TargetLanguage: "Spanish",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds the maximum limit of 25MB")
		assert.Equal(t, StepError, stepStatus(t, res.Steps, StepUpload))
		f.transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
	})

	t.Run("rate-limited transcription fails the transcribe step", func(t *testing.T) {
		f := newFixture()
		f.allowArchival()
		f.expectRunRecord()
		f.transcriber.On("Transcribe", mock.Anything, mock.Anything).
			Return(nil, azureai.NewError(azureai.KindRateLimited, "too many requests; please wait a moment and try again"))

		res, err := f.svc.Process(context.Background(), ProcessRequest{
			Filename:       "talk.mp4",
			ContentType:    "video/mp4",
			Data:           []byte("mp4-bytes"),
			TargetLanguage: "Spanish",
		})

		require.Error(t, err)
		assert.Equal(t, azureai.KindRateLimited, azureai.KindOf(err))
		assert.Equal(t, StepCompleted, stepStatus(t, res.Steps, StepUpload))
		assert.Equal(t, StepError, stepStatus(t, res.Steps, StepTranscribe))
		assert.Equal(t, StepPending, stepStatus(t, res.Steps, StepTranslate))
		f.translator.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything)

		f.runs.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(run *model.Run) bool {
			return run.Status == model.RunStatusFailed && run.ErrorCode == "rate_limited"
		}))
	})
}

func TestProcess_SideEffects(t *testing.T) {
	t.Run("storage failure does not abort the run", func(t *testing.T) {
		f := newFixture()
		f.expectRunRecord()
		f.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("bucket unavailable"))
		f.extractor.On("Extract", "notes.txt", mock.Anything).Return("Hello world", nil)
		f.translator.On("Translate", mock.Anything, "Hello world", "Spanish").
			Return(translationFor("Hello world", "Spanish"), nil)

		_, err := f.svc.Process(context.Background(), ProcessRequest{
			Filename:       "notes.txt",
			Data:           []byte("Hello world"),
			TargetLanguage: "Spanish",
		})

		require.NoError(t, err)
	})

	t.Run("runs work without storage or history", func(t *testing.T) {
		translator := new(azuremocks.MockTranslator)
		translator.On("Translate", mock.Anything, "hello", "Spanish").
			Return(translationFor("hello", "Spanish"), nil)
		svc := NewService(nil, translator, nil, nil, nil, zerolog.Nop())

		res, err := svc.Process(context.Background(), ProcessRequest{
			Text:           "hello",
			TargetLanguage: "Spanish",
		})

		require.NoError(t, err)
		assert.NotNil(t, res.Translation)
	})

	t.Run("completed run record carries lengths and timing", func(t *testing.T) {
		f := newFixture()
		f.allowArchival()
		f.runs.On("Create", mock.Anything, mock.MatchedBy(func(run *model.Run) bool {
			return run.Status == model.RunStatusCompleted &&
				run.Modality == "text" &&
				run.TargetLanguage == "Spanish" &&
				run.OriginalLength == 11
		})).Return(&model.Run{}, nil).Once()
		f.translator.On("Translate", mock.Anything, "Hello world", "Spanish").
			Return(translationFor("Hello world", "Spanish"), nil)

		_, err := f.svc.Process(context.Background(), ProcessRequest{
			Text:           "Hello world",
			TargetLanguage: "Spanish",
		})

		require.NoError(t, err)
		f.runs.AssertExpectations(t)
	})
}

func TestListRuns(t *testing.T) {
	t.Run("defaults apply to limit and offset", func(t *testing.T) {
		f := newFixture()
		f.runs.On("List", mock.Anything, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.Run]{Items: []model.Run{}, Total: 0}, nil)

		_, err := f.svc.ListRuns(context.Background(), 0, -5)

		require.NoError(t, err)
		f.runs.AssertExpectations(t)
	})

	t.Run("limit is capped", func(t *testing.T) {
		f := newFixture()
		f.runs.On("List", mock.Anything, repository.PageQuery{Limit: 100, Offset: 20}).
			Return(&repository.PageResult[model.Run]{Items: []model.Run{}, Total: 0}, nil)

		_, err := f.svc.ListRuns(context.Background(), 500, 20)

		require.NoError(t, err)
		f.runs.AssertExpectations(t)
	})

	t.Run("nil repository yields an empty page", func(t *testing.T) {
		svc := NewService(nil, nil, nil, nil, nil, zerolog.Nop())

		page, err := svc.ListRuns(context.Background(), 10, 0)

		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})
}
