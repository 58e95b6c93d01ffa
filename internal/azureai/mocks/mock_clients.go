package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"linguaflow/internal/azureai"
	"linguaflow/internal/model"
)

type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, in azureai.Input) (*model.TranscriptionResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TranscriptionResult), args.Error(1)
}

type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Translate(ctx context.Context, text, targetLanguage string) (*model.TranslationResult, error) {
	args := m.Called(ctx, text, targetLanguage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TranslationResult), args.Error(1)
}
