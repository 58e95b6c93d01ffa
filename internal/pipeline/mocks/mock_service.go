package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"linguaflow/internal/azureai"
	"linguaflow/internal/model"
	"linguaflow/internal/pipeline"
	"linguaflow/internal/repository"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Transcribe(ctx context.Context, in azureai.Input) (*model.TranscriptionResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TranscriptionResult), args.Error(1)
}

func (m *MockService) Translate(ctx context.Context, text, targetLanguage string) (*model.TranslationResult, error) {
	args := m.Called(ctx, text, targetLanguage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TranslationResult), args.Error(1)
}

func (m *MockService) Process(ctx context.Context, req pipeline.ProcessRequest) (*pipeline.ProcessResult, error) {
	args := m.Called(ctx, req)
	// A failed run may carry a partial result alongside its error.
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.ProcessResult), args.Error(1)
}

func (m *MockService) ListRuns(ctx context.Context, limit, offset int) (*repository.PageResult[model.Run], error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Run]), args.Error(1)
}
