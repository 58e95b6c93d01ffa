package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"
)

type MockWordExtractor struct {
	mock.Mock
}

func (m *MockWordExtractor) ExtractDocx(r io.Reader) (string, map[string]string, error) {
	args := m.Called(r)
	meta, _ := args.Get(1).(map[string]string)
	return args.String(0), meta, args.Error(2)
}

func (m *MockWordExtractor) ExtractDoc(r io.Reader) (string, map[string]string, error) {
	args := m.Called(r)
	meta, _ := args.Get(1).(map[string]string)
	return args.String(0), meta, args.Error(2)
}
