package mock

import (
	"context"

	"github.com/linecard/bpsync/pkg/convention/repository"

	"github.com/stretchr/testify/mock"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Lookup(ctx context.Context, path string) (repository.File, repository.Existence, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(repository.File), args.Get(1).(repository.Existence), args.Error(2)
}

func (m *MockFileService) Create(ctx context.Context, path, content string, commit repository.Commit) error {
	args := m.Called(ctx, path, content, commit)
	return args.Error(0)
}

func (m *MockFileService) Update(ctx context.Context, path, content string, commit repository.Commit) error {
	args := m.Called(ctx, path, content, commit)
	return args.Error(0)
}

func (m *MockFileService) Delete(ctx context.Context, path string, commit repository.Commit) error {
	args := m.Called(ctx, path, commit)
	return args.Error(0)
}
