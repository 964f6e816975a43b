package mock

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockVaultService struct {
	mock.Mock
}

func (m *MockVaultService) Secret(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
