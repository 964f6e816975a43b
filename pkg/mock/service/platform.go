package mock

import (
	"context"

	"github.com/linecard/bpsync/pkg/service/platform"

	"github.com/stretchr/testify/mock"
)

type MockPlatformService struct {
	mock.Mock
}

func (m *MockPlatformService) Login(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockPlatformService) Blueprint(ctx context.Context, bearerToken, id string) (platform.Blueprint, error) {
	args := m.Called(ctx, bearerToken, id)
	return args.Get(0).(platform.Blueprint), args.Error(1)
}
