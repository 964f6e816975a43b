package credential

import (
	"context"
	"fmt"
	"testing"

	"github.com/linecard/bpsync/pkg/convention/config"
	servicemock "github.com/linecard/bpsync/pkg/mock/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestResolve(t *testing.T) {
	ctx := context.Background()

	inline := config.Config{
		Inline: config.Inline{PlatformToken: "refresh", GitToken: "git"},
	}

	vault := config.Config{
		Options: config.Options{UseSecretsVault: true},
		Vault:   config.Vault{Region: "us-west-2", PlatformSecretId: "platform", GitSecretId: "gitlab"},
	}

	tests := []struct {
		name   string
		config config.Config
		setup  func(*servicemock.MockVaultService, *servicemock.MockPlatformService)
		test   func(*testing.T, Convention)
	}{
		{
			name:   "Inline tokens pass through to login",
			config: inline,
			setup: func(mvs *servicemock.MockVaultService, mps *servicemock.MockPlatformService) {
				mps.On("Login", mock.Anything, "refresh").Return("bearer", nil)
			},
			test: func(t *testing.T, c Convention) {
				tokens, err := c.Resolve(ctx)
				assert.NoError(t, err)
				assert.Equal(t, config.Tokens{PlatformRefresh: "refresh", PlatformBearer: "bearer", Git: "git"}, tokens)
			},
		},
		{
			name:   "Vault secrets are unwrapped",
			config: vault,
			setup: func(mvs *servicemock.MockVaultService, mps *servicemock.MockPlatformService) {
				mvs.On("Secret", mock.Anything, "platform").Return(`{"platform":"refresh"}`, nil)
				mvs.On("Secret", mock.Anything, "gitlab").Return(`"git"`, nil)
				mps.On("Login", mock.Anything, "refresh").Return("bearer", nil)
			},
			test: func(t *testing.T, c Convention) {
				tokens, err := c.Resolve(ctx)
				assert.NoError(t, err)
				assert.Equal(t, config.Tokens{PlatformRefresh: "refresh", PlatformBearer: "bearer", Git: "git"}, tokens)
			},
		},
		{
			name:   "Vault errors abort before login",
			config: vault,
			setup: func(mvs *servicemock.MockVaultService, mps *servicemock.MockPlatformService) {
				mvs.On("Secret", mock.Anything, "platform").Return("", fmt.Errorf("access denied"))
			},
			test: func(t *testing.T, c Convention) {
				_, err := c.Resolve(ctx)
				assert.ErrorContains(t, err, "access denied")
			},
		},
		{
			name:   "Login failures are auth failures",
			config: inline,
			setup: func(mvs *servicemock.MockVaultService, mps *servicemock.MockPlatformService) {
				mps.On("Login", mock.Anything, "refresh").Return("", fmt.Errorf("login returned status 400"))
			},
			test: func(t *testing.T, c Convention) {
				tokens, err := c.Resolve(ctx)
				assert.ErrorIs(t, err, ErrAuthFailure)
				assert.Empty(t, tokens.PlatformBearer)
			},
		},
		{
			name:   "Empty tokens are configuration errors",
			config: config.Config{Inline: config.Inline{PlatformToken: "refresh"}},
			setup:  func(mvs *servicemock.MockVaultService, mps *servicemock.MockPlatformService) {},
			test: func(t *testing.T, c Convention) {
				_, err := c.Resolve(ctx)
				assert.ErrorIs(t, err, config.ErrConfiguration)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mvs := &servicemock.MockVaultService{}
			mps := &servicemock.MockPlatformService{}
			tc.setup(mvs, mps)

			tc.test(t, FromServices(tc.config, mvs, mps))

			mvs.AssertExpectations(t)
			mps.AssertExpectations(t)
		})
	}
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name     string
		secretId string
		secret   string
		expected string
	}{
		{"keyed by secret id", "platform", `{"platform":"abc"}`, "abc"},
		{"single other key", "platform", `{"token":"abc"}`, "abc"},
		{"quoted string", "platform", `"abc"`, "abc"},
		{"escaped quotes", "platform", `\"abc\"`, "abc"},
		{"bare string", "platform", "abc", "abc"},
		{"multiple keys without id", "platform", `{"a":"1","b":"2"}`, "{a:1,b:2}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Unwrap(tc.secretId, tc.secret))
		})
	}
}
