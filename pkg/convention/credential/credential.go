package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/linecard/bpsync/pkg/convention/config"

	"github.com/rs/zerolog/log"
)

var ErrAuthFailure = errors.New("platform authentication failed")

type VaultService interface {
	Secret(ctx context.Context, id string) (string, error)
}

type PlatformService interface {
	Login(ctx context.Context, refreshToken string) (string, error)
}

type Service struct {
	Vault    VaultService
	Platform PlatformService
}

type Convention struct {
	Config  config.Config
	Service Service
}

// FromServices builds a resolver. vault may be nil when the config uses inline tokens.
func FromServices(c config.Config, vault VaultService, platform PlatformService) Convention {
	return Convention{
		Config: c,
		Service: Service{
			Vault:    vault,
			Platform: platform,
		},
	}
}

// Resolve obtains the platform refresh token and Git token, then exchanges
// the refresh token for a bearer token.
func (c Convention) Resolve(ctx context.Context) (tokens config.Tokens, err error) {
	if c.Config.Options.UseSecretsVault {
		if tokens.PlatformRefresh, tokens.Git, err = c.fromVault(ctx); err != nil {
			return config.Tokens{}, err
		}
	} else {
		tokens.PlatformRefresh = c.Config.Inline.PlatformToken
		tokens.Git = c.Config.Inline.GitToken
	}

	if tokens.PlatformRefresh == "" {
		return config.Tokens{}, fmt.Errorf("%w: platform token is empty", config.ErrConfiguration)
	}

	if tokens.Git == "" {
		return config.Tokens{}, fmt.Errorf("%w: git token is empty", config.ErrConfiguration)
	}

	if tokens.PlatformBearer, err = c.Service.Platform.Login(ctx, tokens.PlatformRefresh); err != nil {
		return config.Tokens{}, fmt.Errorf("%w: %v", ErrAuthFailure, err)
	}

	log.Info().Bool("vault", c.Config.Options.UseSecretsVault).Msg("resolved credentials")

	return tokens, nil
}

func (c Convention) fromVault(ctx context.Context) (platform, git string, err error) {
	if c.Service.Vault == nil {
		return "", "", fmt.Errorf("%w: secrets vault is not configured", config.ErrConfiguration)
	}

	raw, err := c.Service.Vault.Secret(ctx, c.Config.Vault.PlatformSecretId)
	if err != nil {
		return "", "", err
	}
	platform = Unwrap(c.Config.Vault.PlatformSecretId, raw)

	raw, err = c.Service.Vault.Secret(ctx, c.Config.Vault.GitSecretId)
	if err != nil {
		return "", "", err
	}
	git = Unwrap(c.Config.Vault.GitSecretId, raw)

	return platform, git, nil
}

// Unwrap strips the storage envelope from a secret value. A JSON object keyed
// by the secret id, or holding a single key, yields that value; anything else
// has quotes and backslashes removed.
func Unwrap(secretId, secret string) string {
	var wrapped map[string]string
	if err := json.Unmarshal([]byte(secret), &wrapped); err == nil {
		if v, ok := wrapped[secretId]; ok {
			return v
		}

		if len(wrapped) == 1 {
			for _, v := range wrapped {
				return v
			}
		}
	}

	return strings.NewReplacer(`"`, "", `\`, "").Replace(strings.TrimSpace(secret))
}
