package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every static input in the process environment.
const EnvPrefix = "BPSYNC"

const (
	EnvGitBranch       = EnvPrefix + "_GIT_BRANCH"
	EnvGitFolderPath   = EnvPrefix + "_GIT_FOLDER_PATH"
	EnvGitRepositoryId = EnvPrefix + "_GIT_REPOSITORY_ID"
	EnvGitBackend      = EnvPrefix + "_GIT_BACKEND"
	EnvGitRemoteUrl    = EnvPrefix + "_GIT_REMOTE_URL"
	EnvUseSecretsVault = EnvPrefix + "_USE_SECRETS_VAULT"
)

// Input is a configuration value as the platform delivers it: usually a
// string, but numbers and booleans are accepted verbatim.
type Input string

func (i *Input) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*i = Input(s)
		return nil
	}

	literal := bytes.TrimSpace(b)
	if bytes.Equal(literal, []byte("null")) {
		*i = ""
		return nil
	}

	var v interface{}
	if err := json.Unmarshal(literal, &v); err != nil {
		return err
	}

	switch v.(type) {
	case float64, bool:
		*i = Input(literal)
		return nil
	}

	return fmt.Errorf("expected a scalar, got %s", literal)
}

func (i Input) String() string {
	return string(i)
}

// Static is the set of recognized action inputs. Defaults come from the
// environment and any key present in the invocation payload overrides them.
type Static struct {
	AcceptPayloadInput   Input `json:"acceptPayloadInput" envconfig:"ACCEPT_PAYLOAD_INPUT" default:"true"`
	RunOnCustomProperty  Input `json:"runOnCustomProperty" envconfig:"RUN_ON_CUSTOM_PROPERTY" default:"false"`
	RunOnBlueprintOption Input `json:"runOnBlueprintOption" envconfig:"RUN_ON_BLUEPRINT_OPTION" default:"false"`
	UseSecretsVault      Input `json:"useSecretsVault" envconfig:"USE_SECRETS_VAULT" default:"false"`

	VaultRegion           Input `json:"vaultRegion" envconfig:"VAULT_REGION"`
	VaultPlatformSecretId Input `json:"vaultPlatformSecretId" envconfig:"VAULT_PLATFORM_SECRET_ID"`
	VaultGitSecretId      Input `json:"vaultGitSecretId" envconfig:"VAULT_GIT_SECRET_ID"`

	InlinePlatformToken Input `json:"inlinePlatformToken" envconfig:"INLINE_PLATFORM_TOKEN"`
	InlineGitToken      Input `json:"inlineGitToken" envconfig:"INLINE_GIT_TOKEN"`

	GitRepositoryId Input `json:"gitRepositoryId" envconfig:"GIT_REPOSITORY_ID"`
	GitFolderPath   Input `json:"gitFolderPath" envconfig:"GIT_FOLDER_PATH"`
	GitBranch       Input `json:"gitBranch" envconfig:"GIT_BRANCH" default:"master"`
	GitBaseUrl      Input `json:"gitBaseUrl" envconfig:"GIT_BASE_URL" default:"https://gitlab.com"`
	GitBackend      Input `json:"gitBackend" envconfig:"GIT_BACKEND" default:"api"`
	GitRemoteUrl    Input `json:"gitRemoteUrl" envconfig:"GIT_REMOTE_URL"`

	PlatformBaseUrl            Input `json:"platformBaseUrl" envconfig:"PLATFORM_BASE_URL" default:"https://api.mgmt.cloud.vmware.com"`
	PlatformInsecureSkipVerify Input `json:"platformInsecureSkipVerify" envconfig:"PLATFORM_INSECURE_SKIP_VERIFY" default:"false"`

	CustomPropertyMatchRule  Input `json:"customPropertyMatchRule" envconfig:"CUSTOM_PROPERTY_MATCH_RULE"`
	BlueprintOptionMatchRule Input `json:"blueprintOptionMatchRule" envconfig:"BLUEPRINT_OPTION_MATCH_RULE"`
	CustomPropertyCandidate  Input `json:"customPropertyCandidate" envconfig:"CUSTOM_PROPERTY_CANDIDATE"`
	BlueprintOptionCandidate Input `json:"blueprintOptionCandidate" envconfig:"BLUEPRINT_OPTION_CANDIDATE"`

	BlueprintId      Input `json:"blueprintIdOverride" envconfig:"BLUEPRINT_ID"`
	BlueprintName    Input `json:"blueprintNameOverride" envconfig:"BLUEPRINT_NAME"`
	BlueprintVersion Input `json:"blueprintVersionOverride" envconfig:"BLUEPRINT_VERSION"`
}

// FromEnv loads static inputs from BPSYNC_* environment variables.
func FromEnv() (Static, error) {
	var s Static
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return Static{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return s, nil
}

// Overlay returns a copy of s with every recognized key present in payload applied.
func (s Static) Overlay(payload []byte) (Static, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return s, nil
	}

	merged := s
	if err := json.Unmarshal(payload, &merged); err != nil {
		return Static{}, fmt.Errorf("%w: failed to decode inputs: %v", ErrConfiguration, err)
	}

	return merged, nil
}

// Fold blanks every input holding a placeholder left over from unfilled configuration.
func (s *Static) Fold() {
	for _, input := range s.inputs() {
		if IsPlaceholder(string(*input)) {
			*input = ""
		}
	}
}

func (s *Static) inputs() []*Input {
	return []*Input{
		&s.AcceptPayloadInput,
		&s.RunOnCustomProperty,
		&s.RunOnBlueprintOption,
		&s.UseSecretsVault,
		&s.VaultRegion,
		&s.VaultPlatformSecretId,
		&s.VaultGitSecretId,
		&s.InlinePlatformToken,
		&s.InlineGitToken,
		&s.GitRepositoryId,
		&s.GitFolderPath,
		&s.GitBranch,
		&s.GitBaseUrl,
		&s.GitBackend,
		&s.GitRemoteUrl,
		&s.PlatformBaseUrl,
		&s.PlatformInsecureSkipVerify,
		&s.CustomPropertyMatchRule,
		&s.BlueprintOptionMatchRule,
		&s.CustomPropertyCandidate,
		&s.BlueprintOptionCandidate,
		&s.BlueprintId,
		&s.BlueprintName,
		&s.BlueprintVersion,
	}
}

var placeholders = []string{"optional", "empty", `""`, `''`}

// IsPlaceholder reports whether value contains one of the placeholder markers, ignoring case.
func IsPlaceholder(value string) bool {
	lower := strings.ToLower(value)
	for _, p := range placeholders {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Fold returns "" for placeholder values and value otherwise.
func Fold(value string) string {
	if IsPlaceholder(value) {
		return ""
	}
	return value
}
