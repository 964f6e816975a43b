package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Omitted replaces secret values wherever a Config is logged or serialized.
const Omitted = "OMITTED"

var ErrConfiguration = errors.New("invalid configuration")

const (
	BackendApi   = "api"
	BackendClone = "clone"
)

type Options struct {
	AcceptPayloadInput   bool `json:"acceptPayloadInput"`
	RunOnCustomProperty  bool `json:"runOnCustomProperty"`
	RunOnBlueprintOption bool `json:"runOnBlueprintOption"`
	UseSecretsVault      bool `json:"useSecretsVault"`
}

type Vault struct {
	Region           string `json:"region"`
	PlatformSecretId string `json:"platformSecretId"`
	GitSecretId      string `json:"gitSecretId"`
}

type Inline struct {
	PlatformToken string `json:"platformToken"`
	GitToken      string `json:"gitToken"`
}

type Git struct {
	RepositoryId int    `json:"repositoryId"`
	FolderPath   string `json:"folderPath"`
	Branch       string `json:"branch"`
	BaseUrl      string `json:"baseUrl"`
	Backend      string `json:"backend"`
	RemoteUrl    string `json:"remoteUrl"`
}

type Platform struct {
	BaseUrl            string `json:"baseUrl"`
	InsecureSkipVerify bool   `json:"insecureSkipVerify"`
}

// Match holds the gate rules and the candidates they are tested against.
type Match struct {
	CustomPropertyRule       string `json:"customPropertyRule"`
	BlueprintOptionRule      string `json:"blueprintOptionRule"`
	CustomPropertyCandidate  string `json:"customPropertyCandidate"`
	BlueprintOptionCandidate string `json:"blueprintOptionCandidate"`
}

type Blueprint struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Event struct {
	Type    EventType `json:"type"`
	TopicId TopicId   `json:"topicId"`
	User    string    `json:"user"`
}

type Tokens struct {
	PlatformRefresh string `json:"platformRefresh"`
	PlatformBearer  string `json:"platformBearer"`
	Git             string `json:"git"`
}

type Config struct {
	Options   Options   `json:"options"`
	Vault     Vault     `json:"vault"`
	Inline    Inline    `json:"inline"`
	Git       Git       `json:"git"`
	Platform  Platform  `json:"platform"`
	Match     Match     `json:"match"`
	Blueprint Blueprint `json:"blueprint"`
	Event     Event     `json:"event"`
	Tokens    Tokens    `json:"tokens"`
}

// NeedsOptionLookup reports whether the blueprint option candidate has to be
// read from the live blueprint rather than from static inputs.
func (c Config) NeedsOptionLookup() bool {
	return c.Options.AcceptPayloadInput &&
		c.Options.RunOnBlueprintOption &&
		c.Event.TopicId != TopicTest
}

// NeedsContent reports whether the blueprint body is required, which is only
// the case when the sync is going to write it.
func (c Config) NeedsContent() bool {
	return c.Event.Type == EventCreateBlueprintVersion || c.Event.Type == EventTest
}

// Author is the name recorded on commits.
func (c Config) Author() string {
	if c.Event.User == "" {
		return "bpsync"
	}
	return c.Event.User
}

func (c Config) Validate() error {
	var problems []string

	if c.Options.UseSecretsVault {
		if c.Vault.Region == "" {
			problems = append(problems, "vaultRegion is required when useSecretsVault is true")
		}
		if c.Vault.PlatformSecretId == "" {
			problems = append(problems, "vaultPlatformSecretId is required when useSecretsVault is true")
		}
		if c.Vault.GitSecretId == "" {
			problems = append(problems, "vaultGitSecretId is required when useSecretsVault is true")
		}
	} else {
		if c.Inline.PlatformToken == "" {
			problems = append(problems, "inlinePlatformToken is required when useSecretsVault is false")
		}
		if c.Inline.GitToken == "" {
			problems = append(problems, "inlineGitToken is required when useSecretsVault is false")
		}
	}

	switch c.Git.Backend {
	case BackendApi:
		if c.Git.RepositoryId <= 0 {
			problems = append(problems, "gitRepositoryId is required for the api backend")
		}
	case BackendClone:
		if c.Git.RemoteUrl == "" {
			problems = append(problems, "gitRemoteUrl is required for the clone backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("gitBackend %q is not one of api, clone", c.Git.Backend))
	}

	if c.Options.RunOnCustomProperty && c.Match.CustomPropertyRule == "" {
		problems = append(problems, "customPropertyMatchRule is required when runOnCustomProperty is true")
	}
	if c.Options.RunOnBlueprintOption && c.Match.BlueprintOptionRule == "" {
		problems = append(problems, "blueprintOptionMatchRule is required when runOnBlueprintOption is true")
	}

	if c.Blueprint.Name == "" {
		problems = append(problems, "blueprint name could not be resolved")
	}

	if (c.NeedsContent() || c.NeedsOptionLookup()) && c.Blueprint.Id == "" {
		problems = append(problems, "blueprint id could not be resolved")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(problems, "; "))
	}

	return nil
}

// Redacted returns a copy with every credential and match string replaced by Omitted.
func (c Config) Redacted() Config {
	c.Inline.PlatformToken = omit(c.Inline.PlatformToken)
	c.Inline.GitToken = omit(c.Inline.GitToken)
	c.Tokens.PlatformRefresh = omit(c.Tokens.PlatformRefresh)
	c.Tokens.PlatformBearer = omit(c.Tokens.PlatformBearer)
	c.Tokens.Git = omit(c.Tokens.Git)
	c.Match.CustomPropertyRule = omit(c.Match.CustomPropertyRule)
	c.Match.BlueprintOptionRule = omit(c.Match.BlueprintOptionRule)
	c.Match.CustomPropertyCandidate = omit(c.Match.CustomPropertyCandidate)
	c.Match.BlueprintOptionCandidate = omit(c.Match.BlueprintOptionCandidate)
	return c
}

func (c Config) MarshalZerologObject(e *zerolog.Event) {
	r := c.Redacted()
	e.Str("eventType", string(r.Event.Type)).
		Str("eventTopicId", string(r.Event.TopicId)).
		Str("user", r.Event.User).
		Bool("acceptPayloadInput", r.Options.AcceptPayloadInput).
		Bool("runOnCustomProperty", r.Options.RunOnCustomProperty).
		Bool("runOnBlueprintOption", r.Options.RunOnBlueprintOption).
		Bool("useSecretsVault", r.Options.UseSecretsVault).
		Str("vaultRegion", r.Vault.Region).
		Str("vaultPlatformSecretId", r.Vault.PlatformSecretId).
		Str("vaultGitSecretId", r.Vault.GitSecretId).
		Str("inlinePlatformToken", r.Inline.PlatformToken).
		Str("inlineGitToken", r.Inline.GitToken).
		Int("gitRepositoryId", r.Git.RepositoryId).
		Str("gitFolderPath", r.Git.FolderPath).
		Str("gitBranch", r.Git.Branch).
		Str("gitBackend", r.Git.Backend).
		Str("customPropertyMatchRule", r.Match.CustomPropertyRule).
		Str("blueprintOptionMatchRule", r.Match.BlueprintOptionRule).
		Str("customPropertyCandidate", r.Match.CustomPropertyCandidate).
		Str("blueprintOptionCandidate", r.Match.BlueprintOptionCandidate).
		Str("blueprintId", r.Blueprint.Id).
		Str("blueprintName", r.Blueprint.Name).
		Str("blueprintVersion", r.Blueprint.Version).
		Str("platformRefreshToken", r.Tokens.PlatformRefresh).
		Str("platformBearerToken", r.Tokens.PlatformBearer).
		Str("gitToken", r.Tokens.Git)
}

func omit(s string) string {
	if s == "" {
		return ""
	}
	return Omitted
}
