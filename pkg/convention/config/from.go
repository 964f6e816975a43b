package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// FromPayload merges an invocation payload over static inputs into one Config.
func FromPayload(static Static, payload []byte) (c Config, err error) {
	var p Payload
	if len(bytes.TrimSpace(payload)) > 0 {
		if err = json.Unmarshal(payload, &p); err != nil {
			return Config{}, fmt.Errorf("%w: failed to decode payload: %v", ErrConfiguration, err)
		}
	}

	in, err := static.Overlay(payload)
	if err != nil {
		return Config{}, err
	}
	in.Fold()

	if c.Options, err = options(in); err != nil {
		return Config{}, err
	}

	c.Vault = Vault{
		Region:           in.VaultRegion.String(),
		PlatformSecretId: in.VaultPlatformSecretId.String(),
		GitSecretId:      in.VaultGitSecretId.String(),
	}

	c.Inline = Inline{
		PlatformToken: in.InlinePlatformToken.String(),
		GitToken:      in.InlineGitToken.String(),
	}

	if c.Git, err = git(in); err != nil {
		return Config{}, err
	}

	c.Platform.BaseUrl = strings.TrimSuffix(in.PlatformBaseUrl.String(), "/")
	if c.Platform.InsecureSkipVerify, err = flag("platformInsecureSkipVerify", in.PlatformInsecureSkipVerify); err != nil {
		return Config{}, err
	}

	c.Event.Type = DetectEvent(p)
	c.Event.TopicId = DetectTopic(p)

	c.Blueprint = Blueprint{
		Id:      in.BlueprintId.String(),
		Name:    in.BlueprintName.String(),
		Version: in.BlueprintVersion.String(),
	}

	c.Match = Match{
		CustomPropertyRule:       Clean(in.CustomPropertyMatchRule.String()),
		BlueprintOptionRule:      Clean(in.BlueprintOptionMatchRule.String()),
		CustomPropertyCandidate:  Clean(in.CustomPropertyCandidate.String()),
		BlueprintOptionCandidate: Clean(in.BlueprintOptionCandidate.String()),
	}

	if !c.Options.AcceptPayloadInput {
		log.Info().Msg("using static inputs based on acceptPayloadInput")
		return c, nil
	}

	log.Info().Msg("using payload inputs based on acceptPayloadInput")

	switch c.Event.Type {
	case EventCreateBlueprintVersion:
		c.Blueprint = Blueprint{
			Id:      p.BlueprintId,
			Name:    p.BlueprintName,
			Version: p.Version.String(),
		}
		c.Event.User = p.Metadata.UserName

	case EventDeleteBlueprint:
		c.Blueprint = Blueprint{
			Id:   p.Id,
			Name: p.Name,
		}
		c.Event.User = p.Metadata.UserName
	}

	if c.Event.TopicId != TopicTest && c.Options.RunOnCustomProperty {
		c.Match.CustomPropertyCandidate = Clean(Dump(payload))
	}

	return c, nil
}

// Clean strips double quotes and lower-cases, the form every match string is compared in.
func Clean(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, `"`, ""))
}

// Dump renders a JSON document on one line with a space after every comma and
// colon outside of strings, the layout match rules are written against.
func Dump(payload []byte) string {
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload); err != nil {
		return string(bytes.TrimSpace(payload))
	}

	var out strings.Builder
	inString, escaped := false, false
	for _, b := range compact.Bytes() {
		out.WriteByte(b)
		switch {
		case escaped:
			escaped = false
		case inString && b == '\\':
			escaped = true
		case b == '"':
			inString = !inString
		case !inString && (b == ',' || b == ':'):
			out.WriteByte(' ')
		}
	}

	return out.String()
}

func options(in Static) (o Options, err error) {
	if o.AcceptPayloadInput, err = flag("acceptPayloadInput", in.AcceptPayloadInput); err != nil {
		return
	}
	if o.RunOnCustomProperty, err = flag("runOnCustomProperty", in.RunOnCustomProperty); err != nil {
		return
	}
	if o.RunOnBlueprintOption, err = flag("runOnBlueprintOption", in.RunOnBlueprintOption); err != nil {
		return
	}
	o.UseSecretsVault, err = flag("useSecretsVault", in.UseSecretsVault)
	return
}

func git(in Static) (g Git, err error) {
	if id := strings.TrimSpace(in.GitRepositoryId.String()); id != "" {
		if g.RepositoryId, err = strconv.Atoi(id); err != nil {
			return Git{}, fmt.Errorf("%w: gitRepositoryId %q is not an integer", ErrConfiguration, id)
		}
	}

	g.FolderPath = strings.TrimPrefix(in.GitFolderPath.String(), "/")
	if g.FolderPath != "" && !strings.HasSuffix(g.FolderPath, "/") {
		g.FolderPath += "/"
	}

	g.Branch = in.GitBranch.String()
	if g.Branch == "" {
		g.Branch = "master"
	}

	g.BaseUrl = strings.TrimSuffix(in.GitBaseUrl.String(), "/")
	g.Backend = strings.ToLower(in.GitBackend.String())
	if g.Backend == "" {
		g.Backend = BackendApi
	}
	g.RemoteUrl = in.GitRemoteUrl.String()

	return g, nil
}

// flag parses a "true"/"false" input. Blank inputs are false.
func flag(name string, in Input) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(in.String())) {
	case "true":
		return true, nil
	case "false", "":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s must be true or false, got %q", ErrConfiguration, name, in)
}
