package action

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linecard/bpsync/internal/tracing"
	"github.com/linecard/bpsync/pkg/convention/blueprint"
	"github.com/linecard/bpsync/pkg/convention/config"
	"github.com/linecard/bpsync/pkg/convention/credential"
	"github.com/linecard/bpsync/pkg/convention/gate"
	"github.com/linecard/bpsync/pkg/convention/repository"
	"github.com/linecard/bpsync/pkg/service/platform"

	"github.com/golang-module/carbon/v2"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	SkipUnsupported = "unsupported event type"
	SkipGated       = "gate conditions not met"
)

type PlatformService interface {
	credential.PlatformService
	Blueprint(ctx context.Context, bearerToken, id string) (platform.Blueprint, error)
}

// Builder constructs the remote services for one invocation. Services depend
// on the resolved config, so they cannot be built before the payload is read.
type Builder interface {
	Vault(ctx context.Context, c config.Config) (credential.VaultService, error)
	Platform(c config.Config) PlatformService
	Files(ctx context.Context, c config.Config) (repository.FileService, error)
}

type Output struct {
	Config      config.Config      `json:"config"`
	Gates       gate.Result        `json:"gates"`
	Sync        *repository.Result `json:"sync,omitempty"`
	SkipReason  string             `json:"skipReason,omitempty"`
	CompletedAt string             `json:"completedAt"`
}

type Convention struct {
	Static  config.Static
	Builder Builder
}

func FromBuilder(static config.Static, builder Builder) Convention {
	return Convention{
		Static:  static,
		Builder: builder,
	}
}

// Invoke runs one webhook delivery to completion. A skipped sync is not an error.
func (c Convention) Invoke(ctx context.Context, payload json.RawMessage) (Output, error) {
	ctx, span := otel.Tracer("").Start(ctx, "action.Invoke")
	defer span.End()

	cfg, err := config.FromPayload(c.Static, payload)
	if err != nil {
		return fail(span, err)
	}

	span.SetAttributes(
		attribute.String("event.type", string(cfg.Event.Type)),
		attribute.String("event.topic", string(cfg.Event.TopicId)),
		attribute.String("blueprint.name", cfg.Blueprint.Name),
	)

	log.Info().EmbedObject(cfg).Msg("normalized input")

	if cfg.Event.Type == config.EventUnsupported {
		log.Warn().Msg("event type is not supported, skipping")
		return c.skip(cfg, gate.Result{}, SkipUnsupported), nil
	}

	if err := cfg.Validate(); err != nil {
		return fail(span, err)
	}

	remote := c.Builder.Platform(cfg)

	if cfg.Tokens, err = c.credentials(ctx, cfg, remote); err != nil {
		return fail(span, err)
	}

	var fetched *platform.Blueprint
	if cfg.NeedsOptionLookup() {
		bp, err := c.fetch(ctx, remote, cfg)
		if err != nil {
			return fail(span, err)
		}
		fetched = &bp

		options, err := blueprint.Options(bp.Content)
		if err != nil {
			return fail(span, fmt.Errorf("failed to read options of blueprint %s: %w", cfg.Blueprint.Id, err))
		}
		cfg.Match.BlueprintOptionCandidate = blueprint.Candidate(options)
	}

	gates := gate.Evaluate(cfg)
	log.Info().
		Stringer("customProperty", gates.CustomProperty).
		Stringer("blueprintOption", gates.BlueprintOption).
		Msg("evaluated gates")

	if !gates.Permits() {
		return c.skip(cfg, gates, SkipGated), nil
	}

	var content string
	if cfg.NeedsContent() {
		if fetched == nil {
			bp, err := c.fetch(ctx, remote, cfg)
			if err != nil {
				return fail(span, err)
			}
			fetched = &bp
		}
		content = blueprint.Rewrite(fetched.Content, cfg.Blueprint.Name, cfg.Blueprint.Version)
	}

	files, err := c.Builder.Files(ctx, cfg)
	if err != nil {
		return fail(span, err)
	}

	result, err := repository.FromServices(cfg, files).Sync(ctx, content)
	if err != nil {
		return fail(span, err)
	}

	span.SetAttributes(attribute.String("sync.operation", string(result.Operation)))

	return Output{
		Config:      cfg.Redacted(),
		Gates:       gates,
		Sync:        &result,
		CompletedAt: carbon.Now().ToIso8601String(),
	}, nil
}

func (c Convention) credentials(ctx context.Context, cfg config.Config, remote PlatformService) (config.Tokens, error) {
	ctx, span := otel.Tracer("").Start(ctx, "action.credentials")
	defer span.End()

	var vault credential.VaultService
	if cfg.Options.UseSecretsVault {
		v, err := c.Builder.Vault(ctx, cfg)
		if err != nil {
			return config.Tokens{}, tracing.Fail(span, err)
		}
		vault = v
	}

	tokens, err := credential.FromServices(cfg, vault, remote).Resolve(ctx)
	if err != nil {
		return config.Tokens{}, tracing.Fail(span, err)
	}

	return tokens, nil
}

func (c Convention) fetch(ctx context.Context, p PlatformService, cfg config.Config) (platform.Blueprint, error) {
	ctx, span := otel.Tracer("").Start(ctx, "action.fetch")
	defer span.End()

	bp, err := p.Blueprint(ctx, cfg.Tokens.PlatformBearer, cfg.Blueprint.Id)
	if err != nil {
		return platform.Blueprint{}, tracing.Fail(span, err)
	}

	log.Info().Str("blueprintId", bp.Id).Int("bytes", len(bp.Content)).Msg("fetched blueprint")

	return bp, nil
}

func (c Convention) skip(cfg config.Config, gates gate.Result, reason string) Output {
	log.Info().Str("reason", reason).Msg("skipping sync")

	return Output{
		Config:      cfg.Redacted(),
		Gates:       gates,
		SkipReason:  reason,
		CompletedAt: carbon.Now().ToIso8601String(),
	}
}

func fail(span trace.Span, err error) (Output, error) {
	return Output{}, tracing.Fail(span, err)
}
