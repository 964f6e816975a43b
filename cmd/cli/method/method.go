package method

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/linecard/bpsync/cmd/cli/param"
	"github.com/linecard/bpsync/cmd/cli/view"
	"github.com/linecard/bpsync/cmd/webhook"
	"github.com/linecard/bpsync/pkg/convention/config"
	"github.com/linecard/bpsync/pkg/convention/repository"
	"github.com/linecard/bpsync/pkg/sdk"

	"github.com/rs/zerolog/log"
)

func InvokeAction(ctx context.Context, api sdk.API, p *param.Invoke) {
	payload, err := Payload(p.Payload)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read payload")
	}

	out, err := api.Action.Invoke(ctx, payload)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sync blueprint")
	}

	v := view.OutputView{Output: out}

	if p.Json {
		j, err := v.Json()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to encode output")
		}
		fmt.Println(j)
		return
	}

	fmt.Println(v.Render())
}

func PrintConfig(ctx context.Context, api sdk.API, p *param.Config) {
	payload, err := Payload(p.Payload)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read payload")
	}

	cfg, err := config.FromPayload(api.Static, payload)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Warn().Err(err).Msg("configuration is incomplete")
	}

	j, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode configuration")
	}

	fmt.Println(string(j))
}

func PrintPath(ctx context.Context, api sdk.API, p *param.Path) {
	cfg, err := config.FromPayload(api.Static, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve configuration")
	}

	fmt.Println(repository.Path(cfg.Git.FolderPath, p.Name))
}

func Serve(ctx context.Context, api sdk.API, p *param.Serve) {
	if err := webhook.Serve(api.Action, p.Addr); err != nil {
		log.Fatal().Err(err).Msg("webhook server stopped")
	}
}

// Payload reads an event payload from path, or stdin for "-". No path is an empty payload.
func Payload(path string) (json.RawMessage, error) {
	switch path {
	case "":
		return json.RawMessage{}, nil
	case "-":
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(path)
}
