package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/linecard/bpsync/cmd/cli/router"
	"github.com/linecard/bpsync/internal/util"
	"github.com/linecard/bpsync/pkg/convention/config"
	"github.com/linecard/bpsync/pkg/sdk"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
)

func Invoke(ctx context.Context) {
	ctx, span := otel.Tracer("").Start(ctx, "cli")
	defer span.End()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

	retryLogger := util.RetryLogger{
		Log: &log.Logger,
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithLogger(&retryLogger),
		awsconfig.WithClientLogMode(aws.LogRetries))

	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS configuration")
	}

	var root router.Root
	arg.MustParse(&root)

	configEnv(root)

	static, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration from environment")
	}

	api, err := sdk.Init(ctx, awsConfig, static)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize SDK")
	}

	root.Handle(ctx, api)
}

// Take options given to the CLI and export them to their respective environment variables.
func configEnv(root router.Root) {
	if root.GlobalOpts.Branch != "" {
		os.Setenv(config.EnvGitBranch, root.GlobalOpts.Branch)
	}

	if root.GlobalOpts.Folder != "" {
		os.Setenv(config.EnvGitFolderPath, root.GlobalOpts.Folder)
	}

	if root.GlobalOpts.RepositoryId != "" {
		os.Setenv(config.EnvGitRepositoryId, root.GlobalOpts.RepositoryId)
	}

	if root.GlobalOpts.Backend != "" {
		os.Setenv(config.EnvGitBackend, root.GlobalOpts.Backend)
	}

	if root.GlobalOpts.RemoteUrl != "" {
		os.Setenv(config.EnvGitRemoteUrl, root.GlobalOpts.RemoteUrl)
	}

	if root.GlobalOpts.Vault {
		os.Setenv(config.EnvUseSecretsVault, strconv.FormatBool(root.GlobalOpts.Vault))
	}
}
