package sdk

import (
	"context"

	// config
	"github.com/linecard/bpsync/pkg/convention/config"

	// services
	"github.com/linecard/bpsync/pkg/service/gitlab"
	"github.com/linecard/bpsync/pkg/service/gitrepo"
	"github.com/linecard/bpsync/pkg/service/platform"
	"github.com/linecard/bpsync/pkg/service/vault"

	// conventions
	"github.com/linecard/bpsync/pkg/convention/action"
	"github.com/linecard/bpsync/pkg/convention/credential"
	"github.com/linecard/bpsync/pkg/convention/repository"

	// clients
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Factory builds services once an invocation's config is known.
type Factory struct {
	AwsConfig aws.Config
}

type Conventions struct {
	Action action.Convention
}

type API struct {
	Conventions
	Static config.Static
}

func Init(ctx context.Context, awsConfig aws.Config, static config.Static) (API, error) {
	conventions, err := InitConventions(ctx, static, Factory{AwsConfig: awsConfig})
	if err != nil {
		return API{}, err
	}

	return API{
		Conventions: conventions,
		Static:      static,
	}, nil
}

func InitConventions(ctx context.Context, static config.Static, builder action.Builder) (Conventions, error) {
	return Conventions{
		Action: action.FromBuilder(static, builder),
	}, nil
}

func (f Factory) Vault(ctx context.Context, c config.Config) (credential.VaultService, error) {
	client := secretsmanager.NewFromConfig(f.AwsConfig, func(o *secretsmanager.Options) {
		if c.Vault.Region != "" {
			o.Region = c.Vault.Region
		}
	})

	return vault.FromClients(client), nil
}

func (f Factory) Platform(c config.Config) action.PlatformService {
	return platform.FromClients(platform.NewClient(c.Platform.BaseUrl, c.Platform.InsecureSkipVerify))
}

func (f Factory) Files(ctx context.Context, c config.Config) (repository.FileService, error) {
	if c.Git.Backend == config.BackendClone {
		auth := gitrepo.TokenAuth(c.Tokens.Git)

		repo, err := gitrepo.Clone(ctx, c.Git.RemoteUrl, c.Git.Branch, auth)
		if err != nil {
			return nil, err
		}

		return gitrepo.FromRepository(repo, c.Git.Branch, auth), nil
	}

	return gitlab.FromClients(gitlab.NewClient(c.Git.BaseUrl, c.Tokens.Git), c.Git.RepositoryId, c.Git.Branch), nil
}
