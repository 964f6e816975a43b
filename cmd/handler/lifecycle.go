package handler

import (
	"context"
	"fmt"

	"github.com/linecard/bpsync/internal/util"
	"github.com/linecard/bpsync/pkg/convention/config"
	"github.com/linecard/bpsync/pkg/sdk"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog/log"
)

// BeforeEach reloads static inputs and rebuilds the SDK so no state is shared between invocations.
func BeforeEach(ctx context.Context) error {
	retryLogger := util.RetryLogger{
		Log: &log.Logger,
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithLogger(&retryLogger),
		awsconfig.WithClientLogMode(aws.LogRetries))
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	static, err := config.FromEnv()
	if err != nil {
		return err
	}

	if api, err = sdk.Init(ctx, awsConfig, static); err != nil {
		return fmt.Errorf("failed to initialize SDK: %w", err)
	}

	return nil
}
