package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

var ErrSecretNotFound = errors.New("secret not found")

type SecretsManagerClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type Client struct {
	SecretsManager SecretsManagerClient
}

type Service struct {
	Client Client
}

func FromClients(secretsManagerClient SecretsManagerClient) Service {
	return Service{
		Client: Client{
			SecretsManager: secretsManagerClient,
		},
	}
}

// Secret returns the raw SecretString stored under id.
func (s Service) Secret(ctx context.Context, id string) (string, error) {
	var apiErr smithy.APIError

	out, err := s.Client.SecretsManager.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, id)
	}

	if errors.As(err, &apiErr) {
		return "", fmt.Errorf("failed to read secret %s: %s: %w", id, apiErr.ErrorCode(), err)
	}

	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", id, err)
	}

	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", id)
	}

	return *out.SecretString, nil
}
