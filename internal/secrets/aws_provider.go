package secrets

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSProvider reads the credential from AWS Secrets Manager. This is the
// hosted deployment path: the same artifact runs in the cloud without a
// rebuild, and the env var stays the local fallback.
type AWSProvider struct {
	client SecretsManagerAPI
}

// NewAWSProvider wraps an existing Secrets Manager client.
func NewAWSProvider(client SecretsManagerAPI) *AWSProvider {
	return &AWSProvider{client: client}
}

// LoadAWSProvider builds the AWS SDK config and Secrets Manager client.
// Static credentials are only injected when both halves are present, so the
// default chain (instance role, SSO, etc.) still works in hosted environments.
func LoadAWSProvider(ctx context.Context, region, accessKeyID, secretAccessKey string) (*AWSProvider, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if strings.TrimSpace(accessKeyID) != "" && strings.TrimSpace(secretAccessKey) != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("secrets: failed to load aws config: %w", err)
	}

	return &AWSProvider{client: secretsmanager.NewFromConfig(awsCfg)}, nil
}

func (*AWSProvider) Name() string { return "aws-secrets-manager" }

// Fetch retrieves the secret value by id.
func (p *AWSProvider) Fetch(ctx context.Context, key string) (string, error) {
	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("secrets: get secret value: %w", err)
	}
	if out.SecretString == nil {
		return "", nil
	}
	return *out.SecretString, nil
}
