package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	apperrors "github.com/specdata/deploy-master/internal/errors"
)

// ParameterWriter defines the interface for writing configuration parameters.
type ParameterWriter interface {
	// Put writes a parameter, overwriting any existing value at that path.
	// Secure parameters are stored as SecureString.
	Put(ctx context.Context, name, value string, secure bool) error

	// Verify performs a lightweight read-only call to confirm the parameter
	// store is reachable with the current credentials.
	Verify(ctx context.Context) error
}

// SSMParameterStore implements ParameterWriter using AWS Systems Manager
// Parameter Store.
type SSMParameterStore struct {
	client *ssm.Client
}

// NewSSMParameterStore creates a new SSM-backed parameter writer.
func NewSSMParameterStore(client *ssm.Client) *SSMParameterStore {
	return &SSMParameterStore{client: client}
}

// Put writes a parameter with Overwrite set, so repeated deployments of the
// same configuration are idempotent.
func (s *SSMParameterStore) Put(ctx context.Context, name, value string, secure bool) error {
	paramType := types.ParameterTypeString
	if secure {
		paramType = types.ParameterTypeSecureString
	}

	_, err := s.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(name),
		Value:     aws.String(value),
		Type:      paramType,
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to put parameter %s: %w", name, err)
	}
	return nil
}

// Verify issues a single-result DescribeParameters call.
func (s *SSMParameterStore) Verify(ctx context.Context) error {
	_, err := s.client.DescribeParameters(ctx, &ssm.DescribeParametersInput{
		MaxResults: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("%w: SSM: %v", apperrors.ErrAWSConnectivity, err)
	}
	return nil
}
