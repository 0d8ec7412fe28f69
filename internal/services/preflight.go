package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sts"
	apperrors "github.com/specdata/deploy-master/internal/errors"
)

// CredentialChecker verifies AWS credentials are usable before any write.
type CredentialChecker interface {
	// Check returns the AWS account id the credentials resolve to.
	Check(ctx context.Context) (string, error)
}

// STSCredentialCheck implements CredentialChecker using sts:GetCallerIdentity.
type STSCredentialCheck struct {
	client *sts.Client
}

// NewSTSCredentialCheck creates a new STS-backed credential check.
func NewSTSCredentialCheck(client *sts.Client) *STSCredentialCheck {
	return &STSCredentialCheck{client: client}
}

// Check resolves the caller identity.
func (c *STSCredentialCheck) Check(ctx context.Context) (string, error) {
	identity, err := c.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("%w: STS: %v", apperrors.ErrAWSConnectivity, err)
	}
	if identity.Account == nil {
		return "", fmt.Errorf("%w: STS returned no account", apperrors.ErrAWSConnectivity)
	}
	return *identity.Account, nil
}
