// Package enrichmentdao provides data access for the enrichment-rule
// DynamoDB table, keyed by environment id and version.
package enrichmentdao

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/smithy-go"
	"github.com/savaki/ddb/v2"
	apperrors "github.com/specdata/deploy-master/internal/errors"
)

// DefaultTableName is the enrichment-rule table written to unless overridden.
const DefaultTableName = "spec-enrichment-rule"

// Record is one enrichment-rule item.
type Record struct {
	EnvironmentID string `ddb:"hash" dynamodbav:"environment_id"`
	Version       int    `ddb:"range" dynamodbav:"version"`
	RulesJSON     string `dynamodbav:"rules_json"`
	ClientID      string `dynamodbav:"client_id,omitempty"`
}

// DAO provides write access to the enrichment-rule table.
type DAO struct {
	client    *dynamodb.Client
	table     *ddb.Table
	tableName string
}

// New creates a new DAO instance for the given table.
func New(client *dynamodb.Client, tableName string) *DAO {
	db := ddb.New(client)
	return &DAO{
		client:    client,
		table:     db.MustTable(tableName, &Record{}),
		tableName: tableName,
	}
}

// TableName returns the table this DAO writes to.
func (d *DAO) TableName() string {
	return d.tableName
}

// TableExists verifies the table is reachable before any write.
func (d *DAO) TableExists(ctx context.Context) error {
	_, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.tableName),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
			return fmt.Errorf("%w: %s", apperrors.ErrTableNotFound, d.tableName)
		}
		return fmt.Errorf("%w: describe table %s: %v", apperrors.ErrAWSConnectivity, d.tableName, err)
	}
	return nil
}

// Put writes an enrichment record, overwriting any item with the same
// environment id and version.
func (d *DAO) Put(ctx context.Context, record Record) error {
	if err := d.table.Put(record).RunWithContext(ctx); err != nil {
		return fmt.Errorf("failed to put enrichment rule %s/%d: %w", record.EnvironmentID, record.Version, err)
	}
	return nil
}
