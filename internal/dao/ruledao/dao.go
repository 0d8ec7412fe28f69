// Package ruledao provides data access for the download-rule DynamoDB table.
package ruledao

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

// DefaultTableName is the download-rule table written to unless overridden.
const DefaultTableName = "spec-download-rule"

// Record is one download-rule item. RuleID has the form
// {pipeline_id}#rule_{n} and is the table's hash key.
type Record struct {
	RuleID      string `ddb:"hash" dynamodbav:"rule_id"`
	EnvID       string `dynamodbav:"env_id"`
	ClientID    string `dynamodbav:"client_id"`
	PipelineID  string `dynamodbav:"pipeline_id"`
	Description string `dynamodbav:"description"`
	Type        string `dynamodbav:"type"`
	Values      string `dynamodbav:"values"`
}

// DAO provides write access to the download-rule table.
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

// TableExists verifies the table is reachable before any write. A missing
// table maps to ErrTableNotFound; any other failure to ErrAWSConnectivity.
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

// Put writes a rule record, overwriting any item with the same rule id.
func (d *DAO) Put(ctx context.Context, record Record) error {
	if err := d.table.Put(record).RunWithContext(ctx); err != nil {
		return fmt.Errorf("failed to put rule %s: %w", record.RuleID, err)
	}
	return nil
}
