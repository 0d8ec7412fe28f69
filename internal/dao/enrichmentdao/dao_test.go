package enrichmentdao

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/segmentio/ksuid"
	apperrors "github.com/specdata/deploy-master/internal/errors"
)

type testSetup struct {
	dao       *DAO
	client    *dynamodb.Client
	tableName string
}

// setupLocalDynamoDB creates a DynamoDB client configured for local testing.
// Set DYNAMODB_ENDPOINT to use local DynamoDB (e.g. http://localhost:8000).
func setupLocalDynamoDB(t *testing.T) *testSetup {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:8000"
	}

	tableName := "test-enrichment-rules-" + ksuid.New().String()

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("us-west-2"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	ctx := context.Background()
	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("environment_id"),
				AttributeType: types.ScalarAttributeTypeS,
			},
			{
				AttributeName: aws.String("version"),
				AttributeType: types.ScalarAttributeTypeN,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("environment_id"),
				KeyType:       types.KeyTypeHash,
			},
			{
				AttributeName: aws.String("version"),
				KeyType:       types.KeyTypeRange,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	}, 30*time.Second); err != nil {
		t.Fatalf("failed to wait for table: %v", err)
	}

	setup := &testSetup{
		dao:       New(client, tableName),
		client:    client,
		tableName: tableName,
	}
	t.Cleanup(func() {
		_, _ = client.DeleteTable(context.Background(), &dynamodb.DeleteTableInput{
			TableName: aws.String(tableName),
		})
	})
	return setup
}

func TestDAO_Put(t *testing.T) {
	setup := setupLocalDynamoDB(t)
	ctx := context.Background()

	record := Record{
		EnvironmentID: "acme-prod-11111111",
		Version:       1,
		RulesJSON:     `[{"field":"country","op":"eq","value":"US"}]`,
		ClientID:      "acme-cid-22222222",
	}

	if err := setup.dao.Put(ctx, record); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// A second version under the same environment is a separate item.
	second := record
	second.Version = 2
	if err := setup.dao.Put(ctx, second); err != nil {
		t.Fatalf("Put version 2 failed: %v", err)
	}

	out, err := setup.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(setup.tableName),
		Key: map[string]types.AttributeValue{
			"environment_id": &types.AttributeValueMemberS{Value: record.EnvironmentID},
			"version":        &types.AttributeValueMemberN{Value: "2"},
		},
	})
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if out.Item == nil {
		t.Fatal("item not found after Put")
	}

	clientID, ok := out.Item["client_id"].(*types.AttributeValueMemberS)
	if !ok || clientID.Value != record.ClientID {
		t.Errorf("client_id = %v, want %s", out.Item["client_id"], record.ClientID)
	}
}

func TestDAO_TableExists(t *testing.T) {
	setup := setupLocalDynamoDB(t)
	ctx := context.Background()

	if err := setup.dao.TableExists(ctx); err != nil {
		t.Errorf("TableExists() = %v, want nil", err)
	}

	missing := New(setup.client, "no-such-table-"+ksuid.New().String())
	err := missing.TableExists(ctx)
	if !errors.Is(err, apperrors.ErrTableNotFound) {
		t.Errorf("TableExists() error = %v, want ErrTableNotFound", err)
	}
}
