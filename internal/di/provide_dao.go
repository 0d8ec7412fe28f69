package di

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/specdata/deploy-master/internal/dao/enrichmentdao"
	"github.com/specdata/deploy-master/internal/dao/ruledao"
)

func ProvideRuleDAO(client *dynamodb.Client, table RuleTable) *ruledao.DAO {
	return ruledao.New(client, string(table))
}

func ProvideEnrichmentDAO(client *dynamodb.Client, table EnrichmentTable) *enrichmentdao.DAO {
	return enrichmentdao.New(client, string(table))
}
