package di

import (
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"
	"github.com/specdata/deploy-master/internal/dao/enrichmentdao"
	"github.com/specdata/deploy-master/internal/dao/ruledao"
	"github.com/specdata/deploy-master/internal/deployer"
	"github.com/specdata/deploy-master/internal/services"
)

func ProvideParameterStore(client *ssm.Client) services.ParameterWriter {
	return services.NewSSMParameterStore(client)
}

func ProvideCredentialCheck(client *sts.Client) services.CredentialChecker {
	return services.NewSTSCredentialCheck(client)
}

func ProvideDeployer(params services.ParameterWriter, creds services.CredentialChecker, rules *ruledao.DAO, enrichment *enrichmentdao.DAO, logger zerolog.Logger) *deployer.Deployer {
	return deployer.New(params, creds, rules, enrichment, logger)
}
