package di

import (
	"github.com/rs/zerolog"
	"github.com/specdata/deploy-master/internal/dao/enrichmentdao"
	"github.com/specdata/deploy-master/internal/dao/ruledao"
)

// RuleTable is the download-rule table name dependency.
type RuleTable string

// EnrichmentTable is the enrichment-rule table name dependency.
type EnrichmentTable string

// Option is a function that configures the dependency injection container.
type Option func(*options)

// WithTables overrides the DynamoDB table names.
func WithTables(rule, enrichment string) Option {
	return func(opts *options) {
		opts.ruleTable = RuleTable(rule)
		opts.enrichmentTable = EnrichmentTable(enrichment)
	}
}

// WithLogger registers the logger all constructed components share.
func WithLogger(logger zerolog.Logger) Option {
	return func(opts *options) {
		opts.logger = func() zerolog.Logger { return logger }
	}
}

// WithProviders adds constructor functions to the dependency injection
// container. Each provider should be a constructor function that returns one
// or more values; dependencies declared as parameters are resolved by the
// container.
func WithProviders(providers ...any) Option {
	return func(opts *options) {
		opts.providers = append(opts.providers, providers...)
	}
}

type options struct {
	ruleTable       RuleTable
	enrichmentTable EnrichmentTable
	logger          any
	providers       []any
}

func defaultOptions() options {
	return options{
		ruleTable:       RuleTable(ruledao.DefaultTableName),
		enrichmentTable: EnrichmentTable(enrichmentdao.DefaultTableName),
		logger:          ProvideLogger,
	}
}
