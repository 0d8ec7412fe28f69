// Package deployer sequences a deployment run: load the input documents,
// derive identifiers, expand the parameter plan, partition the rules, then
// either write everything to AWS or snapshot it to local files.
package deployer

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"github.com/specdata/deploy-master/internal/configset"
	"github.com/specdata/deploy-master/internal/dao/enrichmentdao"
	"github.com/specdata/deploy-master/internal/dao/ruledao"
	"github.com/specdata/deploy-master/internal/plan"
	"github.com/specdata/deploy-master/internal/services"
)

// RuleStore writes download-rule records.
type RuleStore interface {
	TableExists(ctx context.Context) error
	Put(ctx context.Context, record ruledao.Record) error
}

// EnrichmentStore writes enrichment-rule records.
type EnrichmentStore interface {
	TableExists(ctx context.Context) error
	Put(ctx context.Context, record enrichmentdao.Record) error
}

// Options controls one deployment run.
type Options struct {
	InputDir       string
	OutputDir      string // root for dry-run snapshots
	DryRun         bool
	SkipRules      bool
	SkipEnrichment bool
}

// Summary reports what a run produced.
type Summary struct {
	RunID           string
	ClientID        string
	ClientTag       string
	EnvironmentIDs  map[string]string
	Parameters      int
	Rules           int
	EnrichmentRules int
	SnapshotDir     string // set on dry-run
}

// Deployer orchestrates deployment runs.
type Deployer struct {
	params     services.ParameterWriter
	creds      services.CredentialChecker
	rules      RuleStore
	enrichment EnrichmentStore
	logger     zerolog.Logger
	now        func() time.Time
}

// New creates a new Deployer instance.
func New(params services.ParameterWriter, creds services.CredentialChecker, rules RuleStore, enrichment EnrichmentStore, logger zerolog.Logger) *Deployer {
	return &Deployer{
		params:     params,
		creds:      creds,
		rules:      rules,
		enrichment: enrichment,
		logger:     logger,
		now:        time.Now,
	}
}

// Deploy runs the full sequence. Any failure halts the run; completed writes
// are left in place since every write is an idempotent put keyed by a
// deterministic id, so a failed run is safe to retry wholesale.
func (d *Deployer) Deploy(ctx context.Context, opts Options) (*Summary, error) {
	runID := ksuid.New().String()
	logger := d.logger.With().Str("run_id", runID).Logger()

	set, err := configset.Load(opts.InputDir, configset.LoadOptions{
		SkipRules:      opts.SkipRules,
		SkipEnrichment: opts.SkipEnrichment,
	})
	if err != nil {
		return nil, err
	}

	p, err := plan.Build(set)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("client_id", p.ClientID).
		Str("client_tag", p.ClientTag).
		Int("environments", len(p.Environments)).
		Msg("configuration expanded")

	var ruleItems map[string][]plan.RuleItem
	if !opts.SkipRules {
		ruleItems, err = plan.FilterRules(p, set.Rules)
		if err != nil {
			return nil, err
		}
	}

	var enrichmentItems []plan.EnrichmentItem
	if !opts.SkipEnrichment {
		enrichmentItems = plan.BuildEnrichment(set.Enrichment, p.EnvironmentIDs(), p.ClientID)
	}

	summary := &Summary{
		RunID:           runID,
		ClientID:        p.ClientID,
		ClientTag:       p.ClientTag,
		EnvironmentIDs:  p.EnvironmentIDs(),
		Parameters:      len(p.Parameters()),
		EnrichmentRules: len(enrichmentItems),
	}
	for _, items := range ruleItems {
		summary.Rules += len(items)
	}

	if opts.DryRun {
		dir, err := d.writeSnapshots(p, ruleItems, enrichmentItems, opts)
		if err != nil {
			return nil, err
		}
		summary.SnapshotDir = dir
		logger.Info().Str("output_dir", dir).Msg("dry run complete, no changes made")
		return summary, nil
	}

	if err := d.preflight(ctx, opts, logger); err != nil {
		return nil, err
	}

	for _, param := range p.Parameters() {
		logger.Info().Str("path", param.Path).Bool("secure", param.Secure).Msg("putting parameter")
		if err := d.params.Put(ctx, param.Path, param.Value, param.Secure); err != nil {
			return nil, err
		}
	}

	for _, pipelineID := range sortedRuleKeys(ruleItems) {
		for _, item := range ruleItems[pipelineID] {
			logger.Info().Str("rule_id", item.RuleID).Str("pipeline_id", pipelineID).Msg("putting download rule")
			if err := d.rules.Put(ctx, ruledao.Record(item)); err != nil {
				return nil, err
			}
		}
	}

	for _, item := range enrichmentItems {
		logger.Info().Str("environment_id", item.EnvironmentID).Int("version", item.Version).Msg("putting enrichment rule")
		if err := d.enrichment.Put(ctx, enrichmentdao.Record(item)); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("client_id", summary.ClientID).
		Int("parameters", summary.Parameters).
		Int("rules", summary.Rules).
		Int("enrichment_rules", summary.EnrichmentRules).
		Msg("deployment complete")
	return summary, nil
}

// preflight verifies credentials and target resources before the first write.
func (d *Deployer) preflight(ctx context.Context, opts Options, logger zerolog.Logger) error {
	account, err := d.creds.Check(ctx)
	if err != nil {
		return err
	}
	logger.Info().Str("account", account).Msg("credentials verified")

	if err := d.params.Verify(ctx); err != nil {
		return err
	}

	if !opts.SkipRules {
		if err := d.rules.TableExists(ctx); err != nil {
			return err
		}
	}
	if !opts.SkipEnrichment {
		if err := d.enrichment.TableExists(ctx); err != nil {
			return err
		}
	}
	return nil
}
