package deployer

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/specdata/deploy-master/internal/plan"
)

// snapshotTimeFormat names the per-run snapshot directory.
const snapshotTimeFormat = "20060102_150405"

// writeSnapshots materializes a dry run under a timestamped directory. The
// client and environment config files hold the exact payload bytes that
// would be sent to the parameter store; secrets and rules are indented JSON
// documents of the same values.
func (d *Deployer) writeSnapshots(p *plan.Plan, ruleItems map[string][]plan.RuleItem, enrichmentItems []plan.EnrichmentItem, opts Options) (string, error) {
	dir := filepath.Join(opts.OutputDir, d.now().Format(snapshotTimeFormat))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating dry-run output directory: %w", err)
	}

	if err := writeSnapshot(dir, "client_config.json", []byte(p.ClientConfigJSON)); err != nil {
		return "", err
	}

	for _, env := range p.Environments {
		name := fmt.Sprintf("environment_%s_config.json", env.Tag)
		if err := writeSnapshot(dir, name, []byte(env.ConfigJSON)); err != nil {
			return "", err
		}

		if len(env.Secrets) > 0 {
			name = fmt.Sprintf("environment_%s_secrets.json", env.Tag)
			if err := writeSnapshotJSON(dir, name, env.Secrets); err != nil {
				return "", err
			}
		}
	}

	for _, pipelineID := range sortedRuleKeys(ruleItems) {
		name := fmt.Sprintf("rules_%s.json", pipelineID)
		if err := writeSnapshotJSON(dir, name, ruleItems[pipelineID]); err != nil {
			return "", err
		}
	}

	if enrichmentItems != nil {
		if err := writeSnapshotJSON(dir, "enrichment_rules.json", enrichmentItems); err != nil {
			return "", err
		}
	}

	return dir, nil
}

func writeSnapshot(dir, name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func writeSnapshotJSON(dir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	return writeSnapshot(dir, name, data)
}

func sortedRuleKeys(ruleItems map[string][]plan.RuleItem) []string {
	return slices.Sorted(maps.Keys(ruleItems))
}
