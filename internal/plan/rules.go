package plan

import (
	"fmt"

	"github.com/specdata/deploy-master/internal/configset"
	apperrors "github.com/specdata/deploy-master/internal/errors"
)

// RuleItem is one download-rule record bound for DynamoDB. The json tags also
// define the dry-run snapshot format.
type RuleItem struct {
	RuleID      string `json:"rule_id"`
	EnvID       string `json:"env_id"`
	ClientID    string `json:"client_id"`
	PipelineID  string `json:"pipeline_id"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Values      string `json:"values"`
}

// NewRuleID builds the deterministic rule id for the n-th rule (1-based) of a
// pipeline. Re-deploying unchanged rules overwrites the same items.
func NewRuleID(pipelineID string, n int) string {
	return fmt.Sprintf("%s#rule_%d", pipelineID, n)
}

// FilterRules partitions the flat rule list by pipeline. The result maps
// every pipeline id in the plan to its matching rules in file order; a
// pipeline with no rules maps to an empty list. A rule naming a pipeline key
// that no environment defines fails with ErrUnknownPipeline.
func FilterRules(p *Plan, rules []configset.Rule) (map[string][]RuleItem, error) {
	grouped := make(map[string][]RuleItem)
	for _, env := range p.Environments {
		for _, pipeID := range env.Pipelines {
			grouped[pipeID] = []RuleItem{}
		}
	}

	for i, rule := range rules {
		ref, ok := p.PipelineRef(rule.Pipeline)
		if !ok {
			return nil, fmt.Errorf("%w: rule %d references pipeline key %q, which is not defined in %s",
				apperrors.ErrUnknownPipeline, i+1, rule.Pipeline, configset.EnvironmentsFile)
		}

		n := len(grouped[ref.ID]) + 1
		grouped[ref.ID] = append(grouped[ref.ID], RuleItem{
			RuleID:      NewRuleID(ref.ID, n),
			EnvID:       ref.EnvID,
			ClientID:    p.ClientID,
			PipelineID:  ref.ID,
			Description: rule.Description,
			Type:        rule.Type,
			Values:      rule.Values,
		})
	}

	return grouped, nil
}

// StandaloneRules converts a rule list using explicitly supplied ids, for the
// standalone rules subcommand where no plan exists. All rules are assigned to
// the given pipeline; the pipeline field of each rule is ignored.
func StandaloneRules(rules []configset.Rule, clientID, envID, pipelineID string) []RuleItem {
	items := make([]RuleItem, 0, len(rules))
	for i, rule := range rules {
		items = append(items, RuleItem{
			RuleID:      NewRuleID(pipelineID, i+1),
			EnvID:       envID,
			ClientID:    clientID,
			PipelineID:  pipelineID,
			Description: rule.Description,
			Type:        rule.Type,
			Values:      rule.Values,
		})
	}
	return items
}
