package plan

import "github.com/specdata/deploy-master/internal/configset"

// EnrichmentItem is one enrichment-rule record bound for DynamoDB.
type EnrichmentItem struct {
	EnvironmentID string `json:"environment_id"`
	Version       int    `json:"version"`
	RulesJSON     string `json:"rules_json"`
	ClientID      string `json:"client_id,omitempty"`
}

// BuildEnrichment normalizes enrichment rules: an environment_id matching a
// key in envIDs is rewritten to that environment's generated id, and items
// without a client_id inherit defaultClientID. Items already carrying full
// ids pass through unchanged.
func BuildEnrichment(rules []configset.EnrichmentRule, envIDs map[string]string, defaultClientID string) []EnrichmentItem {
	items := make([]EnrichmentItem, 0, len(rules))
	for _, rule := range rules {
		envID := rule.EnvironmentID
		if mapped, ok := envIDs[envID]; ok {
			envID = mapped
		}

		clientID := rule.ClientID
		if clientID == "" {
			clientID = defaultClientID
		}

		items = append(items, EnrichmentItem{
			EnvironmentID: envID,
			Version:       rule.Version,
			RulesJSON:     rule.RulesJSON,
			ClientID:      clientID,
		})
	}
	return items
}
