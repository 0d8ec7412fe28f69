// Package plan expands a loaded configuration set into the concrete remote
// state for one deployment: Parameter Store records, download-rule items and
// enrichment-rule items, all keyed by deterministic identifiers.
package plan

import "fmt"

// RootPath is the Parameter Store prefix all configuration lives under.
const RootPath = "/spec/enrichment"

// Parameter is one Parameter Store record to be written.
type Parameter struct {
	Path   string
	Value  string
	Secure bool
}

// PipelineRef locates a pipeline by its generated id and owning environment.
type PipelineRef struct {
	ID    string
	EnvID string
}

// EnvironmentPlan is the expanded form of one environment.
type EnvironmentPlan struct {
	Key        string
	Tag        string
	ID         string
	ConfigJSON string            // exact payload for the env config parameter
	Secrets    map[string]string // secret name -> plaintext
	Pipelines  map[string]string // pipeline key -> pipeline id
}

// Plan is the full expansion of one configuration set.
type Plan struct {
	ClientID         string
	ClientTag        string
	ClientConfigJSON string            // exact payload for the client config parameter
	Environments     []EnvironmentPlan // ordered by environment key

	pipelines map[string]PipelineRef // pipeline key -> ref, unique across envs
}

// PipelineRef resolves a pipeline key from environments.json.
func (p *Plan) PipelineRef(key string) (PipelineRef, bool) {
	ref, ok := p.pipelines[key]
	return ref, ok
}

// EnvironmentIDs returns the environment key -> generated id map.
func (p *Plan) EnvironmentIDs() map[string]string {
	ids := make(map[string]string, len(p.Environments))
	for _, env := range p.Environments {
		ids[env.Key] = env.ID
	}
	return ids
}

// Parameters returns the ordered Parameter Store records for the plan: the
// client config first, then per environment its config followed by its
// secrets. The order is stable across runs.
func (p *Plan) Parameters() []Parameter {
	params := []Parameter{{
		Path:  ClientConfigPath(p.ClientID),
		Value: p.ClientConfigJSON,
	}}

	for _, env := range p.Environments {
		params = append(params, Parameter{
			Path:  EnvConfigPath(p.ClientID, env.ID),
			Value: env.ConfigJSON,
		})
		for _, name := range sortedKeys(env.Secrets) {
			params = append(params, Parameter{
				Path:   SecretPath(p.ClientID, env.ID, name),
				Value:  env.Secrets[name],
				Secure: true,
			})
		}
	}
	return params
}

// ClientConfigPath returns the parameter path holding the client metadata.
func ClientConfigPath(clientID string) string {
	return fmt.Sprintf("%s/clients/%s/config", RootPath, clientID)
}

// EnvConfigPath returns the parameter path holding one environment's config.
func EnvConfigPath(clientID, envID string) string {
	return fmt.Sprintf("%s/clients/%s/envs/%s/config", RootPath, clientID, envID)
}

// SecretPath returns the SecureString parameter path for one secret.
func SecretPath(clientID, envID, secretName string) string {
	return fmt.Sprintf("%s/clients/%s/envs/%s/secrets/%s", RootPath, clientID, envID, secretName)
}
