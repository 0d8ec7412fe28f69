package plan

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/specdata/deploy-master/internal/configset"
	apperrors "github.com/specdata/deploy-master/internal/errors"
	"github.com/specdata/deploy-master/internal/ident"
)

// Build expands a configuration set into a Plan. Identifiers come from a
// fresh ident.Registry, so building the same set twice yields byte-identical
// output. References are validated while expanding: a pipeline naming a
// connection key absent from its own environment fails with
// ErrUnresolvedConnectionReference, and a connection referencing a secret key
// absent from its environment's secret map fails with
// ErrUnresolvedSecretReference. Secret plaintext never enters the config
// payloads; secret references are rewritten to their secrets parameter path.
func Build(set *configset.Set) (*Plan, error) {
	reg := ident.NewRegistry()
	tag := set.Client.Tag

	clientID, err := reg.New(tag, ident.LabelClient, "client", tag, set.Client.Name)
	if err != nil {
		return nil, err
	}

	clientJSON, err := json.Marshal(map[string]any{
		"id":   clientID,
		"name": set.Client.Name,
		"tag":  tag,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling client config: %w", err)
	}

	p := &Plan{
		ClientID:         clientID,
		ClientTag:        tag,
		ClientConfigJSON: string(clientJSON),
		pipelines:        make(map[string]PipelineRef),
	}

	for _, envKey := range sortedKeys(set.Environments) {
		env := set.Environments[envKey]

		envID, err := reg.New(tag, env.Tag, "environment", envKey, env.Name)
		if err != nil {
			return nil, err
		}

		connections := make(map[string]any, len(env.Connections))
		connIDs := make(map[string]string, len(env.Connections))
		for _, connKey := range sortedKeys(env.Connections) {
			connID, err := reg.New(tag, ident.LabelConnection, "connection", envKey, connKey)
			if err != nil {
				return nil, err
			}

			conn := make(configset.Connection, len(env.Connections[connKey])+1)
			maps.Copy(conn, env.Connections[connKey])
			conn["id"] = connID

			for _, field := range configset.SecretRefFields {
				secretKey, ok := configset.SecretRef(conn[field])
				if !ok {
					continue
				}
				if _, defined := env.Secret[secretKey]; !defined {
					return nil, fmt.Errorf("%w: environment %q connection %q field %q references secret %q which is not in the secret map",
						apperrors.ErrUnresolvedSecretReference, envKey, connKey, field, secretKey)
				}
				conn[field] = SecretPath(clientID, envID, secretKey)
			}

			connections[connID] = conn
			connIDs[connKey] = connID
		}

		pipelines := make(map[string]any, len(env.Pipelines))
		pipelineIDs := make(map[string]string, len(env.Pipelines))
		for _, pipeKey := range sortedKeys(env.Pipelines) {
			if _, dup := p.pipelines[pipeKey]; dup {
				return nil, fmt.Errorf("%w: pipeline key %q is defined in more than one environment",
					apperrors.ErrConfigFormat, pipeKey)
			}

			pipeID, err := reg.New(tag, ident.LabelPipeline, "pipeline", envKey, pipeKey)
			if err != nil {
				return nil, err
			}

			pipe := env.Pipelines[pipeKey]
			roles := make(map[string]string, len(pipe.Connections))
			for _, role := range sortedKeys(pipe.Connections) {
				connKey := pipe.Connections[role]
				connID, ok := connIDs[connKey]
				if !ok {
					return nil, fmt.Errorf("%w: environment %q pipeline %q role %q references connection %q which is not defined in that environment",
						apperrors.ErrUnresolvedConnectionReference, envKey, pipeKey, role, connKey)
				}
				roles[role] = connID
			}

			doc := map[string]any{"id": pipeID, "name": pipe.Name}
			if len(roles) > 0 {
				doc["connections"] = roles
			}
			pipelines[pipeID] = doc
			pipelineIDs[pipeKey] = pipeID
			p.pipelines[pipeKey] = PipelineRef{ID: pipeID, EnvID: envID}
		}

		envDoc := map[string]any{"id": envID, "name": env.Name, "tag": env.Tag}
		if len(connections) > 0 {
			envDoc["connections"] = connections
		}
		if len(pipelines) > 0 {
			envDoc["pipelines"] = pipelines
		}

		envJSON, err := json.Marshal(envDoc)
		if err != nil {
			return nil, fmt.Errorf("marshaling environment %q config: %w", envKey, err)
		}

		p.Environments = append(p.Environments, EnvironmentPlan{
			Key:        envKey,
			Tag:        env.Tag,
			ID:         envID,
			ConfigJSON: string(envJSON),
			Secrets:    env.Secret,
			Pipelines:  pipelineIDs,
		})
	}

	return p, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
