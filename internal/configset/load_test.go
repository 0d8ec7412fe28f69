package configset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/specdata/deploy-master/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func validInputDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeInput(t, dir, ClientFile, `{"name":"Acme","tag":"acme"}`)
	writeInput(t, dir, EnvironmentsFile, `{
		"prod": {
			"name": "Production",
			"tag": "prod",
			"connections": {
				"db": {"name": "warehouse", "type": "postgres", "username": "svc", "password": "secret.pw"}
			},
			"pipelines": {
				"p1": {"name": "main", "connections": {"target": "db"}}
			},
			"secret": {"pw": "s3cr3t"}
		}
	}`)
	writeInput(t, dir, RulesFile, `[
		{"description": "daily", "type": "prefix", "values": "inbound/", "pipeline": "p1"},
		{"description": "weekly", "type": "suffix", "values": ".csv", "pipeline": "p1"}
	]`)
	writeInput(t, dir, EnrichmentFile, `[
		{"environment_id": "prod", "version": 1, "rules_json": "{}"}
	]`)
	return dir
}

func TestLoad(t *testing.T) {
	dir := validInputDir(t)

	set, err := Load(dir, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Acme", set.Client.Name)
	assert.Equal(t, "acme", set.Client.Tag)

	env, ok := set.Environments["prod"]
	require.True(t, ok, "prod environment missing")
	assert.Equal(t, "prod", env.Tag)
	assert.Equal(t, "s3cr3t", env.Secret["pw"])
	assert.Equal(t, "db", env.Pipelines["p1"].Connections["target"])

	require.Len(t, set.Rules, 2)
	assert.Equal(t, "p1", set.Rules[0].Pipeline)

	require.Len(t, set.Enrichment, 1)
	assert.Equal(t, "prod", set.Enrichment[0].EnvironmentID)
	assert.Equal(t, 1, set.Enrichment[0].Version)
}

func TestLoad_MissingFile(t *testing.T) {
	tests := []struct {
		name   string
		remove string
		opts   LoadOptions
	}{
		{name: "missing client.json", remove: ClientFile},
		{name: "missing environments.json", remove: EnvironmentsFile},
		{name: "missing download_rules.json", remove: RulesFile},
		{name: "missing enrichment_rules.json", remove: EnrichmentFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := validInputDir(t)
			if err := os.Remove(filepath.Join(dir, tt.remove)); err != nil {
				t.Fatal(err)
			}

			_, err := Load(dir, tt.opts)
			if !errors.Is(err, apperrors.ErrConfigNotFound) {
				t.Errorf("Load() error = %v, want ErrConfigNotFound", err)
			}
		})
	}
}

func TestLoad_SkipOptionsRelaxFileRequirements(t *testing.T) {
	dir := validInputDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, RulesFile)))
	require.NoError(t, os.Remove(filepath.Join(dir, EnrichmentFile)))

	set, err := Load(dir, LoadOptions{SkipRules: true, SkipEnrichment: true})
	require.NoError(t, err)
	assert.Empty(t, set.Rules)
	assert.Empty(t, set.Enrichment)
}

func TestLoad_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "client.json not valid JSON",
			file:    ClientFile,
			content: `{"name": "Acme",`,
		},
		{
			name:    "client.json missing tag",
			file:    ClientFile,
			content: `{"name": "Acme"}`,
		},
		{
			name:    "environment missing name",
			file:    EnvironmentsFile,
			content: `{"prod": {"tag": "prod"}}`,
		},
		{
			name:    "rule missing pipeline",
			file:    RulesFile,
			content: `[{"description": "d", "type": "t", "values": "v"}]`,
		},
		{
			name:    "rules file not an array",
			file:    RulesFile,
			content: `{"description": "d"}`,
		},
		{
			name:    "enrichment rule missing version",
			file:    EnrichmentFile,
			content: `[{"environment_id": "prod", "rules_json": "{}"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := validInputDir(t)
			writeInput(t, dir, tt.file, tt.content)

			_, err := Load(dir, LoadOptions{})
			if !errors.Is(err, apperrors.ErrConfigFormat) {
				t.Errorf("Load() error = %v, want ErrConfigFormat", err)
			}
		})
	}
}

func TestLoadEnrichment_DynamoTypedInput(t *testing.T) {
	dir := validInputDir(t)
	writeInput(t, dir, EnrichmentFile, `[
		{
			"environment_id": {"S": "acme-prod-0a1b2c3d"},
			"version": {"N": "3"},
			"rules_json": {"S": "{\"match\":\"*\"}"},
			"client_id": {"S": "acme-cid-11223344"}
		}
	]`)

	rules, err := LoadEnrichment(dir)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	assert.Equal(t, "acme-prod-0a1b2c3d", rules[0].EnvironmentID)
	assert.Equal(t, 3, rules[0].Version)
	assert.Equal(t, `{"match":"*"}`, rules[0].RulesJSON)
	assert.Equal(t, "acme-cid-11223344", rules[0].ClientID)
}

func TestSecretRef(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantKey string
		wantOK  bool
	}{
		{name: "secret reference", value: "secret.pw", wantKey: "pw", wantOK: true},
		{name: "literal password", value: "hunter2", wantOK: false},
		{name: "non-string value", value: 42, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := SecretRef(tt.value)
			if ok != tt.wantOK {
				t.Errorf("SecretRef() ok = %v, want %v", ok, tt.wantOK)
			}
			if key != tt.wantKey {
				t.Errorf("SecretRef() key = %v, want %v", key, tt.wantKey)
			}
		})
	}
}
