package configset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/specdata/deploy-master/internal/errors"
)

// File names expected inside the input directory.
const (
	ClientFile       = "client.json"
	EnvironmentsFile = "environments.json"
	RulesFile        = "download_rules.json"
	EnrichmentFile   = "enrichment_rules.json"
)

// Set holds the parsed input documents for one run.
type Set struct {
	Client       Client
	Environments Environments
	Rules        []Rule
	Enrichment   []EnrichmentRule
}

// LoadOptions controls which rule documents are required. client.json and
// environments.json are always required.
type LoadOptions struct {
	SkipRules      bool
	SkipEnrichment bool
}

// Load reads and validates the configuration documents from dir. A missing
// required file fails with ErrConfigNotFound; invalid JSON or a schema
// violation fails with ErrConfigFormat naming the file.
func Load(dir string, opts LoadOptions) (*Set, error) {
	var set Set

	if err := loadFile(dir, ClientFile, clientSchema, &set.Client); err != nil {
		return nil, err
	}
	if err := loadFile(dir, EnvironmentsFile, environmentsSchema, &set.Environments); err != nil {
		return nil, err
	}

	if !opts.SkipRules {
		rules, err := LoadRules(dir)
		if err != nil {
			return nil, err
		}
		set.Rules = rules
	}

	if !opts.SkipEnrichment {
		enrichment, err := LoadEnrichment(dir)
		if err != nil {
			return nil, err
		}
		set.Enrichment = enrichment
	}

	return &set, nil
}

// LoadRules reads and validates download_rules.json from dir.
func LoadRules(dir string) ([]Rule, error) {
	var rules []Rule
	if err := loadFile(dir, RulesFile, rulesSchema, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// LoadEnrichment reads and validates enrichment_rules.json from dir.
func LoadEnrichment(dir string) ([]EnrichmentRule, error) {
	var rules []EnrichmentRule
	if err := loadFile(dir, EnrichmentFile, enrichmentSchema, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func loadFile(dir, name, schemaName string, out any) error {
	path := filepath.Join(dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", apperrors.ErrConfigNotFound, path)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("%w: %s is not valid JSON: %v", apperrors.ErrConfigFormat, name, err)
	}
	if err := validateDocument(schemaName, document); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrConfigFormat, name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrConfigFormat, name, err)
	}
	return nil
}
