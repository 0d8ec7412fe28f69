// Package configset loads and validates the declarative JSON documents that
// describe a client deployment: client.json, environments.json,
// download_rules.json and enrichment_rules.json.
package configset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Client is the top-level client.json document.
type Client struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// Connection is a free-form connection definition inside an environment.
// Known fields (name, type, username, password, login_url, client_secret)
// are conventions; any field is carried through to the deployed config.
// The password and client_secret fields may hold a "secret.<key>" reference
// into the environment's secret map.
type Connection map[string]any

// SecretRefFields are the connection fields checked for "secret.<key>"
// references.
var SecretRefFields = []string{"password", "client_secret"}

// SecretRefPrefix marks a connection field value as a secret-map reference.
const SecretRefPrefix = "secret."

// SecretRef reports whether v is a secret reference and, if so, returns the
// referenced secret key.
func SecretRef(v any) (key string, ok bool) {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, SecretRefPrefix) {
		return "", false
	}
	return strings.TrimPrefix(s, SecretRefPrefix), true
}

// Pipeline links connections by role within one environment. Connection
// values are keys into the environment's connections map.
type Pipeline struct {
	Name        string            `json:"name"`
	Connections map[string]string `json:"connections,omitempty"`
}

// Environment is one entry of the environments.json document, keyed by an
// environment key in the source file.
type Environment struct {
	Name        string                `json:"name"`
	Tag         string                `json:"tag"`
	Connections map[string]Connection `json:"connections,omitempty"`
	Pipelines   map[string]Pipeline   `json:"pipelines,omitempty"`
	Secret      map[string]string     `json:"secret,omitempty"`
}

// Environments is the full environments.json document.
type Environments map[string]Environment

// Rule is one entry of the download_rules.json array. Pipeline names a
// pipeline key from environments.json.
type Rule struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	Values      string `json:"values"`
	Pipeline    string `json:"pipeline"`
}

// EnrichmentRule is one entry of the enrichment_rules.json array. The file
// accepts both plain JSON values and DynamoDB-typed wrappers ({"S": ...},
// {"N": ...}) for each field, so exported rule dumps can be replayed
// directly. EnvironmentID may be an environment key shorthand that the
// planner resolves to a generated environment id.
type EnrichmentRule struct {
	EnvironmentID string
	Version       int
	RulesJSON     string
	ClientID      string
}

func (r *EnrichmentRule) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	envID, err := stringField(raw, "environment_id")
	if err != nil {
		return err
	}
	if envID == "" {
		return fmt.Errorf("enrichment rule: environment_id is required")
	}

	version, err := numberField(raw, "version")
	if err != nil {
		return err
	}

	rulesJSON, err := stringField(raw, "rules_json")
	if err != nil {
		return err
	}
	if rulesJSON == "" {
		return fmt.Errorf("enrichment rule: rules_json is required")
	}

	clientID, err := stringField(raw, "client_id")
	if err != nil {
		return err
	}

	r.EnvironmentID = envID
	r.Version = version
	r.RulesJSON = rulesJSON
	r.ClientID = clientID
	return nil
}

// stringField reads raw[name] as either a JSON string or a DynamoDB-typed
// {"S": "..."} wrapper. A missing field yields "".
func stringField(raw map[string]json.RawMessage, name string) (string, error) {
	msg, ok := raw[name]
	if !ok {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s, nil
	}

	var wrapped struct {
		S *string `json:"S"`
	}
	if err := json.Unmarshal(msg, &wrapped); err == nil && wrapped.S != nil {
		return *wrapped.S, nil
	}

	return "", fmt.Errorf("enrichment rule: field %q must be a string", name)
}

// numberField reads raw[name] as a JSON number, a numeric string, or a
// DynamoDB-typed {"N": "..."} wrapper.
func numberField(raw map[string]json.RawMessage, name string) (int, error) {
	msg, ok := raw[name]
	if !ok {
		return 0, fmt.Errorf("enrichment rule: %s is required", name)
	}

	var n int
	if err := json.Unmarshal(msg, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return parseIntField(name, s)
	}

	var wrapped struct {
		N *string `json:"N"`
	}
	if err := json.Unmarshal(msg, &wrapped); err == nil && wrapped.N != nil {
		return parseIntField(name, *wrapped.N)
	}

	return 0, fmt.Errorf("enrichment rule: field %q must be a number", name)
}

func parseIntField(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("enrichment rule: %s %q is not a number", name, s)
	}
	return n, nil
}
