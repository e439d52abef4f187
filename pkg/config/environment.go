package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Environment is one Vault instance the toolkit can talk to.
type Environment struct {
	Name            string            `json:"-" yaml:"-"`
	CoreAPIURL      string            `json:"core_api_url" yaml:"core_api_url"`
	WorkflowsAPIURL string            `json:"workflows_api_url" yaml:"workflows_api_url"`
	OpsDashURL      string            `json:"ops_dash_url,omitempty" yaml:"ops_dash_url,omitempty"`
	AccessToken     string            `json:"access_token" yaml:"access_token"`
	PrometheusURL   string            `json:"prometheus_api_url,omitempty" yaml:"prometheus_api_url,omitempty"`
	KafkaConfig     map[string]string `json:"kafka_config,omitempty" yaml:"kafka_config,omitempty"`
}

const environmentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {
    "type": "object",
    "required": ["core_api_url", "workflows_api_url", "access_token"],
    "properties": {
      "core_api_url": {"type": "string", "minLength": 1},
      "workflows_api_url": {"type": "string", "minLength": 1},
      "ops_dash_url": {"type": "string"},
      "access_token": {"type": "string", "minLength": 1},
      "prometheus_api_url": {"type": "string"},
      "kafka_config": {"type": "object", "additionalProperties": {"type": "string"}}
    }
  }
}`

const environmentSchemaURL = "https://vaultsdk.schemas.local/config/environments.schema.json"

var compiledEnvironmentSchema = mustCompile(environmentSchemaURL, environmentSchema)

func mustCompile(url, schema string) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(url, strings.NewReader(schema)); err != nil {
		panic(fmt.Sprintf("config: schema load failed: %v", err))
	}
	return c.MustCompile(url)
}

// LoadEnvironments reads a JSON or YAML environment file keyed by name.
func LoadEnvironments(path string) (map[string]Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load environments %q: %w", path, err)
	}
	raw, err := toJSON(path, data)
	if err != nil {
		return nil, fmt.Errorf("parse environments %q: %w", path, err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse environments %q: %w", path, err)
	}
	if err := compiledEnvironmentSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid environments %q: %w", path, err)
	}

	envs := make(map[string]Environment)
	if err := json.Unmarshal(raw, &envs); err != nil {
		return nil, fmt.Errorf("parse environments %q: %w", path, err)
	}
	for name, env := range envs {
		env.Name = name
		envs[name] = env
	}
	return envs, nil
}

// toJSON normalises YAML input to JSON so both formats share one schema.
func toJSON(path string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return json.Marshal(doc)
	}
	return data, nil
}

// SelectEnvironment picks the environment by precedence: explicit (e.g.
// hardcoded by a test), then flagOrEnv (CLI flag defaulting to the
// environment variable), then defaultName (framework config).
func SelectEnvironment(explicit, flagOrEnv, defaultName string, available map[string]Environment) (Environment, error) {
	logger := slog.Default().With("component", "config")

	name := explicit
	switch {
	case name != "":
		logger.Info("using environment", "name", name, "source", "hardcoded")
	case flagOrEnv != "":
		name = flagOrEnv
		logger.Info("using environment", "name", name, "source", "CLI/OS flags")
	case defaultName != "":
		name = defaultName
		logger.Info("using environment", "name", name, "source", "framework config")
	}

	if name == "" {
		return Environment{}, errors.New("No environment_name found in CLI flags, ENV variables")
	}
	env, ok := available[name]
	if !ok {
		return Environment{}, fmt.Errorf("Environment %s not found in %v", name, names(available))
	}
	return env, nil
}

func names(envs map[string]Environment) []string {
	out := make([]string, 0, len(envs))
	for n := range envs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Purpose selects a framework default environment.
type Purpose string

const (
	PurposeE2E Purpose = "e2e"
	PurposeSim Purpose = "sim"
)

// FrameworkDefault reads the default environment name for purpose from the
// framework config. A missing file yields "" and a warning.
func FrameworkDefault(path string, purpose Purpose) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Default().With("component", "config").Warn("could not load framework default config", "path", path)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load framework config %q: %w", path, err)
	}

	var cfg map[string]struct {
		EnvironmentName string `json:"environment_name"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("parse framework config %q: %w", path, err)
	}
	return cfg[string(purpose)].EnvironmentName, nil
}

// ResolveEnvironment applies the full precedence chain for purpose using
// cfg. explicit may be empty. A missing environment file is logged and
// treated as empty.
func ResolveEnvironment(cfg *Config, purpose Purpose, explicit string) (Environment, map[string]Environment, error) {
	defaultName := ""
	if purpose != "" {
		var err error
		if defaultName, err = FrameworkDefault(cfg.FrameworkConfigPath, purpose); err != nil {
			return Environment{}, nil, err
		}
	}

	envs, err := LoadEnvironments(cfg.EnvironmentConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Default().With("component", "config").Warn("environment file not found", "path", cfg.EnvironmentConfigPath)
		envs = map[string]Environment{}
	} else if err != nil {
		return Environment{}, nil, err
	}

	env, err := SelectEnvironment(explicit, cfg.EnvironmentName, defaultName, envs)
	if err != nil {
		return Environment{}, envs, err
	}
	return env, envs, nil
}
