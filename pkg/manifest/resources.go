package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gowebpki/jcs"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Resource is one entry of a CLU resource file.
type Resource struct {
	ID                     string   `json:"id" yaml:"id"`
	Type                   string   `json:"type" yaml:"type"`
	VaultID                string   `json:"vault_id,omitempty" yaml:"vault_id,omitempty"`
	Payload                string   `json:"payload" yaml:"payload"`
	InstantiationResources []string `json:"instantiation_resources,omitempty" yaml:"instantiation_resources,omitempty"`
}

// ResourceFile is the document shape of a resource file.
type ResourceFile struct {
	Resources []Resource `json:"resources" yaml:"resources"`
}

const resourceSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["resources"],
  "properties": {
    "resources": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type", "payload"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"type": "string", "pattern": "^[A-Z][A-Z0-9_]*$"},
          "vault_id": {"type": "string"},
          "payload": {"type": "string"},
          "instantiation_resources": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

const resourceSchemaURL = "https://vaultsdk.schemas.local/manifest/resources.schema.json"

var compiledResourceSchema = func() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(resourceSchemaURL, strings.NewReader(resourceSchema)); err != nil {
		panic(fmt.Sprintf("manifest: schema load failed: %v", err))
	}
	return c.MustCompile(resourceSchemaURL)
}()

// ParseResources validates and decodes a YAML resource document.
func ParseResources(data []byte) (ResourceFile, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ResourceFile{}, fmt.Errorf("parse resources: %w", err)
	}
	generic, err := jsonCompatible(doc)
	if err != nil {
		return ResourceFile{}, fmt.Errorf("parse resources: %w", err)
	}
	if err := compiledResourceSchema.Validate(generic); err != nil {
		return ResourceFile{}, fmt.Errorf("invalid resources: %w", err)
	}

	var rf ResourceFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return ResourceFile{}, fmt.Errorf("parse resources: %w", err)
	}
	return rf, nil
}

// LoadResources reads and validates a resource file.
func LoadResources(path string) (ResourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ResourceFile{}, fmt.Errorf("load resources %q: %w", path, err)
	}
	rf, err := ParseResources(data)
	if err != nil {
		return ResourceFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return rf, nil
}

// ByType groups resources by their type.
func ByType(resources []Resource) map[string][]Resource {
	out := make(map[string][]Resource)
	for _, r := range resources {
		out[r.Type] = append(out[r.Type], r)
	}
	return out
}

// Fingerprint hashes the canonical JSON form of the resource payload, so
// payloads that differ only in key order or YAML layout match. A payload
// that is not YAML is hashed as a JSON string.
func Fingerprint(r Resource) (string, error) {
	var doc any
	if err := yaml.Unmarshal([]byte(r.Payload), &doc); err != nil {
		doc = r.Payload
	}
	generic, err := jsonCompatible(doc)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", r.ID, err)
	}
	raw, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", r.ID, err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", r.ID, err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// jsonCompatible round trips a YAML value through JSON so the result only
// holds map[string]any, []any, float64, string, bool and nil.
func jsonCompatible(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
