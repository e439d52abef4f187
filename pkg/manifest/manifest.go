// Package manifest reads product manifests and the CLU resource files they
// reference.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LibraryManifestName is excluded when globbing product manifests.
const LibraryManifestName = "library_manifest.yaml"

// ProductManifest maps a section (e.g. "SMART CONTRACTS") to resource ids.
type ProductManifest map[string][]string

// ResourceMapping locates the resource files of each manifest section,
// relative to a product directory.
var ResourceMapping = map[string]string{
	"ACCOUNT SCHEDULE TAGS":              "account_schedule_tags/*.resource.yaml",
	"SMART CONTRACTS":                    "contracts/*contract.resource.yaml",
	"WORKFLOW DEFINITIONS":               "workflows/*.resources.yaml",
	"FLAG DEFINITIONS":                   "flag_definitions/*.resource.yaml",
	"CALENDARS":                          "calendars/*.resource.yaml",
	"SUPERVISOR SMART CONTRACTS":         "contracts/*.resources.yaml",
	"SUPERVISOR SMART CONTRACT VERSIONS": "contracts/*.resources.yaml",
}

// LoadProductManifest parses one manifest file.
func LoadProductManifest(path string) (ProductManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load manifest %q: %w", path, err)
	}
	var m ProductManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %q: %w", path, err)
	}
	return m, nil
}

// LoadProductManifests parses every *_manifest.yaml in dir except the
// library manifest, keyed by path.
func LoadProductManifests(dir string) (map[string]ProductManifest, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*_manifest.yaml"))
	if err != nil {
		return nil, err
	}
	out := make(map[string]ProductManifest, len(paths))
	for _, p := range paths {
		if filepath.Base(p) == LibraryManifestName {
			continue
		}
		m, err := LoadProductManifest(p)
		if err != nil {
			return nil, err
		}
		out[p] = m
	}
	return out, nil
}

// IDs returns the lower-cased ids listed under section in every manifest.
func IDs(manifests map[string]ProductManifest, section string) []string {
	seen := map[string]bool{}
	for _, m := range manifests {
		for _, id := range m[section] {
			seen[strings.ToLower(id)] = true
		}
	}
	return sortedSet(seen)
}

// ResourceFiles globs the resource files of section under productDir.
func ResourceFiles(productDir, section string) ([]string, error) {
	pattern, ok := ResourceMapping[section]
	if !ok {
		return nil, fmt.Errorf("manifest: no resource mapping for section %q", section)
	}
	return filepath.Glob(filepath.Join(productDir, pattern))
}

// Unreferenced returns resource ids of resourceType that no manifest lists
// under section.
func Unreferenced(manifests map[string]ProductManifest, section, resourceType string, resources []Resource) []string {
	listed := map[string]bool{}
	for _, id := range IDs(manifests, section) {
		listed[id] = true
	}
	missing := map[string]bool{}
	for _, r := range resources {
		if r.Type == resourceType && !listed[strings.ToLower(r.ID)] {
			missing[strings.ToLower(r.ID)] = true
		}
	}
	return sortedSet(missing)
}

func sortedSet(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
