package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractResources = `resources:
  - id: us_checking_account
    type: SMART_CONTRACT_VERSION
    vault_id: us_checking_account
    payload: |
      smart_contract_version:
        id: us_checking_account
        code: "api = '4.0.0'"
        display_name: US Checking
  - id: us_savings_account
    type: SMART_CONTRACT_VERSION
    payload: |
      smart_contract_version: {display_name: US Savings, id: us_savings_account}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseResources(t *testing.T) {
	rf, err := ParseResources([]byte(contractResources))
	require.NoError(t, err)
	require.Len(t, rf.Resources, 2)
	assert.Equal(t, "us_checking_account", rf.Resources[0].ID)
	assert.Equal(t, "SMART_CONTRACT_VERSION", rf.Resources[0].Type)
	assert.Equal(t, "us_checking_account", rf.Resources[0].VaultID)
	assert.Contains(t, rf.Resources[0].Payload, "display_name: US Checking")
}

func TestParseResources_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing resources": "other: []\n",
		"missing payload":   "resources:\n  - id: a\n    type: CALENDAR\n",
		"lower case type":   "resources:\n  - id: a\n    type: calendar\n    payload: x\n",
		"empty id":          "resources:\n  - id: ''\n    type: CALENDAR\n    payload: x\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseResources([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadProductManifests(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "library_manifest.yaml"), "SMART CONTRACTS: [ignored]\n")
	writeFile(t, filepath.Join(dir, "current_accounts_manifest.yaml"),
		"SMART CONTRACTS:\n  - US_Checking_Account\nWORKFLOW DEFINITIONS:\n  - CLOSE_ACCOUNT\n")
	writeFile(t, filepath.Join(dir, "savings_manifest.yaml"), "SMART CONTRACTS: [us_checking_account]\n")

	manifests, err := LoadProductManifests(dir)
	require.NoError(t, err)
	assert.Len(t, manifests, 2)
	assert.Equal(t, []string{"us_checking_account"}, IDs(manifests, "SMART CONTRACTS"))
	assert.Equal(t, []string{"close_account"}, IDs(manifests, "WORKFLOW DEFINITIONS"))
	assert.Empty(t, IDs(manifests, "CALENDARS"))

	rf, err := ParseResources([]byte(contractResources))
	require.NoError(t, err)
	assert.Equal(t, []string{"us_savings_account"},
		Unreferenced(manifests, "SMART CONTRACTS", "SMART_CONTRACT_VERSION", rf.Resources))
}

func TestResourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "contracts", "checking_contract.resource.yaml"), contractResources)
	writeFile(t, filepath.Join(dir, "contracts", "notes.txt"), "")

	files, err := ResourceFiles(dir, "SMART CONTRACTS")
	require.NoError(t, err)
	require.Len(t, files, 1)

	rf, err := LoadResources(files[0])
	require.NoError(t, err)
	assert.Len(t, ByType(rf.Resources)["SMART_CONTRACT_VERSION"], 2)

	_, err = ResourceFiles(dir, "UNKNOWN")
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	resources := []Resource{
		{ID: "us_checking_account", Type: "SMART_CONTRACT_VERSION"},
		{ID: "close_account", Type: "WORKFLOW_DEFINITION_VERSION", InstantiationResources: []string{"us_checking_account"}},
		{ID: "holidays", Type: "CALENDAR"},
	}

	got, err := Filter(resources, `resource.type == "SMART_CONTRACT_VERSION" || resource.id.startsWith("hol")`)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "us_checking_account", got[0].ID)
	assert.Equal(t, "holidays", got[1].ID)

	got, err = Filter(resources, `"us_checking_account" in resource.instantiation_resources`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "close_account", got[0].ID)

	_, err = Filter(resources, `resource.id`)
	assert.Error(t, err, "non bool expression")

	_, err = Filter(resources, `resource.id ==`)
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a := Resource{ID: "a", Payload: "b: 1\na: [x, y]\n"}
	b := Resource{ID: "b", Payload: `{"a": ["x", "y"], "b": 1}`}
	c := Resource{ID: "c", Payload: "b: 2\na: [x, y]\n"}

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	fc, err := Fingerprint(c)
	require.NoError(t, err)

	assert.Len(t, fa, 64)
	assert.Equal(t, fa, fb, "key order and layout do not matter")
	assert.NotEqual(t, fa, fc)
}
