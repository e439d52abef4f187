package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mindburn-Labs/vaultsdk/pkg/renderer"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(append([]string{"vaultctl"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func withStdin(t *testing.T, input string) {
	t.Helper()
	prev := stdin
	stdin = strings.NewReader(input)
	t.Cleanup(func() { stdin = prev })
}

func writeTemplate(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/library\n\ngo 1.24\n"), 0o600))
	dir := filepath.Join(root, "contracts", "template")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	tmpl := filepath.Join(dir, "contract.go")
	src := "package contract\n\nconst API = \"4.0.0\"\n\nconst Version = \"1.0.0\"\n"
	require.NoError(t, os.WriteFile(tmpl, []byte(src), 0o600))
	return root, tmpl
}

func renderArgs(tmpl, out string, extra ...string) []string {
	args := []string{
		"render",
		"--input_template", tmpl,
		"--output_filepath", out,
		"--use_git=false",
		"--use_full_filepath_in_headers=false",
	}
	return append(args, extra...)
}

func TestRun_Dispatch(t *testing.T) {
	code, _, stderr := run(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage: vaultctl")

	code, _, stderr = run(t, "nope")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Unknown command: nope")

	code, stdout, _ := run(t, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "render")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "renderer "+renderer.Version)
	assert.Contains(t, stdout, "contracts API 4.0.0")
}

func TestRender(t *testing.T) {
	root, tmpl := writeTemplate(t)
	out := filepath.Join(root, "rendered", "contract.go")

	code, _, stderr := run(t, renderArgs(tmpl, out)...)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "// "+renderer.AutogenWarning))
	assert.Contains(t, string(data), `const API = "4.0.0"`)
}

func TestRender_ShortFlags(t *testing.T) {
	root, tmpl := writeTemplate(t)
	out := filepath.Join(root, "short.go")

	code, _, stderr := run(t, "render", "-in", tmpl, "-out", out, "--use_git=false")
	require.Equal(t, 0, code, stderr)
	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestRender_ExistingOutput(t *testing.T) {
	root, tmpl := writeTemplate(t)
	out := filepath.Join(root, "out.go")
	require.NoError(t, os.WriteFile(out, []byte("old"), 0o600))

	withStdin(t, "n\n")
	code, stdout, _ := run(t, renderArgs(tmpl, out)...)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "File already exists, overwrite? [y/N] ")
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	withStdin(t, "y\n")
	code, _, stderr := run(t, renderArgs(tmpl, out)...)
	require.Equal(t, 0, code, stderr)
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "const API")

	require.NoError(t, os.WriteFile(out, []byte("old"), 0o600))
	withStdin(t, "")
	code, stdout, _ = run(t, renderArgs(tmpl, out, "--force")...)
	assert.Equal(t, 0, code)
	assert.NotContains(t, stdout, "overwrite?")
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "const API")
}

func TestRender_Errors(t *testing.T) {
	root, tmpl := writeTemplate(t)

	code, _, stderr := run(t, "render", "--output_filepath", filepath.Join(root, "x.go"))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Flag --input_template must have a value other than None.")

	code, _, stderr = run(t, renderArgs(tmpl, filepath.Join(root, "x.go"), "--bogus")...)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "bogus")

	missing := filepath.Join(root, "missing.go")
	code, _, stderr = run(t, renderArgs(missing, filepath.Join(root, "x.go"))...)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Input filepath '"+missing+"' could not be found")

	dirOut := filepath.Join(root, "contracts")
	code, _, stderr = run(t, renderArgs(tmpl, dirOut)...)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid filepath: '"+dirOut+"' is not a file")

	code, _, stderr = run(t, renderArgs(tmpl, filepath.Join(root, "x.go"), "--hashing_algorithm", "crc32")...)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Unsupported hash type crc32")
}

func TestRender_Publish(t *testing.T) {
	root, tmpl := writeTemplate(t)
	store := filepath.Join(root, "store")
	t.Setenv("VAULT_ARTIFACT_STORE", "fs")
	t.Setenv("VAULT_ARTIFACT_DIR", store)

	code, stdout, stderr := run(t, renderArgs(tmpl, filepath.Join(root, "out.go"), "--publish")...)
	require.Equal(t, 0, code, stderr)
	digest := strings.TrimSpace(stdout)
	assert.Regexp(t, `^sha256:[0-9a-f]{64}$`, digest)
	_, err := os.Stat(filepath.Join(store, strings.TrimPrefix(digest, "sha256:")+".go"))
	assert.NoError(t, err)
}

func TestDeploy_FlagRules(t *testing.T) {
	code, _, stderr := run(t, "deploy")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Exactly one of `import_manifest` and `validate_manifest` must be set")

	code, _, stderr = run(t, "deploy", "--validate_manifest", "--activate_workflows")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "`import_manifest` must be set")

	code, _, stderr = run(t, "deploy", "--import_manifest", "--update_workflows_inst_config")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "`auth_cookie` must be provided")
}

func TestGitSource_RequiresHash(t *testing.T) {
	code, _, stderr := run(t, "gitsource")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Flag --file_hash must have a value other than None.")
}

func TestSpec(t *testing.T) {
	code, stdout, stderr := run(t, "spec", "--kind", "supervisor", "--format", "json")
	require.Equal(t, 0, code, stderr)

	var doc struct {
		Version string `json:"version"`
		Classes []struct {
			Name string `json:"name"`
		} `json:"classes"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "4.0.0", doc.Version)
	var names []string
	for _, c := range doc.Classes {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "VaultFunctions")

	code, _, _ = run(t, "spec", "--kind", "account")
	assert.Equal(t, 2, code)

	code, _, _ = run(t, "spec", "--version", "2.0.0")
	assert.Equal(t, 1, code)
}

const resourcesDoc = `resources:
  - id: us_checking_account
    type: SMART_CONTRACT_VERSION
    payload: |
      smart_contract_version: {id: us_checking_account}
  - id: holidays
    type: CALENDAR
    payload: |
      calendar: {id: holidays}
`

func TestManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.resources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(resourcesDoc), 0o600))

	code, stdout, stderr := run(t, "manifest", "--filter", `resource.type == "CALENDAR"`, path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "holidays")
	assert.NotContains(t, stdout, "us_checking_account")
	assert.Regexp(t, `holidays\s+CALENDAR\s+[0-9a-f]{64}`, stdout)

	code, _, _ = run(t, "manifest")
	assert.Equal(t, 2, code)

	code, _, _ = run(t, "manifest", "--filter", "resource.id", path)
	assert.Equal(t, 2, code)
}

func TestSimulate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/workflow-instances:simulate", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Auth-Token"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"steps":[{"state":{"name":"start"}}]}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	envFile := filepath.Join(dir, "environment_config.json")
	envDoc := `{"sim": {"core_api_url": "` + srv.URL + `", "workflows_api_url": "` + srv.URL + `", "access_token": "secret"}}`
	require.NoError(t, os.WriteFile(envFile, []byte(envDoc), 0o600))
	t.Setenv("INC_ENVIRONMENT_CONFIG_PATH", envFile)
	t.Setenv("INC_FRAMEWORK_CONFIG_PATH", filepath.Join(dir, "missing.json"))
	t.Setenv("INC_ENVIRONMENT_NAME", "")

	spec := filepath.Join(dir, "workflow.yaml")
	require.NoError(t, os.WriteFile(spec, []byte("name: Test\nstates: {}\n"), 0o600))
	inputs := filepath.Join(dir, "inputs.yaml")
	require.NoError(t, os.WriteFile(inputs, []byte("events:\n  - name: go\n    context: {a: b}\n"), 0o600))

	code, stdout, stderr := run(t, "simulate", "--specification_file", spec, "--inputs_file", inputs, "--environment_name", "sim")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"start"`)
	assert.Equal(t, "name: Test\nstates: {}\n", got["specification"])
	events, ok := got["events"].([]any)
	require.True(t, ok)
	require.Len(t, events, 1)

	code, _, stderr = run(t, "simulate", "--specification_file", spec, "--environment_name", "prod")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Environment prod not found")
}
