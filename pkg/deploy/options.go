package deploy

// Defaults for the deploy flags.
const (
	DefaultManifest = "library/library_manifest.yaml"
	DefaultCLU      = "tools/clu-linux-amd64"
)

// Options are the deploy flags.
type Options struct {
	ImportManifest            bool
	ValidateManifest          bool
	Manifest                  string
	CLU                       string
	ActivateWorkflows         bool
	UpdateWorkflowsInstConfig bool
	AuthCookie                string
}

// Validate applies the multi-flag rules in order.
func (o Options) Validate() error {
	if o.ImportManifest == o.ValidateManifest {
		return &FlagError{Message: "Exactly one of `import_manifest` and `validate_manifest` must be set"}
	}
	if !o.ImportManifest && (o.AuthCookie != "" || o.ActivateWorkflows || o.UpdateWorkflowsInstConfig) {
		return &FlagError{Message: "`import_manifest` must be set if providing one or more of `auth_cookie`, " +
			"`update_workflows_inst_config` and `activate_workflows`"}
	}
	if o.UpdateWorkflowsInstConfig && o.AuthCookie == "" {
		return &FlagError{Message: "`auth_cookie` must be provided if `update_workflows_inst_config` is set"}
	}
	return nil
}
