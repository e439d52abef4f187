package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/Mindburn-Labs/vaultsdk/pkg/config"
	"github.com/Mindburn-Labs/vaultsdk/pkg/deploy"
	"github.com/Mindburn-Labs/vaultsdk/pkg/flagutil"
	"github.com/Mindburn-Labs/vaultsdk/pkg/observability"
)

// runDeployCmd implements `vaultctl deploy`. Unrecognised flags are passed
// through to CLU.
func runDeployCmd(args []string, stdout, stderr io.Writer) int {
	fs, level := newFlagSet("deploy", stderr)

	cfg := config.Load()
	var opts deploy.Options
	fs.BoolVar(&opts.ImportManifest, "import_manifest", false, "Import the manifest into the environment")
	fs.BoolVar(&opts.ValidateManifest, "validate_manifest", false, "Validate the manifest without importing it")
	fs.StringVar(&opts.Manifest, "manifest", deploy.DefaultManifest, "Manifest path relative to the working directory")
	fs.StringVar(&opts.CLU, "clu_path", deploy.DefaultCLU, "Path to the CLU binary")
	fs.BoolVar(&opts.ActivateWorkflows, "activate_workflows", false, "Activate imported workflow definition versions")
	fs.BoolVar(&opts.UpdateWorkflowsInstConfig, "update_workflows_inst_config", false, "Update workflow instantiation configuration")
	fs.StringVar(&opts.AuthCookie, "auth_cookie", "", "Ops dashboard session cookie")
	fs.StringVar(&cfg.EnvironmentName, "environment_name", cfg.EnvironmentName, "Environment to import into")

	extra, code, ok := parseFlags(fs, args, flagutil.Options{AllowUnknown: true}, stderr)
	if !ok {
		return code
	}
	if err := opts.Validate(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	setupLogging(stderr, level)

	ctx, cancel := signalContext()
	defer cancel()

	var env *config.Environment
	if opts.ImportManifest {
		e, _, err := config.ResolveEnvironment(cfg, "", "")
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		env = &e
	}

	envLabel := cfg.EnvironmentName
	if env != nil {
		envLabel = env.Name
	}
	telemetry, err := observability.New(ctx, observability.FromAppConfig(cfg, envLabel))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = telemetry.Shutdown(ctx) }()

	d := deploy.NewDeployer(opts, env, deploy.WithTelemetry(telemetry))
	if err := d.Run(ctx, extra); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		var flagErr *deploy.FlagError
		if errors.As(err, &flagErr) {
			return 2
		}
		return 1
	}
	_, _ = fmt.Fprintln(stdout, "Deployment finished")
	return 0
}
