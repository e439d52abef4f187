package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Mindburn-Labs/vaultsdk/pkg/config"
	"github.com/Mindburn-Labs/vaultsdk/pkg/observability"
	"github.com/Mindburn-Labs/vaultsdk/pkg/vaultclient"
)

// ErrCLUFailed is returned when CLU exits non-zero. Post-processing is
// skipped in that case.
var ErrCLUFailed = errors.New("deploy: CLU command failed")

// Deployer runs one validate or import of a manifest.
type Deployer struct {
	opts       Options
	env        *config.Environment
	workDir    string
	goos       string
	httpClient *http.Client
	telemetry  *observability.Provider
	logger     *slog.Logger
}

// DeployerOption configures a Deployer.
type DeployerOption func(*Deployer)

// WithWorkDir sets the repo root. It defaults to the process cwd.
func WithWorkDir(dir string) DeployerOption {
	return func(d *Deployer) { d.workDir = dir }
}

// WithGOOS overrides the platform check.
func WithGOOS(goos string) DeployerOption {
	return func(d *Deployer) { d.goos = goos }
}

// WithHTTPClient sets the client used for post-processing calls.
func WithHTTPClient(hc *http.Client) DeployerOption {
	return func(d *Deployer) { d.httpClient = hc }
}

// WithTelemetry traces CLU runs and API calls through p.
func WithTelemetry(p *observability.Provider) DeployerOption {
	return func(d *Deployer) { d.telemetry = p }
}

// NewDeployer returns a Deployer. env may be nil for validation runs.
func NewDeployer(opts Options, env *config.Environment, options ...DeployerOption) *Deployer {
	d := &Deployer{
		opts:   opts,
		env:    env,
		goos:   runtime.GOOS,
		logger: slog.Default().With("component", "deploy"),
	}
	for _, o := range options {
		o(d)
	}
	if d.opts.Manifest == "" {
		d.opts.Manifest = DefaultManifest
	}
	if d.opts.CLU == "" {
		d.opts.CLU = DefaultCLU
	}
	return d
}

// Run validates or imports the manifest. extra is passed through to CLU.
func (d *Deployer) Run(ctx context.Context, extra []string) error {
	if err := d.opts.Validate(); err != nil {
		return err
	}
	if err := CheckSystem(d.goos); err != nil {
		return err
	}
	if d.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		d.workDir = wd
	}
	if err := CheckWorkDir(d.workDir); err != nil {
		return err
	}
	resourceRoot, fileName, err := ManifestPath(d.workDir, d.opts.Manifest)
	if err != nil {
		return err
	}

	runner := NewCLURunner(d.opts.CLU)
	runner.Telemetry = d.telemetry

	if d.opts.ValidateManifest {
		d.logger.Info("Validating manifest at " + d.opts.Manifest)
		res, err := runner.Run(ctx, FunctionValidate, filepath.Join(d.workDir, d.opts.Manifest), nil, extra)
		if err != nil {
			return err
		}
		if !res.Success {
			return ErrCLUFailed
		}
		d.logger.Info("Exiting Deployment Utils")
		return nil
	}

	if d.env == nil {
		return errors.New("Environment config must be provided if function is not validate")
	}
	tempDir, err := os.MkdirTemp(d.workDir, "deploy-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tempDir)

	dst, err := CopyResources(d.workDir, tempDir, resourceRoot)
	if err != nil {
		return err
	}
	manifestPath := filepath.Join(dst, fileName)
	d.logger.Info(fmt.Sprintf("Importing manifest at %s to %s", manifestPath, d.env.Name))

	res, err := runner.Run(ctx, FunctionImport, manifestPath, d.env, extra)
	if err != nil {
		return err
	}
	if !res.Success {
		d.logger.Warn("Post Processing skipped due to error executing CLU command")
		return ErrCLUFailed
	}
	if err := d.postProcess(ctx, res.Lines, filepath.Join(d.workDir, resourceRoot)); err != nil {
		return err
	}
	d.logger.Info("Exiting Deployment Utils")
	return nil
}

func (d *Deployer) postProcess(ctx context.Context, lines []string, resourceRoot string) error {
	d.logger.Info("Starting post processing")
	if d.opts.ActivateWorkflows {
		opts := []vaultclient.Option{vaultclient.WithTelemetry(d.telemetry), vaultclient.WithLogger(d.logger)}
		if d.httpClient != nil {
			opts = append(opts, vaultclient.WithHTTPClient(d.httpClient))
		}
		client := vaultclient.New(d.env.WorkflowsAPIURL, d.env.AccessToken, opts...)
		if n := ActivateWorkflows(ctx, client, lines, d.logger); n > 0 {
			d.logger.Error(fmt.Sprintf("%d workflow activation(s) failed", n))
		}
	}
	if d.opts.UpdateWorkflowsInstConfig {
		token, err := ExtractXSRFTokenFromCookie(d.opts.AuthCookie)
		if err != nil {
			return err
		}
		gql := vaultclient.NewGraphQLClient(d.env.OpsDashURL, token, d.opts.AuthCookie).WithTelemetry(d.telemetry)
		if d.httpClient != nil {
			gql.WithHTTPClient(d.httpClient)
		}
		if _, err := UpdateInstantiationConfigs(ctx, gql, resourceRoot, d.logger); err != nil {
			return err
		}
	}
	d.logger.Info("Completed post processing")
	return nil
}
