// Package deploy drives CLU imports and validations of a resource manifest
// and post-processes the imported workflows.
package deploy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Mindburn-Labs/vaultsdk/pkg/config"
	"github.com/Mindburn-Labs/vaultsdk/pkg/observability"
)

// Line classification keywords.
var (
	CLUErrorKeywords   = []string{"FAIL", "failed to", "INVALID"}
	CLUWarningKeywords = []string{"PARTIAL SUCCESS"}
)

// CLU functions.
const (
	FunctionImport   = "import"
	FunctionValidate = "validate"
)

// Severity is the classification of one CLU output line.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// ClassifyLine returns the severity of a CLU output line. Error keywords win
// over warning keywords.
func ClassifyLine(line string) Severity {
	for _, k := range CLUErrorKeywords {
		if strings.Contains(line, k) {
			return SeverityError
		}
	}
	for _, k := range CLUWarningKeywords {
		if strings.Contains(line, k) {
			return SeverityWarning
		}
	}
	return SeverityInfo
}

// CLUResult is the outcome of one CLU run.
type CLUResult struct {
	Success  bool
	ExitCode int
	// Lines holds stdout followed by stderr.
	Lines []string
}

// CLURunner executes the CLU binary.
type CLURunner struct {
	Path         string
	OutputFormat string
	Logger       *slog.Logger
	Telemetry    *observability.Provider
}

// NewCLURunner returns a runner for the binary at path using text output.
func NewCLURunner(path string) *CLURunner {
	return &CLURunner{
		Path:         path,
		OutputFormat: "text",
		Logger:       slog.Default().With("component", "clu"),
	}
}

// Command builds the CLU argument list. Credentials are only added for
// functions other than validate, which require env.
func (r *CLURunner) Command(function, manifestPath string, env *config.Environment, extra []string) ([]string, error) {
	format := r.OutputFormat
	if format == "" {
		format = "text"
	}
	args := []string{function, manifestPath, "--output=" + format}
	if function != FunctionValidate {
		if env == nil {
			return nil, errors.New("Environment config must be provided if function is not validate")
		}
		args = append(args,
			"--auth-token="+env.AccessToken,
			"--core-api="+env.CoreAPIURL,
			"--workflows-api="+env.WorkflowsAPIURL,
		)
	}
	return append(args, extra...), nil
}

// Run executes CLU, logging each line at its classified level as it
// arrives. A non-zero exit is reported through CLUResult.Success; the
// error is reserved for failures to run CLU at all, including context
// cancellation.
func (r *CLURunner) Run(ctx context.Context, function, manifestPath string, env *config.Environment, extra []string) (CLUResult, error) {
	ctx, finish := r.Telemetry.TrackOperation(ctx, "vault.clu", attribute.String("clu.function", function))
	res, err := r.run(ctx, function, manifestPath, env, extra)
	if err == nil && !res.Success {
		finish(fmt.Errorf("clu exited with code %d", res.ExitCode))
	} else {
		finish(err)
	}
	return res, err
}

func (r *CLURunner) run(ctx context.Context, function, manifestPath string, env *config.Environment, extra []string) (CLUResult, error) {
	args, err := r.Command(function, manifestPath, env, extra)
	if err != nil {
		return CLUResult{}, err
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default().With("component", "clu")
	}

	//nolint:gosec // G204: the binary path is an operator supplied flag
	cmd := exec.CommandContext(ctx, r.Path, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return CLUResult{}, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return CLUResult{}, err
	}
	if err := cmd.Start(); err != nil {
		return CLUResult{}, fmt.Errorf("start clu: %w", err)
	}

	var (
		wg                 sync.WaitGroup
		outLines, errLines []string
	)
	wg.Add(2)
	go func() { defer wg.Done(); outLines = stream(ctx, logger, stdout) }()
	go func() { defer wg.Done(); errLines = stream(ctx, logger, stderr) }()
	wg.Wait()

	waitErr := cmd.Wait()
	res := CLUResult{Lines: append(outLines, errLines...)}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("clu %s: %w", function, ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		res.Success = true
		logger.Info("Completed CLU command")
	case errors.As(waitErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		logger.Error("Error while executing CLU command", "exit_code", res.ExitCode)
	default:
		return res, fmt.Errorf("clu %s: %w", function, waitErr)
	}
	return res, nil
}

func stream(ctx context.Context, logger *slog.Logger, rd io.Reader) []string {
	var lines []string
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		lines = append(lines, line)
		switch ClassifyLine(line) {
		case SeverityError:
			logger.ErrorContext(ctx, line)
		case SeverityWarning:
			logger.WarnContext(ctx, line)
		default:
			logger.InfoContext(ctx, line)
		}
	}
	return lines
}
