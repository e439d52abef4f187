package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Mindburn-Labs/vaultsdk/pkg/config"
	"github.com/Mindburn-Labs/vaultsdk/pkg/flagutil"
	"github.com/Mindburn-Labs/vaultsdk/pkg/vaultclient"
)

// simulationFile holds the optional inputs of a simulation.
type simulationFile struct {
	Events               []vaultclient.SimulationEvent `yaml:"events"`
	EnvironmentVariables map[string]string             `yaml:"environment_variables"`
	InstantiationContext map[string]string             `yaml:"instantiation_context"`
	StartingState        map[string]any                `yaml:"starting_state"`
	AutoFireEvents       []vaultclient.SimulationEvent `yaml:"auto_fire_events"`
}

func loadSimulationRequest(specPath, inputsPath string) (vaultclient.SimulationRequest, error) {
	spec, err := os.ReadFile(specPath)
	if err != nil {
		return vaultclient.SimulationRequest{}, fmt.Errorf("read specification: %w", err)
	}
	req := vaultclient.SimulationRequest{Specification: string(spec)}
	if inputsPath == "" {
		return req, nil
	}
	data, err := os.ReadFile(inputsPath)
	if err != nil {
		return req, fmt.Errorf("read simulation inputs: %w", err)
	}
	var in simulationFile
	if err := yaml.Unmarshal(data, &in); err != nil {
		return req, fmt.Errorf("parse simulation inputs %q: %w", inputsPath, err)
	}
	req.Events = in.Events
	req.EnvironmentVariables = in.EnvironmentVariables
	req.InstantiationContext = in.InstantiationContext
	req.StartingState = in.StartingState
	req.AutoFireEvents = in.AutoFireEvents
	return req, nil
}

// runSimulateCmd implements `vaultctl simulate`. The result steps are
// written to stdout as JSON.
func runSimulateCmd(args []string, stdout, stderr io.Writer) int {
	fs, level := newFlagSet("simulate", stderr)

	cfg := config.Load()
	var specPath, inputsPath string
	fs.StringVar(&specPath, "specification_file", "", "Workflow definition YAML (REQUIRED)")
	fs.StringVar(&inputsPath, "inputs_file", "", "YAML with events, environment_variables, instantiation_context, starting_state and auto_fire_events")
	fs.StringVar(&cfg.EnvironmentName, "environment_name", cfg.EnvironmentName, "Environment whose Workflows API is used")

	if _, code, ok := parseFlags(fs, args, flagutil.Options{}, stderr); !ok {
		return code
	}
	if err := flagutil.Required(fs, "specification_file"); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	setupLogging(stderr, level)

	req, err := loadSimulationRequest(specPath, inputsPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	env, _, err := config.ResolveEnvironment(cfg, config.PurposeSim, "")
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	client := vaultclient.NewWorkflowsClient(env.WorkflowsAPIURL, env.AccessToken)
	res, err := client.SimulateWorkflow(ctx, req)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
