package vaultclient

import (
	"context"
	"errors"
)

// ErrConflictingStart is returned when a simulation sets both an
// instantiation context and a starting state.
var ErrConflictingStart = errors.New("vaultclient: instantiation_context and starting_state are mutually exclusive")

// WorkflowsClient talks to the Workflows API.
type WorkflowsClient struct {
	*Client
}

// NewWorkflowsClient creates a Workflows API client.
func NewWorkflowsClient(baseURL, authToken string, opts ...Option) *WorkflowsClient {
	return &WorkflowsClient{Client: New(baseURL, authToken, opts...)}
}

// SimulationEvent is an event sent to a simulated instance.
type SimulationEvent struct {
	Name    string            `json:"name"`
	Context map[string]string `json:"context,omitempty"`
}

// SimulationRequest is the body of a workflow simulation.
type SimulationRequest struct {
	// Specification is the YAML workflow definition. Required.
	Specification        string            `json:"specification"`
	Events               []SimulationEvent `json:"events"`
	EnvironmentVariables map[string]string `json:"environment_variables"`
	InstantiationContext map[string]string `json:"instantiation_context"`
	StartingState        map[string]any    `json:"starting_state"`
	AutoFireEvents       []SimulationEvent `json:"auto_fire_events"`
}

// SimulationStep is one state transition of a simulation.
type SimulationStep struct {
	State       map[string]any   `json:"state"`
	Event       map[string]any   `json:"event,omitempty"`
	SideEffects []map[string]any `json:"side_effects,omitempty"`
}

// SimulationResult is the simulator's response.
type SimulationResult struct {
	Steps []SimulationStep `json:"steps"`
}

// SimulateWorkflow runs a workflow definition in the simulator.
func (w *WorkflowsClient) SimulateWorkflow(ctx context.Context, req SimulationRequest) (*SimulationResult, error) {
	if req.Specification == "" {
		return nil, errors.New("vaultclient: simulation specification is required")
	}
	if req.InstantiationContext != nil && req.StartingState != nil {
		return nil, ErrConflictingStart
	}
	var out SimulationResult
	if err := w.Do(ctx, "POST", "/v1/workflow-instances:simulate", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
