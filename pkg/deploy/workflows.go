package deploy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Mindburn-Labs/vaultsdk/pkg/vaultclient"
)

// WorkflowDefinitionVersion is the CLU resource type of workflow versions.
const WorkflowDefinitionVersion = "WORKFLOW_DEFINITION_VERSION"

// ExpectedXSRFTokenLen is the length of an ops dashboard xsrf token.
const ExpectedXSRFTokenLen = 54

// DeploymentStatusSuccessful reports whether a CLU line records a
// successful import of resourceType. Validation lines never count.
func DeploymentStatusSuccessful(line, resourceType string) bool {
	if !strings.Contains(line, resourceType) || strings.Contains(line, "VALID") {
		return false
	}
	if strings.Contains(line, "successfully") && !strings.Contains(line, "NOT IMPORTED") {
		return true
	}
	slog.Default().With("component", "deploy").Info("The following has failed to deploy. Activation skipped.", "line", line)
	return false
}

// WorkflowVersionID identifies an imported workflow definition version.
type WorkflowVersionID struct {
	Version string
	ID      string
}

// ExtractWorkflowVersionID parses the "ID in Vault" suffix of a CLU line.
func ExtractWorkflowVersionID(line string) (WorkflowVersionID, error) {
	parts := strings.Split(line, "ID in Vault: ")
	tail := strings.ReplaceAll(parts[len(parts)-1], `"`, "")
	fields := strings.Split(tail, ",")
	if len(fields) < 2 {
		return WorkflowVersionID{}, fmt.Errorf("no workflow version id in line %q", line)
	}
	return WorkflowVersionID{Version: fields[0], ID: fields[1]}, nil
}

type workflowDefinitionUpdate struct {
	RequestID          string             `json:"request_id"`
	WorkflowDefinition workflowDefinition `json:"workflow_definition"`
	UpdateMask         updateMask         `json:"update_mask"`
}

type workflowDefinition struct {
	DefaultWorkflowDefinitionVersionID string `json:"default_workflow_definition_version_id"`
}

type updateMask struct {
	Paths []string `json:"paths"`
}

// ActivateWorkflowVersion makes version the default of workflow id.
func ActivateWorkflowVersion(ctx context.Context, client *vaultclient.Client, v WorkflowVersionID) error {
	body := workflowDefinitionUpdate{
		RequestID: strings.ReplaceAll(uuid.NewString(), "-", ""),
		WorkflowDefinition: workflowDefinition{
			DefaultWorkflowDefinitionVersionID: v.Version + "," + v.ID,
		},
		UpdateMask: updateMask{Paths: []string{"default_workflow_definition_version_id"}},
	}
	return client.Do(ctx, "PUT", "/v1/workflow-definitions/"+v.ID, nil, body, nil)
}

// ActivateWorkflows activates every workflow version CLU imported
// successfully and returns how many activations failed.
func ActivateWorkflows(ctx context.Context, client *vaultclient.Client, lines []string, logger *slog.Logger) int {
	logger.Info("Activating Workflow Versions")
	if len(lines) == 0 {
		logger.Error("CLU deployment output is empty! Workflow activation not possible.")
		return 0
	}
	failures := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !DeploymentStatusSuccessful(line, WorkflowDefinitionVersion) {
			continue
		}
		v, err := ExtractWorkflowVersionID(line)
		if err != nil {
			logger.Error("Skipping activation", "error", err)
			failures++
			continue
		}
		logger.Info(fmt.Sprintf("Setting version %s of workflow %s as default.", v.Version, v.ID))
		if err := ActivateWorkflowVersion(ctx, client, v); err != nil {
			logger.Error("Workflow activation failed", "workflow", v.ID, "error", err)
			failures++
		}
	}
	return failures
}

// ExtractXSRFTokenFromCookie returns the _xsrf value of an ops dashboard
// cookie header.
func ExtractXSRFTokenFromCookie(cookie string) (string, error) {
	if !strings.Contains(cookie, "_xsrf") {
		return "", &xsrfError{msg: "_xsrf= not found in supplied auth cookie, please check --auth_cookie argument"}
	}
	_, after, _ := strings.Cut(cookie, "_xsrf=")
	token, _, _ := strings.Cut(after, ";")
	if len(token) != ExpectedXSRFTokenLen {
		return "", &xsrfError{msg: "xsrf_token not expected length, please check --auth_cookie argument"}
	}
	return token, nil
}

// InstantiationPrerequisite is one entry of a workflow instantiation config.
type InstantiationPrerequisite struct {
	VaultObjectType string   `json:"vaultObjectType"`
	ContextKeys     []string `json:"contextKeys"`
}

func listOf(objectType string) InstantiationPrerequisite {
	return InstantiationPrerequisite{VaultObjectType: objectType, ContextKeys: []string{}}
}

func instanceOf(objectType string) InstantiationPrerequisite {
	return InstantiationPrerequisite{VaultObjectType: objectType, ContextKeys: []string{objectType}}
}

// WFInstConfigMapping maps the display names used in instantiation_resources
// to ops dashboard prerequisites.
var WFInstConfigMapping = map[string]InstantiationPrerequisite{
	"Customers list":           listOf("VAULT_OBJECT_TYPE_CUSTOMER"),
	"Customer":                 instanceOf("VAULT_OBJECT_TYPE_CUSTOMER"),
	"Customer accounts list":   listOf("VAULT_OBJECT_TYPE_ACCOUNT"),
	"Customer account":         instanceOf("VAULT_OBJECT_TYPE_ACCOUNT"),
	"Transactions list":        listOf("VAULT_OBJECT_TYPE_TRANSACTION"),
	"Transaction":              instanceOf("VAULT_OBJECT_TYPE_TRANSACTION"),
	"Restriction sets list":    listOf("VAULT_OBJECT_TYPE_RESTRICTION_SET"),
	"Restriction set instance": instanceOf("VAULT_OBJECT_TYPE_RESTRICTION_SET"),
	"Flags list":               listOf("VAULT_OBJECT_TYPE_FLAG"),
	"Flag instance":            instanceOf("VAULT_OBJECT_TYPE_FLAG"),
	"Products list":            listOf("VAULT_OBJECT_TYPE_PRODUCT"),
	"Product":                  instanceOf("VAULT_OBJECT_TYPE_PRODUCT"),
	"Product version":          instanceOf("VAULT_OBJECT_TYPE_PRODUCT_VERSION"),
	"Processes list":           listOf("VAULT_OBJECT_TYPE_WORKFLOW_INSTANCE"),
	"Payments list":            listOf("VAULT_OBJECT_TYPE_PAYMENT"),
	"Payment":                  instanceOf("VAULT_OBJECT_TYPE_PAYMENT"),
	"Internal accounts list":   listOf("VAULT_OBJECT_TYPE_INTERNAL_ACCOUNT"),
	"Internal account":         instanceOf("VAULT_OBJECT_TYPE_INTERNAL_ACCOUNT"),
	"Roles list":               listOf("VAULT_OBJECT_TYPE_ROLE"),
}

// WFInstMutationName is the operation name of WFInstMutation.
const WFInstMutationName = "UpdateWorkflowInstantiationLinkMutation"

// WFInstMutation links a workflow definition to its instantiation
// prerequisites.
const WFInstMutation = `
    mutation UpdateWorkflowInstantiationLinkMutation(
        $workflowDefinitionId: String!,
        $workflowInstantiationPrerequisites: [WorkflowInstantiationPrerequisiteInput!]!
    ) {
    updateWorkflowToPrerequisiteLink(
        workflowDefinitionId: $workflowDefinitionId,
        workflowInstantiationPrerequisites: $workflowInstantiationPrerequisites
        ) {
            workflowToPrerequisiteLink {
                workflowDefinitionId
                lastEditTimestamp
                workflowInstantiationPrerequisites {
                    vaultObjectType
                    contextKeys
                    __typename
                }
                __typename
            }
            __typename
        }
    }
`

// UpdateWorkflowInstantiationConfig sends the prerequisites of one workflow
// definition. GraphQL errors in a 200 response are returned as errors.
func UpdateWorkflowInstantiationConfig(ctx context.Context, gql *vaultclient.GraphQLClient, workflowID string, resources []string) error {
	prerequisites := make([]InstantiationPrerequisite, 0, len(resources))
	for _, r := range resources {
		p, ok := WFInstConfigMapping[r]
		if !ok {
			return fmt.Errorf("Instantiation resource %s for workflow %s does not exist in the configuration mapping", r, workflowID)
		}
		prerequisites = append(prerequisites, p)
	}
	if len(prerequisites) == 0 {
		return nil
	}
	resp, err := gql.Execute(ctx, WFInstMutationName, WFInstMutation, map[string]any{
		"workflowDefinitionId":               workflowID,
		"workflowInstantiationPrerequisites": prerequisites,
	})
	if err != nil {
		return err
	}
	if resp.Failed() {
		return fmt.Errorf("Error in GraphQL response: %v", resp.Errors)
	}
	return nil
}

type instConfigFile struct {
	Resources []struct {
		ID                     string   `yaml:"id"`
		InstantiationResources []string `yaml:"instantiation_resources"`
	} `yaml:"resources"`
}

// InstConfigFiles finds every workflows/*tmp_resources.yaml under root.
func InstConfigFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Base(filepath.Dir(path)) != "workflows" {
			return nil
		}
		if ok, _ := filepath.Match("*tmp_resources.yaml", d.Name()); ok {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// UpdateInstantiationConfigs applies every instantiation config file under
// root and returns the number of workflows that failed. Failures are logged
// and counted rather than stopping the run.
func UpdateInstantiationConfigs(ctx context.Context, gql *vaultclient.GraphQLClient, root string, logger *slog.Logger) (int, error) {
	logger.Info("Updating Workflow Instantiation Config")
	files, err := InstConfigFiles(root)
	if err != nil {
		return 0, err
	}
	failures := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return failures, err
		}
		var doc instConfigFile
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return failures, fmt.Errorf("parse %s: %w", path, err)
		}
		for _, r := range doc.Resources {
			logger.Info("Updating inst config for workflow " + r.ID)
			if len(r.InstantiationResources) == 0 {
				logger.Warn("Workflow instantiation resources are not defined. Skipping workflow")
				continue
			}
			if err := UpdateWorkflowInstantiationConfig(ctx, gql, r.ID, r.InstantiationResources); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return failures, err
				}
				logger.Error("Failed to update workflow instantiation config for definition "+r.ID, "error", err)
				failures++
				continue
			}
			logger.Info("Updated successfully inst config for " + r.ID)
		}
	}
	if failures > 0 {
		logger.Error(fmt.Sprintf("%d error(s) occurred while setting workflow instantiation config. Check logs for further details", failures))
	}
	return failures, nil
}
