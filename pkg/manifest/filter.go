package manifest

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Filter returns the resources for which expr evaluates to true. expr sees
// a single map variable, resource, with keys id, type, vault_id and
// instantiation_resources, e.g.
//
//	resource.type == "SMART_CONTRACT_VERSION" && resource.id.startsWith("us_")
func Filter(resources []Resource, expr string) ([]Resource, error) {
	env, err := cel.NewEnv(cel.Variable("resource", cel.MapType(cel.StringType, cel.DynType)))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile filter: %w", issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("filter must evaluate to bool, got %s", ast.OutputType())
	}
	prg, err := env.Program(ast, cel.CostLimit(10000))
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}

	var out []Resource
	for _, r := range resources {
		instRes := make([]any, 0, len(r.InstantiationResources))
		for _, s := range r.InstantiationResources {
			instRes = append(instRes, s)
		}
		val, _, err := prg.Eval(map[string]any{
			"resource": map[string]any{
				"id":                      r.ID,
				"type":                    r.Type,
				"vault_id":                r.VaultID,
				"instantiation_resources": instRes,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("evaluate filter on %s: %w", r.ID, err)
		}
		if keep, ok := val.Value().(bool); ok && keep {
			out = append(out, r)
		}
	}
	return out, nil
}
