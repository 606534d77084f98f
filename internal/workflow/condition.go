package workflow

import (
	"fmt"

	"github.com/dop251/goja"
)

// EvaluateCondition runs a condition-step expression against the workflow's
// variables, returning its boolean result. The teacher renders step configs
// through text/template; a condition step instead needs a boolean-valued
// expression language, so this implementation embeds goja (adopted from
// cedricziel-mel-agent's pkg/nodes/code/javascript_runtime.go) rather than
// stretching text/template into a predicate evaluator.
func EvaluateCondition(expression string, variables map[string]any) (bool, error) {
	vm := goja.New()
	for k, v := range variables {
		if err := vm.Set(k, v); err != nil {
			return false, fmt.Errorf("condition: binding variable %q: %w", k, err)
		}
	}

	value, err := vm.RunString(expression)
	if err != nil {
		return false, fmt.Errorf("condition: evaluating %q: %w", expression, err)
	}
	return value.ToBoolean(), nil
}
