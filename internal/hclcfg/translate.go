package hclcfg

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/checkwavego/internal/criteria"
	"github.com/vk/checkwavego/internal/schema"
)

// translateCriterion converts an HCL criterion block into a store spec.
// The duration expression is evaluated statically: criteria files carry
// no variables, so a nil evaluation context is sufficient.
func translateCriterion(block *schema.Criterion) (criteria.Spec, error) {
	spec := criteria.Spec{
		Description:    block.Description,
		Parallelizable: block.Parallelizable,
	}

	if block.EstimatedMs != nil {
		val, diags := block.EstimatedMs.Value(nil)
		if diags.HasErrors() {
			return criteria.Spec{}, fmt.Errorf("criterion %q: estimated_duration_ms: %s", block.Name, diags.Error())
		}
		if !val.IsNull() {
			if val.Type() != cty.Number {
				return criteria.Spec{}, fmt.Errorf("criterion %q: estimated_duration_ms must be a number", block.Name)
			}
			ms, _ := val.AsBigFloat().Int64()
			spec.EstimatedMs = ms
		}
	}

	for _, tag := range block.Resources {
		spec.Resources = append(spec.Resources, criteria.ResourceTag(tag))
	}

	for _, dep := range block.DependsOn {
		depType := criteria.DependencyType(dep.Type)
		if dep.Type == "" {
			depType = criteria.DepStrict
		}
		spec.Dependencies = append(spec.Dependencies, criteria.DependencyRef{
			Target: dep.Target,
			Type:   depType,
		})
	}
	return spec, nil
}
