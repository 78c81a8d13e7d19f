// Package schema declares the HCL shapes of checkwavego criteria files.
// Translation into store records lives in internal/hclcfg.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// DependsOn represents one `depends_on` block inside a criterion.
type DependsOn struct {
	Target string `hcl:"target"`
	Type   string `hcl:"type,optional"`
}

// Criterion represents a `criterion` block from a user's criteria file.
// The duration is kept as an expression so users can write arithmetic
// like `estimated_duration_ms = 5 * 1000`; it is evaluated statically
// during translation.
type Criterion struct {
	Name           string         `hcl:"name,label"`
	Description    string         `hcl:"description,optional"`
	EstimatedMs    hcl.Expression `hcl:"estimated_duration_ms,optional"`
	Parallelizable *bool          `hcl:"parallelizable,optional"`
	Resources      []string       `hcl:"resources,optional"`
	DependsOn      []*DependsOn   `hcl:"depends_on,block"`
}

// File represents the top-level structure of a criteria file.
type File struct {
	Criteria []*Criterion `hcl:"criterion,block"`
	Body     hcl.Body     `hcl:",remain"`
}
