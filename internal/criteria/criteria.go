// Package criteria defines the criterion model and the in-memory store
// that every planner and view in checkwavego reads from.
package criteria

import (
	"errors"
	"slices"
)

// Sentinel errors returned by store mutations.
var (
	// ErrInvalidArgument reports an empty or otherwise unusable criterion name.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidDependencySpec reports a dependency entry with no target or
	// an unknown dependency type, or an unknown resource tag.
	ErrInvalidDependencySpec = errors.New("invalid dependency spec")
)

// DependencyType categorizes the relationship between two criteria.
type DependencyType string

const (
	// DepStrict blocks the dependent until the target completes successfully.
	DepStrict DependencyType = "strict"
	// DepWeak is a soft ordering preference that never blocks scheduling.
	DepWeak DependencyType = "weak"
	// DepOptional is advisory only and never affects ordering.
	DepOptional DependencyType = "optional"
)

// IsValid reports whether the dependency type is one of the known kinds.
func (d DependencyType) IsValid() bool {
	switch d {
	case DepStrict, DepWeak, DepOptional:
		return true
	}
	return false
}

// Blocking reports whether the dependency type participates in ordering.
// Optional edges are informational only.
func (d DependencyType) Blocking() bool {
	return d == DepStrict || d == DepWeak
}

// ResourceTag labels a resource a criterion needs while it runs. The tag
// set is closed; unknown tags are rejected at insertion.
type ResourceTag string

const (
	ResFilesystem ResourceTag = "filesystem"
	ResCPU        ResourceTag = "cpu"
	ResMemory     ResourceTag = "memory"
	ResNetwork    ResourceTag = "network"
	ResPorts      ResourceTag = "ports"
	ResDisk       ResourceTag = "disk"
)

// AllResourceTags lists every known tag in a stable order.
var AllResourceTags = []ResourceTag{
	ResFilesystem, ResCPU, ResMemory, ResNetwork, ResPorts, ResDisk,
}

// IsValid reports whether the tag is part of the closed tag set.
func (r ResourceTag) IsValid() bool {
	return slices.Contains(AllResourceTags, r)
}

// Exclusive reports whether two criteria sharing this tag must never run
// in the same wave. Ports and a single network binding cannot be shared;
// cpu, memory, filesystem and disk are contended but shareable.
func (r ResourceTag) Exclusive() bool {
	return r == ResPorts || r == ResNetwork
}

// DependencyRef is one declared dependency edge of a criterion.
type DependencyRef struct {
	Target string         `json:"targetCriterion"`
	Type   DependencyType `json:"dependencyType"`
}

// Criterion is a named unit of validation work with its declared
// dependencies and scheduling metadata.
type Criterion struct {
	Name           string          `json:"-"`
	Dependencies   []DependencyRef `json:"dependencies"`
	Description    string          `json:"description,omitempty"`
	EstimatedMs    int64           `json:"estimatedDurationMs"`
	Parallelizable bool            `json:"parallelizable"`
	Resources      []ResourceTag   `json:"resourceRequirements,omitempty"`
}

// clone returns a deep copy so store snapshots cannot alias internal state.
func (c Criterion) clone() Criterion {
	out := c
	out.Dependencies = slices.Clone(c.Dependencies)
	out.Resources = slices.Clone(c.Resources)
	return out
}

// BlockingDeps returns the strict and weak dependency refs of the criterion.
func (c Criterion) BlockingDeps() []DependencyRef {
	var out []DependencyRef
	for _, d := range c.Dependencies {
		if d.Type.Blocking() {
			out = append(out, d)
		}
	}
	return out
}
