package criteria

// boolPtr is a convenience for Spec.Parallelizable literals.
func boolPtr(b bool) *bool { return &b }

// Defaults returns the built-in seed graph: the standard validation
// pipeline a fresh store starts from. Callers may replace or extend any
// of these through the normal store operations; nothing else in the
// engine treats them specially.
func Defaults() map[string]Spec {
	return map[string]Spec{
		"focused-codebase": {
			Description: "Codebase stays focused on its declared scope",
			EstimatedMs: 5000,
			Resources:   []ResourceTag{ResFilesystem},
		},
		"security-validation": {
			Description: "Dependency and configuration security audit",
			EstimatedMs: 20000,
			Resources:   []ResourceTag{ResFilesystem, ResNetwork},
		},
		"linter-validation": {
			Description: "Static lint checks",
			EstimatedMs: 15000,
			Resources:   []ResourceTag{ResCPU, ResFilesystem},
		},
		"type-validation": {
			Description: "Type checking",
			EstimatedMs: 30000,
			Dependencies: []DependencyRef{
				{Target: "linter-validation", Type: DepWeak},
			},
			Resources: []ResourceTag{ResCPU, ResMemory},
		},
		"build-validation": {
			Description: "Production build",
			EstimatedMs: 60000,
			Dependencies: []DependencyRef{
				{Target: "linter-validation", Type: DepStrict},
				{Target: "type-validation", Type: DepStrict},
			},
			Resources: []ResourceTag{ResCPU, ResMemory, ResFilesystem},
		},
		"start-validation": {
			Description: "Application boots and serves",
			EstimatedMs: 30000,
			Dependencies: []DependencyRef{
				{Target: "build-validation", Type: DepStrict},
			},
			Parallelizable: boolPtr(false),
			Resources:      []ResourceTag{ResPorts, ResNetwork},
		},
		"test-validation": {
			Description: "Automated test suite",
			EstimatedMs: 120000,
			Dependencies: []DependencyRef{
				{Target: "build-validation", Type: DepStrict},
			},
			Resources: []ResourceTag{ResCPU, ResMemory},
		},
	}
}

// Seed inserts the default criteria into the store. It panics on error
// because the defaults are compile-time constants that must be valid.
func Seed(s *Store) {
	for name, spec := range Defaults() {
		if err := s.Add(name, spec); err != nil {
			panic(err)
		}
	}
}
