package operations

import (
	"fmt"
	"sync"
)

// Registry manages registered operation steps
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
	order []string // Maintains registration order
}

// NewRegistry creates a new Step registry
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]Step),
		order: make([]string, 0),
	}
}

// Register adds a Step to the registry
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil step")
	}

	id := step.ID()
	if id == "" {
		return fmt.Errorf("step ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.steps[id]; exists {
		return fmt.Errorf("step %s already registered", id)
	}

	r.steps[id] = step
	r.order = append(r.order, id)
	return nil
}

// Unregister removes a Step from the registry
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.steps[id]; !exists {
		return NewNotFoundError(id)
	}

	delete(r.steps, id)

	// Remove from order slice
	newOrder := make([]string, 0, len(r.order)-1)
	for _, stageID := range r.order {
		if stageID != id {
			newOrder = append(newOrder, stageID)
		}
	}
	r.order = newOrder

	return nil
}

// Get retrieves a Step by ID
func (r *Registry) Get(id string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, exists := r.steps[id]
	if !exists {
		return nil, NewNotFoundError(id)
	}

	return step, nil
}

// Has checks if a Step is registered
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.steps[id]
	return exists
}

// List returns all registered steps in registration order
func (r *Registry) List() []Step {
	r.mu.RLock()
	defer r.mu.RUnlock()

	steps := make([]Step, 0, len(r.order))
	for _, id := range r.order {
		if step, exists := r.steps[id]; exists {
			steps = append(steps, step)
		}
	}

	return steps
}

// ListIDs returns all registered Step IDs in registration order
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Count returns the number of registered steps
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.steps)
}

// GetDependencyOrder returns steps ordered by dependencies
func (r *Registry) GetDependencyOrder() ([]Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Build dependency graph
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	// Initialize
	for id := range r.steps {
		graph[id] = []string{}
		inDegree[id] = 0
	}

	// Build graph and calculate in-degrees
	for id, step := range r.steps {
		for _, dep := range orderingDependencies(step) {
			if _, exists := r.steps[dep]; !exists {
				return nil, NewDependencyError(id, dep, fmt.Sprintf("depends on unregistered step %s", dep))
			}
			graph[dep] = append(graph[dep], id)
			inDegree[id]++
		}
	}

	// Topological sort using Kahn's algorithm
	// Use registration order for steps with same priority
	queue := make([]string, 0)
	for _, id := range r.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	ordered := make([]Step, 0, len(r.steps))
	processed := 0

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		ordered = append(ordered, r.steps[current])
		processed++

		newAvailable := make(map[string]bool)
		for _, dependent := range graph[current] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				newAvailable[dependent] = true
			}
		}

		// ties resolve in registration order
		for _, id := range r.order {
			if newAvailable[id] {
				queue = append(queue, id)
			}
		}
	}

	// Check for cycles
	if processed != len(r.steps) {
		return nil, fmt.Errorf("dependency cycle detected")
	}

	return ordered, nil
}

// ValidateDependencies checks that every dependency is registered and that
// the dependency graph has no cycle
func (r *Registry) ValidateDependencies() error {
	_, err := r.GetDependencyOrder()
	return err
}

// GetDependents returns steps that depend on the given Step
func (r *Registry) GetDependents(stageID string) []Step {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dependents := make([]Step, 0)
	for _, id := range r.order {
		step := r.steps[id]
		for _, dep := range step.GetDependencies() {
			if dep == stageID {
				dependents = append(dependents, step)
				break
			}
		}
	}

	return dependents
}

// Select returns the requested steps, everything they depend on and every
// finalizer, in dependency order. No IDs selects every registered step.
func (r *Registry) Select(ids []string) ([]Step, error) {
	ordered, err := r.GetDependencyOrder()
	if err != nil || len(ids) == 0 {
		return ordered, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool)
	var visit func(id string) error
	visit = func(id string) error {
		if wanted[id] {
			return nil
		}
		step, exists := r.steps[id]
		if !exists {
			return NewNotFoundError(id)
		}
		wanted[id] = true
		for _, dep := range step.GetDependencies() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for _, id := range ids {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	for _, id := range r.order {
		if _, ok := r.steps[id].(Finalizer); ok {
			if err := visit(id); err != nil {
				return nil, err
			}
		}
	}

	selected := make([]Step, 0, len(wanted))
	for _, step := range ordered {
		if wanted[step.ID()] {
			selected = append(selected, step)
		}
	}
	return selected, nil
}
