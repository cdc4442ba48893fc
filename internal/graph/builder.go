package graph

import (
	"fmt"

	"github.com/dbsmedya/n8nmigrate/internal/schema"
)

// Builder constructs a dependency graph from table specs.
type Builder struct {
	specs []schema.TableSpec
}

// NewBuilder creates a new graph builder for the given table specs.
// The slice order becomes the node rank.
func NewBuilder(specs []schema.TableSpec) *Builder {
	return &Builder{specs: specs}
}

// Build constructs the dependency graph and validates it has no cycles.
func (b *Builder) Build() (*Graph, error) {
	if len(b.specs) == 0 {
		return nil, fmt.Errorf("no tables to build a graph from")
	}

	g := NewGraph()

	for i, spec := range b.specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("table name is empty at position %d", i)
		}
		if g.HasNode(spec.Name) {
			return nil, fmt.Errorf("duplicate table %q in catalog", spec.Name)
		}
		g.AddNode(spec.Name, i)
	}

	for _, spec := range b.specs {
		seen := make(map[string]bool, len(spec.DependsOn))
		for _, dep := range spec.DependsOn {
			if !g.HasNode(dep) {
				return nil, fmt.Errorf("table %q depends on unknown table %q", spec.Name, dep)
			}
			if seen[dep] {
				continue
			}
			seen[dep] = true
			g.AddEdge(dep, spec.Name)
		}
	}

	// Fail fast on cycles
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("graph validation failed: %w", err)
	}

	return g, nil
}

// BuildFromCatalog builds the graph of every n8n table.
func BuildFromCatalog() (*Graph, error) {
	return NewBuilder(schema.Tables()).Build()
}
