package migrator

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/n8nmigrate/internal/config"
	"github.com/dbsmedya/n8nmigrate/internal/graph"
	"github.com/dbsmedya/n8nmigrate/internal/schema"
)

// ResolveOrder returns the tables to migrate, in order. The fixed catalog
// order is the default; "graph" derives it from the declared dependencies.
// A table filter keeps the resolved order and rejects unknown names.
func ResolveOrder(cfg config.MigrationConfig) ([]string, error) {
	var order []string

	switch cfg.Ordering {
	case config.OrderingFixed, "":
		order = schema.TableOrder()
	case config.OrderingGraph:
		g, err := graph.BuildFromCatalog()
		if err != nil {
			return nil, fmt.Errorf("failed to build dependency graph: %w", err)
		}
		order, err = g.TopologicalSort()
		if err != nil {
			return nil, fmt.Errorf("failed to compute table order: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown ordering %q", cfg.Ordering)
	}

	kept, unknown := schema.FilterOrder(order, cfg.Tables)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown tables: %s", strings.Join(unknown, ", "))
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("no tables selected")
	}

	return kept, nil
}
