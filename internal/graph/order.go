package graph

import (
	"fmt"
	"strings"
)

// OrderViolation is a dependency edge that a table sequence breaks.
type OrderViolation struct {
	Table     string // Referencing table
	DependsOn string // Referenced table
	Reason    string
}

func (v OrderViolation) String() string {
	return fmt.Sprintf("%s -> %s: %s", v.DependsOn, v.Table, v.Reason)
}

// CheckOrder reports every edge the given sequence violates. A referenced
// table absent from the sequence is not a violation, so filtered subsets
// still check clean.
func (g *Graph) CheckOrder(order []string) []OrderViolation {
	position := make(map[string]int, len(order))
	for i, name := range order {
		if _, dup := position[name]; !dup {
			position[name] = i
		}
	}

	var violations []OrderViolation
	for _, edge := range g.AllEdges() {
		childPos, childOK := position[edge.To]
		parentPos, parentOK := position[edge.From]
		if !childOK || !parentOK {
			continue
		}
		if parentPos > childPos {
			violations = append(violations, OrderViolation{
				Table:     edge.To,
				DependsOn: edge.From,
				Reason:    fmt.Sprintf("position %d precedes referenced table at %d", childPos, parentPos),
			})
		}
	}
	return violations
}

// OrderError wraps the violations found by CheckOrder.
type OrderError struct {
	Violations []OrderViolation
}

func (e *OrderError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("table order violates %d dependencies:\n  - %s",
		len(e.Violations), strings.Join(parts, "\n  - "))
}

// ValidateOrder returns an *OrderError when the sequence breaks any edge.
func (g *Graph) ValidateOrder(order []string) error {
	if v := g.CheckOrder(order); len(v) > 0 {
		return &OrderError{Violations: v}
	}
	return nil
}
