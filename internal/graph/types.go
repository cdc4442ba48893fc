// Package graph provides the table dependency graph and its topological ordering.
package graph

import "sort"

// Node represents a table in the dependency graph.
type Node struct {
	Name string // Table name
	Rank int    // Position in the declared catalog order, used to break ties
}

// Edge represents a dependency: From must be migrated before To.
type Edge struct {
	From string // Referenced table
	To   string // Referencing table
}

// Graph is the dependency structure of the migrated tables.
type Graph struct {
	Nodes    map[string]*Node    // table name -> node
	Children map[string][]string // table name -> tables that reference it (outgoing edges)
	Parents  map[string][]string // table name -> tables it references (incoming edges)
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:    make(map[string]*Node),
		Children: make(map[string][]string),
		Parents:  make(map[string][]string),
	}
}

// AddNode adds a table node with the given rank. Re-adding a node keeps the
// first rank.
func (g *Graph) AddNode(name string, rank int) {
	if _, exists := g.Nodes[name]; exists {
		return
	}
	g.Nodes[name] = &Node{Name: name, Rank: rank}
}

// AddEdge adds a parent -> child relationship to the graph.
// It also maintains the reverse mapping for efficient parent lookups.
func (g *Graph) AddEdge(parent, child string) {
	g.Children[parent] = append(g.Children[parent], child)
	g.Parents[child] = append(g.Parents[child], parent)
}

// GetChildren returns all tables that directly reference the given table.
func (g *Graph) GetChildren(parent string) []string {
	return g.Children[parent]
}

// GetParents returns all tables the given table directly references.
func (g *Graph) GetParents(child string) []string {
	return g.Parents[child]
}

// GetNode returns the node for a given table name, or nil if not found.
func (g *Graph) GetNode(name string) *Node {
	return g.Nodes[name]
}

// HasNode returns true if the graph contains a node with the given name.
func (g *Graph) HasNode(name string) bool {
	_, exists := g.Nodes[name]
	return exists
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.Children {
		count += len(children)
	}
	return count
}

// AllNodes returns all table names sorted by rank.
func (g *Graph) AllNodes() []string {
	nodes := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		nodes = append(nodes, name)
	}
	g.sortByRank(nodes)
	return nodes
}

// AllEdges returns all edges, ordered by the rank of the referencing table
// and then of the referenced table.
func (g *Graph) AllEdges() []Edge {
	var edges []Edge
	for parent, children := range g.Children {
		for _, child := range children {
			edges = append(edges, Edge{From: parent, To: child})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		ri, rj := g.rank(edges[i].To), g.rank(edges[j].To)
		if ri != rj {
			return ri < rj
		}
		return g.rank(edges[i].From) < g.rank(edges[j].From)
	})
	return edges
}

// InDegree returns the number of incoming edges (parents) for a node.
func (g *Graph) InDegree(name string) int {
	return len(g.Parents[name])
}

// OutDegree returns the number of outgoing edges (children) for a node.
func (g *Graph) OutDegree(name string) int {
	return len(g.Children[name])
}

func (g *Graph) rank(name string) int {
	if n, ok := g.Nodes[name]; ok {
		return n.Rank
	}
	return len(g.Nodes)
}

func (g *Graph) sortByRank(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		ri, rj := g.rank(names[i]), g.rank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
}
