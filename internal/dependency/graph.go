package dependency

import (
	"fmt"
	"sort"
	"strings"

	composeerrors "github.com/serverless/compose/pkg/errors"
)

// NodeID is the unique identifier for a node inside a dependency graph. For
// compositions it is the component name.
type NodeID string

// Node represents a component together with its dependency list.
type Node struct {
	ID        NodeID
	DependsOn []NodeID
}

// Graph is a very small helper to answer dependency queries.  It is *not*
// thread-safe by itself; callers must synchronise if they write concurrently.
type Graph struct {
	nodes map[NodeID]*Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[NodeID]*Node)}
}

// AddNode adds (or replaces) a node in the graph.
func (g *Graph) AddNode(n Node) {
	if g.nodes == nil {
		g.nodes = make(map[NodeID]*Node)
	}
	// Copy to avoid external mutations
	copied := n
	copied.DependsOn = append([]NodeID(nil), n.DependsOn...)
	g.nodes[n.ID] = &copied
}

// Dependents returns all node IDs that have a direct dependency on the given
// node, sorted.
func (g *Graph) Dependents(id NodeID) []NodeID {
	var res []NodeID
	for _, n := range g.nodes {
		for _, dep := range n.DependsOn {
			if dep == id {
				res = append(res, n.ID)
				break
			}
		}
	}
	sortIDs(res)
	return res
}

// Levels groups the nodes so that every node only depends on nodes of
// earlier levels. Nodes inside a level are independent of each other and
// sorted by ID.
//
// Unknown dependencies fail with COMPONENT_NOT_FOUND, cycles with
// COMPONENT_DEPENDENCY_CYCLE.
func (g *Graph) Levels() ([][]NodeID, error) {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sortIDs(ids)

	remaining := make(map[NodeID]int, len(ids))
	for _, id := range ids {
		n := g.nodes[id]
		for _, dep := range n.DependsOn {
			if _, ok := g.nodes[dep]; !ok {
				return nil, composeerrors.NewWithContext(composeerrors.ErrCodeComponentNotFound,
					fmt.Sprintf("component %q depends on %q, which is not defined in serverless-compose.yml", id, dep),
					map[string]any{"component": string(id), "dependency": string(dep)})
			}
		}
		remaining[id] = len(unique(n.DependsOn))
	}

	var levels [][]NodeID
	done := 0
	for done < len(ids) {
		var level []NodeID
		for _, id := range ids {
			if count, ok := remaining[id]; ok && count == 0 {
				level = append(level, id)
			}
		}
		if len(level) == 0 {
			return nil, cycleError(remaining)
		}
		for _, id := range level {
			delete(remaining, id)
			for _, dependent := range g.Dependents(id) {
				if _, ok := remaining[dependent]; ok {
					remaining[dependent]--
				}
			}
		}
		done += len(level)
		levels = append(levels, level)
	}
	return levels, nil
}

func cycleError(remaining map[NodeID]int) error {
	names := make([]string, 0, len(remaining))
	for id := range remaining {
		names = append(names, string(id))
	}
	sort.Strings(names)
	return composeerrors.NewWithContext(composeerrors.ErrCodeDependencyCycle,
		"circular dependency between components: "+strings.Join(names, ", "),
		map[string]any{"components": names})
}

func unique(ids []NodeID) []NodeID {
	seen := make(map[NodeID]bool, len(ids))
	out := make([]NodeID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func sortIDs(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
