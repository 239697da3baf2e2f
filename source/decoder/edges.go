package decoder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MetaCell/sckan-explorer/connectivity"
	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"
)

// maxExpandedNodes bounds the tree built from an edge list. Reconverging
// paths are duplicated during expansion, so a dense DAG can grow quickly.
const maxExpandedNodes = 100_000

// ErrTreeTooLarge is returned when an edge list expands past maxExpandedNodes.
var ErrTreeTooLarge = errors.New("partial order expands to too many nodes")

// Edge is one adjacency of a partial order given as an edge list.
type Edge struct {
	From connectivity.AnatomicalEntity `json:"from"`
	To   connectivity.AnatomicalEntity `json:"to"`
}

// CycleError reports a partial order that is not acyclic.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return "partial order contains a cycle: " + e.Path()
}

// Path renders the cycle as "a -> b -> a".
func (e *CycleError) Path() string {
	if len(e.Cycle) == 0 {
		return ""
	}
	return strings.Join(append(append([]string{}, e.Cycle...), e.Cycle[0]), " -> ")
}

// TreeFromEdges expands an edge list into a partial order tree. Entities
// without predecessors become roots, in first-seen order; several roots are
// placed under a branch marker. Children keep edge order and a node reached
// along several paths is repeated under each parent.
func TreeFromEdges(edges []Edge) (*connectivity.Node, error) {
	if len(edges) == 0 {
		return nil, nil
	}

	g := core.NewGraph(core.WithDirected(true))
	ids := make(map[connectivity.AnatomicalEntity]string)
	entities := make(map[string]connectivity.AnatomicalEntity)
	var order []string
	vertex := func(e connectivity.AnatomicalEntity) (string, error) {
		if id, ok := ids[e]; ok {
			return id, nil
		}
		if e.IsZero() {
			return "", errors.New("edge with empty entity")
		}
		id := fmt.Sprintf("v%d", len(order))
		if err := g.AddVertex(id); err != nil {
			return "", err
		}
		ids[e] = id
		entities[id] = e
		order = append(order, id)
		return id, nil
	}

	children := make(map[string][]string)
	hasParent := make(map[string]bool)
	seen := make(map[[2]string]bool)
	for _, edge := range edges {
		from, err := vertex(edge.From)
		if err != nil {
			return nil, err
		}
		to, err := vertex(edge.To)
		if err != nil {
			return nil, err
		}
		if from == to {
			return nil, &CycleError{Cycle: []string{edge.From.String()}}
		}
		if seen[[2]string{from, to}] {
			continue
		}
		seen[[2]string{from, to}] = true
		if _, err := g.AddEdge(from, to, 0); err != nil {
			return nil, fmt.Errorf("add edge %s -> %s: %w", edge.From, edge.To, err)
		}
		children[from] = append(children[from], to)
		hasParent[to] = true
	}

	cyclic, cycles, err := dfs.DetectCycles(g)
	if err != nil {
		return nil, fmt.Errorf("detect cycles: %w", err)
	}
	if cyclic {
		// Cycles come back closed: [v0, v1, ..., v0].
		closed := cycles[0]
		names := make([]string, 0, len(closed))
		for _, id := range closed[:len(closed)-1] {
			names = append(names, entities[id].String())
		}
		return nil, &CycleError{Cycle: names}
	}

	budget := maxExpandedNodes
	var expand func(id string) (connectivity.Node, error)
	expand = func(id string) (connectivity.Node, error) {
		budget--
		if budget < 0 {
			return connectivity.Node{}, ErrTreeTooLarge
		}
		kids := make([]connectivity.Node, 0, len(children[id]))
		for _, c := range children[id] {
			child, err := expand(c)
			if err != nil {
				return connectivity.Node{}, err
			}
			kids = append(kids, child)
		}
		return connectivity.Concrete(entities[id], kids...), nil
	}

	var roots []connectivity.Node
	for _, id := range order {
		if hasParent[id] {
			continue
		}
		root, err := expand(id)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}

	if len(roots) == 1 {
		return &roots[0], nil
	}
	root := connectivity.Branch(roots...)
	return &root, nil
}
