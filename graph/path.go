package graph

import "fmt"

// ShortestPath returns the node sequence of an unweighted shortest path
// from src to dst, following outgoing edges. Because every relation is
// stored as a reciprocal pair, traversal is effectively symmetric.
//
// Neighbor expansion follows edge insertion order, so a fixed mutation
// history always yields the same path. When several shortest paths of
// equal length exist the selection among them is otherwise
// implementation-defined.
func (g *Graph) ShortestPath(src, dst PersonID) ([]PersonID, error) {
	if _, ok := g.persons[src]; !ok {
		return nil, fmt.Errorf("unknown source node: %w", ErrPersonNotFound)
	}
	if _, ok := g.persons[dst]; !ok {
		return nil, fmt.Errorf("unknown target node: %w", ErrPersonNotFound)
	}
	if src == dst {
		return []PersonID{src}, nil
	}

	prev := map[PersonID]PersonID{src: src}
	queue := []PersonID{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.out[cur] {
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = cur
			if next == dst {
				return assemblePath(prev, src, dst), nil
			}
			queue = append(queue, next)
		}
	}
	return nil, ErrNotRelated
}

// assemblePath walks predecessor links back from dst and reverses.
func assemblePath(prev map[PersonID]PersonID, src, dst PersonID) []PersonID {
	var rev []PersonID
	for cur := dst; cur != src; cur = prev[cur] {
		rev = append(rev, cur)
	}
	rev = append(rev, src)

	path := make([]PersonID, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}

// PathLabels returns the edge labels along consecutive node pairs of a
// path, in order.
func (g *Graph) PathLabels(path []PersonID) ([]RelLabel, error) {
	if len(path) == 0 {
		return nil, nil
	}
	labels := make([]RelLabel, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		label, ok := g.adj[path[i-1]][path[i]]
		if !ok {
			return nil, fmt.Errorf("no edge between path nodes %d and %d", i-1, i)
		}
		labels = append(labels, label)
	}
	return labels, nil
}
