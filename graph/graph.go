package graph

import "fmt"

// Graph is a directed labeled graph over persons. Every parent/child
// relation and every marriage is stored as a reciprocal pair of edges,
// so traversal is effectively symmetric even though edges are directed.
//
// The graph is owned by a single aggregate and is not safe for
// concurrent use; callers needing shared access wrap it externally.
type Graph struct {
	persons map[PersonID]Person
	order   []PersonID // insertion order of nodes
	adj     map[PersonID]map[PersonID]RelLabel
	out     map[PersonID][]PersonID // ordered out-neighbors
	edges   []Edge                  // insertion order of edges
	names   map[string][]PersonID   // name index, duplicates visible
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		persons: make(map[PersonID]Person),
		adj:     make(map[PersonID]map[PersonID]RelLabel),
		out:     make(map[PersonID][]PersonID),
		names:   make(map[string][]PersonID),
	}
}

// AddPerson inserts a person node. Re-adding the same (name, gender)
// pair is a no-op; a namesake of the other gender becomes a distinct
// node. Returns ErrInvalidGender for a gender outside {male, female}.
func (g *Graph) AddPerson(p Person) error {
	if !p.Gender.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidGender, p.Gender)
	}
	g.addPerson(p)
	return nil
}

// addPerson inserts a pre-validated person if not already present.
func (g *Graph) addPerson(p Person) PersonID {
	id := p.ID()
	if _, ok := g.persons[id]; ok {
		return id
	}
	g.persons[id] = p
	g.order = append(g.order, id)
	g.names[p.Name] = append(g.names[p.Name], id)
	return id
}

// addEdge records a directed labeled edge. Duplicate (src, dst) pairs
// keep their original label; both endpoints must already be nodes.
func (g *Graph) addEdge(src, dst PersonID, label RelLabel) {
	if _, ok := g.adj[src][dst]; ok {
		return
	}
	if g.adj[src] == nil {
		g.adj[src] = make(map[PersonID]RelLabel)
	}
	g.adj[src][dst] = label
	g.out[src] = append(g.out[src], dst)
	g.edges = append(g.edges, Edge{Src: src, Dst: dst, Label: label})
}

// Len returns the number of person nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Persons returns all person nodes in insertion order.
func (g *Graph) Persons() []Person {
	out := make([]Person, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.persons[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Contains reports whether the exact (name, gender) pair is a node.
func (g *Graph) Contains(p Person) bool {
	_, ok := g.persons[p.ID()]
	return ok
}

// PersonByID returns the person behind a handle.
func (g *Graph) PersonByID(id PersonID) (Person, bool) {
	p, ok := g.persons[id]
	return p, ok
}

// FindByName returns the first person with the given name in insertion
// order. When duplicate names exist the choice is first-found; use
// LookupName to observe all matches.
func (g *Graph) FindByName(name string) (Person, bool) {
	ids := g.names[name]
	if len(ids) == 0 {
		return Person{}, false
	}
	return g.persons[ids[0]], true
}

// LookupName returns the handles of every person with the given name,
// in insertion order. Exposes the duplicate-name hazard explicitly.
func (g *Graph) LookupName(name string) []PersonID {
	ids := make([]PersonID, len(g.names[name]))
	copy(ids, g.names[name])
	return ids
}

// SpouseOf returns the spouse handle of id, if any. A person has at
// most one outgoing MARRIED edge at any time.
func (g *Graph) SpouseOf(id PersonID) (PersonID, bool) {
	for _, dst := range g.out[id] {
		if g.adj[id][dst] == RelMarried {
			return dst, true
		}
	}
	return "", false
}

// Label returns the label of the edge from src to dst.
func (g *Graph) Label(src, dst PersonID) (RelLabel, bool) {
	l, ok := g.adj[src][dst]
	return l, ok
}

// RestoreEdge re-records a single directed edge while reconstructing a
// graph from persisted form. Both endpoints must already be nodes and
// the label must be recognized. Callers are expected to restore
// complete reciprocal pairs; mutation operations never use this.
func (g *Graph) RestoreEdge(src, dst PersonID, label RelLabel) error {
	if !label.Valid() {
		return fmt.Errorf("unknown relation label %q", label)
	}
	if _, ok := g.persons[src]; !ok {
		return fmt.Errorf("unknown source node: %w", ErrPersonNotFound)
	}
	if _, ok := g.persons[dst]; !ok {
		return fmt.Errorf("unknown target node: %w", ErrPersonNotFound)
	}
	g.addEdge(src, dst, label)
	return nil
}

// AddMarriage records a marriage between a and b as a reciprocal pair
// of MARRIED edges, creating missing nodes. Fails with ErrInvalidGender
// on a bad gender and ErrAlreadyMarried (naming the existing spouse) if
// either party already has a spouse. Validation completes before any
// mutation, so a failure leaves the graph untouched.
func (g *Graph) AddMarriage(a, b Person) error {
	for _, p := range []Person{a, b} {
		if !p.Gender.Valid() {
			return fmt.Errorf("%w: got %q", ErrInvalidGender, p.Gender)
		}
	}
	for _, p := range []Person{a, b} {
		if spouseID, ok := g.SpouseOf(p.ID()); ok {
			spouse := g.persons[spouseID]
			return fmt.Errorf("%s is married to %s: %w", p.Name, spouse.Name, ErrAlreadyMarried)
		}
	}

	aid := g.addPerson(a)
	bid := g.addPerson(b)
	g.addEdge(aid, bid, RelMarried)
	g.addEdge(bid, aid, RelMarried)
	return nil
}

// AddParentage links child to each parent with a reciprocal
// PARENT/CHILD edge pair, creating the child node if missing. All
// validation happens up front; the edge group is applied all-or-nothing.
func (g *Graph) AddParentage(child Person, parents ...Person) error {
	if !child.Gender.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidGender, child.Gender)
	}
	for _, p := range parents {
		if !g.Contains(p) {
			return fmt.Errorf("no %s in this family: %w", p.Name, ErrPersonNotFound)
		}
	}

	cid := g.addPerson(child)
	for _, p := range parents {
		pid := p.ID()
		g.addEdge(cid, pid, RelParent)
		g.addEdge(pid, cid, RelChild)
	}
	return nil
}
