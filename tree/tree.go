// Package tree provides the FamilyTree aggregate: the sole owner of a
// relation graph, exposing mutation operations and relation queries.
package tree

import (
	"errors"
	"fmt"

	"kintree/config"
	"kintree/graph"
	"kintree/kinship"
	"kintree/nodelink"
)

// ErrRelativesForbidden is returned by Marry under the strict policy
// when both parties already belong to the family. The rule is a blanket
// one: no actual relatedness check is performed.
var ErrRelativesForbidden = errors.New("relatives cannot marry")

// FamilyTree models one family. It is single-owner and performs no
// internal locking; hosts sharing a tree across goroutines must wrap it
// in external mutual exclusion.
type FamilyTree struct {
	graph  *graph.Graph
	policy config.Policy
}

// New creates an empty family tree governed by the given policy.
func New(policy config.Policy) (*FamilyTree, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &FamilyTree{graph: graph.New(), policy: policy}, nil
}

// Load reconstructs a family tree from a node-link JSON file.
func Load(path string, policy config.Policy) (*FamilyTree, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	g, err := nodelink.Load(path)
	if err != nil {
		return nil, err
	}
	return &FamilyTree{graph: g, policy: policy}, nil
}

// FromGraph wraps an already-reconstructed graph (used by the snapshot
// store and pack import).
func FromGraph(g *graph.Graph, policy config.Policy) (*FamilyTree, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &FamilyTree{graph: g, policy: policy}, nil
}

// Save writes the tree to a node-link JSON file.
func (t *FamilyTree) Save(path string) error {
	return nodelink.Save(path, t.graph)
}

// Graph exposes the underlying relation graph for serialization
// boundaries. Mutating it directly bypasses the aggregate's policies.
func (t *FamilyTree) Graph() *graph.Graph {
	return t.graph
}

// Policy returns the conventions governing this tree.
func (t *FamilyTree) Policy() config.Policy {
	return t.policy
}

// AddPerson adds an independent member. Re-adding the exact
// (name, gender) pair is a no-op.
func (t *FamilyTree) AddPerson(name string, gender graph.Gender) error {
	return t.graph.AddPerson(graph.Person{Name: name, Gender: gender})
}

// FindPerson returns the first member with the given name in insertion
// order. When namesakes exist callers must not rely on which one wins;
// Namesakes exposes all of them.
func (t *FamilyTree) FindPerson(name string) (graph.Person, error) {
	p, ok := t.graph.FindByName(name)
	if !ok {
		return graph.Person{}, fmt.Errorf("no %s in this family: %w", name, graph.ErrPersonNotFound)
	}
	return p, nil
}

// Namesakes returns the handles of every member sharing a name.
func (t *FamilyTree) Namesakes(name string) []graph.PersonID {
	return t.graph.LookupName(name)
}

// Marry records a marriage between a and b. At least one must already
// be a member; the other is created implicitly. Under the strict policy
// a marriage between two existing members is rejected outright.
func (t *FamilyTree) Marry(a, b graph.Person) error {
	for _, p := range []graph.Person{a, b} {
		if !p.Gender.Valid() {
			return fmt.Errorf("%w: got %q", graph.ErrInvalidGender, p.Gender)
		}
	}

	found := 0
	for _, p := range []graph.Person{a, b} {
		if t.graph.Contains(p) {
			found++
		}
	}
	if found == 0 {
		return fmt.Errorf("neither %s nor %s are in the family: %w", a.Name, b.Name, graph.ErrNoEligibleSpouse)
	}
	if found == 2 && t.policy.MarryPolicy == config.MarryStrict {
		return fmt.Errorf("%s and %s: %w", a.Name, b.Name, ErrRelativesForbidden)
	}

	return t.graph.AddMarriage(a, b)
}

// HaveChild adds a new member as a child of the named parent and the
// parent's spouse. The child is linked to both parents atomically, or
// not at all.
func (t *FamilyTree) HaveChild(name string, gender graph.Gender, parentName string) error {
	parent, err := t.FindPerson(parentName)
	if err != nil {
		return err
	}
	spouseID, ok := t.graph.SpouseOf(parent.ID())
	if !ok {
		return fmt.Errorf("%s is not married: %w", parentName, graph.ErrNotMarried)
	}
	spouse, _ := t.graph.PersonByID(spouseID)

	child := graph.Person{Name: name, Gender: gender}
	return t.graph.AddParentage(child, parent, spouse)
}

// WhoIsTo answers "what is the person named first to the person named
// second": it resolves both members, walks the shortest relation path,
// classifies the path's labels, and renders the term. The gender used
// for rendering follows the tree's TermGender convention (default: the
// second, queried-about person's gender, e.g. WhoIsTo(grandfather,
// grandson) = "grandson").
//
// A path longer than the automaton can name is not an error: the query
// returns "far relative". Structural failures (unknown member,
// disconnected graph) return errors.
func (t *FamilyTree) WhoIsTo(nameA, nameB string) (string, error) {
	p1, err := t.FindPerson(nameA)
	if err != nil {
		return "", err
	}
	p2, err := t.FindPerson(nameB)
	if err != nil {
		return "", err
	}

	path, err := t.graph.ShortestPath(p1.ID(), p2.ID())
	if err != nil {
		if errors.Is(err, graph.ErrNotRelated) {
			return "", fmt.Errorf("%s and %s are not relatives: %w", nameA, nameB, graph.ErrNotRelated)
		}
		return "", err
	}
	labels, err := t.graph.PathLabels(path)
	if err != nil {
		return "", err
	}

	state := kinship.Classify(labels)
	gender := p2.Gender
	if t.policy.TermGender == config.TermGenderSubject {
		gender = p1.Gender
	}
	return kinship.Term(state, gender), nil
}
