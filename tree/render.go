package tree

import "kintree/graph"

// RenderModel is the read-only view a rendering collaborator consumes:
// nodes partitioned by gender, edges partitioned into marriage and
// parent/child subsets, and display names per handle. The tree owns no
// layout or drawing logic.
type RenderModel struct {
	Males     []graph.Person
	Females   []graph.Person
	Marriages []graph.Edge // reciprocal MARRIED edges
	Parentage []graph.Edge // parent -> child CHILD edges
	Labels    map[graph.PersonID]string
}

// RenderModel captures the tree's current render view.
func (t *FamilyTree) RenderModel() *RenderModel {
	m := &RenderModel{Labels: make(map[graph.PersonID]string)}
	for _, p := range t.graph.Persons() {
		switch p.Gender {
		case graph.Male:
			m.Males = append(m.Males, p)
		case graph.Female:
			m.Females = append(m.Females, p)
		}
		m.Labels[p.ID()] = p.Name
	}
	for _, e := range t.graph.Edges() {
		switch e.Label {
		case graph.RelMarried:
			m.Marriages = append(m.Marriages, e)
		case graph.RelChild:
			m.Parentage = append(m.Parentage, e)
		}
	}
	return m
}
