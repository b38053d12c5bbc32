// Package nodelink implements the node-link JSON interchange format for
// family graphs: a node list carrying person identity and a link list
// referencing nodes by index.
package nodelink

import (
	"encoding/json"
	"fmt"
	"os"

	"kintree/graph"
)

// Document is the top-level node-link structure.
type Document struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Node carries a person's identity fields; its position in the node
// list is the implicit index links refer to.
type Node struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

// Link is a directed labeled edge between two node indices.
type Link struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Label  string `json:"label"`
}

// FromGraph captures a graph as a node-link document. Node order is
// the graph's insertion order; link order is edge insertion order.
func FromGraph(g *graph.Graph) *Document {
	persons := g.Persons()
	index := make(map[graph.PersonID]int, len(persons))

	doc := &Document{
		Nodes: make([]Node, 0, len(persons)),
		Links: []Link{},
	}
	for i, p := range persons {
		index[p.ID()] = i
		doc.Nodes = append(doc.Nodes, Node{Name: p.Name, Gender: string(p.Gender)})
	}
	for _, e := range g.Edges() {
		doc.Links = append(doc.Links, Link{
			Source: index[e.Src],
			Target: index[e.Dst],
			Label:  string(e.Label),
		})
	}
	return doc
}

// Graph reconstructs an equivalent relation graph from the document.
// Node identity and all edge labels round-trip losslessly; malformed
// indices, genders, or labels are rejected.
func (d *Document) Graph() (*graph.Graph, error) {
	g := graph.New()
	ids := make([]graph.PersonID, 0, len(d.Nodes))
	for i, n := range d.Nodes {
		p := graph.Person{Name: n.Name, Gender: graph.Gender(n.Gender)}
		if err := g.AddPerson(p); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		ids = append(ids, p.ID())
	}
	for i, l := range d.Links {
		if l.Source < 0 || l.Source >= len(ids) || l.Target < 0 || l.Target >= len(ids) {
			return nil, fmt.Errorf("link %d: node index out of range", i)
		}
		if err := g.RestoreEdge(ids[l.Source], ids[l.Target], graph.RelLabel(l.Label)); err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
	}
	return g, nil
}

// Encode serializes the document as UTF-8 JSON text.
func Encode(d *Document) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling node-link document: %w", err)
	}
	return data, nil
}

// Decode parses a node-link JSON document.
func Decode(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing node-link JSON: %w", err)
	}
	return &d, nil
}

// Save writes a graph to a node-link JSON file.
func Save(path string, g *graph.Graph) error {
	data, err := Encode(FromGraph(g))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing node-link file: %w", err)
	}
	return nil
}

// Load reconstructs a graph from a node-link JSON file.
func Load(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading node-link file: %w", err)
	}
	d, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return d.Graph()
}
