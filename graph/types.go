// Package graph provides the labeled relation graph underlying a family tree.
package graph

import "kintree/cas"

// Gender of a family member. The model is two-valued and closed; any
// other value fails validation at the point of construction.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Valid reports whether g is one of the two recognized genders.
func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// RelLabel represents the type of relation an edge records.
type RelLabel string

const (
	RelParent  RelLabel = "PARENT"  // child -> parent
	RelChild   RelLabel = "CHILD"   // parent -> child
	RelMarried RelLabel = "MARRIED" // spouse -> spouse
)

// Valid reports whether l is one of the three recognized relation labels.
func (l RelLabel) Valid() bool {
	return l == RelParent || l == RelChild || l == RelMarried
}

// Person identifies a family member by name and gender. Names are not
// required to be unique; the graph keeps a name index so callers can
// observe duplicates instead of relying on first-match silently.
type Person struct {
	Name   string
	Gender Gender
}

// PersonID is the content-addressed handle of a person node: the hex
// BLAKE3 digest of the (name, gender) pair.
type PersonID string

// ID returns the handle for p. Equal (name, gender) pairs share a handle.
func (p Person) ID() PersonID {
	return PersonID(cas.PersonIDHex(p.Name, string(p.Gender)))
}

// Edge is a directed labeled edge between two person nodes. Every
// semantic relation is stored as a reciprocal pair of edges.
type Edge struct {
	Src   PersonID
	Dst   PersonID
	Label RelLabel
}
