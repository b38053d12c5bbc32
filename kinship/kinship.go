// Package kinship classifies relation paths into named kinship terms.
//
// A fixed deterministic automaton consumes the edge labels along a
// shortest relation path, left to right, starting at the "self" state.
// A missing transition halts classification immediately: the path is
// "related but beyond the named vocabulary", rendered as FarRelative.
// That outcome is a plain classification value, not an error; structural
// failures (unknown person, disconnected graph) travel a separate error
// channel in the owning aggregate.
package kinship

import "kintree/graph"

// State is a relationship category reached by the automaton.
type State string

const (
	StateSelf             State = "self"
	StateChild            State = "child"
	StateParent           State = "parent"
	StateSpouse           State = "spouse"
	StateParentInLaw      State = "parent-in-law"
	StateSiblingInLaw     State = "sibling-in-law"
	StateGrandchild       State = "grandchild"
	StateSibling          State = "sibling"
	StateGrandparent      State = "grandparent"
	StateUncleAunt        State = "uncle/aunt"
	StateGrandgrandparent State = "grandgrandparent"
	StateChildInLaw       State = "child-in-law"
	StateNephewNiece      State = "nephew/niece"
	StateGrandchildInLaw  State = "grandchild-in-law"
	StateCousin           State = "cousin"
	StateGrandaunt        State = "grandaunt"

	// StateFarRelative marks a path the automaton could not name.
	StateFarRelative State = "far relative"
)

// FarRelative is the sentinel term for any unmapped classification.
const FarRelative = "far relative"

// transitions is the automaton table: state -> label -> next state.
// Process-wide static data, built once, never mutated.
var transitions = map[State]map[graph.RelLabel]State{
	StateSelf:             {graph.RelParent: StateParent, graph.RelChild: StateChild, graph.RelMarried: StateSpouse},
	StateChild:            {graph.RelChild: StateGrandchild, graph.RelMarried: StateChildInLaw},
	StateParent:           {graph.RelParent: StateGrandparent, graph.RelChild: StateSibling},
	StateSpouse:           {graph.RelParent: StateParentInLaw},
	StateParentInLaw:      {graph.RelChild: StateSiblingInLaw},
	StateSiblingInLaw:     {graph.RelParent: StateParentInLaw, graph.RelChild: StateNephewNiece, graph.RelMarried: StateSiblingInLaw},
	StateGrandchild:       {graph.RelMarried: StateGrandchildInLaw},
	StateSibling:          {graph.RelChild: StateNephewNiece, graph.RelMarried: StateSiblingInLaw},
	StateGrandparent:      {graph.RelParent: StateGrandgrandparent, graph.RelChild: StateUncleAunt},
	StateUncleAunt:        {graph.RelChild: StateCousin, graph.RelMarried: StateUncleAunt},
	StateGrandgrandparent: {graph.RelChild: StateGrandaunt},
}

// Classify consumes path edge labels into a terminal state. A label
// with no transition from the current state aborts the scan and yields
// StateFarRelative; there is no backtracking or lookahead.
func Classify(labels []graph.RelLabel) State {
	state := StateSelf
	for _, label := range labels {
		next, ok := transitions[state][label]
		if !ok {
			return StateFarRelative
		}
		state = next
	}
	return state
}

// genderedTerm holds the two renderings of a terminal state.
type genderedTerm struct {
	male   string
	female string
}

// terms maps terminal states to gendered kinship terms. States absent
// here (cousin, grandaunt, grandchild-in-law, far relative) render as
// FarRelative.
var terms = map[State]genderedTerm{
	StateSelf:             {"self", "self"},
	StateChild:            {"son", "daughter"},
	StateParent:           {"father", "mother"},
	StateSpouse:           {"husband", "wife"},
	StateParentInLaw:      {"father-in-law", "mother-in-law"},
	StateGrandchild:       {"grandson", "granddaughter"},
	StateSibling:          {"brother", "sister"},
	StateGrandparent:      {"grandfather", "grandmother"},
	StateUncleAunt:        {"uncle", "aunt"},
	StateGrandgrandparent: {"grandgrandfather", "grandgrandmother"},
	StateSiblingInLaw:     {"brother-in-law", "sister-in-law"},
	StateChildInLaw:       {"son-in-law", "daughter-in-law"},
	StateNephewNiece:      {"nephew", "niece"},
}

// Term renders a (state, gender) pair as a human-readable kinship term.
// Unknown states and unrecognized genders yield FarRelative.
func Term(state State, gender graph.Gender) string {
	gt, ok := terms[state]
	if !ok {
		return FarRelative
	}
	switch gender {
	case graph.Male:
		return gt.male
	case graph.Female:
		return gt.female
	}
	return FarRelative
}
