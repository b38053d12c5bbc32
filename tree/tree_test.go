package tree

import (
	"errors"
	"path/filepath"
	"testing"

	"kintree/config"
	"kintree/graph"
)

func newTree(t *testing.T) *FamilyTree {
	t.Helper()
	ft, err := New(config.Default())
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	return ft
}

// buildStarks assembles the three-generation pedigree used across the
// query tests: Rickard+Lyarra -> Eddard (+Catelyn) -> Robb, Sansa.
func buildStarks(t *testing.T, ft *FamilyTree) {
	t.Helper()
	steps := []func() error{
		func() error { return ft.AddPerson("Rickard", graph.Male) },
		func() error {
			return ft.Marry(graph.Person{Name: "Rickard", Gender: graph.Male}, graph.Person{Name: "Lyarra", Gender: graph.Female})
		},
		func() error { return ft.HaveChild("Eddard", graph.Male, "Rickard") },
		func() error {
			return ft.Marry(graph.Person{Name: "Eddard", Gender: graph.Male}, graph.Person{Name: "Catelyn", Gender: graph.Female})
		},
		func() error { return ft.HaveChild("Robb", graph.Male, "Eddard") },
		func() error { return ft.HaveChild("Sansa", graph.Female, "Eddard") },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("setup step %d failed: %v", i, err)
		}
	}
}

func assertTerm(t *testing.T, ft *FamilyTree, a, b, want string) {
	t.Helper()
	got, err := ft.WhoIsTo(a, b)
	if err != nil {
		t.Fatalf("WhoIsTo(%s, %s): unexpected error: %v", a, b, err)
	}
	if got != want {
		t.Errorf("WhoIsTo(%s, %s): expected %q, got %q", a, b, want, got)
	}
}

func TestAddPerson_ThenFind(t *testing.T) {
	for _, gender := range []graph.Gender{graph.Male, graph.Female} {
		ft := newTree(t)
		if err := ft.AddPerson("Sam", gender); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p, err := ft.FindPerson("Sam")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Gender != gender {
			t.Errorf("expected gender %q, got %q", gender, p.Gender)
		}
	}
}

func TestAddPerson_InvalidGender(t *testing.T) {
	ft := newTree(t)
	if err := ft.AddPerson("Sam", "droid"); !errors.Is(err, graph.ErrInvalidGender) {
		t.Errorf("expected ErrInvalidGender, got %v", err)
	}
}

func TestWhoIsTo_Self(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	assertTerm(t, ft, "Eddard", "Eddard", "self")
}

func TestWhoIsTo_ParentChild(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	assertTerm(t, ft, "Eddard", "Robb", "son")
	assertTerm(t, ft, "Eddard", "Sansa", "daughter")
	assertTerm(t, ft, "Robb", "Eddard", "father")
	assertTerm(t, ft, "Robb", "Catelyn", "mother")
}

func TestWhoIsTo_Siblings(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	assertTerm(t, ft, "Robb", "Sansa", "sister")
	assertTerm(t, ft, "Sansa", "Robb", "brother")
}

func TestWhoIsTo_Spouses(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	assertTerm(t, ft, "Eddard", "Catelyn", "wife")
	assertTerm(t, ft, "Catelyn", "Eddard", "husband")
}

func TestWhoIsTo_Grandparents(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	assertTerm(t, ft, "Rickard", "Robb", "grandson")
	assertTerm(t, ft, "Rickard", "Sansa", "granddaughter")
	assertTerm(t, ft, "Robb", "Rickard", "grandfather")
	assertTerm(t, ft, "Robb", "Lyarra", "grandmother")
}

func TestWhoIsTo_InLaws(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	assertTerm(t, ft, "Catelyn", "Rickard", "father-in-law")
	assertTerm(t, ft, "Rickard", "Catelyn", "daughter-in-law")
}

func TestWhoIsTo_UnclesAndNephews(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	if err := ft.HaveChild("Benjen", graph.Male, "Rickard"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTerm(t, ft, "Robb", "Benjen", "uncle")
	assertTerm(t, ft, "Benjen", "Robb", "nephew")
	assertTerm(t, ft, "Benjen", "Sansa", "niece")
}

// The concrete scenario from the domain contract: grandfather asks
// about grandson and vice versa. Under the documented target-gender
// convention the reverse query renders with the grandfather's gender.
func TestWhoIsTo_ConcreteScenarioTargetConvention(t *testing.T) {
	ft := newTree(t)
	if err := ft.AddPerson("A", graph.Male); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ft.Marry(graph.Person{Name: "A", Gender: graph.Male}, graph.Person{Name: "B", Gender: graph.Female}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ft.HaveChild("C", graph.Female, "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ft.Marry(graph.Person{Name: "C", Gender: graph.Female}, graph.Person{Name: "D", Gender: graph.Male}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ft.HaveChild("E", graph.Male, "C"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertTerm(t, ft, "A", "E", "grandson")
	assertTerm(t, ft, "E", "A", "grandfather")
}

func TestWhoIsTo_SubjectConvention(t *testing.T) {
	policy := config.Default()
	policy.TermGender = config.TermGenderSubject
	ft, err := New(policy)
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	buildStarks(t, ft)

	// Subject convention renders with the first person's gender: the
	// grandson asking about his grandfather still reads "grandson".
	assertTerm(t, ft, "Robb", "Rickard", "grandson")
	assertTerm(t, ft, "Sansa", "Rickard", "granddaughter")
}

func TestWhoIsTo_FarRelative(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	if err := ft.Marry(graph.Person{Name: "Robb", Gender: graph.Male}, graph.Person{Name: "Talisa", Gender: graph.Female}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Rickard -> Robb -> Talisa is CHILD, CHILD, MARRIED: the automaton
	// reaches grandchild-in-law, which has no named term. This is a
	// soft result, not an error.
	assertTerm(t, ft, "Rickard", "Talisa", "far relative")
}

func TestWhoIsTo_NotRelated(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	if err := ft.AddPerson("Tywin", graph.Male); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := ft.WhoIsTo("Eddard", "Tywin")
	if !errors.Is(err, graph.ErrNotRelated) {
		t.Errorf("expected ErrNotRelated, got %v", err)
	}
}

func TestWhoIsTo_UnknownPerson(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	if _, err := ft.WhoIsTo("Eddard", "Hodor"); !errors.Is(err, graph.ErrPersonNotFound) {
		t.Errorf("expected ErrPersonNotFound, got %v", err)
	}
	if _, err := ft.WhoIsTo("Hodor", "Eddard"); !errors.Is(err, graph.ErrPersonNotFound) {
		t.Errorf("expected ErrPersonNotFound, got %v", err)
	}
}

// Two equal-length shortest paths exist between siblings (via father,
// via mother) but both carry the same label sequence, so the rendered
// term is independent of the tie-break.
func TestWhoIsTo_TiedPathsAgreeOnTerm(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	for i := 0; i < 10; i++ {
		assertTerm(t, ft, "Robb", "Sansa", "sister")
	}
}

func TestMarry_NeitherExists(t *testing.T) {
	ft := newTree(t)
	err := ft.Marry(graph.Person{Name: "A", Gender: graph.Male}, graph.Person{Name: "B", Gender: graph.Female})
	if !errors.Is(err, graph.ErrNoEligibleSpouse) {
		t.Errorf("expected ErrNoEligibleSpouse, got %v", err)
	}
}

func TestMarry_AlreadyMarried(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	err := ft.Marry(graph.Person{Name: "Eddard", Gender: graph.Male}, graph.Person{Name: "Melisandre", Gender: graph.Female})
	if !errors.Is(err, graph.ErrAlreadyMarried) {
		t.Errorf("expected ErrAlreadyMarried, got %v", err)
	}
}

func TestMarry_BothExistingMembers(t *testing.T) {
	// Permissive policy (default): two pre-existing members may marry;
	// no relatedness validation is performed.
	ft := newTree(t)
	if err := ft.AddPerson("Jaime", graph.Male); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ft.AddPerson("Brienne", graph.Female); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ft.Marry(graph.Person{Name: "Jaime", Gender: graph.Male}, graph.Person{Name: "Brienne", Gender: graph.Female}); err != nil {
		t.Fatalf("permissive policy must allow this: %v", err)
	}

	// Strict policy: the same marriage is rejected outright.
	policy := config.Default()
	policy.MarryPolicy = config.MarryStrict
	strict, err := New(policy)
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	if err := strict.AddPerson("Jaime", graph.Male); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := strict.AddPerson("Brienne", graph.Female); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = strict.Marry(graph.Person{Name: "Jaime", Gender: graph.Male}, graph.Person{Name: "Brienne", Gender: graph.Female})
	if !errors.Is(err, ErrRelativesForbidden) {
		t.Errorf("expected ErrRelativesForbidden, got %v", err)
	}
}

func TestHaveChild_UnknownParent(t *testing.T) {
	ft := newTree(t)
	err := ft.HaveChild("Kid", graph.Male, "Nobody")
	if !errors.Is(err, graph.ErrPersonNotFound) {
		t.Errorf("expected ErrPersonNotFound, got %v", err)
	}
}

func TestHaveChild_UnmarriedParent(t *testing.T) {
	ft := newTree(t)
	if err := ft.AddPerson("Solo", graph.Male); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := ft.HaveChild("Kid", graph.Male, "Solo")
	if !errors.Is(err, graph.ErrNotMarried) {
		t.Errorf("expected ErrNotMarried, got %v", err)
	}
}

func TestHaveChild_LinksBothParents(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	// Robb was registered via HaveChild("Robb", ..., "Eddard"); both
	// parents must be linked.
	assertTerm(t, ft, "Robb", "Catelyn", "mother")
	assertTerm(t, ft, "Robb", "Eddard", "father")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	path := filepath.Join(t.TempDir(), "starks.json")
	if err := ft.Save(path); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := Load(path, config.Default())
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	orig, back := ft.Graph(), loaded.Graph()
	if back.Len() != orig.Len() {
		t.Fatalf("node count mismatch: %d vs %d", back.Len(), orig.Len())
	}
	oe, be := orig.Edges(), back.Edges()
	if len(oe) != len(be) {
		t.Fatalf("edge count mismatch: %d vs %d", len(oe), len(be))
	}
	for i := range oe {
		if oe[i] != be[i] {
			t.Errorf("edge %d mismatch: %+v vs %+v", i, oe[i], be[i])
		}
	}

	// Queries behave identically after the round trip.
	assertTerm(t, loaded, "Rickard", "Robb", "grandson")
	assertTerm(t, loaded, "Robb", "Sansa", "sister")
}

func TestRenderModel_Partitions(t *testing.T) {
	ft := newTree(t)
	buildStarks(t, ft)
	m := ft.RenderModel()

	if len(m.Males)+len(m.Females) != ft.Graph().Len() {
		t.Errorf("gender partition must cover all nodes")
	}
	for _, p := range m.Males {
		if p.Gender != graph.Male {
			t.Errorf("male partition contains %+v", p)
		}
	}
	for _, p := range m.Females {
		if p.Gender != graph.Female {
			t.Errorf("female partition contains %+v", p)
		}
	}
	for _, e := range m.Marriages {
		if e.Label != graph.RelMarried {
			t.Errorf("marriage subset contains %q edge", e.Label)
		}
	}
	for _, e := range m.Parentage {
		if e.Label != graph.RelChild {
			t.Errorf("parentage subset contains %q edge", e.Label)
		}
	}
	// Two marriages (reciprocal) and three children with two parents each.
	if len(m.Marriages) != 4 {
		t.Errorf("expected 4 MARRIED edges, got %d", len(m.Marriages))
	}
	if len(m.Parentage) != 6 {
		t.Errorf("expected 6 CHILD edges, got %d", len(m.Parentage))
	}
	for id, name := range m.Labels {
		if p, ok := ft.Graph().PersonByID(id); !ok || p.Name != name {
			t.Errorf("label %q does not match person for handle", name)
		}
	}
}

func TestNew_RejectsInvalidPolicy(t *testing.T) {
	_, err := New(config.Policy{MarryPolicy: "lenient", TermGender: config.TermGenderTarget})
	if err == nil {
		t.Errorf("expected error for invalid policy")
	}
}
