package board

import (
	"slices"
	"testing"

	"walkboard/models"
)

func TestLinkPair_SymmetricAndDisjoint(t *testing.T) {
	t.Parallel()

	a, b := dog("1", "Rex"), dog("2", "Bim")
	a.Conflicts = []string{"2"}
	b.Conflicts = []string{"1"}
	s := testState(a, b)

	touched := s.LinkPair("1", "2")

	if len(touched) != 2 {
		t.Fatalf("touched = %v, want both dogs", touched)
	}
	for _, pair := range [][2]string{{"1", "2"}, {"2", "1"}} {
		d, _ := s.Dog(pair[0])
		if !slices.Contains(d.Pairs, pair[1]) {
			t.Errorf("dog %s pairs = %v, want %s", pair[0], d.Pairs, pair[1])
		}
		if slices.Contains(d.Conflicts, pair[1]) {
			t.Errorf("dog %s conflicts = %v, still holds %s", pair[0], d.Conflicts, pair[1])
		}
	}
}

func TestLinkPair_Idempotent(t *testing.T) {
	t.Parallel()

	s := testState(dog("1", "Rex"), dog("2", "Bim"))
	s.LinkPair("1", "2")
	if touched := s.LinkPair("1", "2"); len(touched) != 0 {
		t.Errorf("second link touched %v, want nothing", touched)
	}
	d, _ := s.Dog("1")
	if len(d.Pairs) != 1 {
		t.Errorf("pairs = %v, want a single entry", d.Pairs)
	}
}

func TestLinkSelfIgnored(t *testing.T) {
	t.Parallel()

	s := testState(dog("1", "Rex"))
	if touched := s.LinkConflict("1", "1"); touched != nil {
		t.Errorf("self link touched %v", touched)
	}
}

func TestUnlinkConflict_BothSides(t *testing.T) {
	t.Parallel()

	s := testState(dog("1", "Rex"), dog("2", "Bim"))
	s.LinkConflict("1", "2")
	s.UnlinkConflict("2", "1")

	for _, id := range []string{"1", "2"} {
		d, _ := s.Dog(id)
		if len(d.Conflicts) != 0 {
			t.Errorf("dog %s conflicts = %v, want empty", id, d.Conflicts)
		}
	}
}

func TestLinkToMissingDogKeepsLocalSide(t *testing.T) {
	t.Parallel()

	s := testState(dog("1", "Rex"))
	s.LinkPair("1", "404")
	d, _ := s.Dog("1")
	if !slices.Equal(d.Pairs, []string{"404"}) {
		t.Errorf("pairs = %v, want [404]", d.Pairs)
	}
}

func TestRelationsStaySymmetricAfterSaves(t *testing.T) {
	t.Parallel()

	s := testState(dog("1", "Rex"), dog("2", "Bim"), dog("3", "Luna"), dog("4", "Max"))
	var err error
	steps := []struct {
		id    string
		patch models.DogPatch
	}{
		{"1", models.DogPatch{Pairs: &[]string{"2", "3"}}},
		{"3", models.DogPatch{Conflicts: &[]string{"1", "4"}}},
		{"2", models.DogPatch{Pairs: &[]string{"4"}, Conflicts: &[]string{"3"}}},
		{"4", models.DogPatch{Pairs: &[]string{}}},
	}
	for _, step := range steps {
		s, _, _, err = UpdateDog(s, step.id, step.patch)
		if err != nil {
			t.Fatalf("UpdateDog(%s): %v", step.id, err)
		}
	}

	for _, a := range s.Dogs {
		for _, bID := range a.Pairs {
			b, _ := s.Dog(bID)
			if !slices.Contains(b.Pairs, a.ID) {
				t.Errorf("%s pairs %s but not the other way round", a.ID, bID)
			}
			if slices.Contains(a.Conflicts, bID) || slices.Contains(b.Conflicts, a.ID) {
				t.Errorf("%s and %s are both friends and enemies", a.ID, bID)
			}
		}
		for _, bID := range a.Conflicts {
			b, _ := s.Dog(bID)
			if !slices.Contains(b.Conflicts, a.ID) {
				t.Errorf("%s conflicts %s but not the other way round", a.ID, bID)
			}
		}
	}
}
