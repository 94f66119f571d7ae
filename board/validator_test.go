package board

import (
	"testing"

	"walkboard/models"
)

func TestValidateGroup_Empty(t *testing.T) {
	t.Parallel()

	s := withGroup(testState(dog("1", "Rex")), "g1", models.GroupForming)
	issues := ValidateGroup(s, "g1")
	if len(issues) != 1 || issues[0].Type != models.IssueWarning || issues[0].Message != "Group is empty." {
		t.Errorf("issues = %+v", issues)
	}
}

func TestValidateGroup_OneConflictOneCritical(t *testing.T) {
	t.Parallel()

	a, b := inGroup(dog("2", "Bim"), "g1"), inGroup(dog("1", "Rex"), "g1")
	// one-sided legacy record still counts, and only once
	a.Conflicts = []string{"1"}
	s := withGroup(testState(a, b), "g1", models.GroupForming)

	issues := ValidateGroup(s, "g1")
	if len(issues) != 1 {
		t.Fatalf("issues = %+v, want exactly one", issues)
	}
	if issues[0].Type != models.IssueCritical || issues[0].Message != "Conflict: Rex and Bim!" {
		t.Errorf("issue = %+v", issues[0])
	}
}

func TestValidateGroup_SeparatedFriends(t *testing.T) {
	t.Parallel()

	rex := inGroup(dog("1", "Rex"), "g1")
	rex.Pairs = []string{"2", "3", "4", "5", "6"}
	bim := dog("2", "Bim")
	bim.Pairs = []string{"1"}

	walked := dog("3", "Luna")
	walked.WalksToday = 1
	sick := dog("4", "Tuzik")
	sick.Health = models.HealthInTreatment
	away := inGroup(dog("5", "Sharik"), "g2")
	hidden := dog("6", "Belka")
	hidden.IsHidden = true

	s := testState(rex, bim, walked, sick, away, hidden)
	s = withGroup(withGroup(s, "g1", models.GroupForming), "g2", models.GroupActive)

	issues := ValidateGroup(s, "g1")
	if len(issues) != 1 {
		t.Fatalf("issues = %+v, want one friend warning", issues)
	}
	if issues[0].Type != models.IssueWarning || issues[0].Message != "Rex and Bim usually walk together." {
		t.Errorf("issue = %+v", issues[0])
	}
}

func TestValidateGroup_FriendsTogetherIsClean(t *testing.T) {
	t.Parallel()

	rex, bim := inGroup(dog("1", "Rex"), "g1"), inGroup(dog("2", "Bim"), "g1")
	rex.Pairs, bim.Pairs = []string{"2"}, []string{"1"}
	s := withGroup(testState(rex, bim), "g1", models.GroupForming)

	if issues := ValidateGroup(s, "g1"); len(issues) != 0 {
		t.Errorf("issues = %+v, want none", issues)
	}
}

func TestValidateGroup_DoesNotMutate(t *testing.T) {
	t.Parallel()

	a := inGroup(dog("1", "Rex"), "g1")
	a.Conflicts = []string{"2"}
	b := inGroup(dog("2", "Bim"), "g1")
	s := withGroup(testState(a, b), "g1", models.GroupForming)

	ValidateGroup(s, "g1")
	if got, _ := s.Dog("2"); len(got.Conflicts) != 0 {
		t.Errorf("validator wrote relations: %+v", got)
	}
}
