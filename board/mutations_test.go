package board

import (
	"errors"
	"reflect"
	"slices"
	"testing"
	"time"

	"walkboard/models"
)

var morning = time.Date(2024, 5, 10, 9, 15, 0, 0, time.UTC)

func TestCreateGroup(t *testing.T) {
	t.Parallel()

	s := testState()
	next, g, actions := CreateGroup(s, "Anna", "u1", morning)

	if g.Status != models.GroupForming || g.TeamID != "team_1" || g.VolunteerID != "u1" {
		t.Errorf("group = %+v", g)
	}
	if len(next.Groups) != 1 || len(s.Groups) != 0 {
		t.Errorf("groups: next=%d original=%d, want 1 and 0", len(next.Groups), len(s.Groups))
	}
	if len(actions) != 1 || actions[0].Action != ActionCreateGroup {
		t.Errorf("actions = %+v", actions)
	}

	_, second, _ := CreateGroup(next, "Anna", "u1", morning)
	if second.ID == g.ID {
		t.Errorf("two groups created in the same millisecond share id %s", g.ID)
	}
}

func TestMoveDogs_PoolRoundTripLeavesOtherFieldsAlone(t *testing.T) {
	t.Parallel()

	d := dog("1", "Rex")
	d.WalksToday = 2
	d.Pairs = []string{"9"}
	s := withGroup(testState(d), "g1", models.GroupForming)
	before, _ := s.Dog("1")

	var err error
	for _, target := range []*string{nil, strPtr("g1"), nil} {
		s, _, err = MoveDogs(s, []string{"1"}, target)
		if err != nil {
			t.Fatalf("MoveDogs: %v", err)
		}
	}

	after, _ := s.Dog("1")
	if after.GroupID != nil {
		t.Fatalf("groupId = %v, want nil", *after.GroupID)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("dog changed: before %+v after %+v", before, after)
	}
}

func TestMoveDogs_UnknownGroup(t *testing.T) {
	t.Parallel()

	s := testState(dog("1", "Rex"))
	_, actions, err := MoveDogs(s, []string{"1"}, strPtr("nope"))
	if !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("err = %v, want ErrGroupNotFound", err)
	}
	if actions != nil {
		t.Errorf("actions = %+v, want none", actions)
	}
}

func TestMoveDogs_EmitsOneUpdatePerDog(t *testing.T) {
	t.Parallel()

	s := withGroup(testState(dog("1", "Rex"), dog("2", "Bim")), "g1", models.GroupForming)
	_, actions, err := MoveDogs(s, []string{"1", "2", "1", "missing"}, strPtr("g1"))
	if err != nil {
		t.Fatal(err)
	}
	if len(actions) != 2 {
		t.Fatalf("actions = %d, want 2", len(actions))
	}
	payload := actions[0].Payload.(map[string]interface{})
	updates := payload["updates"].(map[string]interface{})
	if payload["id"] != "1" || updates["groupId"] != "g1" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestMoveDogs_AlreadyInPlaceIsNoOp(t *testing.T) {
	t.Parallel()

	s := withGroup(testState(dog("1", "Rex"), inGroup(dog("2", "Bim"), "g1")), "g1", models.GroupForming)
	if _, actions, err := MoveDogs(s, []string{"1"}, nil); err != nil || len(actions) != 0 {
		t.Errorf("pool dog to pool: actions = %v, err = %v", actions, err)
	}
	_, actions, err := MoveDogs(s, []string{"1", "2"}, strPtr("g1"))
	if err != nil {
		t.Fatal(err)
	}
	if len(actions) != 1 || actions[0].Payload.(map[string]interface{})["id"] != "1" {
		t.Errorf("actions = %+v, want a single update for dog 1", actions)
	}

	st, p, _ := newTestStore(s, 10, 0)
	if err := st.MoveDogs([]string{"1"}, nil); err != nil {
		t.Fatal(err)
	}
	if st.Version() != 0 || len(p.actions) != 0 {
		t.Errorf("version = %d, pushed = %v", st.Version(), p.names())
	}
}

func TestStartWalk(t *testing.T) {
	t.Parallel()

	s := withGroup(testState(), "g1", models.GroupForming)
	late := time.Date(2024, 5, 10, 23, 50, 0, 0, time.UTC)

	next, g, actions, err := StartWalk(s, "g1", late)
	if err != nil {
		t.Fatal(err)
	}
	if g.Status != models.GroupActive || g.StartTime != "23:50" || g.EndTime != "00:20" {
		t.Errorf("group = %+v, want active 23:50-00:20", g)
	}
	if len(actions) != 1 {
		t.Errorf("actions = %d, want 1", len(actions))
	}

	again, _, actions, err := StartWalk(next, "g1", late.Add(5*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if actions != nil {
		t.Errorf("restarting an active walk emitted %+v", actions)
	}
	if g2, _ := again.Group("g1"); g2.StartTime != "23:50" {
		t.Errorf("restart moved start time to %s", g2.StartTime)
	}
}

func TestFinishWalk(t *testing.T) {
	t.Parallel()

	d1, d2 := inGroup(dog("1", "Rex"), "g1"), inGroup(dog("2", "Bim"), "g1")
	d2.WalksToday = 1
	other := inGroup(dog("3", "Luna"), "g2")
	s := withGroup(withGroup(testState(d1, d2, other), "g1", models.GroupActive), "g2", models.GroupForming)
	s.EditingGroupID = "g1"

	next, dogIDs, actions, err := FinishWalk(s, "g1", morning)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := next.Group("g1"); ok {
		t.Error("group still on the board")
	}
	if !slices.Equal(dogIDs, []string{"1", "2"}) {
		t.Errorf("dogIDs = %v", dogIDs)
	}
	for id, want := range map[string]int{"1": 1, "2": 2} {
		d, _ := next.Dog(id)
		if d.WalksToday != want || d.GroupID != nil || d.LastWalkTime != "09:15" {
			t.Errorf("dog %s = %+v", id, d)
		}
	}
	if d, _ := next.Dog("3"); !d.InGroup("g2") {
		t.Error("dog in another group was touched")
	}
	if next.EditingGroupID != "" {
		t.Errorf("editing group = %q, want cleared", next.EditingGroupID)
	}
	if len(actions) != 1 || actions[0].Action != ActionFinishWalk {
		t.Errorf("actions = %+v", actions)
	}
}

func TestDeleteGroup_NeverLeavesDanglingDogs(t *testing.T) {
	t.Parallel()

	for _, status := range []models.GroupStatus{models.GroupForming, models.GroupActive} {
		s := withGroup(testState(inGroup(dog("1", "Rex"), "g1"), inGroup(dog("2", "Bim"), "g1")), "g1", status)
		s.EditingGroupID = "g1"

		next, _, err := DeleteGroup(s, "g1")
		if err != nil {
			t.Fatal(err)
		}
		for _, d := range next.Dogs {
			if d.InGroup("g1") {
				t.Errorf("%s: dog %s still in deleted group", status, d.ID)
			}
		}
		if next.EditingGroupID != "" || len(next.Groups) != 0 {
			t.Errorf("%s: state = %+v", status, next)
		}
	}
}

func TestAddDog_AssignsNextIDAndMirrorsRelations(t *testing.T) {
	t.Parallel()

	s := testState(dog("120", "Rex"), dog("7", "Bim"))
	newDog := dog("", "Luna")
	newDog.Pairs = []string{"120"}
	newDog.Conflicts = []string{"7"}

	next, stored, actions, err := AddDog(s, newDog)
	if err != nil {
		t.Fatal(err)
	}
	if stored.ID != "121" {
		t.Errorf("id = %s, want 121", stored.ID)
	}
	rex, _ := next.Dog("120")
	bim, _ := next.Dog("7")
	if !slices.Equal(rex.Pairs, []string{"121"}) || !slices.Equal(bim.Conflicts, []string{"121"}) {
		t.Errorf("rex pairs %v, bim conflicts %v", rex.Pairs, bim.Conflicts)
	}
	if len(actions) != 3 || actions[0].Action != ActionAddDog {
		t.Fatalf("actions = %+v", actions)
	}
	record := actions[0].Payload.(map[string]interface{})
	if record["pairs"] != "120" || record["conflicts"] != "7" {
		t.Errorf("wire record = %+v", record)
	}

	if _, _, _, err := AddDog(next, dog("7", "Copy")); !errors.Is(err, ErrDuplicateDog) {
		t.Errorf("duplicate add err = %v", err)
	}
}

func TestUpdateDog_NewConflictDropsPair(t *testing.T) {
	t.Parallel()

	five := dog("5", "Rex")
	five.Pairs = []string{"6", "7"}
	seven := dog("7", "Luna")
	seven.Pairs = []string{"5"}
	s := testState(five, dog("6", "Bim"), seven)

	next, updated, _, err := UpdateDog(s, "5", models.DogPatch{Conflicts: &[]string{"7"}})
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(updated.Pairs, "7") || !slices.Contains(updated.Conflicts, "7") {
		t.Errorf("dog 5 = pairs %v conflicts %v", updated.Pairs, updated.Conflicts)
	}
	luna, _ := next.Dog("7")
	if !slices.Equal(luna.Conflicts, []string{"5"}) || slices.Contains(luna.Pairs, "5") {
		t.Errorf("dog 7 = pairs %v conflicts %v", luna.Pairs, luna.Conflicts)
	}
	if !slices.Contains(updated.Pairs, "6") {
		t.Errorf("unrelated friend 6 lost: %v", updated.Pairs)
	}
}

func TestUpdateDog_NewPairDropsConflict(t *testing.T) {
	t.Parallel()

	a, b := dog("1", "Rex"), dog("2", "Bim")
	a.Conflicts = []string{"2"}
	b.Conflicts = []string{"1"}
	s := testState(a, b)

	next, updated, _, err := UpdateDog(s, "1", models.DogPatch{Pairs: &[]string{"2"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Conflicts) != 0 || !slices.Equal(updated.Pairs, []string{"2"}) {
		t.Errorf("dog 1 = pairs %v conflicts %v", updated.Pairs, updated.Conflicts)
	}
	bim, _ := next.Dog("2")
	if len(bim.Conflicts) != 0 || !slices.Equal(bim.Pairs, []string{"1"}) {
		t.Errorf("dog 2 = pairs %v conflicts %v", bim.Pairs, bim.Conflicts)
	}
}

func TestUpdateDog_PartialKeepsOtherFields(t *testing.T) {
	t.Parallel()

	d := inGroup(dog("1", "Rex"), "g1")
	d.Row = "A3"
	d.WalksToday = 1
	d.Pairs = []string{"2"}
	s := testState(d, dog("2", "Bim"))

	name := "Rexy"
	_, updated, actions, err := UpdateDog(s, "1", models.DogPatch{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Rexy" || updated.Row != "A3" || updated.WalksToday != 1 || !updated.InGroup("g1") {
		t.Errorf("updated = %+v", updated)
	}
	if !slices.Equal(updated.Pairs, []string{"2"}) {
		t.Errorf("pairs = %v, want untouched", updated.Pairs)
	}
	updates := actions[0].Payload.(map[string]interface{})["updates"].(map[string]interface{})
	if len(updates) != 1 || updates["name"] != "Rexy" {
		t.Errorf("updates = %+v, want only name", updates)
	}
}

func TestResetWalks(t *testing.T) {
	t.Parallel()

	d := inGroup(dog("1", "Rex"), "g1")
	d.WalksToday = 3
	d.LastWalkTime = "10:00"
	s := withGroup(testState(d), "g1", models.GroupActive)

	next, actions := ResetWalks(s)
	got, _ := next.Dog("1")
	if got.WalksToday != 0 || got.LastWalkTime != "" || got.GroupID != nil {
		t.Errorf("dog = %+v", got)
	}
	if len(next.Groups) != 0 {
		t.Errorf("groups = %+v", next.Groups)
	}
	if len(actions) != 1 || actions[0].Action != ActionResetWalks {
		t.Errorf("actions = %+v", actions)
	}
}

func TestVolunteers(t *testing.T) {
	t.Parallel()

	s := testState()
	next, v, _ := AddVolunteer(s, models.Volunteer{Name: "Anna"}, morning)
	if v.ID == "" || v.TeamID != "team_1" || v.Role != models.RoleVolunteer || v.Status != models.VolunteerActive {
		t.Errorf("volunteer = %+v", v)
	}

	inactive := models.VolunteerInactive
	next, v, _, err := UpdateVolunteer(next, v.ID, models.VolunteerPatch{Status: &inactive})
	if err != nil {
		t.Fatal(err)
	}
	if v.Status != models.VolunteerInactive || v.Name != "Anna" {
		t.Errorf("volunteer = %+v", v)
	}
	if _, _, _, err := UpdateVolunteer(next, "ghost", models.VolunteerPatch{}); !errors.Is(err, ErrVolunteerNotFound) {
		t.Errorf("err = %v", err)
	}
}
