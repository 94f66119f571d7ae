package board

import (
	"slices"
	"strconv"
	"strings"

	"walkboard/models"
)

// PoolFilter narrows the unassigned dog list.
type PoolFilter string

const (
	PoolAll       PoolFilter = "all"
	PoolAvailable PoolFilter = "available"
)

// SortOrder orders the unassigned dog list.
type SortOrder string

const (
	SortByID   SortOrder = "id"
	SortByName SortOrder = "name"
	SortByRow  SortOrder = "row"
)

// DogsInGroup returns the dogs assigned to groupID, in board order.
func DogsInGroup(s State, groupID string) []models.Dog {
	var out []models.Dog
	for _, d := range s.Dogs {
		if d.InGroup(groupID) {
			out = append(out, d)
		}
	}
	return out
}

// Conflicting reports whether a and b must not walk together. Either side's
// record is enough, so one-directional legacy data still counts.
func Conflicting(a, b models.Dog) bool {
	return slices.Contains(a.Conflicts, b.ID) || slices.Contains(b.Conflicts, a.ID)
}

// ConflictPair is an unordered pair of conflicting dogs, lower id first.
type ConflictPair struct {
	A, B models.Dog
}

// ConflictsWithin lists every conflicting pair among the group's dogs.
func ConflictsWithin(s State, groupID string) []ConflictPair {
	dogs := DogsInGroup(s, groupID)
	var out []ConflictPair
	for i := 0; i < len(dogs); i++ {
		for j := i + 1; j < len(dogs); j++ {
			if !Conflicting(dogs[i], dogs[j]) {
				continue
			}
			a, b := dogs[i], dogs[j]
			if lessID(b.ID, a.ID) {
				a, b = b, a
			}
			out = append(out, ConflictPair{A: a, B: b})
		}
	}
	return out
}

// IsActionablePartner reports whether partner can be suggested to walk with dog
// right now.
func IsActionablePartner(dog, partner models.Dog) bool {
	return partner.TeamID == dog.TeamID &&
		partner.Health == models.HealthOK &&
		partner.Complexity != models.ComplexityRed &&
		partner.WalksToday == 0 &&
		!partner.Assigned() &&
		!partner.IsHidden
}

// AvailableFriendsOf returns the dog's actionable partners, in pairs order.
func AvailableFriendsOf(s State, dog models.Dog) []models.Dog {
	var out []models.Dog
	for _, id := range dog.Pairs {
		partner, ok := s.Dog(id)
		if !ok || partner.ID == dog.ID {
			continue
		}
		if IsActionablePartner(dog, partner) {
			out = append(out, partner)
		}
	}
	return out
}

// PartnersToMove returns the actionable partners of dogID that could join
// targetGroupID without conflicting with anyone already in it.
func PartnersToMove(s State, dogID, targetGroupID string) []models.Dog {
	dog, ok := s.Dog(dogID)
	if !ok {
		return nil
	}
	members := DogsInGroup(s, targetGroupID)
	var out []models.Dog
	for _, partner := range AvailableFriendsOf(s, dog) {
		clash := slices.ContainsFunc(members, func(m models.Dog) bool {
			return m.ID != dogID && Conflicting(partner, m)
		})
		if !clash {
			out = append(out, partner)
		}
	}
	return out
}

// PoolDogs returns the team's unassigned, visible dogs. Unavailable dogs and
// dogs that already walked today sink to the bottom before order applies.
func PoolDogs(s State, teamID string, filter PoolFilter, order SortOrder) []models.Dog {
	var out []models.Dog
	for _, d := range s.Dogs {
		if d.TeamID != teamID || d.Assigned() || d.IsHidden {
			continue
		}
		if filter == PoolAvailable && !d.Available() {
			continue
		}
		out = append(out, d)
	}
	slices.SortStableFunc(out, func(a, b models.Dog) int {
		if a.Available() != b.Available() {
			if a.Available() {
				return -1
			}
			return 1
		}
		aWalked, bWalked := a.WalksToday > 0, b.WalksToday > 0
		if aWalked != bWalked {
			if aWalked {
				return 1
			}
			return -1
		}
		switch order {
		case SortByName:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case SortByRow:
			return compareNatural(rowKey(a.Row), rowKey(b.Row))
		default:
			return compareIDs(a.ID, b.ID)
		}
	})
	return out
}

// ConflictedPoolDogs returns the ids of pool dogs for which every forming group
// of the team already holds an enemy. Empty when there are no forming groups.
func ConflictedPoolDogs(s State, teamID string, pool []models.Dog) map[string]bool {
	forming := s.TeamGroups(teamID, models.GroupForming)
	out := map[string]bool{}
	if len(forming) == 0 {
		return out
	}
	for _, dog := range pool {
		safe := slices.ContainsFunc(forming, func(g models.WalkGroup) bool {
			return !slices.ContainsFunc(DogsInGroup(s, g.ID), func(m models.Dog) bool {
				return Conflicting(dog, m)
			})
		})
		if !safe {
			out[dog.ID] = true
		}
	}
	return out
}

// NextDogID returns max numeric dog id + 1, never below 100.
func NextDogID(dogs []models.Dog) string {
	next := 100
	for _, d := range dogs {
		if n, err := strconv.Atoi(d.ID); err == nil && n+1 > next {
			next = n + 1
		}
	}
	return strconv.Itoa(next)
}

// compareIDs orders numerically when both ids are numbers.
func compareIDs(a, b string) int {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

func lessID(a, b string) bool {
	return compareIDs(a, b) < 0
}

func rowKey(row string) string {
	if row == "" {
		return "zzzz"
	}
	return row
}

// compareNatural compares strings treating digit runs as numbers, so "A2" < "A10".
func compareNatural(a, b string) int {
	for a != "" && b != "" {
		ad, bd := isDigit(a[0]), isDigit(b[0])
		if ad && bd {
			an, arest := splitDigits(a)
			bn, brest := splitDigits(b)
			if c := compareIDs(an, bn); c != 0 {
				return c
			}
			a, b = arest, brest
			continue
		}
		ca, cb := strings.ToLower(a[:1]), strings.ToLower(b[:1])
		if c := strings.Compare(ca, cb); c != 0 {
			return c
		}
		a, b = a[1:], b[1:]
	}
	return len(a) - len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func splitDigits(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}
