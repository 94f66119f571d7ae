package board

import (
	"slices"

	"walkboard/models"
)

// relation selects one of the two undirected dog relations.
type relation int

const (
	relPair relation = iota
	relConflict
)

func (r relation) list(d *models.Dog) *[]string {
	if r == relPair {
		return &d.Pairs
	}
	return &d.Conflicts
}

func (r relation) opposite() relation {
	if r == relPair {
		return relConflict
	}
	return relPair
}

func addID(list []string, id string) []string {
	if slices.Contains(list, id) {
		return list
	}
	return append(list, id)
}

func removeID(list []string, id string) []string {
	return slices.DeleteFunc(list, func(v string) bool { return v == id })
}

// link records r between a and b on both dogs and drops the opposite relation
// between them. Returns the ids of dogs whose lists changed. A dog missing from
// the board still gets the reference on the side that exists.
func (s *State) link(r relation, a, b string) []string {
	if a == b {
		return nil
	}
	var touched []string
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		i := s.dogIndex(pair[0])
		if i < 0 {
			continue
		}
		d := &s.Dogs[i]
		changed := !slices.Contains(*r.list(d), pair[1]) || slices.Contains(*r.opposite().list(d), pair[1])
		*r.list(d) = addID(*r.list(d), pair[1])
		*r.opposite().list(d) = removeID(*r.opposite().list(d), pair[1])
		if changed {
			touched = append(touched, pair[0])
		}
	}
	return touched
}

// unlink removes r between a and b on both dogs.
func (s *State) unlink(r relation, a, b string) []string {
	var touched []string
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		i := s.dogIndex(pair[0])
		if i < 0 {
			continue
		}
		d := &s.Dogs[i]
		if !slices.Contains(*r.list(d), pair[1]) {
			continue
		}
		*r.list(d) = removeID(*r.list(d), pair[1])
		touched = append(touched, pair[0])
	}
	return touched
}

// LinkPair marks a and b as friends on both sides, clearing any conflict between them.
func (s *State) LinkPair(a, b string) []string { return s.link(relPair, a, b) }

// UnlinkPair removes the friendship between a and b on both sides.
func (s *State) UnlinkPair(a, b string) []string { return s.unlink(relPair, a, b) }

// LinkConflict marks a and b as enemies on both sides, clearing any friendship between them.
func (s *State) LinkConflict(a, b string) []string { return s.link(relConflict, a, b) }

// UnlinkConflict removes the conflict between a and b on both sides.
func (s *State) UnlinkConflict(a, b string) []string { return s.unlink(relConflict, a, b) }

// reconcileRelations moves dog id from its current relation lists to the
// wanted ones through the link API. Ids added to conflicts win over the same id
// added to pairs. Returns every touched dog id, id itself included when changed.
func (s *State) reconcileRelations(id string, wantPairs, wantConflicts []string) []string {
	i := s.dogIndex(id)
	if i < 0 {
		return nil
	}
	oldPairs := append([]string(nil), s.Dogs[i].Pairs...)
	oldConflicts := append([]string(nil), s.Dogs[i].Conflicts...)
	wantPairs = dedupe(wantPairs, id)
	wantConflicts = dedupe(wantConflicts, id)
	wantPairs = slices.DeleteFunc(wantPairs, func(v string) bool { return slices.Contains(wantConflicts, v) })

	var touched []string
	for _, other := range oldPairs {
		if !slices.Contains(wantPairs, other) {
			touched = append(touched, s.UnlinkPair(id, other)...)
		}
	}
	for _, other := range oldConflicts {
		if !slices.Contains(wantConflicts, other) {
			touched = append(touched, s.UnlinkConflict(id, other)...)
		}
	}
	for _, other := range wantPairs {
		touched = append(touched, s.LinkPair(id, other)...)
	}
	for _, other := range wantConflicts {
		touched = append(touched, s.LinkConflict(id, other)...)
	}
	return dedupe(touched, "")
}

func dedupe(ids []string, skip string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v == "" || v == skip || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
