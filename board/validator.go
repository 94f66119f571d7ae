package board

import (
	"fmt"
	"slices"

	"walkboard/models"
)

// ValidateGroup reports conflicts and separated friends in a group. It never
// changes state; issues are advisory and callers decide whether to confirm.
func ValidateGroup(s State, groupID string) []models.ValidationIssue {
	dogs := DogsInGroup(s, groupID)
	if len(dogs) == 0 {
		return []models.ValidationIssue{{Type: models.IssueWarning, Message: "Group is empty."}}
	}

	var issues []models.ValidationIssue
	for _, pair := range ConflictsWithin(s, groupID) {
		issues = append(issues, models.ValidationIssue{
			Type:    models.IssueCritical,
			Message: fmt.Sprintf("Conflict: %s and %s!", pair.A.Name, pair.B.Name),
		})
	}

	inGroup := make(map[string]bool, len(dogs))
	for _, d := range dogs {
		inGroup[d.ID] = true
	}
	for _, dog := range dogs {
		for _, friendID := range dog.Pairs {
			if inGroup[friendID] {
				continue
			}
			friend, ok := s.Dog(friendID)
			if !ok || !IsActionablePartner(dog, friend) || inActiveWalk(s, friend) {
				continue
			}
			msg := fmt.Sprintf("%s and %s usually walk together.", dog.Name, friend.Name)
			if slices.ContainsFunc(issues, func(i models.ValidationIssue) bool { return i.Message == msg }) {
				continue
			}
			issues = append(issues, models.ValidationIssue{Type: models.IssueWarning, Message: msg})
		}
	}
	return issues
}

func inActiveWalk(s State, d models.Dog) bool {
	if !d.Assigned() {
		return false
	}
	g, ok := s.Group(*d.GroupID)
	return ok && g.Status == models.GroupActive
}
