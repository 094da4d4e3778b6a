// Package groupsolver partitions a roster into at most five raid
// groups of five. Three modes exist: hint-driven (lineup positions or
// explicit group numbers), template-driven, and plain sequential.
// Hints take precedence over templates when both are present.
package groupsolver

import (
	"fmt"
	"sort"

	"github.com/veskos/raidbridge/pkg/core/model"
)

const (
	// MaxGroups is the hard limit on raid groups.
	MaxGroups = 5
	// GroupSize is the soft per-group cap. Overflow is representable
	// and surfaced visually downstream, never rejected here.
	GroupSize = 5
)

// AutoAssignGroups assigns every roster member to a group. The mode is
// picked from the inputs: hints win over templates, templates over the
// sequential fallback. Every player is placed exactly once; when all
// groups are full the last group absorbs the overflow.
func AutoAssignGroups(roster []model.RaidSignup, templates []model.GroupTemplate) []model.GroupAssignment {
	if hasHints(roster) {
		return assignByHints(roster)
	}
	if len(templates) > 0 {
		return assignByTemplates(roster, templates)
	}
	return assignSequential(roster)
}

func hasHints(roster []model.RaidSignup) bool {
	for _, entry := range roster {
		if entry.GroupNumber > 0 || entry.Position > 0 {
			return true
		}
	}
	return false
}

func newGroup(number int, label string) model.GroupAssignment {
	if label == "" {
		label = fmt.Sprintf("Group %d", number)
	}
	return model.GroupAssignment{GroupNumber: number, Label: label, Players: []string{}}
}

// placeAll appends each name to the first group with capacity, creating
// new groups while fewer than MaxGroups exist, and falling back to the
// last group once the raid is full.
func placeAll(groups []model.GroupAssignment, names []string) []model.GroupAssignment {
	for _, name := range names {
		placed := false
		for i := range groups {
			if len(groups[i].Players) < GroupSize {
				groups[i].Players = append(groups[i].Players, name)
				placed = true
				break
			}
		}
		if placed {
			continue
		}
		if len(groups) < MaxGroups {
			group := newGroup(len(groups)+1, "")
			group.Players = append(group.Players, name)
			groups = append(groups, group)
		} else {
			last := len(groups) - 1
			groups[last].Players = append(groups[last].Players, name)
		}
	}
	return groups
}

// assignByHints buckets players by explicit group number, falling back
// to ceil(position/5) for position-only hints. Sorted bucket keys
// become groups 1..k (max five); hintless players and players in
// buckets beyond the fifth fill remaining capacity afterward.
func assignByHints(roster []model.RaidSignup) []model.GroupAssignment {
	buckets := make(map[int][]string)
	var keys []int
	var unhinted []string

	for _, entry := range roster {
		hint := entry.GroupNumber
		if hint <= 0 && entry.Position > 0 {
			hint = (entry.Position + GroupSize - 1) / GroupSize
		}
		if hint <= 0 {
			unhinted = append(unhinted, entry.PlayerName())
			continue
		}
		if _, seen := buckets[hint]; !seen {
			keys = append(keys, hint)
		}
		buckets[hint] = append(buckets[hint], entry.PlayerName())
	}
	sort.Ints(keys)

	var groups []model.GroupAssignment
	for i, key := range keys {
		if i >= MaxGroups {
			unhinted = append(unhinted, buckets[key]...)
			continue
		}
		group := newGroup(i+1, "")
		group.Players = append(group.Players, buckets[key]...)
		groups = append(groups, group)
	}

	return placeAll(groups, unhinted)
}

// assignByTemplates runs two passes: greedy class/role preference per
// template in group order, then first-fit for the leftovers.
func assignByTemplates(roster []model.RaidSignup, templates []model.GroupTemplate) []model.GroupAssignment {
	numGroups := len(templates)
	if needed := (len(roster) + GroupSize - 1) / GroupSize; needed > numGroups {
		numGroups = needed
	}
	if numGroups > MaxGroups {
		numGroups = MaxGroups
	}

	groups := make([]model.GroupAssignment, 0, numGroups)
	for i := 0; i < numGroups; i++ {
		label := ""
		if i < len(templates) {
			label = templates[i].Name
		}
		groups = append(groups, newGroup(i+1, label))
	}

	assigned := make(map[string]bool, len(roster))
	for i := range groups {
		if i >= len(templates) {
			break
		}
		tmpl := templates[i]
		for _, entry := range roster {
			if len(groups[i].Players) >= GroupSize {
				break
			}
			name := entry.PlayerName()
			if assigned[name] || !templatePrefers(tmpl, entry) {
				continue
			}
			groups[i].Players = append(groups[i].Players, name)
			assigned[name] = true
		}
	}

	var leftovers []string
	for _, entry := range roster {
		if name := entry.PlayerName(); !assigned[name] {
			leftovers = append(leftovers, name)
		}
	}
	return placeAll(groups, leftovers)
}

func templatePrefers(tmpl model.GroupTemplate, entry model.RaidSignup) bool {
	for _, cls := range tmpl.PreferredClasses {
		if entry.Class == cls {
			return true
		}
	}
	for _, role := range tmpl.PreferredRoles {
		if entry.Role == role {
			return true
		}
	}
	return false
}

// assignSequential walks the roster in order, filling "Group N" groups
// to five players each.
func assignSequential(roster []model.RaidSignup) []model.GroupAssignment {
	numGroups := (len(roster) + GroupSize - 1) / GroupSize
	if numGroups > MaxGroups {
		numGroups = MaxGroups
	}

	groups := make([]model.GroupAssignment, 0, numGroups)
	for i := 0; i < numGroups; i++ {
		groups = append(groups, newGroup(i+1, ""))
	}

	names := make([]string, 0, len(roster))
	for _, entry := range roster {
		names = append(names, entry.PlayerName())
	}
	return placeAll(groups, names)
}

// ApplyStoredTemplate materializes a saved group layout against the
// current roster. Saved names no longer present are dropped silently;
// roster members absent from the template stay unassigned.
func ApplyStoredTemplate(template model.StoredGroupTemplate, roster []model.RaidSignup) []model.GroupAssignment {
	known := make(map[string]bool, len(roster))
	for _, entry := range roster {
		known[entry.PlayerName()] = true
	}

	groups := make([]model.GroupAssignment, 0, len(template.Groups))
	for i, saved := range template.Groups {
		group := newGroup(i+1, saved.Label)
		for _, name := range saved.Players {
			if known[name] {
				group.Players = append(group.Players, name)
			}
		}
		groups = append(groups, group)
	}
	return groups
}
