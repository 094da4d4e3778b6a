// Package ccresolver assigns crowd-control duties to raid markers from
// a fixed per-class ability table and a priority rule list.
package ccresolver

import "github.com/veskos/raidbridge/pkg/core/model"

// ClassAbilities maps each class to the CC types it can perform.
// Warriors and Shamans have none.
var ClassAbilities = map[model.WowClass][]model.CCType{
	model.Mage:    {model.Polymorph},
	model.Warlock: {model.Banish, model.Fear, model.Seduce},
	model.Priest:  {model.Shackle, model.MindControl},
	model.Druid:   {model.Hibernate, model.Cyclone},
	model.Rogue:   {model.Sap},
	model.Hunter:  {model.FreezingTrap, model.Wyvern},
	model.Paladin: {model.TurnUndead, model.Repentance},
	model.Warrior: {},
	model.Shaman:  {},
}

// Labels holds the human-readable CC names.
var Labels = map[model.CCType]string{
	model.Polymorph:    "Polymorph",
	model.Banish:       "Banish",
	model.Fear:         "Fear",
	model.Seduce:       "Seduce",
	model.Shackle:      "Shackle",
	model.MindControl:  "Mind Control",
	model.Hibernate:    "Hibernate",
	model.Cyclone:      "Cyclone",
	model.Sap:          "Sap",
	model.FreezingTrap: "Freezing Trap",
	model.Wyvern:       "Wyvern Sting",
	model.TurnUndead:   "Turn Undead",
	model.Repentance:   "Repentance",
}

// ccOrder fixes the catalog order so that set-valued results are
// deterministic.
var ccOrder = []model.CCType{
	model.Polymorph, model.Banish, model.Fear, model.Seduce,
	model.Shackle, model.MindControl, model.Hibernate, model.Cyclone,
	model.Sap, model.FreezingTrap, model.Wyvern,
	model.TurnUndead, model.Repentance,
}

// Default TBC kill-order priority: Square=poly, Moon=second poly,
// Triangle=shackle/banish, Diamond=trap. Processed top to bottom.
var defaultRules = []struct {
	marker  model.RaidMarker
	ccTypes []model.CCType
}{
	{6, []model.CCType{model.Polymorph, model.FreezingTrap}},
	{5, []model.CCType{model.Polymorph, model.Sap}},
	{4, []model.CCType{model.Shackle, model.Banish}},
	{3, []model.CCType{model.FreezingTrap, model.Hibernate}},
}

// AvailableCCTypes returns every CC type reachable by at least one
// class present in the roster, in catalog order.
func AvailableCCTypes(roster []model.RaidSignup) []model.CCType {
	present := make(map[model.CCType]bool)
	for _, entry := range roster {
		for _, cc := range ClassAbilities[entry.Class] {
			present[cc] = true
		}
	}

	types := make([]model.CCType, 0, len(present))
	for _, cc := range ccOrder {
		if present[cc] {
			types = append(types, cc)
		}
	}
	return types
}

// PlayersForCC returns the display names of all roster entries whose
// class can perform the given CC type, in roster order.
func PlayersForCC(roster []model.RaidSignup, ccType model.CCType) []string {
	var players []string
	for _, entry := range roster {
		for _, cc := range ClassAbilities[entry.Class] {
			if cc == ccType {
				players = append(players, entry.PlayerName())
				break
			}
		}
	}
	return players
}

// AutoResolveCC walks the default rule list and assigns, per marker,
// the first (CC type, player) pair whose player has not been used yet.
// A player is never assigned to more than one marker; markers with no
// eligible pair are omitted. The result may be empty but never fails.
func AutoResolveCC(roster []model.RaidSignup) []model.CCAssignment {
	assignments := make([]model.CCAssignment, 0, len(defaultRules))
	used := make(map[string]bool)

	for _, rule := range defaultRules {
		var entries []model.CCAssignmentEntry

		for _, ccType := range rule.ccTypes {
			for _, player := range PlayersForCC(roster, ccType) {
				if used[player] {
					continue
				}
				entries = append(entries, model.CCAssignmentEntry{
					CCType:     ccType,
					PlayerName: player,
				})
				used[player] = true
				break
			}
			if len(entries) > 0 {
				break
			}
		}

		if len(entries) > 0 {
			assignments = append(assignments, model.CCAssignment{
				Marker:  rule.marker,
				Entries: entries,
			})
		}
	}

	return assignments
}
