// Package groupbuffs derives which raid-wide auras a 5-player group
// receives from its members, honoring manual overrides and
// mutual-exclusion tags.
package groupbuffs

import (
	"strings"

	"github.com/veskos/raidbridge/pkg/core/model"
)

// Buff is one catalog entry. SpecContains narrows spec-specific auras;
// empty means any spec of the class provides it. Buffs sharing a
// non-empty ExclusionGroup cannot be provided by the same player.
type Buff struct {
	ID             string
	Name           string
	Icon           string
	Class          model.WowClass
	SpecContains   string
	ExclusionGroup string
}

// Matches reports whether a player of the given class and spec
// auto-provides the buff.
func (b Buff) Matches(class model.WowClass, spec string) bool {
	if class != b.Class {
		return false
	}
	if b.SpecContains == "" {
		return true
	}
	return strings.Contains(strings.ToLower(spec), b.SpecContains)
}

// Catalog is the fixed TBC group-buff table, in display order.
var Catalog = []Buff{
	{ID: "bloodlust", Name: "Bloodlust / Heroism", Icon: "spell_nature_bloodlust", Class: model.Shaman},
	{ID: "windfury", Name: "Windfury Totem", Icon: "spell_nature_windfury", Class: model.Shaman, ExclusionGroup: "air-totem"},
	{ID: "wrathofair", Name: "Wrath of Air Totem", Icon: "spell_nature_slowingtotem", Class: model.Shaman, ExclusionGroup: "air-totem"},
	{ID: "manaspring", Name: "Mana Spring Totem", Icon: "spell_nature_manaregentotem", Class: model.Shaman},
	{ID: "trueshot", Name: "Trueshot Aura", Icon: "ability_trueshot", Class: model.Hunter},
	{ID: "battleshout", Name: "Battle Shout", Icon: "ability_warrior_battleshout", Class: model.Warrior},
	{ID: "devotion", Name: "Devotion Aura", Icon: "spell_holy_devotionaura", Class: model.Paladin, ExclusionGroup: "paladin-aura"},
	{ID: "moonkin", Name: "Moonkin Aura", Icon: "spell_nature_starfall", Class: model.Druid, SpecContains: "balance"},
	{ID: "lotp", Name: "Leader of the Pack", Icon: "ability_druid_demoralizingroar", Class: model.Druid, SpecContains: "feral"},
	{ID: "unleashed", Name: "Unleashed Rage", Icon: "spell_nature_unleashedrage", Class: model.Shaman, SpecContains: "enhancement"},
	{ID: "totemwrath", Name: "Totem of Wrath", Icon: "spell_fire_totemofwrath", Class: model.Shaman, SpecContains: "elemental"},
	{ID: "vampirictouch", Name: "Vampiric Touch", Icon: "spell_holy_stoicism", Class: model.Priest, SpecContains: "shadow"},
	{ID: "ferocious", Name: "Ferocious Inspiration", Icon: "ability_hunter_ferociousinspiration", Class: model.Hunter, SpecContains: "beast"},
	{ID: "sanctity", Name: "Sanctity Aura", Icon: "spell_holy_mindvision", Class: model.Paladin, SpecContains: "retribution", ExclusionGroup: "paladin-aura"},
}

// OverrideKey builds the stored key for one (player, buff) override.
// The format matches the share-payload override list verbatim.
func OverrideKey(playerName, buffID string) string {
	return playerName + "_" + buffID
}

// OverrideSet holds manual (player, buff) overrides. An override
// inverts the predicate's verdict for that pair.
type OverrideSet map[string]struct{}

// NewOverrideSet builds a set from stored override keys.
func NewOverrideSet(keys []string) OverrideSet {
	set := make(OverrideSet, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return set
}

// Has reports whether an override exists for the (player, buff) pair.
func (s OverrideSet) Has(playerName, buffID string) bool {
	_, ok := s[OverrideKey(playerName, buffID)]
	return ok
}

// excludes reports whether the player holds an override on a different
// buff sharing this buff's exclusion group. Such a player cannot also
// claim this buff.
func (s OverrideSet) excludes(playerName string, buff Buff) bool {
	if buff.ExclusionGroup == "" {
		return false
	}
	for _, other := range Catalog {
		if other.ID == buff.ID || other.ExclusionGroup != buff.ExclusionGroup {
			continue
		}
		if s.Has(playerName, other.ID) {
			return true
		}
	}
	return false
}

// BuffStatus is the derived state of one catalog buff for a group.
type BuffStatus struct {
	Buff     Buff
	Active   bool
	Provider string
}

// Resolve scans playerNames in order for each catalog buff and returns,
// in catalog order, whether the buff is active and who provides it. The
// first player whose effective activation is true wins; an override
// always inverts the natural predicate verdict for its pair.
func Resolve(playerNames []string, roster []model.RaidSignup, overrides OverrideSet) []BuffStatus {
	byName := make(map[string]model.RaidSignup, len(roster))
	for _, entry := range roster {
		byName[entry.PlayerName()] = entry
	}

	statuses := make([]BuffStatus, 0, len(Catalog))
	for _, buff := range Catalog {
		status := BuffStatus{Buff: buff}

		for _, name := range playerNames {
			entry, ok := byName[name]
			if !ok {
				continue
			}
			if overrides.excludes(name, buff) {
				continue
			}

			active := buff.Matches(entry.Class, entry.Spec)
			if overrides.Has(name, buff.ID) {
				active = !active
			}
			if active {
				status.Active = true
				status.Provider = name
				break
			}
		}

		statuses = append(statuses, status)
	}
	return statuses
}
