// Package roster normalizes raw Raid-Helper signup records into the
// canonical RaidSignup model. Everything here is a pure table lookup:
// records that cannot be mapped are rejected, never errored.
package roster

import (
	"strings"
	"time"

	"github.com/veskos/raidbridge/pkg/core/model"
)

// RawSignup is the external vocabulary of one Raid-Helper signup.
type RawSignup struct {
	Name      string
	ClassName string
	SpecName  string
	RoleName  string
	EntryTime int64 // unix seconds
	Position  int
	Status    string
	UserID    string
}

// Raid-Helper uses pseudo-class tags for non-attending signups. These
// never produce a roster entry.
var excludedClassNames = map[string]bool{
	"absence":   true,
	"bench":     true,
	"tentative": true,
	"late":      true,
}

var classNames = map[string]model.WowClass{
	"warrior": model.Warrior,
	"paladin": model.Paladin,
	"hunter":  model.Hunter,
	"rogue":   model.Rogue,
	"priest":  model.Priest,
	"shaman":  model.Shaman,
	"mage":    model.Mage,
	"warlock": model.Warlock,
	"druid":   model.Druid,
}

// Raid-Helper sometimes reports a role name ("Tank") as the class name.
// Infer the class from the spec instead. Ambiguous specs keep their
// conventional defaults: protection -> Warrior, holy -> Paladin,
// restoration -> Shaman.
var specClasses = map[string]model.WowClass{
	"protection":    model.Warrior,
	"guardian":      model.Druid,
	"feral":         model.Druid,
	"balance":       model.Druid,
	"restoration":   model.Shaman,
	"holy":          model.Paladin,
	"discipline":    model.Priest,
	"shadow":        model.Priest,
	"retribution":   model.Paladin,
	"enhancement":   model.Shaman,
	"elemental":     model.Shaman,
	"arcane":        model.Mage,
	"fire":          model.Mage,
	"frost":         model.Mage,
	"affliction":    model.Warlock,
	"demonology":    model.Warlock,
	"destruction":   model.Warlock,
	"arms":          model.Warrior,
	"fury":          model.Warrior,
	"beastmastery":  model.Hunter,
	"marksmanship":  model.Hunter,
	"survival":      model.Hunter,
	"assassination": model.Rogue,
	"combat":        model.Rogue,
	"subtlety":      model.Rogue,
}

var roleNames = map[string]model.RaidRole{
	"tanks":   model.RoleTank,
	"melee":   model.RoleMelee,
	"ranged":  model.RoleRanged,
	"healers": model.RoleHealer,
}

var statusNames = map[string]model.SignupStatus{
	"confirmed": model.StatusConfirmed,
	"tentative": model.StatusTentative,
	"bench":     model.StatusBench,
	"late":      model.StatusLate,
	"absence":   model.StatusAbsence,
}

// CleanSpec strips the trailing disambiguation digits Raid-Helper
// appends ("Holy1", "Feral2") and lowercases the result.
func CleanSpec(specName string) string {
	return strings.ToLower(strings.TrimRight(specName, "0123456789"))
}

func resolveClass(className, specName string) (model.WowClass, bool) {
	if cls, ok := classNames[strings.ToLower(className)]; ok {
		return cls, true
	}
	if specName != "" {
		if cls, ok := specClasses[CleanSpec(specName)]; ok {
			return cls, true
		}
	}
	return "", false
}

func resolveRole(roleName string) model.RaidRole {
	if role, ok := roleNames[strings.ToLower(roleName)]; ok {
		return role
	}
	return model.RoleDPS
}

func resolveStatus(status string) model.SignupStatus {
	if st, ok := statusNames[strings.ToLower(status)]; ok {
		return st
	}
	return model.StatusConfirmed
}

// Normalize maps one raw signup to a RaidSignup. The second return is
// false when the record is excluded or its class cannot be resolved;
// callers filter, they never see an error.
func Normalize(raw RawSignup) (model.RaidSignup, bool) {
	if excludedClassNames[strings.ToLower(raw.ClassName)] {
		return model.RaidSignup{}, false
	}

	class, ok := resolveClass(raw.ClassName, raw.SpecName)
	if !ok {
		return model.RaidSignup{}, false
	}

	signup := model.RaidSignup{
		DiscordID:   raw.UserID,
		DiscordName: raw.Name,
		Class:       class,
		Role:        resolveRole(raw.RoleName),
		Position:    raw.Position,
		SignupTime:  time.Unix(raw.EntryTime, 0).UTC(),
		Status:      resolveStatus(raw.Status),
	}
	if raw.SpecName != "" {
		signup.Spec = CleanSpec(raw.SpecName)
	}
	return signup, true
}

// NormalizeAll filters a raw signup list down to the mappable entries,
// preserving input order.
func NormalizeAll(raws []RawSignup) []model.RaidSignup {
	signups := make([]model.RaidSignup, 0, len(raws))
	for _, raw := range raws {
		if signup, ok := Normalize(raw); ok {
			signups = append(signups, signup)
		}
	}
	return signups
}
