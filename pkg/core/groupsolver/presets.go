package groupsolver

import "github.com/veskos/raidbridge/pkg/core/model"

// Preset is a named built-in template set.
type Preset struct {
	Name      string
	Templates []model.GroupTemplate
}

// Presets are the built-in raid layouts. Static configuration, not
// computed.
var Presets = []Preset{
	{
		Name: "10-player",
		Templates: []model.GroupTemplate{
			{
				Name:             "Melee",
				PreferredClasses: []model.WowClass{model.Warrior, model.Rogue},
				PreferredRoles:   []model.RaidRole{model.RoleTank, model.RoleMelee},
			},
			{
				Name:             "Ranged",
				PreferredClasses: []model.WowClass{model.Mage, model.Warlock, model.Hunter},
				PreferredRoles:   []model.RaidRole{model.RoleRanged, model.RoleHealer},
			},
		},
	},
	{
		Name: "25-player",
		Templates: []model.GroupTemplate{
			{
				Name:             "Tanks",
				PreferredClasses: []model.WowClass{model.Warrior, model.Druid},
				PreferredRoles:   []model.RaidRole{model.RoleTank},
			},
			{
				Name:             "Melee",
				PreferredClasses: []model.WowClass{model.Rogue},
				PreferredRoles:   []model.RaidRole{model.RoleMelee},
			},
			{
				Name:             "Hunters",
				PreferredClasses: []model.WowClass{model.Hunter},
				PreferredRoles:   []model.RaidRole{},
			},
			{
				Name:             "Casters",
				PreferredClasses: []model.WowClass{model.Mage, model.Warlock},
				PreferredRoles:   []model.RaidRole{model.RoleRanged},
			},
			{
				Name:             "Healers",
				PreferredClasses: []model.WowClass{model.Priest, model.Paladin, model.Shaman},
				PreferredRoles:   []model.RaidRole{model.RoleHealer},
			},
		},
	},
}

// PresetByName returns the named preset's templates, or nil when the
// name is unknown.
func PresetByName(name string) []model.GroupTemplate {
	for _, preset := range Presets {
		if preset.Name == name {
			return preset.Templates
		}
	}
	return nil
}
